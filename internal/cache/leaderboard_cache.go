package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard"

// LeaderboardCache holds the global score ranking as a Redis ZSET. It
// accelerates the top-players view; the player collection remains the
// source of truth.
type LeaderboardCache interface {
	SetScore(ctx context.Context, username string, score int) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, username string) (int64, error)
}

// LeaderboardEntry is a single ranked row.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a Redis-backed leaderboard.
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func (c *leaderboardCache) SetScore(ctx context.Context, username string, score int) error {
	return c.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: username,
	}).Err()
}

func (c *leaderboardCache) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Username: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) Rank(ctx context.Context, username string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, username).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
