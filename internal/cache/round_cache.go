package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"mindmeld/internal/model"
)

const currentRoundKey = "round:current"

// RoundCache is the best-effort mirror of the current round. It is
// written after every state change and read as a fast path only; the
// store-backed round record stays authoritative.
type RoundCache interface {
	Set(ctx context.Context, round *model.Round) error
	Get(ctx context.Context) (*model.Round, error)
	Delete(ctx context.Context) error
}

type roundCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoundCache creates a Redis-backed round mirror.
func NewRoundCache(client *redis.Client) RoundCache {
	return &roundCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *roundCache) Set(ctx context.Context, round *model.Round) error {
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, currentRoundKey, data, c.ttl).Err()
}

func (c *roundCache) Get(ctx context.Context) (*model.Round, error) {
	data, err := c.client.Get(ctx, currentRoundKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var round model.Round
	if err := json.Unmarshal([]byte(data), &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (c *roundCache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, currentRoundKey).Err()
}
