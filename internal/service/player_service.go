package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"mindmeld/internal/cache"
	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

// PlayerService handles accounts and the global leaderboard.
type PlayerService struct {
	players     repository.PlayerRepo
	leaderboard cache.LeaderboardCache
	log         zerolog.Logger
}

// NewPlayerService creates a new player service.
func NewPlayerService(players repository.PlayerRepo, leaderboard cache.LeaderboardCache, log zerolog.Logger) *PlayerService {
	return &PlayerService{
		players:     players,
		leaderboard: leaderboard,
		log:         log,
	}
}

// CreateAccount registers a new player. Usernames are unique; a
// conflict returns ErrDuplicateUsername.
func (s *PlayerService) CreateAccount(ctx context.Context, username, password string) (*model.Player, error) {
	existing, err := s.players.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("player lookup failed: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash failed: %w", err)
	}

	player := &model.Player{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		LastLogin:    time.Now(),
		CreatedAt:    time.Now(),
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("player create failed: %w", err)
	}

	s.log.Info().Str("username", username).Msg("account created")
	return player, nil
}

// Login checks credentials and refreshes the player's last login.
func (s *PlayerService) Login(ctx context.Context, username, password string) (*model.Player, error) {
	player, err := s.players.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("player lookup failed: %w", err)
	}
	if player == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player.LastLogin = time.Now()
	if err := s.players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("player update failed: %w", err)
	}
	return player, nil
}

// GetByUsername fetches a player account.
func (s *PlayerService) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	return s.players.GetByUsername(ctx, username)
}

// TopPlayers returns the leaderboard, served from the Redis ZSET when
// populated and rebuilt from the store otherwise. The store ordering is
// authoritative.
func (s *PlayerService) TopPlayers(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	entries, err := s.leaderboard.Top(ctx, limit)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("leaderboard read failed, falling back to store")
	}

	players, err := s.players.TopByScore(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("player query failed: %w", err)
	}

	entries = make([]cache.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = cache.LeaderboardEntry{
			Username: p.Username,
			Score:    p.Score,
			Rank:     i + 1,
		}
		if cerr := s.leaderboard.SetScore(ctx, p.Username, p.Score); cerr != nil {
			s.log.Warn().Err(cerr).Msg("leaderboard backfill failed")
		}
	}
	return entries, nil
}
