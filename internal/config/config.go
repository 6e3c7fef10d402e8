package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all process configuration, loaded from the environment.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	RedisAddr  string
	JWTSecret  string
	AdminToken string
	Game       GameConfig
}

// GameConfig holds the round engine tunables. The answer phase is the
// final slice of the round during which scoring happens instead of
// live tallying.
type GameConfig struct {
	RoundDuration     time.Duration
	AnswerPhase       time.Duration
	GroundingAttempts int
	TopPlayersLimit   int
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "mindmeld"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		// Empty disables the admin routes entirely.
		AdminToken: getEnv("ADMIN_TOKEN", ""),
		Game: GameConfig{
			RoundDuration:     time.Duration(getEnvInt("ROUND_DURATION_SEC", 35)) * time.Second,
			AnswerPhase:       time.Duration(getEnvInt("ANSWER_PHASE_SEC", 11)) * time.Second,
			GroundingAttempts: getEnvInt("GROUNDING_ATTEMPTS", 5),
			TopPlayersLimit:   getEnvInt("TOP_PLAYERS_LIMIT", 50),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
