package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindmeld/internal/cache"
	"mindmeld/internal/config"
	"mindmeld/internal/repository"
	"mindmeld/internal/service"
	"mindmeld/internal/transport/rest"
	"mindmeld/internal/transport/ws"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Str("addr", redisAddr).Msg("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub(log)

	// Repositories
	conceptRepo := repository.NewConceptRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	playerRepo := repository.NewPlayerRepo(db)
	predicateRepo := repository.NewPredicateRepo(db)
	roundRepo := repository.NewRoundRepo(db)

	// Caches
	roundCache := cache.NewRoundCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	playerSvc := service.NewPlayerService(playerRepo, leaderboard, log)
	vocabSvc := service.NewVocabService(conceptRepo)
	grounder := service.NewGrounder(vocabSvc, templateRepo, questionRepo)
	aggregator := service.NewAggregator(vocabSvc, questionRepo, templateRepo, playerRepo, predicateRepo, leaderboard, log)
	roundSvc := service.NewRoundService(roundRepo, playerRepo, grounder, aggregator, roundCache, cfg.Game, log)
	registry := service.NewRegistry(roundRepo, roundSvc, log)

	// wsHub implements service.Broadcaster
	roundSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:   authSvc,
		PlayerService: playerSvc,
		VocabService:  vocabSvc,
		RoundService:  roundSvc,
		Registry:      registry,
		Templates:     templateRepo,
		Predicates:    predicateRepo,
		TopLimit:      cfg.Game.TopPlayersLimit,
		AdminToken:    cfg.AdminToken,
		WSHub:         wsHub,
		Log:           log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
