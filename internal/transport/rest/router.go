package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"mindmeld/internal/repository"
	"mindmeld/internal/service"
	"mindmeld/internal/transport/rest/handler"
	"mindmeld/internal/transport/rest/middleware"
	"mindmeld/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService   *service.AuthService
	PlayerService *service.PlayerService
	VocabService  *service.VocabService
	RoundService  *service.RoundService
	Registry      *service.Registry
	Templates     repository.TemplateRepo
	Predicates    repository.PredicateRepo
	TopLimit      int
	AdminToken    string
	WSHub         *ws.Hub
	Log           zerolog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.PlayerService, c.AuthService, c.Registry, c.RoundService)
	roundHandler := handler.NewRoundHandler(c.Registry, c.RoundService)
	adminHandler := handler.NewAdminHandler(c.PlayerService, c.VocabService, c.Templates, c.Predicates, c.TopLimit)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService, c.AdminToken)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)
	r.Use(middleware.RequestLogger(c.Log))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/users", authHandler.Signup).Methods("POST", "OPTIONS")
	v1.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/round", roundHandler.Current).Methods("GET", "OPTIONS")
	v1.HandleFunc("/players/top", adminHandler.TopPlayers).Methods("GET", "OPTIONS")
	v1.HandleFunc("/predicates", adminHandler.Predicates).Methods("GET", "OPTIONS")
	v1.HandleFunc("/concepts", adminHandler.Concepts).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws", wsHandler.Events).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require the operator token)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/round", roundHandler.Create).Methods("POST", "OPTIONS")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/round/checkup", roundHandler.Checkup).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/round/answers", roundHandler.Answer).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/round/score", roundHandler.Score).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/round/flag", roundHandler.Flag).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/concepts", adminHandler.AddConcept).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/templates", adminHandler.AddTemplate).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
