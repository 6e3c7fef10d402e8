package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"mindmeld/internal/service"
)

type contextKey string

const (
	PlayerIDKey contextKey = "playerId"
	UsernameKey contextKey = "username"
)

// AuthMiddleware provides JWT authentication for the game routes and
// the operator-token check for the admin routes.
type AuthMiddleware struct {
	authSvc    *service.AuthService
	adminToken string
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(authSvc *service.AuthService, adminToken string) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, adminToken: adminToken}
}

// RequirePlayer validates the player session token from the
// Authorization header or, for websocket clients, the query string.
func (m *AuthMiddleware) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, PlayerIDKey, claims.PlayerID)
		ctx = context.WithValue(ctx, UsernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin restricts a route to callers presenting the configured
// operator token. Player session tokens do not qualify; an empty
// configured token disables the route.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if m.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(m.adminToken)) != 1 {
			http.Error(w, `{"error":"admin authorization required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPlayerID extracts the player id from the request context.
func GetPlayerID(ctx context.Context) string {
	if v := ctx.Value(PlayerIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetUsername extracts the username from the request context.
func GetUsername(ctx context.Context) string {
	if v := ctx.Value(UsernameKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
