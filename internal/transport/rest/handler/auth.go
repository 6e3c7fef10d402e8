package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mindmeld/internal/model"
	"mindmeld/internal/service"
)

// AuthHandler handles account creation and login.
type AuthHandler struct {
	playerSvc *service.PlayerService
	authSvc   *service.AuthService
	registry  *service.Registry
	roundSvc  *service.RoundService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(playerSvc *service.PlayerService, authSvc *service.AuthService, registry *service.Registry, roundSvc *service.RoundService) *AuthHandler {
	return &AuthHandler{
		playerSvc: playerSvc,
		authSvc:   authSvc,
		registry:  registry,
		roundSvc:  roundSvc,
	}
}

// Signup handles POST /v1/users.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	player, err := h.playerSvc.CreateAccount(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			writeError(w, http.StatusConflict, "user name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeSession(w, r, player)
}

// Login handles POST /v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.playerSvc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeSession(w, r, player)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, player *model.Player) {
	token, err := h.authSvc.IssueToken(player)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	round, err := h.registry.CurrentRound(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.SessionResponse{
		User:  player.Ref(),
		Token: token,
		Game:  h.roundSvc.Summary(round),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
