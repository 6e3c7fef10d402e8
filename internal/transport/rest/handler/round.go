package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mindmeld/internal/model"
	"mindmeld/internal/service"
	"mindmeld/internal/transport/rest/middleware"
)

// staleQuestionKey marks a response that refers to an already rotated round.
const staleQuestionKey = "undefined"

// RoundHandler serves the round lifecycle endpoints.
type RoundHandler struct {
	registry *service.Registry
	roundSvc *service.RoundService
}

// NewRoundHandler creates a new round handler.
func NewRoundHandler(registry *service.Registry, roundSvc *service.RoundService) *RoundHandler {
	return &RoundHandler{registry: registry, roundSvc: roundSvc}
}

type roundRequest struct {
	QuestionKey string `json:"questionKey"`
	Answer      string `json:"answer,omitempty"`
	ProblemType string `json:"problemType,omitempty"`
}

type roundStatusResponse struct {
	User   model.UserRef       `json:"user"`
	Game   *model.RoundSummary `json:"game"`
	Status *model.PlayerStatus `json:"status,omitempty"`
}

// Current handles GET /v1/round and returns the active round summary.
func (h *RoundHandler) Current(w http.ResponseWriter, r *http.Request) {
	round, err := h.registry.CurrentRound(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.roundSvc.Summary(round))
}

// Create handles POST /v1/round and force-starts a fresh round.
func (h *RoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	round, err := h.registry.CreateRound(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, h.roundSvc.Summary(round))
}

// Checkup handles POST /v1/round/checkup. It joins the caller to the
// round if needed and returns their current status view.
func (h *RoundHandler) Checkup(w http.ResponseWriter, r *http.Request) {
	h.statusFor(w, r)
}

// Score handles POST /v1/round/score. During the scoring phase the
// returned status carries the final per-player scores.
func (h *RoundHandler) Score(w http.ResponseWriter, r *http.Request) {
	h.statusFor(w, r)
}

func (h *RoundHandler) statusFor(w http.ResponseWriter, r *http.Request) {
	req, round, username, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if !h.roundSvc.MatchesQuestion(round, req.QuestionKey) {
		h.writeStale(w, r, username, round)
		return
	}

	status, err := h.roundSvc.Status(r.Context(), round, username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, roundStatusResponse{
		User:   model.UserRef{Username: username, Key: middleware.GetPlayerID(r.Context())},
		Game:   h.roundSvc.Summary(round),
		Status: status,
	})
}

// Answer handles POST /v1/round/answers.
func (h *RoundHandler) Answer(w http.ResponseWriter, r *http.Request) {
	req, round, username, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if !h.roundSvc.MatchesQuestion(round, req.QuestionKey) {
		h.writeStale(w, r, username, round)
		return
	}

	status, err := h.roundSvc.SubmitAnswer(r.Context(), round, username, middleware.GetPlayerID(r.Context()), req.Answer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, roundStatusResponse{
		User:   model.UserRef{Username: username, Key: middleware.GetPlayerID(r.Context())},
		Game:   h.roundSvc.Summary(round),
		Status: status,
	})
}

// Flag handles POST /v1/round/flag.
func (h *RoundHandler) Flag(w http.ResponseWriter, r *http.Request) {
	req, round, username, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if !h.roundSvc.MatchesQuestion(round, req.QuestionKey) {
		h.writeStale(w, r, username, round)
		return
	}
	if req.ProblemType == "" {
		writeError(w, http.StatusBadRequest, "problemType is required")
		return
	}

	if err := h.roundSvc.Flag(r.Context(), round, req.ProblemType); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "flagged"})
}

func (h *RoundHandler) resolve(w http.ResponseWriter, r *http.Request) (roundRequest, *model.Round, string, bool) {
	var req roundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, nil, "", false
	}

	username := middleware.GetUsername(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "missing player identity")
		return req, nil, "", false
	}

	round, err := h.registry.CurrentRound(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return req, nil, "", false
	}
	return req, round, username, true
}

// writeStale answers a request that names an old question. The caller
// gets the fresh round summary and a sentinel key so the client knows
// to resynchronize. The round itself is left untouched.
func (h *RoundHandler) writeStale(w http.ResponseWriter, r *http.Request, username string, round *model.Round) {
	writeJSON(w, http.StatusOK, roundStatusResponse{
		User: model.UserRef{Username: username, Key: staleQuestionKey},
		Game: h.roundSvc.Summary(round),
	})
}
