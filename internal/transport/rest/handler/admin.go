package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"mindmeld/internal/model"
	"mindmeld/internal/repository"
	"mindmeld/internal/service"
)

// AdminHandler serves the curation and export endpoints: leaderboard,
// vocabulary and ledger dumps, and manual concept/template entry.
type AdminHandler struct {
	playerSvc  *service.PlayerService
	vocabSvc   *service.VocabService
	templates  repository.TemplateRepo
	predicates repository.PredicateRepo
	topLimit   int
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(playerSvc *service.PlayerService, vocabSvc *service.VocabService, templates repository.TemplateRepo, predicates repository.PredicateRepo, topLimit int) *AdminHandler {
	return &AdminHandler{
		playerSvc:  playerSvc,
		vocabSvc:   vocabSvc,
		templates:  templates,
		predicates: predicates,
		topLimit:   topLimit,
	}
}

// TopPlayers handles GET /v1/players/top.
func (h *AdminHandler) TopPlayers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.playerSvc.TopPlayers(r.Context(), h.topLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Predicates handles GET /v1/predicates. With ?format=csv the ledger is
// exported as rows of COUNT,PREDICATE,ARG1,TYPE1,...
func (h *AdminHandler) Predicates(w http.ResponseWriter, r *http.Request) {
	records, err := h.predicates.ListByFrequency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") != "csv" {
		writeJSON(w, http.StatusOK, records)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="predicates.csv"`)
	cw := csv.NewWriter(w)
	for _, rec := range records {
		row := []string{strconv.Itoa(rec.Frequency), rec.Predicate}
		for i, arg := range rec.Arguments {
			argType := ""
			if i < len(rec.ArgumentTypes) {
				argType = rec.ArgumentTypes[i]
			}
			row = append(row, arg, argType)
		}
		cw.Write(row)
	}
	cw.Flush()
}

// Concepts handles GET /v1/concepts. With ?format=csv the vocabulary is
// exported as rows of NAME,TYPE1,...
func (h *AdminHandler) Concepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := h.vocabSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") != "csv" {
		writeJSON(w, http.StatusOK, concepts)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="concepts.csv"`)
	cw := csv.NewWriter(w)
	for _, c := range concepts {
		cw.Write(append([]string{c.Name}, c.ConceptTypes...))
	}
	cw.Flush()
}

type addConceptRequest struct {
	Name         string   `json:"name"`
	ConceptTypes []string `json:"conceptTypes"`
}

// AddConcept handles POST /v1/concepts.
func (h *AdminHandler) AddConcept(w http.ResponseWriter, r *http.Request) {
	var req addConceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := model.NormalizeConceptName(req.Name)
	if len(name) < 2 {
		writeError(w, http.StatusBadRequest, "concept name must be at least 2 characters")
		return
	}

	concept, err := h.vocabSvc.Tag(r.Context(), name, "concept")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, conceptType := range req.ConceptTypes {
		if concept, err = h.vocabSvc.Tag(r.Context(), name, conceptType); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusCreated, concept)
}

type addTemplateRequest struct {
	Question   string `json:"question"`
	Predicate  string `json:"predicate"`
	AnswerType string `json:"answerType"`
}

// AddTemplate handles POST /v1/templates. The question must carry at
// least one [TYPE] placeholder, and every placeholder type must already
// exist in the vocabulary so the template can be grounded.
func (h *AdminHandler) AddTemplate(w http.ResponseWriter, r *http.Request) {
	var req addTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Question) < 5 {
		writeError(w, http.StatusBadRequest, "question must be at least 5 characters")
		return
	}
	if req.Predicate == "" || req.AnswerType == "" {
		writeError(w, http.StatusBadRequest, "predicate and answerType are required")
		return
	}

	template := &model.QuestionTemplate{
		ID:            uuid.New().String(),
		Question:      req.Question,
		PredicateName: req.Predicate,
		AnswerType:    req.AnswerType,
		CreatedAt:     time.Now(),
	}
	template.ArgumentTypes = template.ExtractArgumentTypes()

	if len(template.ArgumentTypes) == 0 {
		writeError(w, http.StatusBadRequest, "question must contain at least one [TYPE] placeholder")
		return
	}

	known, err := h.vocabSvc.ConceptTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	knownSet := make(map[string]bool, len(known))
	for _, t := range known {
		knownSet[t] = true
	}
	for _, argType := range template.ArgumentTypes {
		if !knownSet[argType] {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown concept type %q", argType))
			return
		}
	}

	existing, err := h.templates.GetByQuestion(r.Context(), template.Question)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "a template with this question already exists")
		return
	}

	if err := h.templates.Create(r.Context(), template); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, template)
}
