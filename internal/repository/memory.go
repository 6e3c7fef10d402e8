package repository

import (
	"context"
	"sort"
	"sync"

	"mindmeld/internal/model"
)

// In-memory implementations of the repository interfaces. They back the
// engine in tests and in store-less development runs; the Mongo
// implementations are the production path.

type memConceptRepo struct {
	mu       sync.RWMutex
	concepts map[string]*model.Concept
}

// NewMemoryConceptRepo creates an in-memory concept repository.
func NewMemoryConceptRepo() ConceptRepo {
	return &memConceptRepo{concepts: make(map[string]*model.Concept)}
}

func (r *memConceptRepo) Create(_ context.Context, concept *model.Concept) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.concepts[concept.ID] = concept
	return nil
}

func (r *memConceptRepo) GetByID(_ context.Context, id string) (*model.Concept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.concepts[id], nil
}

func (r *memConceptRepo) GetByName(_ context.Context, name string) (*model.Concept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.concepts {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memConceptRepo) List(_ context.Context) ([]*model.Concept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	concepts := make([]*model.Concept, 0, len(r.concepts))
	for _, c := range r.concepts {
		concepts = append(concepts, c)
	}
	return concepts, nil
}

func (r *memConceptRepo) ListByType(_ context.Context, conceptType string) ([]*model.Concept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var concepts []*model.Concept
	for _, c := range r.concepts {
		if c.HasType(conceptType) {
			concepts = append(concepts, c)
		}
	}
	return concepts, nil
}

func (r *memConceptRepo) Update(_ context.Context, concept *model.Concept) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.concepts[concept.ID] = concept
	return nil
}

func (r *memConceptRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.concepts, id)
	return nil
}

type memTemplateRepo struct {
	mu        sync.RWMutex
	templates map[string]*model.QuestionTemplate
}

// NewMemoryTemplateRepo creates an in-memory template repository.
func NewMemoryTemplateRepo() TemplateRepo {
	return &memTemplateRepo{templates: make(map[string]*model.QuestionTemplate)}
}

func (r *memTemplateRepo) Create(_ context.Context, template *model.QuestionTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[template.ID] = template
	return nil
}

func (r *memTemplateRepo) GetByID(_ context.Context, id string) (*model.QuestionTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[id], nil
}

func (r *memTemplateRepo) GetByQuestion(_ context.Context, question string) (*model.QuestionTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.templates {
		if t.Question == question {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTemplateRepo) List(_ context.Context) ([]*model.QuestionTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	templates := make([]*model.QuestionTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		templates = append(templates, t)
	}
	return templates, nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
	return nil
}

type memQuestionRepo struct {
	mu        sync.RWMutex
	questions map[string]*model.Question
}

// NewMemoryQuestionRepo creates an in-memory question repository.
func NewMemoryQuestionRepo() QuestionRepo {
	return &memQuestionRepo{questions: make(map[string]*model.Question)}
}

func (r *memQuestionRepo) Create(_ context.Context, question *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[question.ID] = question
	return nil
}

func (r *memQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.questions[id], nil
}

func (r *memQuestionRepo) GetByGroundKey(_ context.Context, key string) (*model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.questions {
		if q.GroundKey == key {
			return q, nil
		}
	}
	return nil, nil
}

func (r *memQuestionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
	return nil
}

type memPlayerRepo struct {
	mu      sync.RWMutex
	players map[string]*model.Player
}

// NewMemoryPlayerRepo creates an in-memory player repository.
func NewMemoryPlayerRepo() PlayerRepo {
	return &memPlayerRepo{players: make(map[string]*model.Player)}
}

func (r *memPlayerRepo) Create(_ context.Context, player *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[player.ID] = player
	return nil
}

func (r *memPlayerRepo) GetByID(_ context.Context, id string) (*model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[id], nil
}

func (r *memPlayerRepo) GetByUsername(_ context.Context, username string) (*model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.players {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPlayerRepo) TopByScore(_ context.Context, limit int) ([]*model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]*model.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].Username < players[j].Username
	})
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

func (r *memPlayerRepo) Update(_ context.Context, player *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[player.ID] = player
	return nil
}

func (r *memPlayerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
	return nil
}

type memPredicateRepo struct {
	mu      sync.RWMutex
	records []*model.PredicateRecord
}

// NewMemoryPredicateRepo creates an in-memory predicate ledger.
func NewMemoryPredicateRepo() PredicateRepo {
	return &memPredicateRepo{}
}

func tupleEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (r *memPredicateRepo) Find(_ context.Context, predicate string, arguments, argumentTypes []string) (*model.PredicateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Predicate == predicate && tupleEqual(rec.Arguments, arguments) && tupleEqual(rec.ArgumentTypes, argumentTypes) {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memPredicateRepo) Create(_ context.Context, record *model.PredicateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memPredicateRepo) Update(_ context.Context, record *model.PredicateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID == record.ID {
			r.records[i] = record
			return nil
		}
	}
	r.records = append(r.records, record)
	return nil
}

func (r *memPredicateRepo) ListByFrequency(_ context.Context) ([]*model.PredicateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := append([]*model.PredicateRecord(nil), r.records...)
	sort.Slice(records, func(i, j int) bool {
		if records[i].Frequency != records[j].Frequency {
			return records[i].Frequency > records[j].Frequency
		}
		return records[i].Predicate < records[j].Predicate
	})
	return records, nil
}

type memRoundRepo struct {
	mu     sync.RWMutex
	rounds map[string]*model.Round
}

// NewMemoryRoundRepo creates an in-memory round repository.
func NewMemoryRoundRepo() RoundRepo {
	return &memRoundRepo{rounds: make(map[string]*model.Round)}
}

func (r *memRoundRepo) Get(_ context.Context, id string) (*model.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rounds[id], nil
}

func (r *memRoundRepo) Upsert(_ context.Context, round *model.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds[round.ID] = round
	return nil
}
