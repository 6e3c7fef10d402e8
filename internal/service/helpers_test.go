package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mindmeld/internal/cache"
	"mindmeld/internal/config"
	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

// fakeClock is a manually advanced clock injected into the round engine.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeRoundCache struct {
	mu    sync.Mutex
	round *model.Round
}

func (c *fakeRoundCache) Set(_ context.Context, round *model.Round) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round = round
	return nil
}

func (c *fakeRoundCache) Get(_ context.Context) (*model.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round, nil
}

func (c *fakeRoundCache) Delete(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round = nil
	return nil
}

type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[string]int)}
}

func (l *fakeLeaderboard) SetScore(_ context.Context, username string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores[username] = score
	return nil
}

func (l *fakeLeaderboard) Top(_ context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]cache.LeaderboardEntry, 0, len(l.scores))
	for name, score := range l.scores {
		entries = append(entries, cache.LeaderboardEntry{Username: name, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *fakeLeaderboard) Rank(_ context.Context, username string) (int64, error) {
	entries, _ := l.Top(context.Background(), 0)
	for _, e := range entries {
		if e.Username == username {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

// engine bundles a fully wired round engine over in-memory stores.
type engine struct {
	concepts   repository.ConceptRepo
	templates  repository.TemplateRepo
	questions  repository.QuestionRepo
	players    repository.PlayerRepo
	predicates repository.PredicateRepo
	rounds     repository.RoundRepo

	vocab       *VocabService
	grounder    *Grounder
	aggregator  *Aggregator
	roundSvc    *RoundService
	registry    *Registry
	roundCache  *fakeRoundCache
	leaderboard *fakeLeaderboard
	clock       *fakeClock
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		RoundDuration:     35 * time.Second,
		AnswerPhase:       11 * time.Second,
		GroundingAttempts: 5,
		TopPlayersLimit:   10,
	}
}

func newTestEngine(t *testing.T) *engine {
	t.Helper()

	e := &engine{
		concepts:    repository.NewMemoryConceptRepo(),
		templates:   repository.NewMemoryTemplateRepo(),
		questions:   repository.NewMemoryQuestionRepo(),
		players:     repository.NewMemoryPlayerRepo(),
		predicates:  repository.NewMemoryPredicateRepo(),
		rounds:      repository.NewMemoryRoundRepo(),
		roundCache:  &fakeRoundCache{},
		leaderboard: newFakeLeaderboard(),
		clock:       newFakeClock(),
	}

	log := testLogger()
	e.vocab = NewVocabService(e.concepts)
	e.grounder = NewGrounder(e.vocab, e.templates, e.questions)
	e.aggregator = NewAggregator(e.vocab, e.questions, e.templates, e.players, e.predicates, e.leaderboard, log)
	e.roundSvc = NewRoundService(e.rounds, e.players, e.grounder, e.aggregator, e.roundCache, testGameConfig(), log)
	e.registry = NewRegistry(e.rounds, e.roundSvc, log)

	e.roundSvc.now = e.clock.Now
	e.registry.now = e.clock.Now
	return e
}

// seedVocab installs one concept ("dog", animal) and one template so
// that grounding is deterministic.
func (e *engine) seedVocab(t *testing.T) *model.QuestionTemplate {
	t.Helper()
	ctx := context.Background()

	if _, err := e.vocab.Tag(ctx, "dog", "animal"); err != nil {
		t.Fatalf("seeding concept: %v", err)
	}

	template := &model.QuestionTemplate{
		ID:            "tpl-eats",
		Question:      "What does a [animal] like to eat?",
		PredicateName: "eats",
		AnswerType:    "food",
		CreatedAt:     e.clock.Now(),
	}
	template.ArgumentTypes = template.ExtractArgumentTypes()
	if err := e.templates.Create(ctx, template); err != nil {
		t.Fatalf("seeding template: %v", err)
	}
	return template
}

func (e *engine) addAccount(t *testing.T, name string) *model.Player {
	t.Helper()
	player := &model.Player{
		ID:        name + "-id",
		Username:  name,
		CreatedAt: e.clock.Now(),
	}
	if err := e.players.Create(context.Background(), player); err != nil {
		t.Fatalf("creating player %s: %v", name, err)
	}
	return player
}

func (e *engine) startRound(t *testing.T) *model.Round {
	t.Helper()
	round, err := e.registry.CurrentRound(context.Background())
	if err != nil {
		t.Fatalf("creating round: %v", err)
	}
	return round
}
