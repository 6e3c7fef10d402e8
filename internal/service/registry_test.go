package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestCurrentRoundLazyCreation(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	round, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	if round.ID != SingletonRoundID {
		t.Fatalf("expected singleton id, got %s", round.ID)
	}
	if round.TimesPlayed != 1 {
		t.Fatalf("expected first play, got %d", round.TimesPlayed)
	}

	stored, err := e.rounds.Get(ctx, SingletonRoundID)
	if err != nil {
		t.Fatalf("round fetch failed: %v", err)
	}
	if stored == nil {
		t.Fatal("round should be persisted on creation")
	}
}

func TestCurrentRoundStableWhileFresh(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	first, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}

	e.clock.Advance(10 * time.Second)

	second, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	if first != second {
		t.Fatal("callers should share the same round instance")
	}
	if second.TimesPlayed != 1 {
		t.Fatalf("fresh round must not rotate, timesPlayed %d", second.TimesPlayed)
	}
}

func TestRotationOnExpiry(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	first, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}

	e.clock.Advance(36 * time.Second)

	second, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	if second.TimesPlayed != 2 {
		t.Fatalf("expired round should rotate, timesPlayed %d", second.TimesPlayed)
	}
	if !second.StartedAt.Equal(e.clock.Now()) {
		t.Fatalf("rotation should restart the clock, got %v", second.StartedAt)
	}
	// Same slot identity across rotations.
	if second.ID != first.ID {
		t.Fatalf("rotation must reuse the slot, got %s", second.ID)
	}
}

func TestConcurrentRotationHappensOnce(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	if _, err := e.registry.CurrentRound(ctx); err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	e.clock.Advance(36 * time.Second)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			round, err := e.registry.CurrentRound(ctx)
			if err != nil {
				t.Errorf("current round failed: %v", err)
				return
			}
			results[i] = round.TimesPlayed
		}(i)
	}
	wg.Wait()

	for i, played := range results {
		if played != 2 {
			t.Fatalf("caller %d observed timesPlayed %d, want exactly one rotation", i, played)
		}
	}
}

func TestCreateRoundForcesRotation(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	if _, err := e.registry.CurrentRound(ctx); err != nil {
		t.Fatalf("current round failed: %v", err)
	}

	round, err := e.registry.CreateRound(ctx)
	if err != nil {
		t.Fatalf("create round failed: %v", err)
	}
	if round.TimesPlayed != 2 {
		t.Fatalf("forced creation should rotate a fresh round, timesPlayed %d", round.TimesPlayed)
	}
}

func TestRegistryIgnoresStaleMirror(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	round, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	e.addAccount(t, "alice")
	e.addAccount(t, "bob")
	if _, err := e.roundSvc.SubmitAnswer(ctx, round, "alice", "alice-id", "bone"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := e.roundSvc.SubmitAnswer(ctx, round, "bob", "bob-id", "bone"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	e.clock.Advance(25 * time.Second)
	if _, err := e.roundSvc.Status(ctx, round, "alice"); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	// Poison the mirror with a copy taken before the final aggregation,
	// as if the last cache refresh had failed.
	stale := *round
	stale.Status = nil
	stale.Dirty = true
	if err := e.roundCache.Set(ctx, &stale); err != nil {
		t.Fatalf("cache set failed: %v", err)
	}

	// A restarted registry must recover the scored round from the
	// store, not the lagging mirror, or it would pay out again.
	fresh := NewRegistry(e.rounds, e.roundSvc, testLogger())
	fresh.now = e.clock.Now

	loaded, err := fresh.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	if !loaded.Status.Final() {
		t.Fatal("registry adopted the pre-final mirror copy")
	}

	if _, err := e.roundSvc.Status(ctx, loaded, "alice"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	alice, err := e.players.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("player fetch failed: %v", err)
	}
	if alice.Score != 2 {
		t.Fatalf("scoring ran twice: alice score %d, want 2", alice.Score)
	}
}

func TestRegistryLoadsPersistedRound(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)
	ctx := context.Background()

	first, err := e.registry.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}

	// A new registry over the same stores finds the persisted round
	// instead of grounding a new question.
	fresh := NewRegistry(e.rounds, e.roundSvc, testLogger())
	fresh.now = e.clock.Now

	loaded, err := fresh.CurrentRound(ctx)
	if err != nil {
		t.Fatalf("current round failed: %v", err)
	}
	if loaded.QuestionID != first.QuestionID {
		t.Fatalf("expected persisted question %s, got %s", first.QuestionID, loaded.QuestionID)
	}
	if loaded.TimesPlayed != 1 {
		t.Fatalf("loading must not rotate, timesPlayed %d", loaded.TimesPlayed)
	}
}
