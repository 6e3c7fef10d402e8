package repository

import (
	"context"
	"testing"

	"mindmeld/internal/model"
)

func TestMemoryPlayerTopByScore(t *testing.T) {
	repo := NewMemoryPlayerRepo()
	ctx := context.Background()

	for _, p := range []*model.Player{
		{ID: "1", Username: "alice", Score: 5},
		{ID: "2", Username: "bob", Score: 12},
		{ID: "3", Username: "carol", Score: 12},
		{ID: "4", Username: "dave", Score: 1},
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	top, err := repo.TopByScore(ctx, 3)
	if err != nil {
		t.Fatalf("top failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 players, got %d", len(top))
	}
	// Ties break on username so the ordering is stable.
	if top[0].Username != "bob" || top[1].Username != "carol" || top[2].Username != "alice" {
		t.Fatalf("unexpected order: %s, %s, %s", top[0].Username, top[1].Username, top[2].Username)
	}
}

func TestMemoryPredicateTupleIdentity(t *testing.T) {
	repo := NewMemoryPredicateRepo()
	ctx := context.Background()

	record := &model.PredicateRecord{
		ID:            "p1",
		Predicate:     "eats",
		Arguments:     []string{"dog", "bone"},
		ArgumentTypes: []string{"animal", "food"},
		Frequency:     3,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.Find(ctx, "eats", []string{"dog", "bone"}, []string{"animal", "food"})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil || found.ID != "p1" {
		t.Fatalf("expected record p1, got %+v", found)
	}

	// The full tuple is the identity; any differing element misses.
	if miss, _ := repo.Find(ctx, "eats", []string{"dog", "stick"}, []string{"animal", "food"}); miss != nil {
		t.Fatal("different arguments must not match")
	}
	if miss, _ := repo.Find(ctx, "eats", []string{"dog", "bone"}, []string{"animal", "object"}); miss != nil {
		t.Fatal("different argument types must not match")
	}
}

func TestMemoryPredicateListByFrequency(t *testing.T) {
	repo := NewMemoryPredicateRepo()
	ctx := context.Background()

	for _, rec := range []*model.PredicateRecord{
		{ID: "1", Predicate: "eats", Arguments: []string{"dog", "stick"}, Frequency: 1},
		{ID: "2", Predicate: "eats", Arguments: []string{"dog", "bone"}, Frequency: 5},
		{ID: "3", Predicate: "lives_in", Arguments: []string{"dog", "house"}, Frequency: 2},
	} {
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	records, err := repo.ListByFrequency(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if records[0].ID != "2" || records[1].ID != "3" || records[2].ID != "1" {
		t.Fatalf("unexpected order: %s, %s, %s", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestMemoryRoundUpsert(t *testing.T) {
	repo := NewMemoryRoundRepo()
	ctx := context.Background()

	missing, err := repo.Get(ctx, "singleton")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if missing != nil {
		t.Fatal("expected no round before upsert")
	}

	round := &model.Round{ID: "singleton", QuestionID: "q1"}
	if err := repo.Upsert(ctx, round); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	round.QuestionID = "q2"
	if err := repo.Upsert(ctx, round); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	stored, err := repo.Get(ctx, "singleton")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.QuestionID != "q2" {
		t.Fatalf("expected updated round, got %s", stored.QuestionID)
	}
}
