package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mindmeld/internal/repository"
)

func TestGetOrCreateNormalizes(t *testing.T) {
	svc := NewVocabService(repository.NewMemoryConceptRepo())
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "  Bone ")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.Name != "bone" {
		t.Fatalf("expected normalized name bone, got %q", first.Name)
	}

	second, err := svc.GetOrCreate(ctx, "BONE")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("case variants must resolve to the same concept")
	}
}

func TestTagIsIdempotent(t *testing.T) {
	svc := NewVocabService(repository.NewMemoryConceptRepo())
	ctx := context.Background()

	if _, err := svc.Tag(ctx, "dog", "animal"); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if _, err := svc.Tag(ctx, "dog", "animal"); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	concept, err := svc.Tag(ctx, "dog", "pet")
	if err != nil {
		t.Fatalf("tag failed: %v", err)
	}

	want := []string{"animal", "pet"}
	if diff := cmp.Diff(want, concept.ConceptTypes); diff != "" {
		t.Fatalf("concept types mismatch (-want +got):\n%s", diff)
	}
}

func TestConceptTypesSorted(t *testing.T) {
	svc := NewVocabService(repository.NewMemoryConceptRepo())
	ctx := context.Background()

	for _, pair := range [][2]string{{"dog", "animal"}, {"bone", "food"}, {"cat", "animal"}, {"ball", "object"}} {
		if _, err := svc.Tag(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("tag failed: %v", err)
		}
	}

	types, err := svc.ConceptTypes(ctx)
	if err != nil {
		t.Fatalf("concept types failed: %v", err)
	}
	want := []string{"animal", "food", "object"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomByTypeEmpty(t *testing.T) {
	svc := NewVocabService(repository.NewMemoryConceptRepo())

	_, err := svc.RandomByType(context.Background(), "animal")
	if !errors.Is(err, ErrNoConceptsOfType) {
		t.Fatalf("expected ErrNoConceptsOfType, got %v", err)
	}
}
