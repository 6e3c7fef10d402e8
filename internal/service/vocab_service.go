package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

// VocabService owns the concept vocabulary: lookups, type tagging, and
// the random sampling the grounder relies on.
type VocabService struct {
	concepts repository.ConceptRepo
}

// NewVocabService creates a new vocabulary service.
func NewVocabService(concepts repository.ConceptRepo) *VocabService {
	return &VocabService{concepts: concepts}
}

// GetByID fetches a concept by id.
func (s *VocabService) GetByID(ctx context.Context, id string) (*model.Concept, error) {
	return s.concepts.GetByID(ctx, id)
}

// GetOrCreate returns the concept with the given name, creating it if
// absent. Names are normalized before lookup and storage.
func (s *VocabService) GetOrCreate(ctx context.Context, name string) (*model.Concept, error) {
	normalized := model.NormalizeConceptName(name)
	concept, err := s.concepts.GetByName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("concept lookup failed: %w", err)
	}
	if concept != nil {
		return concept, nil
	}

	concept = &model.Concept{
		ID:        uuid.New().String(),
		Name:      normalized,
		CreatedAt: time.Now(),
	}
	if err := s.concepts.Create(ctx, concept); err != nil {
		return nil, fmt.Errorf("concept create failed: %w", err)
	}
	return concept, nil
}

// Tag ensures a concept with the given name exists and carries the
// given type label. This is how the vocabulary grows from consensus
// answers at scoring time.
func (s *VocabService) Tag(ctx context.Context, name, conceptType string) (*model.Concept, error) {
	concept, err := s.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	if concept.HasType(conceptType) {
		return concept, nil
	}
	concept.AddConceptType(conceptType)
	if err := s.concepts.Update(ctx, concept); err != nil {
		return nil, fmt.Errorf("concept update failed: %w", err)
	}
	return concept, nil
}

// RandomByType samples one concept uniformly among those carrying the
// given type label. Returns ErrNoConceptsOfType when none exist.
func (s *VocabService) RandomByType(ctx context.Context, conceptType string) (*model.Concept, error) {
	candidates, err := s.concepts.ListByType(ctx, conceptType)
	if err != nil {
		return nil, fmt.Errorf("concept query failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoConceptsOfType, conceptType)
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// ConceptTypes returns the sorted set of all type labels in use.
func (s *VocabService) ConceptTypes(ctx context.Context) ([]string, error) {
	concepts, err := s.concepts.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var types []string
	for _, c := range concepts {
		for _, t := range c.ConceptTypes {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types, nil
}

// List returns the whole vocabulary.
func (s *VocabService) List(ctx context.Context) ([]*model.Concept, error) {
	return s.concepts.List(ctx)
}
