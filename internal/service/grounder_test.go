package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mindmeld/internal/model"
)

func TestGroundSubstitutesPlaceholders(t *testing.T) {
	e := newTestEngine(t)
	template := e.seedVocab(t)

	question, err := e.grounder.Ground(context.Background(), template)
	if err != nil {
		t.Fatalf("grounding failed: %v", err)
	}

	if question.Text != "What does a <b>dog</b> like to eat?" {
		t.Fatalf("unexpected grounded text: %q", question.Text)
	}
	if strings.Contains(question.Text, "[") {
		t.Fatalf("placeholder left in grounded text: %q", question.Text)
	}
	if len(question.ArgumentIDs) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(question.ArgumentIDs))
	}
	if question.AnswerType != "food" {
		t.Fatalf("expected answer type food, got %q", question.AnswerType)
	}
	if question.TemplateID != template.ID {
		t.Fatalf("expected template id %s, got %s", template.ID, question.TemplateID)
	}
}

func TestGroundRepeatedPlaceholderType(t *testing.T) {
	e := newTestEngine(t)
	e.seedVocab(t)

	template := &model.QuestionTemplate{
		ID:            "tpl-pair",
		Question:      "Would a [animal] fight a [animal]?",
		PredicateName: "fights",
		AnswerType:    "animal",
	}
	template.ArgumentTypes = template.ExtractArgumentTypes()

	question, err := e.grounder.Ground(context.Background(), template)
	if err != nil {
		t.Fatalf("grounding failed: %v", err)
	}
	if strings.Contains(question.Text, "[animal]") {
		t.Fatalf("placeholder left in grounded text: %q", question.Text)
	}
	if len(question.ArgumentIDs) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(question.ArgumentIDs))
	}
}

func TestGroundMemoized(t *testing.T) {
	e := newTestEngine(t)
	template := e.seedVocab(t)
	ctx := context.Background()

	// A single animal in the vocabulary makes sampling deterministic.
	first, err := e.grounder.Ground(ctx, template)
	if err != nil {
		t.Fatalf("first grounding failed: %v", err)
	}
	second, err := e.grounder.Ground(ctx, template)
	if err != nil {
		t.Fatalf("second grounding failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected memoized question, got %s and %s", first.ID, second.ID)
	}
}

func TestGroundMissingConceptType(t *testing.T) {
	e := newTestEngine(t)

	template := &model.QuestionTemplate{
		ID:            "tpl-orphan",
		Question:      "What lives in a [castle]?",
		PredicateName: "lives_in",
		AnswerType:    "animal",
	}
	template.ArgumentTypes = template.ExtractArgumentTypes()

	_, err := e.grounder.Ground(context.Background(), template)
	if !errors.Is(err, ErrNoConceptsOfType) {
		t.Fatalf("expected ErrNoConceptsOfType, got %v", err)
	}
}

func TestRandomTemplateEmpty(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.grounder.RandomTemplate(context.Background())
	if !errors.Is(err, ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
}
