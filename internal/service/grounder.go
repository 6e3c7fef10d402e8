package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

var placeholderPattern = regexp.MustCompile(`\[(.*?)\]`)

// Grounder turns question templates into concrete questions by
// substituting each [TYPE] placeholder with a sampled concept.
// Groundings are memoized: the same template with the same sampled
// concepts yields the existing question.
type Grounder struct {
	vocab     *VocabService
	templates repository.TemplateRepo
	questions repository.QuestionRepo
}

// NewGrounder creates a new grounder.
func NewGrounder(vocab *VocabService, templates repository.TemplateRepo, questions repository.QuestionRepo) *Grounder {
	return &Grounder{
		vocab:     vocab,
		templates: templates,
		questions: questions,
	}
}

// RandomTemplate picks one template uniformly at random.
func (g *Grounder) RandomTemplate(ctx context.Context) (*model.QuestionTemplate, error) {
	templates, err := g.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("template query failed: %w", err)
	}
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	return templates[rand.Intn(len(templates))], nil
}

// Ground produces a question from the template. Each placeholder is
// replaced, in order of appearance, by a concept sampled from the
// vocabulary; the first occurrence of each placeholder literal is
// substituted exactly once. Fails with ErrNoConceptsOfType when a
// required type has no concepts.
func (g *Grounder) Ground(ctx context.Context, template *model.QuestionTemplate) (*model.Question, error) {
	grounded := template.Question
	var argumentIDs []string

	for _, match := range placeholderPattern.FindAllStringSubmatch(template.Question, -1) {
		placeholder := match[0]
		conceptType := match[1]

		concept, err := g.vocab.RandomByType(ctx, conceptType)
		if err != nil {
			return nil, err
		}
		argumentIDs = append(argumentIDs, concept.ID)
		grounded = strings.Replace(grounded, placeholder, "<b>"+concept.Name+"</b>", 1)
	}

	key := model.GroundingKey(template.ID, argumentIDs)
	existing, err := g.questions.GetByGroundKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("question lookup failed: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	question := &model.Question{
		ID:          uuid.New().String(),
		TemplateID:  template.ID,
		Text:        grounded,
		ArgumentIDs: argumentIDs,
		GroundKey:   key,
		AnswerType:  template.AnswerType,
	}
	if err := g.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("question create failed: %w", err)
	}
	return question, nil
}
