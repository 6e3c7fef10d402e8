package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mindmeld/internal/cache"
	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

// Aggregator turns a round's answers into snapshots. ComputeLive is the
// cheap tally used while the round is open; CommitFinal is the one-shot
// scoring pass that pays out points, grows the vocabulary and updates
// the predicate ledger. The round state machine decides which one runs
// and guarantees CommitFinal happens at most once per round instance.
type Aggregator struct {
	vocab       *VocabService
	questions   repository.QuestionRepo
	templates   repository.TemplateRepo
	players     repository.PlayerRepo
	predicates  repository.PredicateRepo
	leaderboard cache.LeaderboardCache
	log         zerolog.Logger
}

// NewAggregator creates a new aggregator.
func NewAggregator(
	vocab *VocabService,
	questions repository.QuestionRepo,
	templates repository.TemplateRepo,
	players repository.PlayerRepo,
	predicates repository.PredicateRepo,
	leaderboard cache.LeaderboardCache,
	log zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		vocab:       vocab,
		questions:   questions,
		templates:   templates,
		players:     players,
		predicates:  predicates,
		leaderboard: leaderboard,
		log:         log,
	}
}

// AnswerScore is the consensus scoring rule: an answer given by exactly
// one player scores zero; every additional matching submission adds two
// points to that answer.
func AnswerScore(count int) int {
	return (count - 1) * 2
}

func tally(answers []model.Answer) (map[string]int, map[string][]string) {
	counts := make(map[string]int)
	byPlayer := make(map[string][]string)
	for _, a := range answers {
		counts[a.Text]++
		byPlayer[a.PlayerName] = append(byPlayer[a.PlayerName], a.Text)
	}
	return counts, byPlayer
}

// ComputeLive builds the open-phase snapshot: per-answer counts and the
// per-player answer index. No persistence side effects.
func (a *Aggregator) ComputeLive(round *model.Round) *model.StatusSnapshot {
	counts, byPlayer := tally(round.Answers)
	return &model.StatusSnapshot{
		Kind:            model.SnapshotLive,
		Counts:          counts,
		AnswersByPlayer: byPlayer,
	}
}

// CommitFinal runs the scoring aggregation: per-answer scores, player
// payouts, vocabulary growth and ledger increments. All referenced
// records are resolved before any write, so a missing player or concept
// aborts the whole pass instead of applying it partially.
func (a *Aggregator) CommitFinal(ctx context.Context, round *model.Round) (*model.StatusSnapshot, error) {
	question, err := a.questions.GetByID(ctx, round.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("question fetch failed: %w", err)
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %s", ErrNotFound, round.QuestionID)
	}

	template, err := a.templates.GetByID(ctx, question.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("template fetch failed: %w", err)
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, question.TemplateID)
	}

	argumentNames := make([]string, 0, len(question.ArgumentIDs))
	for _, id := range question.ArgumentIDs {
		concept, err := a.vocab.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("argument fetch failed: %w", err)
		}
		if concept == nil {
			return nil, fmt.Errorf("%w: concept %s", ErrNotFound, id)
		}
		argumentNames = append(argumentNames, concept.Name)
	}

	counts, byPlayer := tally(round.Answers)

	scores := make(map[string]int, len(counts))
	for text, count := range counts {
		scores[text] = AnswerScore(count)
	}

	playerScores := make(map[string]int, len(byPlayer))
	for _, answer := range round.Answers {
		playerScores[answer.PlayerName] += scores[answer.Text]
	}

	// Resolve every paid player up front; a missing account is a
	// data-integrity violation and aborts the aggregation.
	paidPlayers := make(map[string]*model.Player, len(playerScores))
	for name := range playerScores {
		player, err := a.players.GetByUsername(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("player fetch failed: %w", err)
		}
		if player == nil {
			return nil, fmt.Errorf("%w: player %s", ErrNotFound, name)
		}
		paidPlayers[name] = player
	}

	answerType := question.AnswerType
	for text, count := range counts {
		if count > 1 {
			if _, err := a.vocab.Tag(ctx, text, answerType); err != nil {
				return nil, err
			}
		}
		if err := a.recordPredicate(ctx, template, argumentNames, text, answerType, count); err != nil {
			return nil, err
		}
	}

	for name, delta := range playerScores {
		player := paidPlayers[name]
		player.Score += delta
		if err := a.players.Update(ctx, player); err != nil {
			return nil, fmt.Errorf("player update failed: %w", err)
		}
		if err := a.leaderboard.SetScore(ctx, name, player.Score); err != nil {
			// Best-effort mirror only.
			a.log.Warn().Err(err).Str("player", name).Msg("leaderboard update failed")
		}
	}

	a.log.Info().
		Str("question", round.QuestionID).
		Int("answers", len(round.Answers)).
		Int("players", len(playerScores)).
		Msg("round scored")

	return &model.StatusSnapshot{
		Kind:            model.SnapshotFinal,
		Counts:          counts,
		AnswersByPlayer: byPlayer,
		Scores:          scores,
		PlayerScores:    playerScores,
	}, nil
}

func (a *Aggregator) recordPredicate(ctx context.Context, template *model.QuestionTemplate, argumentNames []string, answer, answerType string, count int) error {
	arguments := append(append([]string(nil), argumentNames...), answer)
	argumentTypes := append(append([]string(nil), template.ArgumentTypes...), answerType)

	record, err := a.predicates.Find(ctx, template.PredicateName, arguments, argumentTypes)
	if err != nil {
		return fmt.Errorf("predicate lookup failed: %w", err)
	}
	if record == nil {
		record = &model.PredicateRecord{
			ID:            uuid.New().String(),
			Predicate:     template.PredicateName,
			Arguments:     arguments,
			ArgumentTypes: argumentTypes,
		}
		record.Frequency += count
		if err := a.predicates.Create(ctx, record); err != nil {
			return fmt.Errorf("predicate create failed: %w", err)
		}
		return nil
	}
	record.Frequency += count
	if err := a.predicates.Update(ctx, record); err != nil {
		return fmt.Errorf("predicate update failed: %w", err)
	}
	return nil
}
