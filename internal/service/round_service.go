package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mindmeld/internal/cache"
	"mindmeld/internal/config"
	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

// roundColors is the palette a fresh round's background marker is drawn
// from.
var roundColors = []int{
	0x3B5959, 0x7F8CF1, 0xF2F2E9, 0xD9C4B8, 0xBF6363,
	0x044E7F, 0x75B809, 0x117820, 0xFFE240,
}

// RoundService is the round state machine. It owns every mutation of
// the shared round during its active lifetime: player joins, answer
// ingestion, and the phase-dependent status cache. All public methods
// serialize on one mutex, so the dedup scan plus append is atomic and
// the final aggregation runs exactly once.
type RoundService struct {
	rounds      repository.RoundRepo
	players     repository.PlayerRepo
	grounder    *Grounder
	aggregator  *Aggregator
	roundCache  cache.RoundCache
	broadcaster Broadcaster
	cfg         config.GameConfig
	log         zerolog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewRoundService creates a new round service.
func NewRoundService(
	rounds repository.RoundRepo,
	players repository.PlayerRepo,
	grounder *Grounder,
	aggregator *Aggregator,
	roundCache cache.RoundCache,
	cfg config.GameConfig,
	log zerolog.Logger,
) *RoundService {
	return &RoundService{
		rounds:     rounds,
		players:    players,
		grounder:   grounder,
		aggregator: aggregator,
		roundCache: roundCache,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// SetBroadcaster sets the hub used for round lifecycle events.
func (s *RoundService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// InScoringPhase reports whether the round has entered its final
// scoring window: the answer phase is the last slice of the round.
func (s *RoundService) InScoringPhase(round *model.Round) bool {
	elapsed := round.Elapsed(s.now())
	return s.cfg.RoundDuration-elapsed <= s.cfg.AnswerPhase
}

// Expired reports whether the round has outlived its full duration and
// should be rotated.
func (s *RoundService) Expired(round *model.Round) bool {
	return round.Elapsed(s.now()) > s.cfg.RoundDuration
}

// StartNewRound resets the round slot in place around a freshly
// grounded question. Grounding is retried up to the configured bound,
// picking a new random template each attempt; running out of attempts
// fails the call with ErrGroundingExhausted.
func (s *RoundService) StartNewRound(ctx context.Context, round *model.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, err := s.groundFreshQuestion(ctx)
	if err != nil {
		return err
	}

	round.QuestionID = question.ID
	round.QuestionText = question.Text
	round.Players = []string{}
	round.Answers = []model.Answer{}
	round.StartedAt = s.now()
	round.Background = roundColors[rand.Intn(len(roundColors))]
	round.TimesPlayed++
	round.Dirty = false
	round.Status = nil
	round.Flags = nil
	if round.CreatedAt.IsZero() {
		round.CreatedAt = round.StartedAt
	}

	if err := s.persist(ctx, round); err != nil {
		return err
	}

	s.log.Info().
		Str("question", question.ID).
		Int("timesPlayed", round.TimesPlayed).
		Msg("round started")
	s.broadcast("round_started", s.summaryLocked(round))
	return nil
}

func (s *RoundService) groundFreshQuestion(ctx context.Context) (*model.Question, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.GroundingAttempts; attempt++ {
		template, err := s.grounder.RandomTemplate(ctx)
		if err != nil {
			return nil, err
		}
		question, err := s.grounder.Ground(ctx, template)
		if err == nil {
			return question, nil
		}
		lastErr = err
		s.log.Debug().Err(err).Str("template", template.ID).Msg("grounding attempt failed")
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrGroundingExhausted, s.cfg.GroundingAttempts, lastErr)
}

// AddPlayer joins the player to the round. Idempotent; joining is also
// implied by every status request.
func (s *RoundService) AddPlayer(ctx context.Context, round *model.Round, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPlayerLocked(ctx, round, name)
}

func (s *RoundService) addPlayerLocked(ctx context.Context, round *model.Round, name string) error {
	if round.HasPlayer(name) {
		return nil
	}
	round.Players = append(round.Players, name)
	if err := s.persist(ctx, round); err != nil {
		return err
	}
	s.broadcast("player_joined", map[string]string{"username": name})
	return nil
}

// SubmitAnswer records a player's answer and returns their fresh
// personalized status. Text is normalized; a resubmission of the same
// (player id, text) pair is a silent no-op.
func (s *RoundService) SubmitAnswer(ctx context.Context, round *model.Round, playerName, playerID, text string) (*model.PlayerStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	s.mu.Lock()
	defer s.mu.Unlock()

	if normalized != "" && !round.HasAnswer(playerID, normalized) {
		round.Answers = append(round.Answers, model.Answer{
			PlayerName: playerName,
			PlayerID:   playerID,
			Text:       normalized,
		})
		if !round.HasPlayer(playerName) {
			round.Players = append(round.Players, playerName)
		}
		round.Dirty = true
		if err := s.persist(ctx, round); err != nil {
			return nil, err
		}
		s.broadcast("answer_received", map[string]interface{}{
			"username": playerName,
			"answers":  len(round.Answers),
		})
	}

	return s.statusLocked(ctx, round, playerName)
}

// Status returns the round view personalized for one player. Requesting
// status counts as joining the round.
func (s *RoundService) Status(ctx context.Context, round *model.Round, playerName string) (*model.PlayerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(ctx, round, playerName)
}

func (s *RoundService) statusLocked(ctx context.Context, round *model.Round, playerName string) (*model.PlayerStatus, error) {
	if err := s.addPlayerLocked(ctx, round, playerName); err != nil {
		return nil, err
	}
	snapshot, err := s.refreshStatusLocked(ctx, round)
	if err != nil {
		return nil, err
	}
	return s.personalize(ctx, snapshot, playerName)
}

// refreshStatusLocked is the two-mode cache. In the scoring phase the
// expensive aggregation runs only when no final snapshot exists yet;
// outside it the cheap tally runs only when the round is dirty or has
// no snapshot at all. Everything else is a cache hit.
func (s *RoundService) refreshStatusLocked(ctx context.Context, round *model.Round) (*model.StatusSnapshot, error) {
	if s.InScoringPhase(round) {
		if round.Status.Final() {
			return round.Status, nil
		}
		snapshot, err := s.aggregator.CommitFinal(ctx, round)
		if err != nil {
			return nil, err
		}
		round.Status = snapshot
		round.Dirty = false
		if err := s.persist(ctx, round); err != nil {
			return nil, err
		}
		return snapshot, nil
	}

	if round.Dirty || round.Status == nil {
		round.Status = s.aggregator.ComputeLive(round)
		round.Dirty = false
		if err := s.persist(ctx, round); err != nil {
			return nil, err
		}
	}
	return round.Status, nil
}

// personalize filters the shared snapshot down to one player's view.
// The raw per-player answer index never leaves this method.
func (s *RoundService) personalize(ctx context.Context, snapshot *model.StatusSnapshot, playerName string) (*model.PlayerStatus, error) {
	own := snapshot.AnswersByPlayer[playerName]

	counts := make(map[string]int, len(own))
	for _, answer := range own {
		counts[answer] = snapshot.Counts[answer]
	}

	if !snapshot.Final() {
		return &model.PlayerStatus{Counts: counts}, nil
	}

	userScores := make(map[string]int, len(own))
	roundScore := 0
	for _, answer := range own {
		userScores[answer] = snapshot.Scores[answer]
		roundScore += snapshot.Scores[answer]
	}

	player, err := s.players.GetByUsername(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("player fetch failed: %w", err)
	}
	if player == nil {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerName)
	}

	return &model.PlayerStatus{
		Final:      true,
		Counts:     counts,
		UserScores: userScores,
		RoundScore: roundScore,
		TotalScore: player.Score,
	}, nil
}

// MatchesQuestion reports whether the caller's question key still
// refers to the round's current question. Rotation rewrites QuestionID
// under the same mutex, so the comparison must happen here rather than
// on a bare field read.
func (s *RoundService) MatchesQuestion(round *model.Round, questionKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return round.QuestionID == questionKey
}

// Flag records a "nonsensical question" report against the round.
// Flags are informational; they do not trigger rotation.
func (s *RoundService) Flag(ctx context.Context, round *model.Round, problemType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if round.Flags == nil {
		round.Flags = make(map[string]int)
	}
	round.Flags[problemType]++
	return s.persist(ctx, round)
}

// Summary returns the public shape of the round.
func (s *RoundService) Summary(round *model.Round) *model.RoundSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked(round)
}

func (s *RoundService) summaryLocked(round *model.Round) *model.RoundSummary {
	players := append([]string(nil), round.Players...)
	return &model.RoundSummary{
		Key:        round.QuestionID,
		Question:   round.QuestionText,
		Players:    players,
		GameStart:  round.StartedAt,
		ServerTime: s.now(),
		Background: round.Background,
	}
}

func (s *RoundService) persist(ctx context.Context, round *model.Round) error {
	if err := s.rounds.Upsert(ctx, round); err != nil {
		return fmt.Errorf("round persist failed: %w", err)
	}
	if err := s.roundCache.Set(ctx, round); err != nil {
		// The mirror is best effort; the store write already succeeded.
		s.log.Warn().Err(err).Msg("round cache refresh failed")
	}
	return nil
}

func (s *RoundService) broadcast(event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event, payload)
	}
}
