package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"mindmeld/internal/model"
	"mindmeld/internal/repository"
)

// SingletonRoundID is the well-known id of the one shared round slot.
const SingletonRoundID = "singleton"

// Registry owns the globally shared current round: lazy creation at the
// well-known key and expiry-triggered rotation, always against the
// store-backed record. All creation and rotation is collapsed through a singleflight
// group so concurrent callers racing past an expired round produce
// exactly one rotation and all observe the winner's result.
type Registry struct {
	rounds   repository.RoundRepo
	roundSvc *RoundService
	log      zerolog.Logger

	sf  singleflight.Group
	now func() time.Time

	// current is the canonical in-memory round instance once loaded.
	// It is written and read only inside sf.Do callbacks; any new
	// accessor must go through the singleflight group too.
	current *model.Round
}

// NewRegistry creates a new round registry.
func NewRegistry(rounds repository.RoundRepo, roundSvc *RoundService, log zerolog.Logger) *Registry {
	return &Registry{
		rounds:   rounds,
		roundSvc: roundSvc,
		log:      log,
		now:      time.Now,
	}
}

// CurrentRound returns the current round, creating it on first access
// and rotating it in place when it has outlived the round duration.
func (r *Registry) CurrentRound(ctx context.Context) (*model.Round, error) {
	result, err, _ := r.sf.Do("current", func() (interface{}, error) {
		return r.resolve(ctx, false)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Round), nil
}

// CreateRound forces a fresh grounding on the round slot, bypassing the
// expiry check. Administrative path.
func (r *Registry) CreateRound(ctx context.Context) (*model.Round, error) {
	result, err, _ := r.sf.Do("current", func() (interface{}, error) {
		return r.resolve(ctx, true)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Round), nil
}

func (r *Registry) resolve(ctx context.Context, force bool) (*model.Round, error) {
	round, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case round == nil:
		r.log.Info().Msg("creating round slot")
		round = &model.Round{ID: SingletonRoundID, CreatedAt: r.now()}
		if err := r.roundSvc.StartNewRound(ctx, round); err != nil {
			return nil, err
		}
	case force:
		r.log.Info().Msg("forcing new round")
		if err := r.roundSvc.StartNewRound(ctx, round); err != nil {
			return nil, err
		}
	case r.roundSvc.Expired(round):
		r.log.Info().Int("timesPlayed", round.TimesPlayed).Msg("round expired, rotating")
		if err := r.roundSvc.StartNewRound(ctx, round); err != nil {
			return nil, err
		}
	}

	r.current = round
	return round, nil
}

// load returns the canonical round instance. The store is the
// authority: the redis mirror lags whenever a Set fails, so trusting it
// here could adopt a pre-final copy and re-run the scoring aggregation.
// After the first load the in-memory instance stays canonical for the
// process lifetime.
func (r *Registry) load(ctx context.Context) (*model.Round, error) {
	if r.current != nil {
		return r.current, nil
	}

	round, err := r.rounds.Get(ctx, SingletonRoundID)
	if err != nil {
		return nil, fmt.Errorf("round fetch failed: %w", err)
	}
	return round, nil
}
