package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/observability"
	"go.uber.org/zap"
)

type Option func(*Resolver)

// WithStrictBackfill makes a failed write-back fail the whole lookup.
func WithStrictBackfill() Option {
	return func(r *Resolver) { r.strictBackfill = true }
}

// Resolver walks the chain in order and returns the first hit.
type Resolver struct {
	chain          *Chain
	logger         *zap.Logger
	metrics        observability.Metrics
	strictBackfill bool
}

func NewResolver(chain *Chain, logger *zap.Logger, metrics observability.Metrics, opts ...Option) *Resolver {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	r := &Resolver{
		chain:   chain,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Chain() *Chain { return r.chain }

func (r *Resolver) Resolve(ctx context.Context, id int64) (domain.User, error) {
	u, _, err := r.ResolveWithStats(ctx, id)
	return u, err
}

func (r *Resolver) ResolveWithStats(ctx context.Context, id int64) (domain.User, LookupStats, error) {
	var st LookupStats

	sources := r.chain.Snapshot()
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return domain.User{}, st, err
		}

		t0 := time.Now()
		user, ok, err := src.Fetch(ctx, id)
		ms := convertToMs(t0)
		st.Attempts = append(st.Attempts, Attempt{Source: src.Name(), Ms: ms, Hit: ok && err == nil})

		if err != nil {
			r.logger.Error("Source failed",
				zap.String("source", src.Name()),
				zap.Int64("user_id", id),
				zap.Error(err),
			)
			return domain.User{}, st, &domain.SourceError{Source: src.Name(), Err: err}
		}
		r.metrics.ObserveLookup(src.Name(), ms, ok)
		if !ok {
			continue
		}

		st.Source = src.Name()
		if err := r.backfill(ctx, sources[:i], user, &st); err != nil {
			return domain.User{}, st, err
		}

		r.logger.Info("User resolved",
			zap.Int64("user_id", id),
			zap.String("source", st.Source),
			zap.Strings("backfilled", st.Backfilled),
		)
		return user, st, nil
	}

	r.logger.Info("User not found", zap.Int64("user_id", id), zap.Int("sources", len(sources)))
	return domain.User{}, st, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
}

// backfill writes user into the writable sources that missed, nearest to
// the origin first.
func (r *Resolver) backfill(ctx context.Context, missed []Source, user domain.User, st *LookupStats) error {
	t0 := time.Now()
	defer func() { st.BackfillMs = convertToMs(t0) }()

	for i := len(missed) - 1; i >= 0; i-- {
		w, ok := missed[i].(Writer)
		if !ok {
			continue
		}
		if err := w.Store(ctx, user); err != nil {
			r.metrics.ObserveBackfill(missed[i].Name(), false)
			r.logger.Warn("Error while backfilling user",
				zap.String("source", missed[i].Name()),
				zap.Int64("user_id", user.ID()),
				zap.Error(err),
			)
			if r.strictBackfill {
				return &domain.SourceError{Source: missed[i].Name(), Err: err}
			}
			continue
		}
		r.metrics.ObserveBackfill(missed[i].Name(), true)
		st.Backfilled = append(st.Backfilled, missed[i].Name())
	}
	return nil
}
