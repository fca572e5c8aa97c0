package sched

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"activation-service/internal/infra/metrics"
	"activation-service/internal/usecase"
)

// PoolStatter is satisfied by *pgxpool.Pool.
type PoolStatter interface {
	Stat() *pgxpool.Stat
}

// StatsWorker periodically publishes the active-subscription count and
// connection pool usage as gauges.
type StatsWorker struct {
	interval time.Duration
	subUC    usecase.SubscriptionUseCase
	pool     PoolStatter
	log      *zerolog.Logger
}

func NewStatsWorker(interval time.Duration, subUC usecase.SubscriptionUseCase, pool PoolStatter, logger *zerolog.Logger) *StatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	l := logger.With().Str("component", "StatsWorker").Logger()
	return &StatsWorker{
		interval: interval,
		subUC:    subUC,
		pool:     pool,
		log:      &l,
	}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	n, err := w.subUC.CountActive(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("count active subscriptions")
	} else {
		metrics.SetSubscriptionsActive(n)
	}
	if w.pool != nil {
		metrics.SetDBPoolStats(w.pool.Stat())
	}
}
