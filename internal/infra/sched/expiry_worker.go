package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"cinemahub-billing/internal/domain/ports/repository"
	"cinemahub-billing/internal/infra/metrics"
)

// ExpiryWorker periodically reclaims orders stuck in PENDING: a gateway call
// that failed after the ledger write, or a webhook that never arrived, leaves
// an intent nobody will ever finish. The sweep moves them to the terminal
// EXPIRED state so they stop looking like live checkouts.
type ExpiryWorker struct {
	orders     repository.OrderRepository
	interval   time.Duration
	pendingTTL time.Duration
	log        *zerolog.Logger
}

func NewExpiryWorker(orders repository.OrderRepository, interval, pendingTTL time.Duration, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if pendingTTL <= 0 {
		pendingTTL = 24 * time.Hour
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{orders: orders, interval: interval, pendingTTL: pendingTTL, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("pending_ttl", w.pendingTTL).Msg("starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ExpiryWorker) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.pendingTTL)
	n, err := w.orders.ExpirePendingOlderThan(ctx, repository.NoTX, cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if n > 0 {
		metrics.AddOrdersExpired(n)
		w.log.Info().Int("count", n).Msg("pending orders expired")
	}
}
