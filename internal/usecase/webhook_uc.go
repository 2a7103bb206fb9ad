package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/adapter"
	"cinemahub-billing/internal/domain/ports/repository"
	"cinemahub-billing/internal/infra/metrics"
)

const (
	EventWaitingForCapture = "payment.waiting_for_capture"
	EventSucceeded         = "payment.succeeded"

	// How long a processed event key is remembered. Gateways redeliver within
	// minutes; the conditional transition covers anything older.
	dedupTTL = 24 * time.Hour
)

// WebhookEvent is the gateway notification shape.
type WebhookEvent struct {
	Event  string        `json:"event"`
	Object WebhookObject `json:"object"`
}

type WebhookObject struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

type WebhookUseCase interface {
	// Handle reconciles one gateway notification. It is idempotent under
	// redelivery: the PAYED transition and the premium grant run once, and a
	// repeat delivery acknowledges without touching state. A nil return means
	// the event should be acked with 200.
	Handle(ctx context.Context, event WebhookEvent) error
}

type webhookUC struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	events  repository.WebhookEventStore
	gateway adapter.PaymentGateway
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewWebhookUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	events repository.WebhookEventStore,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *webhookUC {
	l := logger.With().Str("component", "WebhookUC").Logger()
	return &webhookUC{orders: orders, users: users, events: events, gateway: gateway, tm: tm, log: &l}
}

func (u *webhookUC) Handle(ctx context.Context, event WebhookEvent) error {
	key := event.Event + ":" + event.Object.ID
	if event.Object.ID != "" {
		seen, err := u.events.Seen(ctx, key)
		if err != nil {
			// Dedup is an optimization; the conditional transition below is
			// the correctness guarantee. Fail open.
			u.log.Warn().Err(err).Msg("webhook dedup store unavailable")
		} else if seen {
			u.log.Info().Str("event", event.Event).Str("payment_id", event.Object.ID).Msg("duplicate webhook delivery skipped")
			metrics.IncWebhookEvent(event.Event, "duplicate")
			return nil
		}
	}

	var settled bool
	var err error
	switch event.Event {
	case EventWaitingForCapture:
		settled, err = u.handleWaitingForCapture(ctx, event.Object)
	case EventSucceeded:
		settled, err = u.handleSucceeded(ctx, event.Object)
	default:
		// Unrecognized events must not cause gateway retries.
		u.log.Debug().Str("event", event.Event).Msg("ignoring unrecognized webhook event")
		metrics.IncWebhookEvent(event.Event, "ignored")
		return nil
	}

	// The event is recorded only once handling actually finished. A failed
	// event stays unrecorded so the gateway's redelivery reprocesses it
	// instead of acking as a duplicate.
	if err == nil && settled && event.Object.ID != "" {
		if markErr := u.events.MarkProcessed(ctx, key, dedupTTL); markErr != nil {
			u.log.Warn().Err(markErr).Msg("webhook dedup store unavailable")
		}
	}
	return err
}

// handleWaitingForCapture reports whether the event is settled and may be
// remembered by the dedup store.
func (u *webhookUC) handleWaitingForCapture(ctx context.Context, obj WebhookObject) (bool, error) {
	if _, err := u.gateway.CapturePayment(ctx, obj.ID); err != nil {
		// Still acked, but not settled: the gateway re-raises
		// waiting_for_capture on its own schedule, and that re-raise must run
		// the capture again rather than dedup away.
		u.log.Error().Err(err).Str("payment_id", obj.ID).Msg("capture failed")
		metrics.IncWebhookEvent(EventWaitingForCapture, "capture_failed")
		return false, nil
	}
	u.log.Info().Str("payment_id", obj.ID).Msg("payment captured")
	metrics.IncWebhookEvent(EventWaitingForCapture, "captured")
	return true, nil
}

// handleSucceeded reports whether the event is settled and may be remembered
// by the dedup store. Deterministic rejections (malformed correlation,
// unknown order, ownership mismatch) count as settled: a redelivery of the
// same payload cannot turn into anything else.
func (u *webhookUC) handleSucceeded(ctx context.Context, obj WebhookObject) (bool, error) {
	orderID, userID, err := correlationFromEvent(obj)
	if err != nil {
		u.log.Error().Err(err).Str("payment_id", obj.ID).Str("description", obj.Description).Msg("webhook correlation rejected")
		metrics.IncWebhookEvent(EventSucceeded, "malformed")
		return true, nil
	}

	var (
		applied bool
		amount  float64
	)
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		order, err := u.orders.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		amount, _ = order.Amount.Float64()
		if order.UserID != userID {
			return fmt.Errorf("order %s is not owned by user %s: %w", orderID, userID, domain.ErrInvalidArgument)
		}
		applied, err = u.orders.MarkPayedIfPending(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !applied {
			// Already PAYED (redelivery) or EXPIRED; leave it alone.
			return nil
		}
		return u.users.GrantPremium(ctx, tx, userID)
	})
	switch {
	case txErr == nil && applied:
		u.log.Info().Str("order_id", orderID).Str("user_id", userID).Msg("order payed, premium granted")
		metrics.IncOrder(string(model.OrderStatusPayed))
		metrics.AddRevenue("RUB", amount)
		metrics.IncWebhookEvent(EventSucceeded, "applied")
		return true, nil
	case txErr == nil:
		u.log.Info().Str("order_id", orderID).Msg("order already settled, nothing to do")
		metrics.IncWebhookEvent(EventSucceeded, "already_settled")
		return true, nil
	case errors.Is(txErr, domain.ErrNotFound):
		// The correlation ids come from an external payload; an unknown order
		// is logged and acked so the gateway does not retry forever.
		u.log.Error().Str("order_id", orderID).Str("payment_id", obj.ID).Msg("webhook references unknown order")
		metrics.IncWebhookEvent(EventSucceeded, "order_not_found")
		return true, nil
	case errors.Is(txErr, domain.ErrInvalidArgument):
		u.log.Error().Err(txErr).Str("payment_id", obj.ID).Msg("webhook correlation rejected")
		metrics.IncWebhookEvent(EventSucceeded, "malformed")
		return true, nil
	default:
		// Storage fault: nothing was committed and nothing is recorded in the
		// dedup store, so a gateway retry is exactly what we want.
		metrics.IncWebhookEvent(EventSucceeded, "error")
		return false, txErr
	}
}
