package repository

import (
	"context"
	"time"

	"cinemahub-billing/internal/domain/model"
)

// OrderRepository is the durable ledger of payment intents.
type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	// List returns orders sorted by creation time descending, plus the total
	// row count for pagination metadata.
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Order, int, error)
	// Delete removes an order unconditionally. Returns domain.ErrNotFound if
	// the id does not exist.
	Delete(ctx context.Context, tx Tx, id string) error
	// MarkPayedIfPending transitions the order to PAYED only when it is still
	// PENDING. Reports whether the transition was applied, which is how
	// webhook redelivery collapses to a no-op.
	MarkPayedIfPending(ctx context.Context, tx Tx, id string) (bool, error)
	// ExpirePendingOlderThan transitions PENDING orders created before the
	// cutoff to EXPIRED and returns how many rows were affected.
	ExpirePendingOlderThan(ctx context.Context, tx Tx, cutoff time.Time) (int, error)
}
