package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING" // created locally; awaiting gateway webhook
	OrderStatusPayed   OrderStatus = "PAYED"   // gateway reported payment.succeeded
	OrderStatusExpired OrderStatus = "EXPIRED" // swept after sitting in PENDING past the TTL
)

// Order records one subscription purchase attempt. The only writers after
// creation are the webhook reconciler (PENDING -> PAYED) and the expiry
// sweeper (PENDING -> EXPIRED); both transitions are conditional on the row
// still being PENDING.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewOrder validates the amount and returns a PENDING order owned by userID.
// Amounts are settled in whole kopecks, so more than two decimal places is a
// caller error rather than something to round away.
func NewOrder(userID string, amount decimal.Decimal) (*Order, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidArgument
	}
	if amount.Exponent() < -2 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (o *Order) IsZero() bool { return o == nil || o.ID == "" }
