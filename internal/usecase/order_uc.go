package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderUseCase is the admin read/delete surface over the order ledger.
type OrderUseCase interface {
	List(ctx context.Context, offset, limit int) ([]*model.Order, int, error)
	// Delete removes an order regardless of its status; the only failure mode
	// is an unknown id.
	Delete(ctx context.Context, id string) (string, error)
}

type orderUC struct {
	orders repository.OrderRepository
	log    *zerolog.Logger
}

func NewOrderUseCase(orders repository.OrderRepository, logger *zerolog.Logger) *orderUC {
	l := logger.With().Str("component", "OrderUC").Logger()
	return &orderUC{orders: orders, log: &l}
}

func (u *orderUC) List(ctx context.Context, offset, limit int) ([]*model.Order, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.orders.List(ctx, repository.NoTX, offset, limit)
}

func (u *orderUC) Delete(ctx context.Context, id string) (string, error) {
	if err := u.orders.Delete(ctx, repository.NoTX, id); err != nil {
		return "", err
	}
	u.log.Info().Str("order_id", id).Msg("order deleted")
	return id, nil
}
