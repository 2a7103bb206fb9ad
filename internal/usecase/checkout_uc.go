package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/adapter"
	"cinemahub-billing/internal/domain/ports/repository"
	"cinemahub-billing/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Checkout writes a PENDING order and opens a hosted-checkout payment at
	// the gateway, returning the provider confirmation payload for the caller
	// to redirect with. Completion is asynchronous; see WebhookUseCase.
	Checkout(ctx context.Context, userID string, amount decimal.Decimal) (*adapter.Payment, error)
}

type checkoutUC struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	gateway   adapter.PaymentGateway
	returnURL string
	log       *zerolog.Logger
}

func NewCheckoutUseCase(orders repository.OrderRepository, users repository.UserRepository, gateway adapter.PaymentGateway, returnURL string, logger *zerolog.Logger) *checkoutUC {
	l := logger.With().Str("component", "CheckoutUC").Logger()
	return &checkoutUC{orders: orders, users: users, gateway: gateway, returnURL: returnURL, log: &l}
}

func (u *checkoutUC) Checkout(ctx context.Context, userID string, amount decimal.Decimal) (*adapter.Payment, error) {
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if user.IsHasPremium {
		return nil, domain.ErrAlreadyPremium
	}

	order, err := model.NewOrder(user.ID, amount)
	if err != nil {
		return nil, err
	}

	// The order must be durable before the gateway learns about it, so a
	// webhook can always find a correlating row even if we crash right after
	// the create call.
	if err := u.orders.Save(ctx, repository.NoTX, order); err != nil {
		return nil, fmt.Errorf("save pending order: %w", err)
	}
	metrics.IncOrder(string(model.OrderStatusPending))

	description := BuildDescription(order.ID, order.UserID)
	payment, err := u.gateway.CreatePayment(ctx, order.Amount, description, u.returnURL, BuildMetadata(order.ID, order.UserID))
	if err != nil {
		// The pending row stays behind; the expiry sweeper reclaims it.
		u.log.Error().Err(err).Str("order_id", order.ID).Msg("gateway create payment failed")
		if errors.Is(err, domain.ErrGateway) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	u.log.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Str("payment_id", payment.ID).
		Str("amount", order.Amount.StringFixed(2)).
		Msg("checkout initiated")
	return payment, nil
}
