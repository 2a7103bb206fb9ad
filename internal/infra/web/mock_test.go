//go:build !integration

package web_test

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/adapter"
	"cinemahub-billing/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ===== Use case mocks =====

type MockCheckoutUC struct {
	CheckoutFunc func(ctx context.Context, userID string, amount decimal.Decimal) (*adapter.Payment, error)

	lastUserID string
	lastAmount decimal.Decimal
}

var _ usecase.CheckoutUseCase = (*MockCheckoutUC)(nil)

func (m *MockCheckoutUC) Checkout(ctx context.Context, userID string, amount decimal.Decimal) (*adapter.Payment, error) {
	m.lastUserID = userID
	m.lastAmount = amount
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, userID, amount)
	}
	return &adapter.Payment{
		ID:     "pay-1",
		Status: "pending",
		Amount: adapter.Amount{Value: amount.StringFixed(2), Currency: "RUB"},
		Confirmation: adapter.Confirmation{
			Type:            "redirect",
			ConfirmationURL: "https://gw.example/confirm/pay-1",
		},
	}, nil
}

type MockWebhookUC struct {
	HandleFunc func(ctx context.Context, event usecase.WebhookEvent) error

	handled []usecase.WebhookEvent
}

var _ usecase.WebhookUseCase = (*MockWebhookUC)(nil)

func (m *MockWebhookUC) Handle(ctx context.Context, event usecase.WebhookEvent) error {
	m.handled = append(m.handled, event)
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, event)
	}
	return nil
}

type MockOrderUC struct {
	ListFunc   func(ctx context.Context, offset, limit int) ([]*model.Order, int, error)
	DeleteFunc func(ctx context.Context, id string) (string, error)
}

var _ usecase.OrderUseCase = (*MockOrderUC)(nil)

func (m *MockOrderUC) List(ctx context.Context, offset, limit int) ([]*model.Order, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockOrderUC) Delete(ctx context.Context, id string) (string, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return "", domain.ErrNotFound
}
