//go:build !integration

package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/repository"
	"cinemahub-billing/internal/usecase"
)

// Full lifecycle against shared in-memory stores: checkout opens a PENDING
// order, the gateway's succeeded webhook settles it and grants premium, and a
// redelivery changes nothing.
func TestCheckoutToWebhookLifecycle(t *testing.T) {
	ctx := context.Background()

	orders := NewMockOrderRepo()
	users := NewMockUserRepo()
	events := NewMockEventStore()
	gateway := &MockGateway{}
	tm := NewMockTxManager()
	logger := newTestLogger()

	checkoutUC := usecase.NewCheckoutUseCase(orders, users, gateway, "https://cinemahub.example/thanks", logger)
	webhookUC := usecase.NewWebhookUseCase(orders, users, events, gateway, tm, logger)

	user := seedUser(t, users, false)

	// Checkout 9.99.
	pay, err := checkoutUC.Checkout(ctx, user.ID, decimal.RequireFromString("9.99"))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if pay.Confirmation.ConfirmationURL == "" {
		t.Fatal("no redirect URL returned")
	}
	list, total, _ := orders.List(ctx, repository.NoTX, 0, 10)
	if total != 1 || list[0].Status != model.OrderStatusPending {
		t.Fatalf("expected one PENDING order after checkout")
	}
	order := list[0]

	// Gateway delivers payment.succeeded carrying the checkout description.
	event := usecase.WebhookEvent{
		Event: usecase.EventSucceeded,
		Object: usecase.WebhookObject{
			ID:          pay.ID,
			Description: gateway.lastCreate.Description,
			Metadata:    gateway.lastCreate.Meta,
		},
	}
	if err := webhookUC.Handle(ctx, event); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	settled, _ := orders.FindByID(ctx, repository.NoTX, order.ID)
	if settled.Status != model.OrderStatusPayed {
		t.Errorf("order status = %s, want PAYED", settled.Status)
	}
	u, _ := users.FindByID(ctx, repository.NoTX, user.ID)
	if !u.IsHasPremium {
		t.Error("premium not granted")
	}

	// Identical redelivery: acknowledged, nothing changes.
	if err := webhookUC.Handle(ctx, event); err != nil {
		t.Fatalf("redelivery should ack: %v", err)
	}
	if calls := users.GrantCalls(); calls != 1 {
		t.Errorf("premium granted %d times, want 1", calls)
	}
	settled, _ = orders.FindByID(ctx, repository.NoTX, order.ID)
	if settled.Status != model.OrderStatusPayed {
		t.Errorf("order status after redelivery = %s, want PAYED", settled.Status)
	}
}
