//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/repository"
	"cinemahub-billing/internal/usecase"
)

func TestOrderDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting an unknown id fails with NotFound", func(t *testing.T) {
		orders := NewMockOrderRepo()
		uc := usecase.NewOrderUseCase(orders, newTestLogger())

		_, err := uc.Delete(ctx, "missing")

		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deleting an existing order removes it", func(t *testing.T) {
		orders := NewMockOrderRepo()
		o, _ := model.NewOrder("user-1", decimal.RequireFromString("9.99"))
		// Delete is administrative and unconditional: a settled order goes too.
		o.Status = model.OrderStatusPayed
		if err := orders.Save(ctx, repository.NoTX, o); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewOrderUseCase(orders, newTestLogger())

		id, err := uc.Delete(ctx, o.ID)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != o.ID {
			t.Errorf("returned id = %s, want %s", id, o.ID)
		}
		if _, err := orders.FindByID(ctx, repository.NoTX, o.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("order still present after delete: %v", err)
		}
	})
}

func TestOrderListDefaults(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepo()
	uc := usecase.NewOrderUseCase(orders, newTestLogger())

	// Negative offset and zero limit must be normalized, not passed through.
	if _, _, err := uc.List(ctx, -3, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
