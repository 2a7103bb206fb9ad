package repository

import (
	"context"

	"cinemahub-billing/internal/domain/model"
)

// UserRepository is the billing-side view of the accounts store.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// GrantPremium flips the entitlement flag. Granting an already-premium
	// user is a no-op, never an error.
	GrantPremium(ctx context.Context, tx Tx, id string) error
}
