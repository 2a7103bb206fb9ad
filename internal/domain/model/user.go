package model

import (
	"time"

	"github.com/google/uuid"

	"cinemahub-billing/internal/domain"
)

// User is the account subset the billing core consumes. The full profile
// (favorites, avatar, role management) lives with the accounts service; here
// we only care about identity and the premium entitlement flag.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	IsHasPremium bool      `json:"is_has_premium"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(id, email, name string) (*User, error) {
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
