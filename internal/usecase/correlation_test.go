//go:build !integration

package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/usecase"
)

func TestDescriptionRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		orderID, userID := uuid.NewString(), uuid.NewString()

		desc := usecase.BuildDescription(orderID, userID)
		gotOrder, gotUser, err := usecase.ParseDescription(desc)

		if err != nil {
			t.Fatalf("parse %q: %v", desc, err)
		}
		if gotOrder != orderID || gotUser != userID {
			t.Fatalf("round-trip mismatch: got (%s,%s), want (%s,%s)", gotOrder, gotUser, orderID, userID)
		}
	}
}

func TestDescriptionFormat(t *testing.T) {
	// The textual contract with the reconciler: the customer-visible sentence
	// plus both ids behind their markers.
	desc := usecase.BuildDescription("a", "b")
	if !strings.HasPrefix(desc, "Покупка подписки на Cinemahub.") {
		t.Errorf("unexpected description prefix: %q", desc)
	}
	if !strings.Contains(desc, "Id платежа #a") || !strings.Contains(desc, "Id пользователя #b") {
		t.Errorf("description missing id segments: %q", desc)
	}
}

func TestParseDescriptionRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"just some text",
		"a, b, c",
		"Id платежа no-marker, Id пользователя #" + uuid.NewString(),
		"Id платежа #zzz, Id пользователя #" + uuid.NewString(),
		"Id платежа #" + uuid.NewString() + ", Id пользователя #",
	}
	for _, c := range cases {
		if _, _, err := usecase.ParseDescription(c); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("ParseDescription(%q) = %v, want ErrInvalidArgument", c, err)
		}
	}
}
