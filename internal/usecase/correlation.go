package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cinemahub-billing/internal/domain"
)

// The gateway shows the description to the customer, and historically it was
// also the only link between the provider payment and the local order: the
// reconciler recovers both ids by splitting the string. Newer payments carry
// the ids in provider metadata as well (see metaOrderID/metaUserID), but the
// textual format must stay in lock-step with ParseDescription for events
// created by older writers.
const (
	descriptionFormat    = "Покупка подписки на Cinemahub. Id платежа #%s, Id пользователя #%s"
	descriptionDelimiter = ", "
	descriptionMarker    = "#"

	metaOrderID = "order_id"
	metaUserID  = "user_id"
)

// BuildDescription embeds the order and user ids in the human-readable
// payment description.
func BuildDescription(orderID, userID string) string {
	return fmt.Sprintf(descriptionFormat, orderID, userID)
}

// BuildMetadata carries the same correlation ids through the gateway's opaque
// metadata field, which survives round-trips untouched.
func BuildMetadata(orderID, userID string) map[string]string {
	return map[string]string{metaOrderID: orderID, metaUserID: userID}
}

// ParseDescription recovers (orderID, userID) from a description produced by
// BuildDescription. The recovered segments must be well-formed UUIDs: the
// string arrives inside an externally supplied payload, so anything that does
// not parse cleanly is rejected rather than forwarded to the ledger.
func ParseDescription(description string) (orderID, userID string, err error) {
	parts := strings.Split(description, descriptionDelimiter)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("description has %d segments, want 2: %w", len(parts), domain.ErrInvalidArgument)
	}
	orderID, err = extractID(parts[0])
	if err != nil {
		return "", "", err
	}
	userID, err = extractID(parts[1])
	if err != nil {
		return "", "", err
	}
	return orderID, userID, nil
}

func extractID(segment string) (string, error) {
	_, id, found := strings.Cut(segment, descriptionMarker)
	if !found {
		return "", fmt.Errorf("segment %q has no id marker: %w", segment, domain.ErrInvalidArgument)
	}
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return "", fmt.Errorf("segment id %q is not a UUID: %w", id, domain.ErrInvalidArgument)
	}
	return id, nil
}

// correlationFromEvent resolves (orderID, userID) for a succeeded payment,
// preferring the structured metadata and falling back to the description.
func correlationFromEvent(obj WebhookObject) (string, string, error) {
	orderID, userID := obj.Metadata[metaOrderID], obj.Metadata[metaUserID]
	if orderID != "" && userID != "" {
		if _, err := uuid.Parse(orderID); err != nil {
			return "", "", fmt.Errorf("metadata order_id %q is not a UUID: %w", orderID, domain.ErrInvalidArgument)
		}
		if _, err := uuid.Parse(userID); err != nil {
			return "", "", fmt.Errorf("metadata user_id %q is not a UUID: %w", userID, domain.ErrInvalidArgument)
		}
		return orderID, userID, nil
	}
	return ParseDescription(obj.Description)
}
