package repository

import (
	"context"
	"time"
)

// WebhookEventStore deduplicates gateway notifications under at-least-once
// delivery. Callers check Seen before reconciling and record the event with
// MarkProcessed only once handling has fully succeeded; an event whose
// handling failed must stay unrecorded so the gateway's redelivery is
// reprocessed, not swallowed. The conditional status transition makes a
// reprocessed event safe either way; this store just skips the work for
// events already settled.
type WebhookEventStore interface {
	// Seen reports whether the event key was recorded within the TTL window.
	Seen(ctx context.Context, key string) (bool, error)
	// MarkProcessed records the event key for the given window.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) error
}
