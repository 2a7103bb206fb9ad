package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cinemahub-billing/internal/domain/ports/repository"
)

var _ repository.WebhookEventStore = (*WebhookDedup)(nil)

// WebhookDedup remembers fully processed gateway events so redeliveries can
// be acknowledged without rerunning the reconciliation. Keys are written only
// after handling succeeds; a failed event leaves no key behind, so the
// gateway's retry runs the reconciliation again.
type WebhookDedup struct {
	client RedisClient
}

func NewWebhookDedup(client RedisClient) *WebhookDedup {
	return &WebhookDedup{client: client}
}

func (d *WebhookDedup) Seen(ctx context.Context, key string) (bool, error) {
	_, err := d.client.Get(ctx, dedupKey(key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *WebhookDedup) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	_, err := d.client.SetNX(ctx, dedupKey(key), 1, ttl)
	return err
}

func dedupKey(key string) string {
	return fmt.Sprintf("webhook:seen:%s", key)
}
