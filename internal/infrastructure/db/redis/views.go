package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewTTL = time.Hour

// ViewDedup suppresses repeat view counting backed by Redis.
// Key format: view:<post_id>:<viewer_key>
type ViewDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewDedup creates a ViewDedup wrapping the given Redis client.
// If ttl <= 0, a one hour window is used.
func NewViewDedup(client *redis.Client, ttl time.Duration) *ViewDedup {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	return &ViewDedup{client: client, ttl: ttl}
}

// IsDuplicate reports whether this viewer already counted a view for the
// post inside the TTL window.
func (d *ViewDedup) IsDuplicate(ctx context.Context, postID, viewerKey string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(postID, viewerKey)).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the viewer's view was counted (expires after the TTL).
func (d *ViewDedup) Mark(ctx context.Context, postID, viewerKey string) error {
	return d.client.Set(ctx, d.key(postID, viewerKey), "1", d.ttl).Err()
}

func (d *ViewDedup) key(postID, viewerKey string) string {
	return fmt.Sprintf("view:%s:%s", postID, viewerKey)
}
