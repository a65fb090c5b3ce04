package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoomTracker marks room liveness in Redis so other instances (and ops
// tooling) can see which games are active. Writes are best-effort; the
// in-process registry stays the source of truth for routing.
type RoomTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomTracker(client *redis.Client, ttl time.Duration) *RoomTracker {
	return &RoomTracker{client: client, ttl: ttl}
}

func (t *RoomTracker) MarkActive(ctx context.Context, gameID string) {
	_ = t.client.Set(ctx, t.key(gameID), "1", t.ttl).Err()
}

func (t *RoomTracker) Clear(ctx context.Context, gameID string) {
	_ = t.client.Del(ctx, t.key(gameID)).Err()
}

func (t *RoomTracker) key(gameID string) string {
	return "game:session:" + gameID
}
