package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// UpdateLock serializes state updates per session. Messages for the same
// session must be applied one at a time; concurrent callers get ErrLocked
// instead of waiting.
type UpdateLock interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type updateLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUpdateLock(client *redis.Client) UpdateLock {
	return &updateLock{
		client: client,
		ttl:    15 * time.Second, // stale locks expire on their own
	}
}

func (l *updateLock) Acquire(ctx context.Context, sessionID string) (bool, error) {
	return l.client.SetNX(ctx, "lock:session:"+sessionID, "1", l.ttl).Result()
}

func (l *updateLock) Release(ctx context.Context, sessionID string) error {
	return l.client.Del(ctx, "lock:session:"+sessionID).Err()
}
