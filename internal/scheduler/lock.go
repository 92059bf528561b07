package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nischalsh/todo-service/pkg/database"
)

const lockKey = "reaper:tick-lock"

// TickLock guards a reaper tick so concurrent instances don't double-apply
// the same pass. Losing the race is not an error; the losing instance skips.
type TickLock interface {
	TryLock(ctx context.Context, ttl time.Duration) (bool, error)
}

// RedisTickLock implements TickLock with a SET NX key that expires on its
// own, so a crashed holder never wedges the schedule.
type RedisTickLock struct {
	redis      *database.Redis
	instanceID string
}

// NewRedisTickLock creates a lock bound to this process instance.
func NewRedisTickLock(redis *database.Redis) *RedisTickLock {
	return &RedisTickLock{
		redis:      redis,
		instanceID: uuid.New().String(),
	}
}

// TryLock attempts to take the tick lock without blocking.
func (l *RedisTickLock) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.redis.Client.SetNX(ctx, lockKey, l.instanceID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire tick lock: %w", err)
	}
	return ok, nil
}
