package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

// RedisAllocator backs counters with Redis INCR, for installations that keep
// the ledger in PostgreSQL but want allocation off the database's hot path.
// INCR is atomic per key, so the uniqueness and ordering guarantees hold
// across processes. Redis must run with persistence enabled; losing counter
// state would re-issue numbers.
type RedisAllocator struct {
	client *redis.Client
	floors Floors
}

// NewRedis constructs a Redis-backed allocator.
func NewRedis(client *redis.Client, floors Floors) *RedisAllocator {
	return &RedisAllocator{client: client, floors: floors}
}

// Next seeds the key at floor-1 if absent, then increments. Both steps are
// individually atomic and the seed uses SETNX, so concurrent first callers
// cannot double-seed.
func (a *RedisAllocator) Next(ctx context.Context, kind Kind, category models.Category, period models.Period) (int64, error) {
	key := fmt.Sprintf("protokollo:seq:%s:%s:%s", kind, category, period)
	floor := a.floors.For(kind, category)

	if err := a.client.SetNX(ctx, key, floor-1, 0).Err(); err != nil {
		return 0, fmt.Errorf("seed counter %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	allocated, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return allocated, nil
}
