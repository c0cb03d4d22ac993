package sequences

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// CounterStore is the subset of the redis client used for counters.
type CounterStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	Raise(ctx context.Context, key string, floor int64) (int64, error)
	CounterKey(name string) string
}

// RedisAllocator keeps counters in redis. Values are not returned on rollback, so a
// failed insert leaves a gap in the numbering.
type RedisAllocator struct {
	store  CounterStore
	seeded sync.Map
}

func NewRedisAllocator(store CounterStore) (*RedisAllocator, error) {
	if store == nil {
		return nil, errors.New("sequences: counter store required")
	}
	return &RedisAllocator{store: store}, nil
}

func (a *RedisAllocator) Next(ctx context.Context, tx *gorm.DB, name string, seed SeedFunc) (int64, error) {
	key, err := a.seed(ctx, tx, name, seed)
	if err != nil {
		return 0, err
	}
	n, err := a.store.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("incr %s counter: %w", name, err)
	}
	return n, nil
}

func (a *RedisAllocator) AdvanceTo(ctx context.Context, tx *gorm.DB, name string, floor int64, seed SeedFunc) error {
	key, err := a.seed(ctx, tx, name, seed)
	if err != nil {
		return err
	}
	if _, err := a.store.Raise(ctx, key, floor); err != nil {
		return fmt.Errorf("raise %s counter: %w", name, err)
	}
	return nil
}

func (a *RedisAllocator) seed(ctx context.Context, tx *gorm.DB, name string, seed SeedFunc) (string, error) {
	key := a.store.CounterKey(name)
	if _, done := a.seeded.Load(key); done {
		return key, nil
	}
	start := int64(0)
	if seed != nil && tx != nil {
		var err error
		if start, err = seed(ctx, tx); err != nil {
			return "", fmt.Errorf("seed %s sequence: %w", name, err)
		}
	}
	if _, err := a.store.SetNX(ctx, key, start, 0); err != nil {
		return "", fmt.Errorf("seed %s counter: %w", name, err)
	}
	a.seeded.Store(key, struct{}{})
	return key, nil
}
