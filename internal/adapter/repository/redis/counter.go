// Package redis implements the sequence allocator on top of redis INCR.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "counter:"

// CounterRepository allocates sequence numbers from redis integer keys.
type CounterRepository struct {
	client *redis.Client
}

func NewCounterRepository(client *redis.Client) *CounterRepository {
	return &CounterRepository{client: client}
}

// NextSequence atomically increments the counter called name and returns the new value.
// A missing key is treated as zero by redis, so the first value is 1.
func (r *CounterRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	const op = "adapter.repository.redis.CounterRepository.NextSequence"

	seq, err := r.client.Incr(ctx, keyPrefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to increment counter %q: %w", op, name, err)
	}

	return seq, nil
}
