package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CounterRepository allocates sequence numbers from the counters table.
type CounterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// NextSequence increments the counter called name, creating it at zero first if needed,
// and returns the incremented value. The upsert runs as one statement, so concurrent
// callers never observe the same value.
func (r *CounterRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	const op = "adapter.repository.postgres.CounterRepository.NextSequence"
	const query = `INSERT INTO counters(name, seq) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq`

	var seq int64

	if err := r.db.GetContext(ctx, &seq, query, name); err != nil {
		return 0, fmt.Errorf("%s: failed to increment counter %q: %w", op, name, err)
	}

	return seq, nil
}
