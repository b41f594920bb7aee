package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

// CounterRepository stores per-tag sequences. Increments are a single upsert so
// concurrent callers on any instance serialise on the row.
type CounterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next increments the sequence for tag, creating it at 1, and returns the new value.
func (r *CounterRepository) Next(ctx context.Context, exec sqlx.ExtContext, tag models.SaleType) (int64, error) {
	const query = `INSERT INTO counters (id, sequence) VALUES ($1, 1)
		ON CONFLICT (id) DO UPDATE SET sequence = counters.sequence + 1
		RETURNING sequence`
	var seq int64
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &seq, query, tag); err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", tag, err)
	}
	return seq, nil
}

// Current returns the stored sequence for tag, initialising an absent counter to 0.
func (r *CounterRepository) Current(ctx context.Context, tag models.SaleType) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO counters (id, sequence) VALUES ($1, 0) ON CONFLICT (id) DO NOTHING`, tag); err != nil {
		return 0, fmt.Errorf("init counter %s: %w", tag, err)
	}
	var seq int64
	if err := r.db.GetContext(ctx, &seq, `SELECT sequence FROM counters WHERE id = $1`, tag); err != nil {
		return 0, fmt.Errorf("read counter %s: %w", tag, err)
	}
	return seq, nil
}
