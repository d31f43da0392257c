package history

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const schema = `
CREATE TABLE IF NOT EXISTS prediction_passes (
	pass_id            TEXT PRIMARY KEY,
	created_at         TIMESTAMPTZ NOT NULL,
	zone               TEXT NOT NULL,
	chloride           DOUBLE PRECISION NOT NULL,
	temperature        DOUBLE PRECISION NOT NULL,
	water_binder_ratio DOUBLE PRECISION NOT NULL,
	batch_volume       DOUBLE PRECISION NOT NULL,
	sample_count       INTEGER NOT NULL,
	truncated          BOOLEAN NOT NULL,
	samples            JSONB NOT NULL
)`

const insertPass = `
INSERT INTO prediction_passes (
	pass_id, created_at, zone, chloride, temperature,
	water_binder_ratio, batch_volume, sample_count, truncated, samples
) VALUES (
	:pass_id, :created_at, :zone, :chloride, :temperature,
	:water_binder_ratio, :batch_volume, :sample_count, :truncated, :samples
)`

const selectRecent = `
SELECT pass_id, created_at, zone, chloride, temperature,
       water_binder_ratio, batch_volume, sample_count, truncated, samples
FROM prediction_passes
ORDER BY created_at DESC
LIMIT $1`

// PostgresRecorder persists pass records via sqlx.
type PostgresRecorder struct {
	db *sqlx.DB
}

// NewPostgresRecorder connects, pings, and bootstraps the schema.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", ErrOpen, err)
	}
	return &PostgresRecorder{db: db}, nil
}

// Record inserts one pass.
func (p *PostgresRecorder) Record(ctx context.Context, rec Record) error {
	if _, err := p.db.NamedExecContext(ctx, insertPass, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrRecord, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (p *PostgresRecorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	var out []Record
	if err := p.db.SelectContext(ctx, &out, selectRecent, limit); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return out, nil
}

// Close releases the connection pool.
func (p *PostgresRecorder) Close() error {
	return p.db.Close()
}
