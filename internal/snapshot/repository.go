package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/database"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// Snapshot is one persisted scoring pass over a basket.
type Snapshot struct {
	ID         int64                 `json:"id"`
	Basket     string                `json:"basket"`
	Window     string                `json:"window"`
	ComputedAt time.Time             `json:"computed_at"`
	Rows       []contracts.ScoredRow `json:"rows"`
}

// Repository persists scoring passes. Rows are stored as JSONB: the
// scored table is a display artifact, never a query target, so no
// per-column schema is warranted.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a snapshot repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

const schema = `
CREATE TABLE IF NOT EXISTS score_snapshots (
	id          BIGSERIAL PRIMARY KEY,
	basket      TEXT        NOT NULL,
	window_name TEXT        NOT NULL,
	computed_at TIMESTAMPTZ NOT NULL,
	rows        JSONB       NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_score_snapshots_basket
	ON score_snapshots (basket, computed_at DESC);
`

// EnsureSchema creates the snapshot table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot schema failed: %w", err)
	}
	return nil
}

// Save persists one scoring pass.
func (r *Repository) Save(ctx context.Context, basket string, window contracts.Window, computedAt time.Time, rows []contracts.ScoredRow) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO score_snapshots (basket, window_name, computed_at, rows)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		basket, string(window), computedAt, rows,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot failed: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"id":     id,
		"basket": basket,
		"rows":   len(rows),
	}).Debug("Saved score snapshot")

	return id, nil
}

// ListRecent returns the latest snapshots for a basket, newest first.
func (r *Repository) ListRecent(ctx context.Context, basket string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, basket, window_name, computed_at, rows
		 FROM score_snapshots
		 WHERE basket = $1
		 ORDER BY computed_at DESC
		 LIMIT $2`,
		basket, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots failed: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Basket, &s.Window, &s.ComputedAt, &s.Rows); err != nil {
			return nil, fmt.Errorf("scan snapshot failed: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Prune deletes snapshots older than the retention horizon.
func (r *Repository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM score_snapshots WHERE computed_at < $1`,
		time.Now().Add(-olderThan),
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
