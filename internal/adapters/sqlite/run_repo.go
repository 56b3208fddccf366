// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/jbatch/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// GetNextID returns the next sequential run ID.
func (r *RunRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("RUN-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM runs", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next run ID: %w", err)
	}

	return fmt.Sprintf("RUN-%03d", maxID+1), nil
}

// Create persists a completed run.
func (r *RunRepository) Create(ctx context.Context, rec *secondary.RunRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, manifest_path, mode, outcome, applied, failed, skipped, dry_run_ok, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.ManifestPath,
		rec.Mode,
		rec.Outcome,
		rec.Applied,
		rec.Failed,
		rec.Skipped,
		rec.DryRunOK,
		rec.StartedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, manifest_path, mode, outcome, applied, failed, skipped, dry_run_ok, started_at, finished_at FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RunRecord
	for rows.Next() {
		rec := &secondary.RunRecord{}
		if err := rows.Scan(
			&rec.ID,
			&rec.ManifestPath,
			&rec.Mode,
			&rec.Outcome,
			&rec.Applied,
			&rec.Failed,
			&rec.Skipped,
			&rec.DryRunOK,
			&rec.StartedAt,
			&rec.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return records, nil
}
