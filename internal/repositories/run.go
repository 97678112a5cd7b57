package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

// RunRepository records pipeline runs and their outcome.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Start inserts a running record. An empty ID is generated and StartedAt defaults to now.
func (r *RunRepository) Start(ctx context.Context, run *models.RunStats) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = models.RunRunning
	if run.Counts == nil {
		run.Counts = make(map[string]int)
	}

	stats, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	query := `
		INSERT INTO pipeline_runs (id, status, started_at, stats)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.Status, run.StartedAt, string(stats)); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Finish stores the final state of run. Status is set to failed when runErr is non-nil and to
// succeeded otherwise.
func (r *RunRepository) Finish(ctx context.Context, run *models.RunStats, runErr error) error {
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Status = models.RunSucceeded
	if runErr != nil {
		run.Status = models.RunFailed
		run.Error = runErr.Error()
	}

	stats, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	query := `
		UPDATE pipeline_runs
		SET status = ?, finished_at = ?, stats = ?, error = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, run.Status, finished, string(stats), run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(ctx context.Context, id string) (*models.RunStats, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, "SELECT stats FROM pipeline_runs WHERE id = ?", id))
}

// Latest returns the most recently started run.
func (r *RunRepository) Latest(ctx context.Context) (*models.RunStats, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, "SELECT stats FROM pipeline_runs ORDER BY started_at DESC, rowid DESC LIMIT 1"))
}

// List returns up to limit runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.RunStats, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, "SELECT stats FROM pipeline_runs ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunStats
	for rows.Next() {
		run, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanOne(row scanner) (*models.RunStats, error) {
	var stats string
	if err := row.Scan(&stats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	var run models.RunStats
	if err := json.Unmarshal([]byte(stats), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return &run, nil
}
