package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/desertthunder/tubecorr/internal/models"
)

// DefaultBatchSize is used when a caller passes a non-positive batch size.
const DefaultBatchSize = 1000

// collection describes how records of type T map onto one table.
type collection[T any] struct {
	name    string
	table   string
	key     string
	columns []string
	keyOf   func(T) string
	values  func(T) []any
}

func (c collection[T]) upsertSQL() string {
	cols := slices.Concat([]string{c.key}, c.columns, []string{"data", "loaded_at", "updated_at"})

	sets := make([]string, 0, len(c.columns)+2)
	for _, col := range slices.Concat(c.columns, []string{"data", "updated_at"}) {
		sets = append(sets, col+" = excluded."+col)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		c.table,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
		c.key,
		strings.Join(sets, ", "),
	)
}

func (c collection[T]) existsSQL() string {
	return fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)", c.table, c.key)
}

// upsert writes recs in batches of batchSize. Records without a key or that fail to encode or
// write are counted as errors and do not abort their batch. Database-level failures (begin,
// prepare, commit) stop the load and are returned alongside the partial result.
func upsert[T any](ctx context.Context, db *sql.DB, c collection[T], recs []T, batchSize int, now time.Time) (models.LoadResult, error) {
	result := models.LoadResult{Collection: c.name}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(recs); start += batchSize {
		end := min(start+batchSize, len(recs))
		batch, err := upsertBatch(ctx, db, c, recs[start:end], now)
		result.Merge(batch)
		if err != nil {
			return result, fmt.Errorf("failed to load %s batch at %d: %w", c.name, start, err)
		}
	}
	return result, nil
}

func upsertBatch[T any](ctx context.Context, db *sql.DB, c collection[T], recs []T, now time.Time) (models.LoadResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return models.LoadResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := write(ctx, tx, c, recs, now)
	if err != nil {
		return result, err
	}
	return commit(tx, result)
}

// replace empties the table of c and writes recs in one transaction, so readers see either
// the previous contents or the new ones. Any failure leaves the previous contents in place.
func replace[T any](ctx context.Context, db *sql.DB, c collection[T], recs []T, now time.Time) (models.LoadResult, error) {
	result := models.LoadResult{Collection: c.name}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+c.table); err != nil {
		return result, fmt.Errorf("failed to clear %s: %w", c.name, err)
	}

	written, err := write(ctx, tx, c, recs, now)
	result.Merge(written)
	if err != nil {
		return result, fmt.Errorf("failed to replace %s: %w", c.name, err)
	}
	return commit(tx, result)
}

// write upserts recs within tx. Per-record failures are counted in the result.
func write[T any](ctx context.Context, tx *sql.Tx, c collection[T], recs []T, now time.Time) (models.LoadResult, error) {
	var result models.LoadResult

	exists, err := tx.PrepareContext(ctx, c.existsSQL())
	if err != nil {
		return result, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer exists.Close()

	stmt, err := tx.PrepareContext(ctx, c.upsertSQL())
	if err != nil {
		return result, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		result.Processed++

		key := c.keyOf(rec)
		if key == "" {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("%s: record without %s", c.name, c.key))
			continue
		}

		data, err := json.Marshal(rec)
		if err != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("%s %s: %v", c.name, key, err))
			continue
		}

		var found bool
		if err := exists.QueryRowContext(ctx, key).Scan(&found); err != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("%s %s: %v", c.name, key, err))
			continue
		}

		args := append([]any{key}, c.values(rec)...)
		args = append(args, string(data), now, now)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("%s %s: %v", c.name, key, err))
			continue
		}

		if found {
			result.Updated++
		} else {
			result.Inserted++
		}
	}
	return result, nil
}

// commit commits tx. On failure every record written in it is recounted as an error.
func commit(tx *sql.Tx, result models.LoadResult) (models.LoadResult, error) {
	if err := tx.Commit(); err != nil {
		failed := result.Inserted + result.Updated
		result.Errors += failed
		result.Inserted, result.Updated = 0, 0
		return result, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// queryData runs query and decodes the data column of every row into T.
func queryData[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var rec T
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
