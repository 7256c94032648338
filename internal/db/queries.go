package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/inference-gw/admin-tui/internal/models"
)

const timeFormat = "2006-01-02 15:04:05"

// UpsertRequests stores a batch of server request entries. Entries already
// present (by server id) are skipped, so overlapping sync windows are safe.
func (db *DB) UpsertRequests(entries []models.RequestEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO requests (
			server_id, timestamp, model, status_code, duration_ms,
			prompt_tokens, completion_tokens, cost, batch_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, e := range entries {
		res, err := stmt.Exec(
			e.ID,
			e.Timestamp.UTC().Format(timeFormat),
			e.Model,
			e.StatusCode,
			e.DurationMs,
			e.PromptTokens,
			e.CompletionTokens,
			e.Cost,
			nullString(e.BatchID),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert request %d: %w", e.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

// RecentRequests returns the most recent stored requests.
func (db *DB) RecentRequests(limit int) ([]models.RequestEntry, error) {
	query := `
		SELECT server_id, timestamp, model, status_code, duration_ms,
			   prompt_tokens, completion_tokens, cost, batch_id
		FROM requests
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRequests(rows)
}

// RequestsBetween returns stored requests in [from, to), newest first,
// optionally filtered to one model.
func (db *DB) RequestsBetween(from, to time.Time, model string) ([]models.RequestEntry, error) {
	query := `
		SELECT server_id, timestamp, model, status_code, duration_ms,
			   prompt_tokens, completion_tokens, cost, batch_id
		FROM requests
		WHERE timestamp >= ? AND timestamp < ?
	`
	args := []any{from.UTC().Format(timeFormat), to.UTC().Format(timeFormat)}
	if model != "" {
		query += " AND model = ?"
		args = append(args, model)
	}
	query += " ORDER BY timestamp DESC"

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRequests(rows)
}

func scanRequests(rows *sql.Rows) ([]models.RequestEntry, error) {
	var entries []models.RequestEntry
	for rows.Next() {
		var e models.RequestEntry
		var ts string
		var batchID sql.NullString

		err := rows.Scan(
			&e.ID,
			&ts,
			&e.Model,
			&e.StatusCode,
			&e.DurationMs,
			&e.PromptTokens,
			&e.CompletionTokens,
			&e.Cost,
			&batchID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}

		e.Timestamp, _ = time.ParseInLocation(timeFormat, ts, time.UTC)
		e.BatchID = batchID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HourlyVolume is request traffic aggregated into one-hour buckets.
type HourlyVolume struct {
	Hour       time.Time
	Requests   int64
	Tokens     int64
	ErrorCount int64
	Cost       float64
}

// GetHourlyVolume returns per-hour traffic for the last N hours, oldest
// first, ready for charting.
func (db *DB) GetHourlyVolume(hours int) ([]HourlyVolume, error) {
	query := `
		SELECT
			strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
			COUNT(*) as total,
			COALESCE(SUM(prompt_tokens + completion_tokens), 0) as tokens,
			SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) as errors,
			COALESCE(SUM(cost), 0) as cost
		FROM requests
		WHERE timestamp >= datetime('now', ?)
		GROUP BY hour
		ORDER BY hour ASC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d hours", hours))
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly volume: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []HourlyVolume
	for rows.Next() {
		var b HourlyVolume
		var hour string
		if err := rows.Scan(&hour, &b.Requests, &b.Tokens, &b.ErrorCount, &b.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan hourly volume: %w", err)
		}
		b.Hour, _ = time.ParseInLocation(timeFormat, hour, time.UTC)
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// ModelTotal is cumulative stored usage for one model.
type ModelTotal struct {
	Model    string
	Requests int64
	Tokens   int64
	Cost     float64
}

// GetModelTotals returns stored usage grouped by model, busiest first.
func (db *DB) GetModelTotals() ([]ModelTotal, error) {
	query := `
		SELECT model,
			   COUNT(*) as total,
			   COALESCE(SUM(prompt_tokens + completion_tokens), 0) as tokens,
			   COALESCE(SUM(cost), 0) as cost
		FROM requests
		GROUP BY model
		ORDER BY total DESC
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query model totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []ModelTotal
	for rows.Next() {
		var t ModelTotal
		if err := rows.Scan(&t.Model, &t.Requests, &t.Tokens, &t.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan model total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// LatestTimestamp returns the newest stored request time, or the zero time
// when nothing is stored yet. The sync loop uses it as its next window start.
func (db *DB) LatestTimestamp() (time.Time, error) {
	var ts sql.NullString
	err := db.QueryRowContext(context.Background(),
		"SELECT MAX(timestamp) FROM requests").Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest timestamp: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	parsed, _ := time.ParseInLocation(timeFormat, ts.String, time.UTC)
	return parsed, nil
}

// CountRequests returns the number of stored request entries.
func (db *DB) CountRequests() (int64, error) {
	var count int64
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM requests").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

// PruneBefore deletes stored entries older than the cutoff and returns how
// many were removed.
func (db *DB) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(context.Background(),
		"DELETE FROM requests WHERE timestamp < ?", cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to prune requests: %w", err)
	}
	return res.RowsAffected()
}

// InsertBatchEvent records a batch reaching a terminal status.
func (db *DB) InsertBatchEvent(batch models.Batch) error {
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO batch_events (batch_id, status, completed, failed, total, observed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		batch.ID,
		string(batch.Status),
		batch.RequestCounts.Completed,
		batch.RequestCounts.Failed,
		batch.RequestCounts.Total,
		time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch event: %w", err)
	}
	return nil
}

// CountBatchEvents returns the number of recorded terminal batch events.
func (db *DB) CountBatchEvents() (int64, error) {
	var count int64
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM batch_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count batch events: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
