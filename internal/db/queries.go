package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// timeLayout is how timestamps are stored.
const timeLayout = time.RFC3339Nano

// RecordCycle stores a cycle and, when it succeeded, its results.
func (db *DB) RecordCycle(ctx context.Context, cycle models.FetchCycle, rs *models.ResultSet) error {
	if cycle.ID == "" {
		return fmt.Errorf("cycle id is empty")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fetch_cycles (
			id, generation, page_id, page_name, since, until, started_at,
			duration_ms, outcome, error, metric_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cycle.ID,
		int64(cycle.Generation),
		cycle.PageID,
		nullString(cycle.PageName),
		cycle.Range.SinceString(),
		cycle.Range.UntilString(),
		cycle.StartedAt.UTC().Format(timeLayout),
		cycle.Duration.Milliseconds(),
		string(cycle.Outcome),
		nullString(cycle.Error),
		cycle.MetricCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch cycle: %w", err)
	}

	if rs != nil {
		if err := insertResults(ctx, tx, cycle.ID, rs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fetch cycle: %w", err)
	}
	return nil
}

func insertResults(ctx context.Context, tx *sql.Tx, cycleID string, rs *models.ResultSet) error {
	for _, r := range rs.Ordered() {
		var number sql.NullFloat64
		var breakdown sql.NullString

		switch r.Value.Kind {
		case models.ValueNumber:
			number = sql.NullFloat64{Float64: r.Value.Number, Valid: true}
		case models.ValueBreakdown:
			b, err := json.Marshal(r.Value.Breakdown)
			if err != nil {
				return fmt.Errorf("failed to encode breakdown for %s: %w", r.Key, err)
			}
			breakdown = sql.NullString{String: string(b), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO metric_values (cycle_id, key, metric, period, kind, number, breakdown)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, cycleID, r.Key, r.Spec.Metric, r.Spec.Period, r.Value.Kind.String(), number, breakdown); err != nil {
			return fmt.Errorf("failed to insert metric value %s: %w", r.Key, err)
		}

		// Breakdowns are charted by their total.
		for i, p := range r.Series {
			var endTime sql.NullString
			if !p.EndTime.IsZero() {
				endTime = sql.NullString{String: p.EndTime.UTC().Format(timeLayout), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO metric_series (cycle_id, key, idx, end_time, value)
				VALUES (?, ?, ?, ?, ?)
			`, cycleID, r.Key, i, endTime, p.Value.Total()); err != nil {
				return fmt.Errorf("failed to insert series point %s[%d]: %w", r.Key, i, err)
			}
		}
	}
	return nil
}

// RecentCycles returns the newest cycles first. An empty pageID matches
// every page.
func (db *DB) RecentCycles(ctx context.Context, pageID string, limit int) ([]models.FetchCycle, error) {
	query := `
		SELECT id, generation, page_id, page_name, since, until, started_at,
			   duration_ms, outcome, error, metric_count
		FROM fetch_cycles
		WHERE (? = '' OR page_id = ?)
		ORDER BY started_at DESC, generation DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, pageID, pageID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent cycles: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var cycles []models.FetchCycle
	for rows.Next() {
		var c models.FetchCycle
		var generation, durationMs int64
		var pageName, errStr sql.NullString
		var since, until, startedAt, outcome string

		if err := rows.Scan(
			&c.ID,
			&generation,
			&c.PageID,
			&pageName,
			&since,
			&until,
			&startedAt,
			&durationMs,
			&outcome,
			&errStr,
			&c.MetricCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fetch cycle: %w", err)
		}

		c.Generation = uint64(generation)
		c.PageName = pageName.String
		c.Error = errStr.String
		c.Outcome = models.CycleOutcome(outcome)
		c.Duration = time.Duration(durationMs) * time.Millisecond
		c.StartedAt, _ = time.Parse(timeLayout, startedAt)
		if rng, err := models.ParseDateRange(since, until); err == nil {
			c.Range = rng
		}
		cycles = append(cycles, c)
	}

	return cycles, rows.Err()
}

// CycleValues returns the stored results of a cycle keyed by metric key.
func (db *DB) CycleValues(ctx context.Context, cycleID string) (map[string]models.MetricValue, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT key, kind, number, breakdown FROM metric_values WHERE cycle_id = ?
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]models.MetricValue)
	for rows.Next() {
		var key, kind string
		var number sql.NullFloat64
		var breakdown sql.NullString

		if err := rows.Scan(&key, &kind, &number, &breakdown); err != nil {
			return nil, fmt.Errorf("failed to scan metric value: %w", err)
		}

		switch kind {
		case models.ValueNumber.String():
			values[key] = models.Number(number.Float64)
		case models.ValueBreakdown.String():
			var b map[string]float64
			if err := json.Unmarshal([]byte(breakdown.String), &b); err != nil {
				return nil, fmt.Errorf("failed to decode breakdown for %s: %w", key, err)
			}
			values[key] = models.Breakdown(b)
		default:
			values[key] = models.Missing()
		}
	}

	return values, rows.Err()
}

// SeriesFor returns the stored series of one metric in a cycle, in
// provider order.
func (db *DB) SeriesFor(ctx context.Context, cycleID, key string) ([]models.SeriesPoint, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT end_time, value FROM metric_series
		WHERE cycle_id = ? AND key = ?
		ORDER BY idx
	`, cycleID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.SeriesPoint
	for rows.Next() {
		var endTime sql.NullString
		var value float64
		if err := rows.Scan(&endTime, &value); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}

		p := models.SeriesPoint{Value: models.Number(value)}
		if endTime.Valid {
			p.EndTime, _ = time.Parse(timeLayout, endTime.String)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// LatestSeries returns the series of key from the newest successful cycle
// for pageID. It returns nil when no such cycle exists.
func (db *DB) LatestSeries(ctx context.Context, pageID, key string) ([]models.SeriesPoint, error) {
	var cycleID string
	err := db.QueryRowContext(ctx, `
		SELECT id FROM fetch_cycles
		WHERE page_id = ? AND outcome = ?
		ORDER BY started_at DESC, generation DESC
		LIMIT 1
	`, pageID, string(models.CycleSucceeded)).Scan(&cycleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest cycle: %w", err)
	}

	return db.SeriesFor(ctx, cycleID, key)
}

// CountCycles returns the number of stored cycles.
func (db *DB) CountCycles(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fetch_cycles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cycles: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
