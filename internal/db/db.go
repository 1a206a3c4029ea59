// Package db holds the session-scoped store of completed fetch cycles.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
	// sqlite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New opens the store at path and creates the schema. An empty path or
// MemoryPath keeps everything in memory for the life of the process.
func New(path string) (*DB, error) {
	if path == "" {
		path = MemoryPath
	}

	inMemory := path == MemoryPath
	if !inMemory {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every new connection to :memory: is a separate empty database.
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(inMemory); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database path.
func (db *DB) Path() string {
	return db.path
}

// InMemory reports whether the store lives only in memory.
func (db *DB) InMemory() bool {
	return db.path == MemoryPath
}

// configure sets up database pragmas.
func (db *DB) configure(inMemory bool) error {
	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	if !inMemory {
		pragmas = append(pragmas,
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
		)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createFetchCyclesTable(); err != nil {
		return err
	}
	if err := db.createMetricValuesTable(); err != nil {
		return err
	}
	return db.createMetricSeriesTable()
}

func (db *DB) createFetchCyclesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS fetch_cycles (
		id TEXT PRIMARY KEY,
		generation INTEGER NOT NULL DEFAULT 0,
		page_id TEXT NOT NULL,
		page_name TEXT,
		since TEXT NOT NULL,
		until TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER DEFAULT 0,
		outcome TEXT NOT NULL,
		error TEXT,
		metric_count INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_fetch_cycles_page ON fetch_cycles(page_id, started_at);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createMetricValuesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS metric_values (
		cycle_id TEXT NOT NULL REFERENCES fetch_cycles(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		metric TEXT NOT NULL,
		period TEXT NOT NULL,
		kind TEXT NOT NULL,
		number REAL,
		breakdown TEXT,
		PRIMARY KEY (cycle_id, key)
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createMetricSeriesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS metric_series (
		cycle_id TEXT NOT NULL REFERENCES fetch_cycles(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		idx INTEGER NOT NULL,
		end_time TEXT,
		value REAL NOT NULL,
		PRIMARY KEY (cycle_id, key, idx)
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Reset deletes every stored cycle.
func (db *DB) Reset(ctx context.Context) error {
	for _, table := range []string{"metric_series", "metric_values", "fetch_cycles"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	if !db.InMemory() {
		_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return db.DB.Close()
}
