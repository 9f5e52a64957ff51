package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// schema is applied on every open; all statements are idempotent.
// Versioned holdings share a holding_id; soft deletes keep every row.
const schema = `
CREATE TABLE IF NOT EXISTS holdings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	holding_id TEXT NOT NULL,
	account_type TEXT NOT NULL,
	account TEXT NOT NULL,
	ticker TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	lookup TEXT NOT NULL DEFAULT '',
	shares TEXT NOT NULL,
	cost TEXT NOT NULL,
	current_price TEXT NOT NULL,
	contribution TEXT NOT NULL,
	last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	track_price INTEGER NOT NULL DEFAULT 1,
	manual_price_override INTEGER NOT NULL DEFAULT 0,
	value_override TEXT,
	convert_to_cad INTEGER NOT NULL DEFAULT 0,
	cad_conversion_rate TEXT,
	user_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_holdings_holding_id ON holdings(holding_id);
CREATE INDEX IF NOT EXISTS idx_holdings_user ON holdings(user_id, is_deleted);

CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticker TEXT NOT NULL,
	price TEXT NOT NULL,
	date TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(ticker, date)
);

CREATE TABLE IF NOT EXISTS price_history_hourly (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticker TEXT NOT NULL,
	price TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	UNIQUE(ticker, timestamp)
);

CREATE TABLE IF NOT EXISTS portfolio_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	captured_at TIMESTAMP NOT NULL,
	total_value TEXT NOT NULL,
	total_contribution TEXT NOT NULL,
	total_gain TEXT NOT NULL,
	total_gain_percent TEXT
);
CREATE INDEX IF NOT EXISTS idx_snapshots_user_time ON portfolio_snapshots(user_id, captured_at);

CREATE TABLE IF NOT EXISTS user_info (
	user_id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT ''
);
`

// Open opens the sqlite database at path and initializes the schema.
// WAL mode keeps readers from blocking the capture job's writes.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// sqlite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY churn between the HTTP handlers and the capture job.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}
