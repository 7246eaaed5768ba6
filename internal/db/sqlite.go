package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenSQLite abre (o crea) la base SQLite usada en desarrollo local y en tests.
// Con path ":memory:" el pool queda limitado a una conexion para no perder la base.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// WAL permite lectores concurrentes mientras hay un escritor activo.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return conn, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		id                TEXT PRIMARY KEY,
		nickname          TEXT NOT NULL,
		openness          INTEGER NOT NULL,
		conscientiousness INTEGER NOT NULL,
		extraversion      INTEGER NOT NULL,
		agreeableness     INTEGER NOT NULL,
		neuroticism       INTEGER NOT NULL,
		ai_analysis       TEXT NOT NULL,
		detail_scores     TEXT,
		created_at_us     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sender_name   TEXT NOT NULL,
		email         TEXT NOT NULL,
		content       TEXT NOT NULL,
		created_at_us INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback (created_at_us)`,
}

// MigrateSQLite crea las tablas SQLite si no existen.
// Los timestamps se guardan como microsegundos Unix para conservar la misma precision que Postgres.
func MigrateSQLite(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
