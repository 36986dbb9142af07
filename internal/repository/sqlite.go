package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite has a single writer, and every :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

// Timestamps are stored as unix milliseconds so window checks can compare in SQL.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
			last_alert_at INTEGER,
			last_alert_id TEXT NOT NULL DEFAULT '',
			payout_at INTEGER,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS processed_alerts (
			alert_id TEXT PRIMARY KEY,
			severity TEXT NOT NULL DEFAULT '',
			event TEXT NOT NULL DEFAULT '',
			area_desc TEXT NOT NULL DEFAULT '',
			processed_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_users_zip_status ON users(zip_code, status);
		CREATE INDEX IF NOT EXISTS idx_processed_alerts_processed_at ON processed_alerts(processed_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}
