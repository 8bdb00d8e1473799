package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// timeLayout is fixed width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps an embedded SQLite database
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(ctx context.Context, path string) (*DB, error) {
	var dsn string
	if path == MemoryPath {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// every connection to :memory: is a separate database
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &DB{db: db}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info().Str("path", path).Msg("SQLite store initialized")
	return s, nil
}

func (s *DB) createSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS account_profiles (
			id              TEXT PRIMARY KEY,
			account_id      TEXT NOT NULL,
			conversation_id TEXT NOT NULL,
			email           TEXT NOT NULL,
			created_at      TEXT NOT NULL,
			UNIQUE (account_id, conversation_id)
		);

		CREATE INDEX IF NOT EXISTS idx_account_profiles_conversation
			ON account_profiles(conversation_id, created_at);

		CREATE TABLE IF NOT EXISTS persons (
			id         TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_persons_account
			ON persons(account_id, created_at);

		CREATE TABLE IF NOT EXISTS reply_examples (
			id         TEXT PRIMARY KEY,
			person_id  TEXT NOT NULL,
			account_id TEXT NOT NULL,
			input_text TEXT NOT NULL,
			reply_text TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (person_id) REFERENCES persons(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_reply_examples_person_created
			ON reply_examples(person_id, created_at);

		CREATE TABLE IF NOT EXISTS sessions (
			id              TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			status          TEXT NOT NULL,
			account_id      TEXT,
			person_id       TEXT,
			trigger_text    TEXT NOT NULL DEFAULT '',
			input_text      TEXT,
			suggested_reply TEXT,
			version         INTEGER NOT NULL DEFAULT 1,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_conversation_created
			ON sessions(conversation_id, created_at);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_active
			ON sessions(conversation_id)
			WHERE status NOT IN ('completed', 'cancelled');
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Ping verifies database connectivity
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *DB) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
