package repository

import (
	"context"
	"fmt"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/repository/postgres"
	"github.com/Rrens/reply-assistant/internal/repository/sqlite"
)

// Store bundles the repositories of one database
type Store struct {
	Sessions      domain.SessionRepository
	Profiles      domain.ProfileRepository
	Persons       domain.PersonRepository
	ReplyExamples domain.ReplyExampleRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.close()
}

// Open connects to the configured database driver
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case "postgres", "":
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Sessions:      postgres.NewSessionRepository(db.Pool),
			Profiles:      postgres.NewProfileRepository(db.Pool),
			Persons:       postgres.NewPersonRepository(db.Pool),
			ReplyExamples: postgres.NewReplyExampleRepository(db.Pool),
			ping:          db.Ping,
			close:         db.Close,
		}, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NewSQLiteStore wraps an already opened SQLite database
func NewSQLiteStore(db *sqlite.DB) *Store {
	return &Store{
		Sessions:      sqlite.NewSessionRepository(db),
		Profiles:      sqlite.NewProfileRepository(db),
		Persons:       sqlite.NewPersonRepository(db),
		ReplyExamples: sqlite.NewReplyExampleRepository(db),
		ping:          db.Ping,
		close:         db.Close,
	}
}
