package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReplyExampleRepository implements domain.ReplyExampleRepository
type ReplyExampleRepository struct {
	db *sql.DB
}

// NewReplyExampleRepository creates a new reply example repository
func NewReplyExampleRepository(db *DB) *ReplyExampleRepository {
	return &ReplyExampleRepository{db: db.db}
}

func (r *ReplyExampleRepository) Create(ctx context.Context, example *domain.ReplyExample) error {
	return insertReplyExample(ctx, r.db, example, time.Now().UTC())
}

func insertReplyExample(ctx context.Context, db execer, example *domain.ReplyExample, now time.Time) error {
	if example.ID == uuid.Nil {
		example.ID = uuid.New()
	}
	if example.CreatedAt.IsZero() {
		example.CreatedAt = now
	}

	query := `
		INSERT INTO reply_examples (id, person_id, account_id, input_text, reply_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		example.ID.String(),
		example.PersonID.String(),
		example.AccountID,
		example.InputText,
		example.ReplyText,
		formatTime(example.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create reply example: %w", err)
	}
	return nil
}

func (r *ReplyExampleRepository) ListRecentByPerson(ctx context.Context, personID uuid.UUID, limit int) ([]domain.ReplyExample, error) {
	query := `
		SELECT id, person_id, account_id, input_text, reply_text, created_at
		FROM reply_examples
		WHERE person_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, personID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reply examples: %w", err)
	}
	defer rows.Close()

	var examples []domain.ReplyExample
	for rows.Next() {
		var (
			e                   domain.ReplyExample
			id, pid, createdStr string
		)
		if err := rows.Scan(&id, &pid, &e.AccountID, &e.InputText, &e.ReplyText, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan reply example: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid reply example id: %w", err)
		}
		if e.PersonID, err = uuid.Parse(pid); err != nil {
			return nil, fmt.Errorf("invalid person id: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		examples = append(examples, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reply examples: %w", err)
	}
	return examples, nil
}
