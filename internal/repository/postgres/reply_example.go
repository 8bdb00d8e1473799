package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ReplyExampleRepository implements domain.ReplyExampleRepository
type ReplyExampleRepository struct {
	pool *pgxpool.Pool
}

// NewReplyExampleRepository creates a new reply example repository
func NewReplyExampleRepository(pool *pgxpool.Pool) *ReplyExampleRepository {
	return &ReplyExampleRepository{pool: pool}
}

func (r *ReplyExampleRepository) Create(ctx context.Context, example *domain.ReplyExample) error {
	return insertReplyExample(ctx, r.pool, example, time.Now().UTC())
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
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Exec(ctx, query,
		example.ID,
		example.PersonID,
		example.AccountID,
		example.InputText,
		example.ReplyText,
		example.CreatedAt,
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
		WHERE person_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, personID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reply examples: %w", err)
	}
	defer rows.Close()

	var examples []domain.ReplyExample
	for rows.Next() {
		var e domain.ReplyExample
		if err := rows.Scan(
			&e.ID,
			&e.PersonID,
			&e.AccountID,
			&e.InputText,
			&e.ReplyText,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reply example: %w", err)
		}
		examples = append(examples, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reply examples: %w", err)
	}
	return examples, nil
}
