package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const sessionColumns = `id, conversation_id, status, account_id, person_id, trigger_text,
	input_text, suggested_reply, version, created_at, updated_at`

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func scanSession(row pgx.Row) (domain.SessionRecord, error) {
	var rec domain.SessionRecord
	err := row.Scan(
		&rec.ID,
		&rec.ConversationID,
		&rec.Status,
		&rec.AccountID,
		&rec.PersonID,
		&rec.TriggerText,
		&rec.InputText,
		&rec.SuggestedReply,
		&rec.Version,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func (r *SessionRepository) FindActive(ctx context.Context, conversationID string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conversation_id = $1 AND status NOT IN ('completed', 'cancelled')
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec, err := scanSession(r.pool.QueryRow(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}
	return domain.DecodeSession(rec), nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session, example *domain.ReplyExample) error {
	now := time.Now().UTC()
	rec := domain.EncodeSession(session)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if session.Version == 0 {
		query := `
			INSERT INTO sessions (` + sessionColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $9)
		`
		_, err := tx.Exec(ctx, query,
			rec.ID,
			rec.ConversationID,
			string(rec.Status),
			rec.AccountID,
			rec.PersonID,
			rec.TriggerText,
			rec.InputText,
			rec.SuggestedReply,
			now,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domain.ErrSessionConflict
			}
			return fmt.Errorf("failed to create session: %w", err)
		}
	} else {
		query := `
			UPDATE sessions
			SET status = $1, account_id = $2, person_id = $3, input_text = $4,
				suggested_reply = $5, version = version + 1, updated_at = $6
			WHERE id = $7 AND version = $8
		`
		tag, err := tx.Exec(ctx, query,
			string(rec.Status),
			rec.AccountID,
			rec.PersonID,
			rec.InputText,
			rec.SuggestedReply,
			now,
			rec.ID,
			session.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrSessionConflict
		}
	}

	if example != nil {
		if err := insertReplyExample(ctx, tx, example, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	if session.Version == 0 {
		session.ID = rec.ID
		session.CreatedAt = now
	}
	session.Version++
	session.UpdatedAt = now
	return nil
}

func (r *SessionRepository) ListByConversation(ctx context.Context, conversationID string, limit int) ([]domain.SessionRecord, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []domain.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return records, nil
}
