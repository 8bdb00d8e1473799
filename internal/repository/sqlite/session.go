package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
)

const sessionColumns = `id, conversation_id, status, account_id, person_id, trigger_text,
	input_text, suggested_reply, version, created_at, updated_at`

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db.db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.SessionRecord, error) {
	var (
		rec                      domain.SessionRecord
		id                       string
		status                   string
		accountID, personID      sql.NullString
		inputText, suggested     sql.NullString
		createdAtStr, updatedStr string
	)
	if err := row.Scan(
		&id,
		&rec.ConversationID,
		&status,
		&accountID,
		&personID,
		&rec.TriggerText,
		&inputText,
		&suggested,
		&rec.Version,
		&createdAtStr,
		&updatedStr,
	); err != nil {
		return rec, err
	}

	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return rec, fmt.Errorf("invalid session id: %w", err)
	}
	rec.Status = domain.SessionStatus(status)
	if accountID.Valid {
		rec.AccountID = &accountID.String
	}
	if personID.Valid {
		pid, err := uuid.Parse(personID.String)
		if err != nil {
			return rec, fmt.Errorf("invalid person id: %w", err)
		}
		rec.PersonID = &pid
	}
	if inputText.Valid {
		rec.InputText = &inputText.String
	}
	if suggested.Valid {
		rec.SuggestedReply = &suggested.String
	}
	if rec.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return rec, err
	}
	if rec.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return rec, err
	}
	return rec, nil
}

func nullUUID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *SessionRepository) FindActive(ctx context.Context, conversationID string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conversation_id = ? AND status NOT IN ('completed', 'cancelled')
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec, err := scanSession(r.db.QueryRowContext(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if session.Version == 0 {
		query := `
			INSERT INTO sessions (` + sessionColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			rec.ID.String(),
			rec.ConversationID,
			string(rec.Status),
			nullString(rec.AccountID),
			nullUUID(rec.PersonID),
			rec.TriggerText,
			nullString(rec.InputText),
			nullString(rec.SuggestedReply),
			formatTime(now),
			formatTime(now),
		)
		if err != nil {
			if isConstraintViolation(err) {
				return domain.ErrSessionConflict
			}
			return fmt.Errorf("failed to create session: %w", err)
		}
	} else {
		query := `
			UPDATE sessions
			SET status = ?, account_id = ?, person_id = ?, input_text = ?,
				suggested_reply = ?, version = version + 1, updated_at = ?
			WHERE id = ? AND version = ?
		`
		res, err := tx.ExecContext(ctx, query,
			string(rec.Status),
			nullString(rec.AccountID),
			nullUUID(rec.PersonID),
			nullString(rec.InputText),
			nullString(rec.SuggestedReply),
			formatTime(now),
			rec.ID.String(),
			session.Version,
		)
		if err != nil {
			if isConstraintViolation(err) {
				return domain.ErrSessionConflict
			}
			return fmt.Errorf("failed to update session: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		if n == 0 {
			return domain.ErrSessionConflict
		}
	}

	if example != nil {
		if err := insertReplyExample(ctx, tx, example, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
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
		WHERE conversation_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
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
