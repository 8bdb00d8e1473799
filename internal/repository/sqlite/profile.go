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

// ProfileRepository implements domain.ProfileRepository
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new account profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.db}
}

func (r *ProfileRepository) Ensure(ctx context.Context, profile *domain.AccountProfile) (bool, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO account_profiles (id, account_id, conversation_id, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (account_id, conversation_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		profile.ID.String(),
		profile.AccountID,
		profile.ConversationID,
		profile.Email,
		formatTime(profile.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to ensure account profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to ensure account profile: %w", err)
	}
	return n == 1, nil
}

func (r *ProfileRepository) GetByConversationID(ctx context.Context, conversationID string) (*domain.AccountProfile, error) {
	query := `
		SELECT id, account_id, conversation_id, email, created_at
		FROM account_profiles
		WHERE conversation_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		p            domain.AccountProfile
		id           string
		createdAtStr string
	)
	err := r.db.QueryRowContext(ctx, query, conversationID).Scan(
		&id,
		&p.AccountID,
		&p.ConversationID,
		&p.Email,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account profile: %w", err)
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid profile id: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByAccount returns every conversation linked to the account, oldest first
func (r *ProfileRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.AccountProfile, error) {
	query := `
		SELECT id, account_id, conversation_id, email, created_at
		FROM account_profiles
		WHERE account_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.AccountProfile
	for rows.Next() {
		var (
			p            domain.AccountProfile
			id           string
			createdAtStr string
		)
		if err := rows.Scan(&id, &p.AccountID, &p.ConversationID, &p.Email, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan account profile: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid profile id: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list account profiles: %w", err)
	}
	return profiles, nil
}
