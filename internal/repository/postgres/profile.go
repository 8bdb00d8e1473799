package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements domain.ProfileRepository
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new account profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Ensure inserts the link unless the (account, conversation) pair exists
func (r *ProfileRepository) Ensure(ctx context.Context, profile *domain.AccountProfile) (bool, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO account_profiles (id, account_id, conversation_id, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, conversation_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.ConversationID,
		profile.Email,
		profile.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to ensure account profile: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProfileRepository) GetByConversationID(ctx context.Context, conversationID string) (*domain.AccountProfile, error) {
	query := `
		SELECT id, account_id, conversation_id, email, created_at
		FROM account_profiles
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var p domain.AccountProfile
	err := r.pool.QueryRow(ctx, query, conversationID).Scan(
		&p.ID,
		&p.AccountID,
		&p.ConversationID,
		&p.Email,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account profile: %w", err)
	}
	return &p, nil
}

// ListByAccount returns every conversation linked to the account, oldest first
func (r *ProfileRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.AccountProfile, error) {
	query := `
		SELECT id, account_id, conversation_id, email, created_at
		FROM account_profiles
		WHERE account_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.AccountProfile
	for rows.Next() {
		var p domain.AccountProfile
		if err := rows.Scan(&p.ID, &p.AccountID, &p.ConversationID, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list account profiles: %w", err)
	}
	return profiles, nil
}
