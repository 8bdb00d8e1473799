package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user in the external directory
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AccountProfile links a directory account to a messaging conversation identity
type AccountProfile struct {
	ID             uuid.UUID `json:"id"`
	AccountID      string    `json:"account_id"`
	ConversationID string    `json:"conversation_id"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountDirectory looks up registered accounts
type AccountDirectory interface {
	// FindByEmail returns the account with exactly this email, or nil
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// ProfileRepository defines the interface for account profile links
type ProfileRepository interface {
	// Ensure stores the link unless one already exists for the same account
	// and conversation. It reports whether a new row was written.
	Ensure(ctx context.Context, profile *AccountProfile) (bool, error)
	GetByConversationID(ctx context.Context, conversationID string) (*AccountProfile, error)
	// ListByAccount returns every conversation linked to the account
	ListByAccount(ctx context.Context, accountID string) ([]AccountProfile, error)
}
