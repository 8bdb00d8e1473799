package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Person is someone the account wants reply suggestions for
type Person struct {
	ID        uuid.UUID `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PersonCreate represents person creation data
type PersonCreate struct {
	Name string `json:"name" validate:"required,max=100"`
}

// PersonUpdate represents person update data
type PersonUpdate struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

// PersonRepository defines the interface for person storage
type PersonRepository interface {
	Create(ctx context.Context, person *Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*Person, error)
	// ListByAccount returns the account's persons, oldest first
	ListByAccount(ctx context.Context, accountID string) ([]Person, error)
	Update(ctx context.Context, person *Person) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReplyExample is a stored (input, reply) pair used as generation context
type ReplyExample struct {
	ID        uuid.UUID `json:"id"`
	PersonID  uuid.UUID `json:"person_id"`
	AccountID string    `json:"account_id"`
	InputText string    `json:"input_text"`
	ReplyText string    `json:"reply_text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyExampleRepository defines the interface for reply example storage
type ReplyExampleRepository interface {
	Create(ctx context.Context, example *ReplyExample) error
	// ListRecentByPerson returns at most limit examples, newest first
	ListRecentByPerson(ctx context.Context, personID uuid.UUID, limit int) ([]ReplyExample, error)
}
