package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
)

// ErrPersonNotFound is returned for persons that do not exist or belong to
// another account
var ErrPersonNotFound = errors.New("person not found")

const maxExampleLimit = 100

// PersonService manages the persons and reply corpus of an account
type PersonService struct {
	persons  domain.PersonRepository
	examples domain.ReplyExampleRepository
}

// NewPersonService creates a new person service
func NewPersonService(persons domain.PersonRepository, examples domain.ReplyExampleRepository) *PersonService {
	return &PersonService{persons: persons, examples: examples}
}

// List returns the account's persons, oldest first
func (s *PersonService) List(ctx context.Context, accountID string) ([]domain.Person, error) {
	persons, err := s.persons.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	if persons == nil {
		persons = []domain.Person{}
	}
	return persons, nil
}

// Create adds a person to the account
func (s *PersonService) Create(ctx context.Context, accountID string, input domain.PersonCreate) (*domain.Person, error) {
	now := time.Now().UTC()
	person := &domain.Person{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.persons.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return person, nil
}

// Get returns a person owned by the account
func (s *PersonService) Get(ctx context.Context, accountID string, personID uuid.UUID) (*domain.Person, error) {
	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil || person.AccountID != accountID {
		return nil, ErrPersonNotFound
	}
	return person, nil
}

// Update renames a person
func (s *PersonService) Update(ctx context.Context, accountID string, personID uuid.UUID, input domain.PersonUpdate) (*domain.Person, error) {
	person, err := s.Get(ctx, accountID, personID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		person.Name = *input.Name
	}
	person.UpdatedAt = time.Now().UTC()

	if err := s.persons.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return person, nil
}

// Delete removes a person together with its reply examples
func (s *PersonService) Delete(ctx context.Context, accountID string, personID uuid.UUID) error {
	if _, err := s.Get(ctx, accountID, personID); err != nil {
		return err
	}
	if err := s.persons.Delete(ctx, personID); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

// ListExamples returns the person's most recent reply examples
func (s *PersonService) ListExamples(ctx context.Context, accountID string, personID uuid.UUID, limit int) ([]domain.ReplyExample, error) {
	if _, err := s.Get(ctx, accountID, personID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxExampleLimit {
		limit = maxExampleLimit
	}

	examples, err := s.examples.ListRecentByPerson(ctx, personID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reply examples: %w", err)
	}
	if examples == nil {
		examples = []domain.ReplyExample{}
	}
	return examples, nil
}
