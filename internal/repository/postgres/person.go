package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PersonRepository implements domain.PersonRepository
type PersonRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

func (r *PersonRepository) Create(ctx context.Context, person *domain.Person) error {
	query := `
		INSERT INTO persons (id, account_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		person.ID,
		person.AccountID,
		person.Name,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	query := `
		SELECT id, account_id, name, created_at, updated_at
		FROM persons
		WHERE id = $1
	`
	var p domain.Person
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.AccountID,
		&p.Name,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &p, nil
}

func (r *PersonRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Person, error) {
	query := `
		SELECT id, account_id, name, created_at, updated_at
		FROM persons
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(
			&p.ID,
			&p.AccountID,
			&p.Name,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

func (r *PersonRepository) Update(ctx context.Context, person *domain.Person) error {
	query := `
		UPDATE persons
		SET name = $1, updated_at = $2
		WHERE id = $3
	`
	_, err := r.pool.Exec(ctx, query, person.Name, person.UpdatedAt, person.ID)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

func (r *PersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM persons WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
