package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
)

const personColumns = `id, account_id, name, created_at, updated_at`

// PersonRepository implements domain.PersonRepository
type PersonRepository struct {
	db *sql.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *DB) *PersonRepository {
	return &PersonRepository{db: db.db}
}

func scanPerson(row rowScanner) (*domain.Person, error) {
	var (
		p                    domain.Person
		id                   string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &p.AccountID, &p.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid person id: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonRepository) Create(ctx context.Context, person *domain.Person) error {
	query := `INSERT INTO persons (` + personColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		person.ID.String(),
		person.AccountID,
		person.Name,
		formatTime(person.CreatedAt),
		formatTime(person.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = ?`
	p, err := scanPerson(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

func (r *PersonRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons
		WHERE account_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

func (r *PersonRepository) Update(ctx context.Context, person *domain.Person) error {
	query := `UPDATE persons SET name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, person.Name, formatTime(person.UpdatedAt), person.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

func (r *PersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
