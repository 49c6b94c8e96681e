package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"customer-accounts/internal/database"
)

var ErrNotFound = errors.New("customer not found")

// Repository is the profile store. Lookups report a miss as ErrNotFound and
// leave the semantics (404 vs. create) to the caller.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Link(ctx context.Context, customerID uuid.UUID, identityID int64) error
	UpdateLanguage(ctx context.Context, customerID uuid.UUID, language string) error
	Exists(ctx context.Context, customerID uuid.UUID) (bool, error)
	InsertBatch(ctx context.Context, customers []*Customer) (int, error)
}

type repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	row := new(database.Customer)
	err := r.db.NewSelect().
		Model(row).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return mapRowToModel(row), nil
}

// Link sets the foreign key to the identity. Re-linking the same pair is a
// no-op at the row level, which keeps repeated activations idempotent.
func (r *repository) Link(ctx context.Context, customerID uuid.UUID, identityID int64) error {
	result, err := r.db.NewUpdate().
		Model((*database.Customer)(nil)).
		Set("user_id = ?", identityID).
		Where("customer_id = ?", customerID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to link customer to identity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) UpdateLanguage(ctx context.Context, customerID uuid.UUID, language string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Customer)(nil)).
		Set("language = ?", language).
		Where("customer_id = ?", customerID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update customer language: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) Exists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.Customer)(nil)).
		Where("customer_id = ?", customerID).
		Count(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}

	return count > 0, nil
}

// InsertBatch inserts a block of imported customers and returns how many rows
// were written.
func (r *repository) InsertBatch(ctx context.Context, customers []*Customer) (int, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	rows := make([]*database.Customer, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, &database.Customer{
			CustomerID: c.CustomerID,
			Email:      c.Email,
			Country:    c.Country,
			Language:   c.Language,
			UserID:     c.UserID,
		})
	}

	result, err := r.db.NewInsert().
		Model(&rows).
		Exec(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to insert customer batch: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(inserted), nil
}

// mapRowToModel converts a database row to the domain model
func mapRowToModel(row *database.Customer) *Customer {
	return &Customer{
		CustomerID: row.CustomerID,
		Email:      row.Email,
		Country:    row.Country,
		Language:   row.Language,
		UserID:     row.UserID,
	}
}
