package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"customer-accounts/internal/database"
)

var (
	ErrNotFound          = errors.New("identity not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Repository is the identity store consumed by the auth workflows. The bun
// implementation is parameterised over bun.IDB so the same repository runs
// against the database or inside a transaction.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Identity, error)
	Create(ctx context.Context, username, passwordHash string) (*Identity, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*Identity, error) {
	row := new(database.Identity)
	err := r.db.NewSelect().
		Model(row).
		Where("username = ?", username).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity by username: %w", err)
	}

	return mapRowToModel(row), nil
}

func (r *repository) Create(ctx context.Context, username, passwordHash string) (*Identity, error) {
	now := time.Now().UTC()
	row := &database.Identity{
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     false,
		IsSuperuser:  false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return mapRowToModel(row), nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Identity)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
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

// mapRowToModel converts a database row to the domain model
func mapRowToModel(row *database.Identity) *Identity {
	return &Identity{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
		IsSuperuser:  row.IsSuperuser,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
