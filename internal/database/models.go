package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Identity is the login credential row. The username is the customer's email
// and is immutable once created.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:i"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	IsActive     bool      `bun:"is_active,notnull,default:false"`
	IsSuperuser  bool      `bun:"is_superuser,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Customer is an imported customer profile row. Rows pre-exist the identity
// they are later linked to; UserID stays NULL until activation.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	CustomerID uuid.UUID `bun:"customer_id,pk,type:uuid"`
	Email      string    `bun:"email,notnull,unique"`
	Country    string    `bun:"country,notnull"`
	Language   *string   `bun:"language"`
	UserID     *int64    `bun:"user_id"`
}
