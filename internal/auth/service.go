package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/uptrace/bun"

	"customer-accounts/internal/customer"
	"customer-accounts/internal/identity"
	"customer-accounts/internal/logging"
)

var (
	ErrInvalidRecoveryCode = errors.New("recovery code sent by email is incorrect")
	ErrPasswordLength      = errors.New("password must be between 10 and 30 characters")
	ErrInvalidCredentials  = errors.New("incorrect username or password")
	ErrOldPasswordMismatch = errors.New("old password does not match")
	ErrStoreUnavailable    = errors.New("account store unavailable")
)

const (
	passwordMinLen = 10
	passwordMaxLen = 30
)

// validPasswordLength counts characters, not bytes, so multibyte passwords
// are measured the same way the clients present them.
func validPasswordLength(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= passwordMinLen && n <= passwordMaxLen
}

// Stores builds repositories over a database handle or an open transaction,
// so a workflow can run all of its writes in one transaction scope.
type Stores interface {
	Identities(db bun.IDB) identity.Repository
	Customers(db bun.IDB) customer.Repository
}

type bunStores struct{}

// NewStores returns the bun-backed store factory
func NewStores() Stores {
	return bunStores{}
}

func (bunStores) Identities(db bun.IDB) identity.Repository {
	return identity.NewRepository(db)
}

func (bunStores) Customers(db bun.IDB) customer.Repository {
	return customer.NewRepository(db)
}

// Service handles the credential lifecycle: account activation via the
// recovery flow, login, and authenticated password reset.
type Service struct {
	db           *bun.DB
	stores       Stores
	hasher       *Hasher
	tokens       TokenService
	logger       *logging.Logger
	recoveryCode int64
	tokenTTL     time.Duration
}

func NewService(
	db *bun.DB,
	stores Stores,
	hasher *Hasher,
	tokens TokenService,
	logger *logging.Logger,
	recoveryCode int64,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		db:           db,
		stores:       stores,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
		recoveryCode: recoveryCode,
		tokenTTL:     tokenTTL,
	}
}

// RecoverPassword activates an imported customer account: it verifies the
// pre-shared recovery code, creates or re-keys the login identity for the
// profile's email, and links the profile to the identity. Identity upsert and
// profile link commit in a single transaction; a commit failure rolls both
// back. Repeated calls are the legitimate "forgot password again" flow: the
// link is idempotent and the password hash is always overwritten.
func (s *Service) RecoverPassword(ctx context.Context, recoveryCode int64, email, password string) (*customer.Customer, error) {
	if recoveryCode != s.recoveryCode {
		return nil, ErrInvalidRecoveryCode
	}
	if !validPasswordLength(password) {
		return nil, ErrPasswordLength
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var linked *customer.Customer

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		customers := s.stores.Customers(tx)
		identities := s.stores.Identities(tx)

		profile, err := customers.GetByEmail(ctx, email)
		if err != nil {
			return err
		}

		ident, err := identities.GetByUsername(ctx, email)
		switch {
		case err == nil:
			// Password reset via recovery, not duplicate creation
			if err := identities.UpdatePassword(ctx, ident.ID, passwordHash); err != nil {
				return err
			}
		case errors.Is(err, identity.ErrNotFound):
			ident, err = identities.Create(ctx, email, passwordHash)
			if err != nil {
				return err
			}
		default:
			return err
		}

		if err := customers.Link(ctx, profile.CustomerID, ident.ID); err != nil {
			return err
		}

		profile.UserID = &ident.ID
		linked = profile
		return nil
	})

	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, customer.ErrNotFound
		}
		s.logger.Error("account activation failed, transaction rolled back", "email", email, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("account activated", "email", email)
	return linked, nil
}

// Login verifies credentials and issues a bearer token with the username as
// subject. Unknown user and wrong password collapse into one error so the
// response cannot be used for user enumeration.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	ident, err := s.stores.Identities(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", "username", username, "error", err.Error())
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !s.hasher.Verify(password, ident.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ident.Username, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// ResetPassword replaces the caller's password after re-proving knowledge of
// the current one, so a stolen token alone cannot take over the credentials.
func (s *Service) ResetPassword(ctx context.Context, ident *identity.Identity, oldPassword, newPassword string) error {
	if !validPasswordLength(newPassword) {
		return ErrPasswordLength
	}

	if !s.hasher.Verify(oldPassword, ident.PasswordHash) {
		return ErrOldPasswordMismatch
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.stores.Identities(s.db).UpdatePassword(ctx, ident.ID, passwordHash); err != nil {
		s.logger.Error("password reset write failed", "username", ident.Username, "error", err.Error())
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("password reset", "username", ident.Username)
	return nil
}
