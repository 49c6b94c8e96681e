package auth

import (
	"errors"
	"fmt"
	"time"

	"customer-accounts/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenService issues and validates self-contained bearer tokens carrying a
// subject claim and an absolute expiry. Validity is determined entirely by the
// signature and the expiry instant; there is no server-side session state and
// no revocation list.
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, error)
	// Validate returns the embedded subject. Expiry is a hard boundary with
	// no clock-skew leeway.
	Validate(token string) (string, error)
}

// NewTokenService selects the token backend for the configured algorithm
// identifier.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.Algorithm {
	case config.AlgorithmHS256:
		return NewJWTService(cfg.SecretKey), nil
	case config.AlgorithmPasetoV4:
		return NewPasetoService(cfg.SecretKey)
	default:
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}
}
