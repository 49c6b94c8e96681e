package customer

import (
	"context"
	"errors"
	"fmt"

	"customer-accounts/internal/logging"
)

var (
	ErrInvalidLanguage  = errors.New("language must be one of: en, de")
	ErrStoreUnavailable = errors.New("customer store unavailable")
)

// Service handles profile reads and edits for authenticated customers
type Service struct {
	repo   Repository
	logger *logging.Logger
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProfile returns the profile whose email matches the authenticated
// username.
func (s *Service) GetProfile(ctx context.Context, email string) (*Customer, error) {
	profile, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to read customer profile", "email", email, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return profile, nil
}

// UpdateLanguage validates and persists a new profile language, returning the
// updated profile.
func (s *Service) UpdateLanguage(ctx context.Context, email, language string) (*Customer, error) {
	if !ValidLanguage(language) {
		return nil, ErrInvalidLanguage
	}

	profile, err := s.GetProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLanguage(ctx, profile.CustomerID, language); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to update customer language", "email", email, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	profile.Language = &language
	return profile, nil
}
