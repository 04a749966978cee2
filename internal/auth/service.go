package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/squadboard/squadboard/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates username/password credentials. Lookup
// failures and bad passwords collapse into the same error so the
// response never reveals which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// AccountByID resolves a session's user id to its account.
func (s *Service) AccountByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}
