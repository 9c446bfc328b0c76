package service

import (
	"context"
	"fmt"

	"vocabflash/internal/repository"
)

// AuthService guards the bot behind a shared password
type AuthService struct {
	userRepo    repository.UserRepository
	botPassword string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, botPassword string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		botPassword: botPassword,
	}
}

// Authorize registers the user on first contact and reports whether they
// have already entered the password
func (s *AuthService) Authorize(ctx context.Context, userID int64) (bool, error) {
	if err := s.userRepo.EnsureUserExists(ctx, userID); err != nil {
		return false, fmt.Errorf("ensure user %d: %w", userID, err)
	}

	authorized, err := s.userRepo.IsAuthorized(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check user %d: %w", userID, err)
	}
	return authorized, nil
}

// Login marks the user as authorized when password matches. A wrong
// password is not an error.
func (s *AuthService) Login(ctx context.Context, userID int64, password string) (bool, error) {
	if password != s.botPassword {
		return false, nil
	}

	if err := s.userRepo.AuthorizeUser(ctx, userID); err != nil {
		return false, fmt.Errorf("authorize user %d: %w", userID, err)
	}
	return true, nil
}
