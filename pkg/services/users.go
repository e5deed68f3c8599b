package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/repositories"
)

// UserService defines the interface for user operations.
type UserService interface {
	Create(ctx context.Context, userName string) error
	GetAll(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, userName string) (*models.User, error)
	Delete(ctx context.Context, userName string) error
	Edit(ctx context.Context, currentUserName, newUserName string) error
}

// userService implements UserService.
type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create registers a new user. Returns ErrDuplicate if the name is taken.
func (s *userService) Create(ctx context.Context, userName string) error {
	_, err := s.userRepo.GetByName(ctx, userName)
	if err == nil {
		return fmt.Errorf("user %q: %w", userName, apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	return s.userRepo.Create(ctx, &models.User{UserName: userName})
}

// GetAll returns all users.
func (s *userService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// Get returns the user with the given name.
func (s *userService) Get(ctx context.Context, userName string) (*models.User, error) {
	return s.userRepo.GetByName(ctx, userName)
}

// Delete unregisters a user.
func (s *userService) Delete(ctx context.Context, userName string) error {
	if _, err := s.userRepo.GetByName(ctx, userName); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userName)
}

// Edit renames a user. The new name must not collide with an existing user.
func (s *userService) Edit(ctx context.Context, currentUserName, newUserName string) error {
	_, err := s.userRepo.GetByName(ctx, newUserName)
	if err == nil {
		return fmt.Errorf("user %q: %w", newUserName, apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if _, err := s.userRepo.GetByName(ctx, currentUserName); err != nil {
		return err
	}

	return s.userRepo.Update(ctx, currentUserName, &models.User{UserName: newUserName})
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
