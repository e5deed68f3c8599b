package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/database"
	"github.com/justai-labs/justai-engine/pkg/models"
)

// UserRepository provides data access for user records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByName(ctx context.Context, userName string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	// Update renames the user stored under oldName.
	Update(ctx context.Context, oldName string, user *models.User) error
	Delete(ctx context.Context, userName string) error
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (user_name) VALUES ($1)`

	_, err := r.db.Exec(ctx, query, user.UserName)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", user.UserName, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByName(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT user_name FROM users WHERE user_name = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, userName).Scan(&user.UserName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", userName, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT user_name FROM users ORDER BY user_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *userRepository) Update(ctx context.Context, oldName string, user *models.User) error {
	query := `UPDATE users SET user_name = $2 WHERE user_name = $1`

	result, err := r.db.Exec(ctx, query, oldName, user.UserName)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", user.UserName, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", oldName, apperrors.ErrNotFound)
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, userName string) error {
	query := `DELETE FROM users WHERE user_name = $1`

	result, err := r.db.Exec(ctx, query, userName)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", userName, apperrors.ErrNotFound)
	}

	return nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
