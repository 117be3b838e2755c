package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

const userColumns = `username, password, created_at, updated_at`

func errUserNotFound(username string) error {
	return domain.NewError(domain.KindNotFound, "user not found: %s", username)
}

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO user (`+userColumns+`)
		VALUES (:username, :password, :created_at, :updated_at)`, user)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM user WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound(username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Update only ever changes the password hash.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE user SET password = :password, updated_at = :updated_at
		WHERE username = :username`, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectRow(result, errUserNotFound(user.Username))
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectRow(result, errUserNotFound(username))
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM user ORDER BY username`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
