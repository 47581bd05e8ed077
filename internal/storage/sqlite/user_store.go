package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// CreateUser inserts a new account with an already hashed password.
func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string) (domain.UserLogin, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, hashed_password) VALUES (?, ?)
	`, email, hashedPassword)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.UserLogin{}, fmt.Errorf("%w: user %s", ErrDuplicateEntry, email)
		}
		return domain.UserLogin{}, fmt.Errorf("create user: %w", err)
	}
	return domain.UserLogin{Email: email, HashedPassword: hashedPassword}, nil
}

// GetUserByMail loads one account.
func (s *Store) GetUserByMail(ctx context.Context, email string) (domain.UserLogin, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT email, hashed_password FROM users WHERE email = ?
	`, email)

	var user domain.UserLogin
	if err := row.Scan(&user.Email, &user.HashedPassword); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserLogin{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return domain.UserLogin{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// UpdateUser replaces mail address and password hash of an account.
func (s *Store) UpdateUser(ctx context.Context, email, newEmail, newHashedPassword string) (domain.UserLogin, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = ?, hashed_password = ? WHERE email = ?
	`, newEmail, newHashedPassword, email)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.UserLogin{}, fmt.Errorf("%w: user %s", ErrDuplicateEntry, newEmail)
		}
		return domain.UserLogin{}, fmt.Errorf("update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.UserLogin{}, fmt.Errorf("update user: %w", err)
	}
	if rows == 0 {
		return domain.UserLogin{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return domain.UserLogin{Email: newEmail, HashedPassword: newHashedPassword}, nil
}

// DeleteUser removes an account. Dependent ratings and filters cascade.
func (s *Store) DeleteUser(ctx context.Context, email string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return rows, nil
}
