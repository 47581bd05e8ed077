// Package auth handles account registration, password verification, and
// session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// ErrInvalidCredentials is returned when mail address or password do not
// match a stored account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPassword string) (domain.UserLogin, error)
	GetUserByMail(ctx context.Context, email string) (domain.UserLogin, error)
	UpdateUser(ctx context.Context, email, newEmail, newHashedPassword string) (domain.UserLogin, error)
	DeleteUser(ctx context.Context, email string) (int64, error)
}

// Service manages accounts on top of a UserStore.
type Service struct {
	store UserStore
}

// NewService creates the auth service.
func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.store.CreateUser(ctx, email, hashed)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Email: created.Email}, nil
}

// Authenticate verifies mail address and password against the store.
// A missing account and a wrong password are indistinguishable to the
// caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	stored, err := s.store.GetUserByMail(ctx, email)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if !VerifyPassword(password, stored.HashedPassword) {
		return domain.User{}, ErrInvalidCredentials
	}
	return domain.User{Email: stored.Email}, nil
}

// ResolveUser confirms the account behind a session token still exists.
func (s *Service) ResolveUser(ctx context.Context, email string) (domain.User, error) {
	stored, err := s.store.GetUserByMail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Email: stored.Email}, nil
}

// UpdateUser changes mail address and password of an account.
func (s *Service) UpdateUser(ctx context.Context, email, newEmail, newPassword string) (domain.User, error) {
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	updated, err := s.store.UpdateUser(ctx, email, newEmail, hashed)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Email: updated.Email}, nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	rows, err := s.store.DeleteUser(ctx, email)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("delete user %s: no such account", email)
	}
	return nil
}
