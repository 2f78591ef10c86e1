package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mailmeow/mailmeow/internal/models"
	"github.com/mailmeow/mailmeow/internal/security"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 6

// RegisterUser creates a new account. Duplicate emails are rejected with a
// conflict error; the unique index on users.email is the authority.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrValidation("invalid email")
	}
	if len(password) < minPasswordLength {
		return nil, ErrValidation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return nil, fmt.Errorf("register user: %w", errHash)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict("user already exists")
		}
		return nil, fmt.Errorf("register user: %w", errCreate)
	}
	return &user, nil
}

// DeleteUser removes an account after verifying its credentials. API keys and
// OAuth credentials owned by the account are deleted with it.
func (s *Service) DeleteUser(ctx context.Context, email, password string) error {
	user, errVerify := s.verifyCredentials(ctx, email, password)
	if errVerify != nil {
		return errVerify
	}

	if errDelete := s.db.WithContext(ctx).
		Select(clause.Associations).
		Delete(user).Error; errDelete != nil {
		return fmt.Errorf("delete user: %w", errDelete)
	}
	return nil
}
