// Package service owns the business rules for the credential binding and
// delegated-send authorization flow: how an API key maps to a user, how a
// user's OAuth credential is created, rotated, and revoked, and the checks
// that must pass before a send may proceed.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mailmeow/mailmeow/internal/models"
	"github.com/mailmeow/mailmeow/internal/security"
	"gorm.io/gorm"
)

// Service implements the credential binding operations over a relational store.
type Service struct {
	db *gorm.DB
}

// New constructs a Service.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolveUser looks up an API key and returns its owner. It is the
// authorization gate for every key-scoped operation; callers must not proceed
// without a resolved identity.
func (s *Service) ResolveUser(ctx context.Context, apiKey string) (*models.User, error) {
	token := strings.TrimSpace(apiKey)
	if token == "" {
		return nil, ErrAuthentication("invalid api key")
	}

	var key models.APIKey
	if errFind := s.db.WithContext(ctx).Where("token = ?", token).First(&key).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrAuthentication("invalid api key")
		}
		return nil, fmt.Errorf("resolve user: %w", errFind)
	}

	var user models.User
	if errFind := s.db.WithContext(ctx).Where("id = ?", key.UserID).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrAuthentication("invalid api key")
		}
		return nil, fmt.Errorf("resolve user: %w", errFind)
	}
	return &user, nil
}

// verifyCredentials authenticates an email/password pair. Unknown-user and
// wrong-password failures return an identical error, and the missing-user
// path burns a bcrypt comparison so the two are not separable by timing.
func (s *Service) verifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrValidation("missing email or password")
	}

	var user models.User
	if errFind := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			security.BurnPasswordCheck(password)
			return nil, ErrAuthentication("invalid credentials")
		}
		return nil, fmt.Errorf("verify credentials: %w", errFind)
	}

	if !security.CheckPassword(user.Password, password) {
		return nil, ErrAuthentication("invalid credentials")
	}
	return &user, nil
}
