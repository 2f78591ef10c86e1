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
)

// IssueAPIKey authenticates the user and returns their API key. Issuance is
// idempotent per user: an existing key is returned as-is, otherwise a fresh
// high-entropy token is minted and persisted. The second return value reports
// whether a new key was created.
func (s *Service) IssueAPIKey(ctx context.Context, email, password string) (*models.APIKey, bool, error) {
	user, errVerify := s.verifyCredentials(ctx, email, password)
	if errVerify != nil {
		return nil, false, errVerify
	}

	var existing models.APIKey
	errFind := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		First(&existing).Error
	if errFind == nil {
		return &existing, false, nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("issue api key: %w", errFind)
	}

	token, errGenerate := security.GenerateAPIKey()
	if errGenerate != nil {
		return nil, false, fmt.Errorf("issue api key: %w", errGenerate)
	}

	key := models.APIKey{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Token:  token,
	}
	if errCreate := s.db.WithContext(ctx).Create(&key).Error; errCreate != nil {
		return nil, false, fmt.Errorf("issue api key: %w", errCreate)
	}
	return &key, true, nil
}

// RevokeAPIKey authenticates the user and deletes the supplied key. A key
// owned by a different user is refused with a message that does not confirm
// the key exists.
func (s *Service) RevokeAPIKey(ctx context.Context, email, password, apiKey string) error {
	user, errVerify := s.verifyCredentials(ctx, email, password)
	if errVerify != nil {
		return errVerify
	}

	token := strings.TrimSpace(apiKey)
	if token == "" {
		return ErrValidation("missing api key")
	}

	var key models.APIKey
	if errFind := s.db.WithContext(ctx).Where("token = ?", token).First(&key).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrNotFound("api key not found or not owned")
		}
		return fmt.Errorf("revoke api key: %w", errFind)
	}
	if key.UserID != user.ID {
		return ErrAuthorization("api key not found or not owned")
	}

	if errDelete := s.db.WithContext(ctx).Delete(&key).Error; errDelete != nil {
		return fmt.Errorf("revoke api key: %w", errDelete)
	}
	return nil
}

// ListAPIKeys returns all keys owned by the user, newest first.
func (s *Service) ListAPIKeys(ctx context.Context, userID string) ([]models.APIKey, error) {
	var keys []models.APIKey
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&keys).Error; errFind != nil {
		return nil, fmt.Errorf("list api keys: %w", errFind)
	}
	return keys, nil
}

// Login authenticates an email/password pair for the session surface.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.verifyCredentials(ctx, email, password)
}
