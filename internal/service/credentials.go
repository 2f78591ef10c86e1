package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mailmeow/mailmeow/internal/models"
	"gorm.io/gorm"
)

// BindInput carries the token material for a bind or rebind.
type BindInput struct {
	Provider     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// validate checks the input fields shared by bind and rebind.
func (in *BindInput) validate() error {
	in.Provider = strings.TrimSpace(in.Provider)
	in.AccessToken = strings.TrimSpace(in.AccessToken)
	if in.Provider == "" {
		return ErrValidation("missing provider")
	}
	if !models.KnownProvider(in.Provider) {
		return ErrValidation("unsupported provider")
	}
	if in.AccessToken == "" {
		return ErrValidation("missing access_token")
	}
	return nil
}

// ProviderBinding describes one bound provider for listing.
type ProviderBinding struct {
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// BindCredential creates a new OAuth credential for the key's owner. Binding
// an already bound (user, provider) pair fails with a conflict; rebinding is
// the explicit path for rotation. The existence pre-check gives the friendly
// failure, the composite unique index settles concurrent duplicates.
func (s *Service) BindCredential(ctx context.Context, apiKey string, in BindInput) (*models.OAuthCredential, error) {
	user, errResolve := s.ResolveUser(ctx, apiKey)
	if errResolve != nil {
		return nil, errResolve
	}
	if errValidate := in.validate(); errValidate != nil {
		return nil, errValidate
	}

	var existing models.OAuthCredential
	errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", user.ID, in.Provider).
		First(&existing).Error
	if errFind == nil {
		return nil, ErrConflict("oauth credential already bound; use rebind")
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("bind credential: %w", errFind)
	}

	cred := models.OAuthCredential{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Provider:     in.Provider,
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		ExpiresAt:    in.ExpiresAt,
	}
	if errCreate := s.db.WithContext(ctx).Create(&cred).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict("oauth credential already bound; use rebind")
		}
		return nil, fmt.Errorf("bind credential: %w", errCreate)
	}
	return &cred, nil
}

// RebindCredential replaces the token material of an existing credential in
// place. The record keeps its identifier, owner, and creation timestamp.
func (s *Service) RebindCredential(ctx context.Context, apiKey string, in BindInput) (*models.OAuthCredential, error) {
	user, errResolve := s.ResolveUser(ctx, apiKey)
	if errResolve != nil {
		return nil, errResolve
	}
	if errValidate := in.validate(); errValidate != nil {
		return nil, errValidate
	}

	var cred models.OAuthCredential
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", user.ID, in.Provider).
		First(&cred).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("no oauth credential bound; use bind")
		}
		return nil, fmt.Errorf("rebind credential: %w", errFind)
	}

	updates := map[string]any{
		"access_token":  in.AccessToken,
		"refresh_token": in.RefreshToken,
		"expires_at":    in.ExpiresAt,
		"updated_at":    time.Now().UTC(),
	}
	if errUpdate := s.db.WithContext(ctx).
		Model(&cred).
		Updates(updates).Error; errUpdate != nil {
		return nil, fmt.Errorf("rebind credential: %w", errUpdate)
	}

	cred.AccessToken = in.AccessToken
	cred.RefreshToken = in.RefreshToken
	cred.ExpiresAt = in.ExpiresAt
	return &cred, nil
}

// UnbindCredential deletes the credential for (user, provider). Unbinding an
// unbound provider fails; a second unbind is an error, not a no-op.
func (s *Service) UnbindCredential(ctx context.Context, apiKey, provider string) error {
	user, errResolve := s.ResolveUser(ctx, apiKey)
	if errResolve != nil {
		return errResolve
	}
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return ErrValidation("missing provider")
	}

	var cred models.OAuthCredential
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", user.ID, provider).
		First(&cred).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrNotFound("no oauth credential bound")
		}
		return fmt.Errorf("unbind credential: %w", errFind)
	}

	if errDelete := s.db.WithContext(ctx).Delete(&cred).Error; errDelete != nil {
		return fmt.Errorf("unbind credential: %w", errDelete)
	}
	return nil
}

// ListProviders returns the providers bound to the key's owner.
func (s *Service) ListProviders(ctx context.Context, apiKey string) ([]ProviderBinding, error) {
	user, errResolve := s.ResolveUser(ctx, apiKey)
	if errResolve != nil {
		return nil, errResolve
	}

	var creds []models.OAuthCredential
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&creds).Error; errFind != nil {
		return nil, fmt.Errorf("list providers: %w", errFind)
	}

	bindings := make([]ProviderBinding, 0, len(creds))
	for _, cred := range creds {
		bindings = append(bindings, ProviderBinding{
			Provider:  cred.Provider,
			CreatedAt: cred.CreatedAt,
		})
	}
	return bindings, nil
}

// AuthorizeSend resolves the credential an email send should use. With a
// provider given it must match a bound credential; without one the user must
// have exactly one credential bound. No network I/O happens here, the actual
// send belongs to the mail sender.
func (s *Service) AuthorizeSend(ctx context.Context, apiKey, provider string) (*models.OAuthCredential, error) {
	user, errResolve := s.ResolveUser(ctx, apiKey)
	if errResolve != nil {
		return nil, errResolve
	}

	provider = strings.TrimSpace(provider)
	if provider != "" {
		var cred models.OAuthCredential
		if errFind := s.db.WithContext(ctx).
			Where("user_id = ? AND provider = ?", user.ID, provider).
			First(&cred).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound("no oauth credential bound")
			}
			return nil, fmt.Errorf("authorize send: %w", errFind)
		}
		return &cred, nil
	}

	var creds []models.OAuthCredential
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Limit(2).
		Find(&creds).Error; errFind != nil {
		return nil, fmt.Errorf("authorize send: %w", errFind)
	}
	switch len(creds) {
	case 0:
		return nil, ErrNotFound("no oauth credential bound")
	case 1:
		return &creds[0], nil
	default:
		return nil, ErrValidation("multiple providers bound; specify provider")
	}
}
