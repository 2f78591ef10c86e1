package db

import (
	"fmt"

	"github.com/mailmeow/mailmeow/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all persisted models.
//
// The composite unique index on oauth_credentials (user_id, provider) is the
// authoritative guard against duplicate binds; migration fails loudly if it
// is missing afterwards rather than leaving the weaker check-then-insert path
// as the only protection.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.OAuthCredential{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	if !conn.Migrator().HasIndex(&models.OAuthCredential{}, "uq_oauth_user_provider") {
		return fmt.Errorf("db: migrate: missing unique index uq_oauth_user_provider")
	}
	return nil
}
