package models

import "time"

// User represents a registered account that owns API keys and OAuth credentials.
type User struct {
	ID string `gorm:"type:text;primaryKey"` // Opaque UUID identifier.

	Email    string `gorm:"type:text;not null;uniqueIndex"` // Login email, unique across accounts.
	Password string `gorm:"type:text;not null"`             // bcrypt password hash.

	APIKeys          []APIKey          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Keys issued to this user.
	OAuthCredentials []OAuthCredential `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Bound provider credentials.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
