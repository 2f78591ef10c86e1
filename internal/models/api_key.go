package models

import "time"

// APIKey represents an API key issued to a user.
//
// A token value, once issued, uniquely identifies its owner until the key is
// deleted. The schema permits several keys per user; issuance is idempotent,
// so in practice each user holds one active key.
type APIKey struct {
	ID string `gorm:"type:text;primaryKey"` // Opaque UUID identifier.

	UserID string `gorm:"type:text;not null;index"` // Owning user ID.
	User   *User  `gorm:"foreignKey:UserID"`        // Associated user record.

	Token string `gorm:"type:text;not null;uniqueIndex"` // Full API key string.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// MaskedToken returns the token with its middle replaced for display.
func (k *APIKey) MaskedToken() string {
	if len(k.Token) < 12 {
		return "****"
	}
	return k.Token[:8] + "········" + k.Token[len(k.Token)-4:]
}
