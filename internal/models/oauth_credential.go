package models

import "time"

// Email providers a credential can be bound for.
const (
	// ProviderGmail sends through the Gmail REST API.
	ProviderGmail = "gmail"
	// ProviderOutlook sends through the Microsoft Graph API.
	ProviderOutlook = "outlook"
	// ProviderMicrosoftPersonal sends through the Microsoft Graph API with a personal account.
	ProviderMicrosoftPersonal = "microsoft_personal"
)

// KnownProvider reports whether the provider identifier is recognized.
func KnownProvider(provider string) bool {
	switch provider {
	case ProviderGmail, ProviderOutlook, ProviderMicrosoftPersonal:
		return true
	}
	return false
}

// OAuthCredential stores provider token material bound to a user.
//
// At most one credential exists per (user, provider) pair; the composite
// unique index is the authoritative guard against concurrent duplicate binds.
type OAuthCredential struct {
	ID string `gorm:"type:text;primaryKey"` // Opaque UUID identifier.

	UserID string `gorm:"type:text;not null;uniqueIndex:uq_oauth_user_provider"` // Owning user ID.
	User   *User  `gorm:"foreignKey:UserID"`                                     // Associated user record.

	Provider     string     `gorm:"type:text;not null;uniqueIndex:uq_oauth_user_provider"` // Provider identifier.
	AccessToken  string     `gorm:"type:text;not null"`                                    // OAuth access token.
	RefreshToken string     `gorm:"type:text"`                                             // Optional refresh token.
	ExpiresAt    *time.Time // Optional access token expiry.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
