package domain

import (
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
)

// DataSource is one connected account for a user. Token fields hold
// ciphertext; only the credential layer sees plaintext. One source of
// each type per user.
type DataSource struct {
	ID           string                  `json:"id" gorm:"primaryKey"`
	UserID       string                  `json:"user_id" gorm:"uniqueIndex:idx_source_user_type;not null"`
	SourceType   ingestdomain.SourceType `json:"source_type" gorm:"uniqueIndex:idx_source_user_type;not null"`
	DisplayName  string                  `json:"display_name"`
	AccessToken  string                  `json:"-" gorm:"not null"`
	RefreshToken string                  `json:"-"`
	TokenExpiry  *time.Time              `json:"token_expiry,omitempty"`
	IsActive     bool                    `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// TokenExpired reports whether the access token needs a refresh, with a
// one minute safety margin
func (s *DataSource) TokenExpired(now time.Time) bool {
	if s.TokenExpiry == nil {
		return false
	}
	return now.Add(time.Minute).After(*s.TokenExpiry)
}
