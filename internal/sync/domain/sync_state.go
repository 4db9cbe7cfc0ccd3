package domain

import (
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
)

// SyncStatus is the lifecycle of one source's sync
type SyncStatus string

const (
	StatusIdle      SyncStatus = "idle"
	StatusSyncing   SyncStatus = "syncing"
	StatusCompleted SyncStatus = "completed"
	StatusError     SyncStatus = "error"
)

// SyncState tracks one (user, source) pair. Watermark is the connector's
// opaque resume token; it only advances after a batch is fully persisted,
// so a crash or failure resumes without losing items.
type SyncState struct {
	ID           string                  `json:"id" gorm:"primaryKey"`
	UserID       string                  `json:"user_id" gorm:"uniqueIndex:idx_sync_user_source;not null"`
	SourceType   ingestdomain.SourceType `json:"source_type" gorm:"uniqueIndex:idx_sync_user_source;not null"`
	Status       SyncStatus              `json:"status" gorm:"default:idle"`
	Progress     int                     `json:"progress"`
	LastSync     *time.Time              `json:"last_sync"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Watermark    string                  `json:"-"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// Running reports whether a new sync for this pair must be rejected
func (s *SyncState) Running() bool {
	return s.Status == StatusSyncing
}
