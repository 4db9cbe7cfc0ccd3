package repository

import (
	"errors"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
	syncdomain "aura-backend/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyRunning is returned by Begin when the pair is mid-sync
var ErrAlreadyRunning = errors.New("sync already running")

// SyncStateRepository owns the per-(user, source) state machine. Begin is
// the serialization point: exactly one caller wins for a given pair.
type SyncStateRepository interface {
	Begin(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error)
	// UpdateProgress ignores regressions so progress only moves forward
	// within a run.
	UpdateProgress(userID string, source ingestdomain.SourceType, progress int) error
	SetWatermark(userID string, source ingestdomain.SourceType, watermark string) error
	Complete(userID string, source ingestdomain.SourceType) error
	Fail(userID string, source ingestdomain.SourceType, message string) error
	// Reset returns the pair to idle without touching the watermark, used
	// when a run is cancelled.
	Reset(userID string, source ingestdomain.SourceType) error
	Get(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error)
	GetAll(userID string) ([]*syncdomain.SyncState, error)
}

type syncStateRepository struct {
	db *gorm.DB
}

func NewSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &syncStateRepository{db: db}
}

func (r *syncStateRepository) Begin(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error) {
	state, err := r.begin(userID, source)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// two first-ever Begins raced on the insert; the reread sees the
		// winner's row and loses cleanly
		return r.begin(userID, source)
	}
	return state, err
}

func (r *syncStateRepository) begin(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error) {
	var state syncdomain.SyncState
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND source_type = ?", userID, source).
			First(&state).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			state = syncdomain.SyncState{
				ID:         uuid.New().String(),
				UserID:     userID,
				SourceType: source,
				Status:     syncdomain.StatusSyncing,
			}
			return tx.Create(&state).Error
		}

		if state.Running() {
			return ErrAlreadyRunning
		}

		state.Status = syncdomain.StatusSyncing
		state.Progress = 0
		state.ErrorMessage = ""
		return tx.Save(&state).Error
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *syncStateRepository) UpdateProgress(userID string, source ingestdomain.SourceType, progress int) error {
	return r.db.Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND source_type = ? AND progress < ?", userID, source, progress).
		Update("progress", progress).Error
}

func (r *syncStateRepository) SetWatermark(userID string, source ingestdomain.SourceType, watermark string) error {
	return r.db.Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND source_type = ?", userID, source).
		Update("watermark", watermark).Error
}

func (r *syncStateRepository) Complete(userID string, source ingestdomain.SourceType) error {
	now := time.Now()
	return r.db.Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND source_type = ?", userID, source).
		Updates(map[string]interface{}{
			"status":        syncdomain.StatusCompleted,
			"progress":      100,
			"last_sync":     &now,
			"error_message": "",
		}).Error
}

func (r *syncStateRepository) Fail(userID string, source ingestdomain.SourceType, message string) error {
	return r.db.Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND source_type = ?", userID, source).
		Updates(map[string]interface{}{
			"status":        syncdomain.StatusError,
			"error_message": message,
		}).Error
}

func (r *syncStateRepository) Reset(userID string, source ingestdomain.SourceType) error {
	return r.db.Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND source_type = ?", userID, source).
		Updates(map[string]interface{}{
			"status":        syncdomain.StatusIdle,
			"progress":      0,
			"error_message": "",
		}).Error
}

func (r *syncStateRepository) Get(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error) {
	var state syncdomain.SyncState
	err := r.db.Where("user_id = ? AND source_type = ?", userID, source).First(&state).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *syncStateRepository) GetAll(userID string) ([]*syncdomain.SyncState, error) {
	var states []*syncdomain.SyncState
	if err := r.db.Where("user_id = ?", userID).Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}
