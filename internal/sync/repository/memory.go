package repository

import (
	"sync"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
	syncdomain "aura-backend/internal/sync/domain"

	"github.com/google/uuid"
)

// memorySyncStateRepository backs tests and local runs; the mutex gives
// Begin the same one-winner guarantee the row lock does in postgres
type memorySyncStateRepository struct {
	mu     sync.Mutex
	states map[string]*syncdomain.SyncState
}

func NewMemorySyncStateRepository() SyncStateRepository {
	return &memorySyncStateRepository{states: make(map[string]*syncdomain.SyncState)}
}

func stateKey(userID string, source ingestdomain.SourceType) string {
	return userID + "|" + string(source)
}

func (r *memorySyncStateRepository) Begin(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := stateKey(userID, source)
	state, ok := r.states[key]
	if !ok {
		state = &syncdomain.SyncState{
			ID:         uuid.New().String(),
			UserID:     userID,
			SourceType: source,
			Status:     syncdomain.StatusIdle,
			CreatedAt:  time.Now(),
		}
		r.states[key] = state
	}

	if state.Running() {
		return nil, ErrAlreadyRunning
	}

	state.Status = syncdomain.StatusSyncing
	state.Progress = 0
	state.ErrorMessage = ""
	state.UpdatedAt = time.Now()

	copied := *state
	return &copied, nil
}

func (r *memorySyncStateRepository) UpdateProgress(userID string, source ingestdomain.SourceType, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[stateKey(userID, source)]; ok && progress > state.Progress {
		state.Progress = progress
		state.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memorySyncStateRepository) SetWatermark(userID string, source ingestdomain.SourceType, watermark string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[stateKey(userID, source)]; ok {
		state.Watermark = watermark
		state.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memorySyncStateRepository) Complete(userID string, source ingestdomain.SourceType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[stateKey(userID, source)]; ok {
		now := time.Now()
		state.Status = syncdomain.StatusCompleted
		state.Progress = 100
		state.LastSync = &now
		state.ErrorMessage = ""
		state.UpdatedAt = now
	}
	return nil
}

func (r *memorySyncStateRepository) Fail(userID string, source ingestdomain.SourceType, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[stateKey(userID, source)]; ok {
		state.Status = syncdomain.StatusError
		state.ErrorMessage = message
		state.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memorySyncStateRepository) Reset(userID string, source ingestdomain.SourceType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[stateKey(userID, source)]; ok {
		state.Status = syncdomain.StatusIdle
		state.Progress = 0
		state.ErrorMessage = ""
		state.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memorySyncStateRepository) Get(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[stateKey(userID, source)]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (r *memorySyncStateRepository) GetAll(userID string) ([]*syncdomain.SyncState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*syncdomain.SyncState
	for _, state := range r.states {
		if state.UserID == userID {
			copied := *state
			out = append(out, &copied)
		}
	}
	return out, nil
}
