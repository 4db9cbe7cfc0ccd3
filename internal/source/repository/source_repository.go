package repository

import (
	"sort"
	"sync"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
	sourcedomain "aura-backend/internal/source/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DataSourceRepository interface {
	// Save inserts or replaces the user's source of that type, keeping
	// one row per (user, source_type).
	Save(source *sourcedomain.DataSource) (*sourcedomain.DataSource, error)
	GetByUserAndType(userID string, sourceType ingestdomain.SourceType) (*sourcedomain.DataSource, error)
	ListByUser(userID string) ([]*sourcedomain.DataSource, error)
	SetActive(userID string, sourceType ingestdomain.SourceType, active bool) error
	Delete(userID string, sourceType ingestdomain.SourceType) error
	// ListUserIDs returns every user with at least one active source, for
	// the auto-sync sweep.
	ListUserIDs() ([]string, error)
}

type dataSourceRepository struct {
	db *gorm.DB
}

func NewDataSourceRepository(db *gorm.DB) DataSourceRepository {
	return &dataSourceRepository{db: db}
}

func (r *dataSourceRepository) Save(source *sourcedomain.DataSource) (*sourcedomain.DataSource, error) {
	var existing sourcedomain.DataSource
	err := r.db.Where("user_id = ? AND source_type = ?", source.UserID, source.SourceType).
		First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if source.ID == "" {
			source.ID = uuid.New().String()
		}
		if err := r.db.Create(source).Error; err != nil {
			return nil, err
		}
		return source, nil
	}

	source.ID = existing.ID
	source.CreatedAt = existing.CreatedAt
	if err := r.db.Save(source).Error; err != nil {
		return nil, err
	}
	return source, nil
}

func (r *dataSourceRepository) GetByUserAndType(userID string, sourceType ingestdomain.SourceType) (*sourcedomain.DataSource, error) {
	var source sourcedomain.DataSource
	err := r.db.Where("user_id = ? AND source_type = ?", userID, sourceType).First(&source).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &source, nil
}

func (r *dataSourceRepository) ListByUser(userID string) ([]*sourcedomain.DataSource, error) {
	var sources []*sourcedomain.DataSource
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *dataSourceRepository) SetActive(userID string, sourceType ingestdomain.SourceType, active bool) error {
	return r.db.Model(&sourcedomain.DataSource{}).
		Where("user_id = ? AND source_type = ?", userID, sourceType).
		Update("is_active", active).Error
}

func (r *dataSourceRepository) Delete(userID string, sourceType ingestdomain.SourceType) error {
	return r.db.Where("user_id = ? AND source_type = ?", userID, sourceType).
		Delete(&sourcedomain.DataSource{}).Error
}

func (r *dataSourceRepository) ListUserIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&sourcedomain.DataSource{}).
		Where("is_active = ?", true).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// memoryDataSourceRepository backs tests and local runs
type memoryDataSourceRepository struct {
	mu      sync.RWMutex
	sources map[string]*sourcedomain.DataSource
}

func NewMemoryDataSourceRepository() DataSourceRepository {
	return &memoryDataSourceRepository{sources: make(map[string]*sourcedomain.DataSource)}
}

func sourceKey(userID string, sourceType ingestdomain.SourceType) string {
	return userID + "|" + string(sourceType)
}

func (r *memoryDataSourceRepository) Save(source *sourcedomain.DataSource) (*sourcedomain.DataSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	key := sourceKey(source.UserID, source.SourceType)
	if existing, ok := r.sources[key]; ok {
		source.ID = existing.ID
		source.CreatedAt = existing.CreatedAt
	} else {
		if source.ID == "" {
			source.ID = uuid.New().String()
		}
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	copied := *source
	r.sources[key] = &copied
	return source, nil
}

func (r *memoryDataSourceRepository) GetByUserAndType(userID string, sourceType ingestdomain.SourceType) (*sourcedomain.DataSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[sourceKey(userID, sourceType)]
	if !ok {
		return nil, nil
	}
	copied := *source
	return &copied, nil
}

func (r *memoryDataSourceRepository) ListByUser(userID string) ([]*sourcedomain.DataSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*sourcedomain.DataSource
	for _, source := range r.sources {
		if source.UserID == userID {
			copied := *source
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryDataSourceRepository) SetActive(userID string, sourceType ingestdomain.SourceType, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if source, ok := r.sources[sourceKey(userID, sourceType)]; ok {
		source.IsActive = active
		source.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memoryDataSourceRepository) Delete(userID string, sourceType ingestdomain.SourceType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sources, sourceKey(userID, sourceType))
	return nil
}

func (r *memoryDataSourceRepository) ListUserIDs() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, source := range r.sources {
		if !source.IsActive {
			continue
		}
		if _, dup := seen[source.UserID]; dup {
			continue
		}
		seen[source.UserID] = struct{}{}
		ids = append(ids, source.UserID)
	}
	return ids, nil
}
