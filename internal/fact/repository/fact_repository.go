package repository

import (
	"sort"
	"sync"
	"time"

	factdomain "aura-backend/internal/fact/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FactFilter narrows ListByUser; zero values mean no constraint
type FactFilter struct {
	PropertyID *string
	FactType   factdomain.FactType
	Category   string
}

type FactRepository interface {
	// Upsert inserts or replaces the fact keyed by (source_item_id,
	// fact_type), so re-syncing an item never duplicates facts.
	Upsert(fact *factdomain.Fact) (*factdomain.Fact, error)
	ListByUser(userID string, filter FactFilter) ([]*factdomain.Fact, error)
	// DetachProperty nulls the property reference on every fact pointing
	// at the deleted property. The facts themselves survive.
	DetachProperty(propertyID string) error
}

type factRepository struct {
	db *gorm.DB
}

func NewFactRepository(db *gorm.DB) FactRepository {
	return &factRepository{db: db}
}

func (r *factRepository) Upsert(fact *factdomain.Fact) (*factdomain.Fact, error) {
	var existing factdomain.Fact
	err := r.db.Where("source_item_id = ? AND fact_type = ?", fact.SourceItemID, fact.FactType).
		First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if fact.ID == "" {
			fact.ID = uuid.New().String()
		}
		if err := r.db.Create(fact).Error; err != nil {
			return nil, err
		}
		return fact, nil
	}

	fact.ID = existing.ID
	fact.CreatedAt = existing.CreatedAt
	if err := r.db.Save(fact).Error; err != nil {
		return nil, err
	}
	return fact, nil
}

func (r *factRepository) ListByUser(userID string, filter FactFilter) ([]*factdomain.Fact, error) {
	query := r.db.Where("user_id = ?", userID)
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.FactType != "" {
		query = query.Where("fact_type = ?", filter.FactType)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var facts []*factdomain.Fact
	if err := query.Order("occurred_at DESC").Find(&facts).Error; err != nil {
		return nil, err
	}
	return facts, nil
}

func (r *factRepository) DetachProperty(propertyID string) error {
	return r.db.Model(&factdomain.Fact{}).
		Where("property_id = ?", propertyID).
		Update("property_id", nil).Error
}

// memoryFactRepository backs tests and local runs
type memoryFactRepository struct {
	mu    sync.RWMutex
	facts map[string]*factdomain.Fact
	byKey map[string]string
}

func NewMemoryFactRepository() FactRepository {
	return &memoryFactRepository{
		facts: make(map[string]*factdomain.Fact),
		byKey: make(map[string]string),
	}
}

func factKey(sourceItemID string, factType factdomain.FactType) string {
	return sourceItemID + "|" + string(factType)
}

func (r *memoryFactRepository) Upsert(fact *factdomain.Fact) (*factdomain.Fact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	key := factKey(fact.SourceItemID, fact.FactType)
	if id, ok := r.byKey[key]; ok {
		existing := r.facts[id]
		fact.ID = existing.ID
		fact.CreatedAt = existing.CreatedAt
	} else {
		if fact.ID == "" {
			fact.ID = uuid.New().String()
		}
		fact.CreatedAt = now
	}
	fact.UpdatedAt = now

	copied := *fact
	r.facts[fact.ID] = &copied
	r.byKey[key] = fact.ID
	return fact, nil
}

func (r *memoryFactRepository) ListByUser(userID string, filter FactFilter) ([]*factdomain.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*factdomain.Fact
	for _, f := range r.facts {
		if f.UserID != userID {
			continue
		}
		if filter.PropertyID != nil && (f.PropertyID == nil || *f.PropertyID != *filter.PropertyID) {
			continue
		}
		if filter.FactType != "" && f.FactType != filter.FactType {
			continue
		}
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		copied := *f
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (r *memoryFactRepository) DetachProperty(propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.facts {
		if f.PropertyID != nil && *f.PropertyID == propertyID {
			f.PropertyID = nil
		}
	}
	return nil
}
