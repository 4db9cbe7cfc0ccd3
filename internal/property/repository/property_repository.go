package repository

import (
	"sort"
	"sync"

	propertydomain "aura-backend/internal/property/domain"

	"gorm.io/gorm"
)

// PropertyRepository is the property directory store. Writes beyond Delete
// belong to the property-management side.
type PropertyRepository interface {
	ListByUser(userID string) ([]*propertydomain.Property, error)
	GetByID(id string) (*propertydomain.Property, error)
	Delete(id string) error
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) ListByUser(userID string) ([]*propertydomain.Property, error) {
	var properties []*propertydomain.Property
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) GetByID(id string) (*propertydomain.Property, error) {
	var property propertydomain.Property
	err := r.db.Where("id = ?", id).First(&property).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&propertydomain.Property{}).Error
}

// memoryPropertyRepository backs tests and local runs
type memoryPropertyRepository struct {
	mu         sync.RWMutex
	properties map[string]*propertydomain.Property
}

func NewMemoryPropertyRepository(properties ...*propertydomain.Property) PropertyRepository {
	r := &memoryPropertyRepository{properties: make(map[string]*propertydomain.Property)}
	for _, p := range properties {
		copied := *p
		r.properties[p.ID] = &copied
	}
	return r
}

func (r *memoryPropertyRepository) ListByUser(userID string) ([]*propertydomain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*propertydomain.Property
	for _, p := range r.properties {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memoryPropertyRepository) GetByID(id string) (*propertydomain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.properties[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *memoryPropertyRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.properties, id)
	return nil
}
