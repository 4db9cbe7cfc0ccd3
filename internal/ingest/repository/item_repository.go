package repository

import (
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ingestItemRepository implements IngestItemRepository on gorm
type ingestItemRepository struct {
	db *gorm.DB
}

func NewIngestItemRepository(db *gorm.DB) IngestItemRepository {
	return &ingestItemRepository{db: db}
}

func (r *ingestItemRepository) Upsert(item *ingestdomain.IngestItem) (*ingestdomain.IngestItem, error) {
	var existing ingestdomain.IngestItem
	err := r.db.Where("user_id = ? AND source_type = ? AND external_id = ?",
		item.UserID, item.SourceType, item.ExternalID).First(&existing).Error

	now := time.Now()
	if err == gorm.ErrRecordNotFound {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CreatedAt = now
		item.UpdatedAt = now
		if createErr := r.db.Create(item).Error; createErr != nil {
			return nil, createErr
		}
		return item, nil
	} else if err != nil {
		return nil, err
	}

	// re-fetch supersedes the stored row but keeps its identity
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = now
	if saveErr := r.db.Save(item).Error; saveErr != nil {
		return nil, saveErr
	}
	return item, nil
}

func (r *ingestItemRepository) GetByID(id string) (*ingestdomain.IngestItem, error) {
	var item ingestdomain.IngestItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *ingestItemRepository) ListByUser(userID string, source ingestdomain.SourceType, limit, offset int) ([]*ingestdomain.IngestItem, error) {
	query := r.db.Where("user_id = ?", userID)
	if source != "" {
		query = query.Where("source_type = ?", source)
	}

	var items []*ingestdomain.IngestItem
	err := query.Order("occurred_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
