package repository

import (
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// extractedEntityRepository implements ExtractedEntityRepository on gorm
type extractedEntityRepository struct {
	db *gorm.DB
}

func NewExtractedEntityRepository(db *gorm.DB) ExtractedEntityRepository {
	return &extractedEntityRepository{db: db}
}

// ReplaceForItem swaps the item's entity set in one transaction so a
// re-extraction never leaves duplicates behind
func (r *extractedEntityRepository) ReplaceForItem(itemID string, entities []*ingestdomain.ExtractedEntity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_item_id = ?", itemID).
			Delete(&ingestdomain.ExtractedEntity{}).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, e := range entities {
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			e.SourceItemID = itemID
			e.CreatedAt = now
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *extractedEntityRepository) ListByItem(itemID string) ([]*ingestdomain.ExtractedEntity, error) {
	var entities []*ingestdomain.ExtractedEntity
	err := r.db.Where("source_item_id = ?", itemID).Order("created_at, type").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}
