package repository

import (
	ingestdomain "aura-backend/internal/ingest/domain"
)

// IngestItemRepository persists canonical items with upsert semantics
// keyed by (user_id, source_type, external_id)
type IngestItemRepository interface {
	// Upsert stores the item, replacing any earlier fetch of the same
	// external id. Returns the stored item (existing id preserved).
	Upsert(item *ingestdomain.IngestItem) (*ingestdomain.IngestItem, error)
	GetByID(id string) (*ingestdomain.IngestItem, error)
	ListByUser(userID string, source ingestdomain.SourceType, limit, offset int) ([]*ingestdomain.IngestItem, error)
}

// ExtractedEntityRepository persists the entities derived from one item.
// ReplaceForItem keeps re-extraction idempotent.
type ExtractedEntityRepository interface {
	ReplaceForItem(itemID string, entities []*ingestdomain.ExtractedEntity) error
	ListByItem(itemID string) ([]*ingestdomain.ExtractedEntity, error)
}
