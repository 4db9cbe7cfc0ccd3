package repository

import (
	"sort"
	"sync"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
)

// In-memory implementations used by tests and local runs without Postgres.

type memoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]*ingestdomain.IngestItem // id -> item
	byKey map[string]string                   // user|source|external -> id
}

func NewMemoryIngestItemRepository() IngestItemRepository {
	return &memoryItemRepository{
		items: make(map[string]*ingestdomain.IngestItem),
		byKey: make(map[string]string),
	}
}

func itemKey(userID string, source ingestdomain.SourceType, externalID string) string {
	return userID + "|" + string(source) + "|" + externalID
}

func (r *memoryItemRepository) Upsert(item *ingestdomain.IngestItem) (*ingestdomain.IngestItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := itemKey(item.UserID, item.SourceType, item.ExternalID)
	now := time.Now()
	if existingID, ok := r.byKey[key]; ok {
		existing := r.items[existingID]
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	stored := *item
	r.items[item.ID] = &stored
	r.byKey[key] = item.ID
	return item, nil
}

func (r *memoryItemRepository) GetByID(id string) (*ingestdomain.IngestItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *memoryItemRepository) ListByUser(userID string, source ingestdomain.SourceType, limit, offset int) ([]*ingestdomain.IngestItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*ingestdomain.IngestItem
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		if source != "" && item.SourceType != source {
			continue
		}
		copied := *item
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

type memoryEntityRepository struct {
	mu     sync.RWMutex
	byItem map[string][]*ingestdomain.ExtractedEntity
}

func NewMemoryExtractedEntityRepository() ExtractedEntityRepository {
	return &memoryEntityRepository{byItem: make(map[string][]*ingestdomain.ExtractedEntity)}
}

func (r *memoryEntityRepository) ReplaceForItem(itemID string, entities []*ingestdomain.ExtractedEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := make([]*ingestdomain.ExtractedEntity, 0, len(entities))
	for _, e := range entities {
		copied := *e
		if copied.ID == "" {
			copied.ID = uuid.New().String()
		}
		copied.SourceItemID = itemID
		copied.CreatedAt = now
		stored = append(stored, &copied)
	}
	r.byItem[itemID] = stored
	return nil
}

func (r *memoryEntityRepository) ListByItem(itemID string) ([]*ingestdomain.ExtractedEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entities := r.byItem[itemID]
	out := make([]*ingestdomain.ExtractedEntity, 0, len(entities))
	for _, e := range entities {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}
