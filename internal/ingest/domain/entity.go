package domain

import "time"

// EntityType classifies what an extraction pass found
type EntityType string

const (
	EntityAddress EntityType = "address"
	EntityPhone   EntityType = "phone"
	EntityEmail   EntityType = "email"
	EntityAmount  EntityType = "amount"
	EntityDate    EntityType = "date"
	EntityPerson  EntityType = "person"
	EntityOrg     EntityType = "org"
)

// ExtractedEntity is one structured value pulled out of an IngestItem.
// Immutable; many entities may derive from one item.
type ExtractedEntity struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	SourceItemID string     `json:"source_item_id" gorm:"index;not null"`
	Type         EntityType `json:"type" gorm:"not null"`
	Value        string     `json:"value"`
	NumericValue *float64   `json:"numeric_value,omitempty"`
	Confidence   float64    `json:"confidence"`
	SpanStart    int        `json:"span_start"`
	SpanEnd      int        `json:"span_end"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Number returns the numeric value, 0 if the entity has none
func (e *ExtractedEntity) Number() float64 {
	if e.NumericValue == nil {
		return 0
	}
	return *e.NumericValue
}
