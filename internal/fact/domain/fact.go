package domain

import "time"

// FactType classifies the categorized output
type FactType string

const (
	FactExpense  FactType = "expense"
	FactDocument FactType = "document"
	FactContact  FactType = "contact"
)

// Fact is a categorized, property-linked record derived from one ingest
// item's entities. PropertyID is a weak reference: nil means the fact is
// uncategorized/general, and a deleted property nulls it without deleting
// the fact. Upserts are keyed by (source_item_id, fact_type).
type Fact struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	SourceItemID string    `json:"source_item_id" gorm:"uniqueIndex:idx_fact_item_type;not null"`
	FactType     FactType  `json:"fact_type" gorm:"uniqueIndex:idx_fact_item_type;not null"`
	PropertyID   *string   `json:"property_id" gorm:"index"`
	Category     string    `json:"category"`
	Confidence   float64   `json:"categorization_confidence"`
	Payload      Payload   `json:"payload" gorm:"serializer:json"`
	OccurredAt   time.Time `json:"occurred_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Payload is the type-specific body; the variant matching FactType is set
type Payload struct {
	Expense  *ExpensePayload  `json:"expense,omitempty"`
	Document *DocumentPayload `json:"document,omitempty"`
	Contact  *ContactPayload  `json:"contact,omitempty"`
}

type ExpensePayload struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description,omitempty"`
	Merchant    string  `json:"merchant,omitempty"`
}

type DocumentPayload struct {
	Title    string `json:"title"`
	DocType  string `json:"doc_type"`
	MimeType string `json:"mime_type,omitempty"`
	Link     string `json:"link,omitempty"`
}

type ContactPayload struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
}
