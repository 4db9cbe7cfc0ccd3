package usecase

import (
	"testing"
	"time"

	"aura-backend/internal/extraction"
	factdomain "aura-backend/internal/fact/domain"
	ingestdomain "aura-backend/internal/ingest/domain"
	propertydomain "aura-backend/internal/property/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rentPaymentItem() *ingestdomain.IngestItem {
	return &ingestdomain.IngestItem{
		ID:         "tx-1",
		UserID:     "user-1",
		SourceType: ingestdomain.SourceBanking,
		ExternalID: "plaid-tx-1",
		OccurredAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		RawText:    "Rent payment $1500 to 123 Main St, Springfield, IL on 2024-03-01",
		Metadata: ingestdomain.Metadata{Banking: &ingestdomain.BankingMetadata{
			Name:     "Rent payment",
			Amount:   1500,
			Currency: "USD",
		}},
	}
}

func mainStProperty(id string, updated time.Time) *propertydomain.Property {
	return &propertydomain.Property{
		ID:        id,
		UserID:    "user-1",
		Name:      "Main St rental",
		Street:    "123 Main St",
		City:      "Springfield",
		State:     "IL",
		UpdatedAt: updated,
	}
}

func TestCategorizeRentPayment(t *testing.T) {
	item := rentPaymentItem()
	entities := extraction.NewPipeline().Extract(item)
	property := mainStProperty("prop-1", time.Now())

	facts := NewCategorizer().Categorize(item, entities, []*propertydomain.Property{property})

	require.Len(t, facts, 1)
	fact := facts[0]
	assert.Equal(t, factdomain.FactExpense, fact.FactType)
	require.NotNil(t, fact.PropertyID)
	assert.Equal(t, "prop-1", *fact.PropertyID)
	assert.Equal(t, "rent", fact.Category)
	assert.InDelta(t, 1.0, fact.Confidence, 0.001)
	assert.Equal(t, "2024-03-01", fact.OccurredAt.Format("2006-01-02"))

	require.NotNil(t, fact.Payload.Expense)
	assert.InDelta(t, 1500.0, fact.Payload.Expense.Amount, 0.001)
	assert.Equal(t, "USD", fact.Payload.Expense.Currency)
}

func TestCategorizeNoMatchingProperty(t *testing.T) {
	item := rentPaymentItem()
	entities := extraction.NewPipeline().Extract(item)
	other := &propertydomain.Property{
		ID: "prop-2", UserID: "user-1", Name: "Lake house",
		Street: "9 Shoreline Dr", City: "Madison", State: "WI",
	}

	facts := NewCategorizer().Categorize(item, entities, []*propertydomain.Property{other})

	require.Len(t, facts, 1)
	assert.Nil(t, facts[0].PropertyID)
	assert.Equal(t, "rent", facts[0].Category)
	assert.InDelta(t, 0.0, facts[0].Confidence, 0.001)
}

func TestCategorizeTieBreakMostRecentlyUpdated(t *testing.T) {
	item := rentPaymentItem()
	entities := extraction.NewPipeline().Extract(item)
	older := mainStProperty("prop-old", time.Now().Add(-48*time.Hour))
	newer := mainStProperty("prop-new", time.Now())

	facts := NewCategorizer().Categorize(item, entities, []*propertydomain.Property{older, newer})

	require.Len(t, facts, 1)
	require.NotNil(t, facts[0].PropertyID)
	assert.Equal(t, "prop-new", *facts[0].PropertyID)
}

func TestCategorizeDriveDocument(t *testing.T) {
	item := &ingestdomain.IngestItem{
		ID:         "doc-1",
		UserID:     "user-1",
		SourceType: ingestdomain.SourceDrive,
		OccurredAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		RawText:    "Residential lease agreement for 123 Main St, Springfield, IL",
		Metadata: ingestdomain.Metadata{Drive: &ingestdomain.DriveMetadata{
			Filename: "Lease Agreement 2024.pdf",
			MimeType: "application/pdf",
			WebLink:  "https://drive.example.com/doc-1",
		}},
	}
	entities := extraction.NewPipeline().Extract(item)
	property := mainStProperty("prop-1", time.Now())

	facts := NewCategorizer().Categorize(item, entities, []*propertydomain.Property{property})

	require.Len(t, facts, 1)
	fact := facts[0]
	assert.Equal(t, factdomain.FactDocument, fact.FactType)
	assert.Equal(t, "lease", fact.Category)
	require.NotNil(t, fact.PropertyID)
	require.NotNil(t, fact.Payload.Document)
	assert.Equal(t, "Lease Agreement 2024.pdf", fact.Payload.Document.Title)
	assert.Equal(t, "lease", fact.Payload.Document.DocType)
}

func TestCategorizeMessagingContact(t *testing.T) {
	item := &ingestdomain.IngestItem{
		ID:         "msg-1",
		UserID:     "user-1",
		SourceType: ingestdomain.SourceMessaging,
		OccurredAt: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		RawText:    "Hi, this is Ace Plumbing Co about the leak, call us at (555) 123-4567",
		Metadata: ingestdomain.Metadata{Messaging: &ingestdomain.MessagingMetadata{
			From:       "+15551234567",
			SenderName: "Ace Plumbing Co",
		}},
	}
	entities := extraction.NewPipeline().Extract(item)

	facts := NewCategorizer().Categorize(item, entities, nil)

	require.Len(t, facts, 1)
	fact := facts[0]
	assert.Equal(t, factdomain.FactContact, fact.FactType)
	assert.Equal(t, "plumber", fact.Category)
	require.NotNil(t, fact.Payload.Contact)
	assert.Equal(t, "Ace Plumbing Co", fact.Payload.Contact.Name)
	assert.NotEmpty(t, fact.Payload.Contact.Phone)
	assert.Equal(t, "plumber", fact.Payload.Contact.ServiceType)
}

func TestCategorizeIdempotent(t *testing.T) {
	item := rentPaymentItem()
	entities := extraction.NewPipeline().Extract(item)
	properties := []*propertydomain.Property{mainStProperty("prop-1", time.Now())}
	categorizer := NewCategorizer()

	first := categorizer.Categorize(item, entities, properties)
	second := categorizer.Categorize(item, entities, properties)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].FactType, second[i].FactType)
		assert.Equal(t, first[i].Category, second[i].Category)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
	}
}
