package extraction

import (
	"testing"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRentPaymentScenario(t *testing.T) {
	item := &ingestdomain.IngestItem{
		ID:         "tx-1",
		UserID:     "user-1",
		SourceType: ingestdomain.SourceBanking,
		ExternalID: "plaid-tx-1",
		OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RawText:    "Rent payment $1500 to 123 Main St, Springfield, IL on 2024-03-01",
		Metadata: ingestdomain.Metadata{Banking: &ingestdomain.BankingMetadata{
			Name:   "Rent payment",
			Amount: 1500,
		}},
	}

	entities := NewPipeline().Extract(item)

	byType := make(map[ingestdomain.EntityType][]*ingestdomain.ExtractedEntity)
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e)
	}

	require.Len(t, byType[ingestdomain.EntityAmount], 1)
	assert.Equal(t, "1500", byType[ingestdomain.EntityAmount][0].Value)
	assert.InDelta(t, 1.0, byType[ingestdomain.EntityAmount][0].Confidence, 0.001)

	require.Len(t, byType[ingestdomain.EntityAddress], 1)
	assert.Equal(t, "123 Main St, Springfield, IL", byType[ingestdomain.EntityAddress][0].Value)
	assert.InDelta(t, 1.0, byType[ingestdomain.EntityAddress][0].Confidence, 0.001)

	require.Len(t, byType[ingestdomain.EntityDate], 1)
	assert.Equal(t, "2024-03-01", byType[ingestdomain.EntityDate][0].Value)

	for _, e := range entities {
		assert.Equal(t, "tx-1", e.SourceItemID)
	}
}

type panickingPass struct{}

func (p *panickingPass) Name() string { return "boom" }
func (p *panickingPass) Extract(*ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	panic("pass blew up")
}

func TestPipelineIsolatesFailingPass(t *testing.T) {
	pipeline := NewPipelineWithPasses(&panickingPass{}, &ContactPass{})

	item := &ingestdomain.IngestItem{ID: "i", RawText: "write to help@acme.com"}
	entities := pipeline.Extract(item)

	require.Len(t, entities, 1)
	assert.Equal(t, ingestdomain.EntityEmail, entities[0].Type)
	assert.Equal(t, "help@acme.com", entities[0].Value)
}

func TestPipelineDeterministic(t *testing.T) {
	item := &ingestdomain.IngestItem{
		ID:      "i",
		RawText: "Lease for 45 Oak Ave starts 2024-05-01, deposit $2000, call (555) 111-2222",
	}
	pipeline := NewPipeline()

	first := pipeline.Extract(item)
	second := pipeline.Extract(item)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Value, second[i].Value)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
	}
}
