package extraction

import (
	"testing"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyPass(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantValue string
		wantConf  float64
	}{
		{"dollar sign with grouping", "Paid $1,500.00 for rent", "1500", 1.0},
		{"dollar sign without grouping", "Rent payment $1500 to 123 Main St", "1500", 1.0},
		{"plain dollar sign", "Invoice total: $89.99", "89.99", 1.0},
		{"negative amount", "Refund of -$45.50 issued", "-45.5", 1.0},
		{"word marker", "Please send 300 dollars by Friday", "300", 1.0},
		{"word marker without grouping", "wire 1500 dollars by Friday", "1500", 1.0},
		{"usd marker", "quote was 1,250 USD", "1250", 1.0},
	}

	pass := &MoneyPass{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &ingestdomain.IngestItem{ID: "item-1", RawText: tt.text}
			entities := pass.Extract(item)

			require.Len(t, entities, 1)
			assert.Equal(t, ingestdomain.EntityAmount, entities[0].Type)
			assert.Equal(t, tt.wantValue, entities[0].Value)
			assert.InDelta(t, tt.wantConf, entities[0].Confidence, 0.001)
			require.NotNil(t, entities[0].NumericValue)
		})
	}
}

func TestMoneyPassBankingMetadata(t *testing.T) {
	t.Run("metadata amount without text marker", func(t *testing.T) {
		item := &ingestdomain.IngestItem{
			ID:      "item-1",
			RawText: "ACME UTILITIES PAYMENT",
			Metadata: ingestdomain.Metadata{Banking: &ingestdomain.BankingMetadata{
				Amount: 120.5,
			}},
		}
		entities := (&MoneyPass{}).Extract(item)

		require.Len(t, entities, 1)
		assert.Equal(t, "120.5", entities[0].Value)
		assert.InDelta(t, 0.7, entities[0].Confidence, 0.001)
	})

	t.Run("text marker wins over duplicate metadata amount", func(t *testing.T) {
		item := &ingestdomain.IngestItem{
			ID:      "item-1",
			RawText: "Rent payment $1500",
			Metadata: ingestdomain.Metadata{Banking: &ingestdomain.BankingMetadata{
				Amount: 1500,
			}},
		}
		entities := (&MoneyPass{}).Extract(item)

		require.Len(t, entities, 1)
		assert.Equal(t, "1500", entities[0].Value)
		assert.InDelta(t, 1.0, entities[0].Confidence, 0.001)
	})
}
