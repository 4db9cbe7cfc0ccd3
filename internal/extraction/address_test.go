package extraction

import (
	"testing"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPass(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantValue string
		wantConf  float64
		wantNone  bool
	}{
		{
			name:      "street city and state",
			text:      "Rent payment $1500 to 123 Main St, Springfield, IL on 2024-03-01",
			wantValue: "123 Main St, Springfield, IL",
			wantConf:  1.0,
		},
		{
			name:      "street and city only",
			text:      "Stop by 123 Main St, Springfield when you can",
			wantValue: "123 Main St, Springfield",
			wantConf:  0.6,
		},
		{
			name:      "bare street",
			text:      "Meet me at 45 Oak Avenue tomorrow",
			wantValue: "45 Oak Avenue",
			wantConf:  0.5,
		},
		{
			name:     "no address",
			text:     "No location mentioned here",
			wantNone: true,
		},
	}

	pass := &AddressPass{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &ingestdomain.IngestItem{ID: "item-1", RawText: tt.text}
			entities := pass.Extract(item)

			if tt.wantNone {
				assert.Empty(t, entities)
				return
			}
			require.Len(t, entities, 1)
			assert.Equal(t, ingestdomain.EntityAddress, entities[0].Type)
			assert.Equal(t, tt.wantValue, entities[0].Value)
			assert.InDelta(t, tt.wantConf, entities[0].Confidence, 0.001)
			assert.Equal(t, "item-1", entities[0].SourceItemID)
		})
	}
}
