package extraction

import (
	"testing"

	ingestdomain "aura-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamePassSenderMetadata(t *testing.T) {
	pass := &NamePass{}

	t.Run("person sender", func(t *testing.T) {
		item := &ingestdomain.IngestItem{
			ID: "i",
			Metadata: ingestdomain.Metadata{Mail: &ingestdomain.MailMetadata{
				FromName: "Jane Smith",
			}},
		}
		entities := pass.Extract(item)

		require.Len(t, entities, 1)
		assert.Equal(t, ingestdomain.EntityPerson, entities[0].Type)
		assert.Equal(t, "Jane Smith", entities[0].Value)
		assert.InDelta(t, 0.8, entities[0].Confidence, 0.001)
	})

	t.Run("org sender by suffix", func(t *testing.T) {
		item := &ingestdomain.IngestItem{
			ID: "i",
			Metadata: ingestdomain.Metadata{Messaging: &ingestdomain.MessagingMetadata{
				SenderName: "Brightside Cleaning Services",
			}},
		}
		entities := pass.Extract(item)

		require.Len(t, entities, 1)
		assert.Equal(t, ingestdomain.EntityOrg, entities[0].Type)
		assert.Equal(t, "Brightside Cleaning Services", entities[0].Value)
	})
}

func TestNamePassBusinessNameNearServiceWord(t *testing.T) {
	item := &ingestdomain.IngestItem{
		ID:      "i",
		RawText: "our plumber Acme Services can help",
	}
	entities := (&NamePass{}).Extract(item)

	require.Len(t, entities, 1)
	assert.Equal(t, ingestdomain.EntityOrg, entities[0].Type)
	assert.Equal(t, "Acme Services", entities[0].Value)
	assert.InDelta(t, 0.6, entities[0].Confidence, 0.001)
}

func TestNamePassNoSignalsNoEntities(t *testing.T) {
	item := &ingestdomain.IngestItem{ID: "i", RawText: "just checking in about the weekend"}
	assert.Empty(t, (&NamePass{}).Extract(item))
}
