package extraction

import (
	"log"

	ingestdomain "aura-backend/internal/ingest/domain"
)

// Pass is one independent text-understanding stage. Passes are read-only
// over the item and side-effect free; finding nothing returns an empty
// slice, never an error.
type Pass interface {
	Name() string
	Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity
}

// Pipeline runs every pass over an item and collects the entities.
// A pass that blows up is logged and contributes nothing; the remaining
// passes still run.
type Pipeline struct {
	passes []Pass
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		passes: []Pass{
			&AddressPass{},
			&ContactPass{},
			&MoneyPass{},
			&DatePass{},
			&NamePass{},
		},
	}
}

// NewPipelineWithPasses builds a pipeline from an explicit pass list
func NewPipelineWithPasses(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

func (p *Pipeline) Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	var entities []*ingestdomain.ExtractedEntity
	for _, pass := range p.passes {
		entities = append(entities, p.runPass(pass, item)...)
	}
	return entities
}

func (p *Pipeline) runPass(pass Pass, item *ingestdomain.IngestItem) (entities []*ingestdomain.ExtractedEntity) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Extraction] pass %s failed on item %s: %v", pass.Name(), item.ID, r)
			entities = nil
		}
	}()
	return pass.Extract(item)
}
