package extraction

import (
	"regexp"
	"strings"

	ingestdomain "aura-backend/internal/ingest/domain"
)

// Street address followed by optional ", City" and ", ST" components.
// The state group is deliberately case-sensitive so ordinary words after a
// comma don't read as state codes.
var addressRe = regexp.MustCompile(
	`((?i)\d+(?:\s+[A-Za-z'.]+){1,4}\s+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Way|Place|Pl|Court|Ct)\b\.?)` +
		`(?:,\s*((?i)[A-Za-z'.]+(?:\s+[A-Za-z'.]+){0,2}?))?` +
		`(?:,\s*([A-Z]{2})\b(?:\s+\d{5})?)?`)

// AddressPass finds street addresses. Confidence scales with how many
// components matched: street+city+state is certain, a bare street line
// is a weak signal.
type AddressPass struct{}

func (p *AddressPass) Name() string { return "address" }

func (p *AddressPass) Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	text := item.RawText
	if text == "" {
		return nil
	}

	var entities []*ingestdomain.ExtractedEntity
	for _, match := range addressRe.FindAllStringSubmatchIndex(text, -1) {
		street := submatch(text, match, 1)
		city := submatch(text, match, 2)
		state := submatch(text, match, 3)
		if street == "" {
			continue
		}

		components := 1
		value := strings.TrimRight(street, ".")
		if city != "" {
			components++
			value += ", " + city
		}
		if state != "" {
			components++
			value += ", " + state
		}

		confidence := 0.5
		switch components {
		case 2:
			confidence = 0.6
		case 3:
			confidence = 1.0
		}

		entities = append(entities, &ingestdomain.ExtractedEntity{
			SourceItemID: item.ID,
			Type:         ingestdomain.EntityAddress,
			Value:        value,
			Confidence:   confidence,
			SpanStart:    match[0],
			SpanEnd:      match[1],
		})
	}
	return entities
}

// submatch returns capture group n of a FindAllStringSubmatchIndex match
func submatch(text string, match []int, n int) string {
	start, end := match[2*n], match[2*n+1]
	if start < 0 || end < 0 {
		return ""
	}
	return text[start:end]
}
