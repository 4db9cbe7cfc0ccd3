package extraction

import (
	"strings"
	"unicode"

	ingestdomain "aura-backend/internal/ingest/domain"
)

// words that anchor a service-provider mention; capitalized words near one
// are treated as a business name
var serviceAnchors = []string{
	"plumber", "plumbing", "electrician", "electrical", "contractor",
	"construction", "renovation", "cleaner", "cleaning", "housekeeping",
	"landscaper", "landscaping", "exterminator", "pest", "hvac", "heating",
	"cooling", "furnace", "locksmith", "painter", "painting", "repair",
	"handyman", "roofing", "inspection",
}

var orgSuffixes = []string{"inc", "llc", "ltd", "co", "corp", "company", "services", "service", "group"}

var nameStopWords = map[string]struct{}{
	"The": {}, "Our": {}, "Your": {}, "Please": {}, "Thanks": {},
	"Hi": {}, "Hello": {}, "Dear": {}, "Best": {}, "Regards": {},
}

// NamePass tags people and organizations: the sender's display name from
// metadata, and capitalized runs near service keywords in free text.
type NamePass struct{}

func (p *NamePass) Name() string { return "nametag" }

func (p *NamePass) Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	var entities []*ingestdomain.ExtractedEntity
	seen := make(map[string]struct{})

	add := func(t ingestdomain.EntityType, value string, confidence float64) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		key := string(t) + "|" + strings.ToLower(value)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		entities = append(entities, &ingestdomain.ExtractedEntity{
			SourceItemID: item.ID,
			Type:         t,
			Value:        value,
			Confidence:   confidence,
		})
	}

	if sender := item.Metadata.SenderName(); sender != "" {
		if looksLikeOrg(sender) {
			add(ingestdomain.EntityOrg, sender, 0.8)
		} else {
			add(ingestdomain.EntityPerson, sender, 0.8)
		}
	}

	words := strings.Fields(item.RawText)
	for i, word := range words {
		if !isServiceAnchor(word) {
			continue
		}
		if name := businessNameAround(words, i); name != "" {
			add(ingestdomain.EntityOrg, name, 0.6)
		}
	}

	return entities
}

func isServiceAnchor(word string) bool {
	cleaned := strings.ToLower(strings.Trim(word, ".,!?:;()"))
	for _, anchor := range serviceAnchors {
		if cleaned == anchor {
			return true
		}
	}
	return false
}

// businessNameAround collects capitalized words up to three positions
// either side of the anchor
func businessNameAround(words []string, anchorIdx int) string {
	var parts []string

	lo := anchorIdx - 3
	if lo < 0 {
		lo = 0
	}
	hi := anchorIdx + 4
	if hi > len(words) {
		hi = len(words)
	}

	for i := lo; i < hi; i++ {
		if i == anchorIdx {
			continue
		}
		word := strings.Trim(words[i], ".,!?:;()\"'")
		if len(word) <= 2 {
			continue
		}
		if _, stop := nameStopWords[word]; stop {
			continue
		}
		runes := []rune(word)
		if unicode.IsUpper(runes[0]) {
			parts = append(parts, word)
		}
	}

	return strings.Join(parts, " ")
}

func looksLikeOrg(name string) bool {
	fields := strings.Fields(strings.ToLower(strings.Trim(name, ".")))
	if len(fields) == 0 {
		return false
	}
	last := strings.Trim(fields[len(fields)-1], ".,")
	for _, suffix := range orgSuffixes {
		if last == suffix {
			return true
		}
	}
	for _, anchor := range serviceAnchors {
		for _, f := range fields {
			if f == anchor {
				return true
			}
		}
	}
	return false
}
