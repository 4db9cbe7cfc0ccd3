package extraction

import (
	"regexp"
	"strings"

	ingestdomain "aura-backend/internal/ingest/domain"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

var phoneRes = []*regexp.Regexp{
	regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{3,4}[-.\s]?\d{3,4}(?:[-.\s]?\d{3,4})?`), // international
	regexp.MustCompile(`\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}`),                        // (555) 123-4567
	regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]?\d{4}\b`),                             // 555-123-4567
}

// ContactPass finds phone numbers and email addresses. A structural match
// is confidence 1.0 regardless of whether the referent is real.
type ContactPass struct{}

func (p *ContactPass) Name() string { return "contact" }

func (p *ContactPass) Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	var entities []*ingestdomain.ExtractedEntity
	seen := make(map[string]struct{})

	add := func(t ingestdomain.EntityType, value string, start, end int) {
		key := string(t) + "|" + value
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		entities = append(entities, &ingestdomain.ExtractedEntity{
			SourceItemID: item.ID,
			Type:         t,
			Value:        value,
			Confidence:   1.0,
			SpanStart:    start,
			SpanEnd:      end,
		})
	}

	text := item.RawText
	for _, match := range emailRe.FindAllStringIndex(text, -1) {
		add(ingestdomain.EntityEmail, strings.ToLower(text[match[0]:match[1]]), match[0], match[1])
	}
	for _, re := range phoneRes {
		for _, match := range re.FindAllStringIndex(text, -1) {
			add(ingestdomain.EntityPhone, normalizePhone(text[match[0]:match[1]]), match[0], match[1])
		}
	}

	// sender identity from metadata counts as a structural match too
	if meta := item.Metadata.Mail; meta != nil && meta.From != "" && emailRe.MatchString(meta.From) {
		add(ingestdomain.EntityEmail, strings.ToLower(meta.From), 0, 0)
	}
	if meta := item.Metadata.Messaging; meta != nil && meta.From != "" {
		add(ingestdomain.EntityPhone, normalizePhone(meta.From), 0, 0)
	}

	return entities
}

// normalizePhone strips formatting, keeping only digits and a leading +
func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
