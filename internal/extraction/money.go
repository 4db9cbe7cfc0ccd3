package extraction

import (
	"regexp"
	"strconv"
	"strings"

	ingestdomain "aura-backend/internal/ingest/domain"
)

var (
	// $1,234.56 with optional leading sign. The grouped branch requires at
	// least one comma, otherwise alternation would stop "$1500" at "150".
	symbolAmountRe = regexp.MustCompile(`(-?)\$\s?(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)
	// 1234.56 dollars / USD
	wordAmountRe = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)\s*(?:dollars?|usd)\b`)
)

// MoneyPass finds monetary amounts, normalized to a signed decimal.
// An adjacent currency marker is confidence 1.0; an amount inferred from a
// metadata column is 0.7.
type MoneyPass struct{}

func (p *MoneyPass) Name() string { return "money" }

func (p *MoneyPass) Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	var entities []*ingestdomain.ExtractedEntity
	seen := make(map[string]struct{})

	add := func(amount float64, confidence float64, start, end int) {
		value := strconv.FormatFloat(amount, 'f', -1, 64)
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		num := amount
		entities = append(entities, &ingestdomain.ExtractedEntity{
			SourceItemID: item.ID,
			Type:         ingestdomain.EntityAmount,
			Value:        value,
			NumericValue: &num,
			Confidence:   confidence,
			SpanStart:    start,
			SpanEnd:      end,
		})
	}

	text := item.RawText
	for _, match := range symbolAmountRe.FindAllStringSubmatchIndex(text, -1) {
		sign := submatch(text, match, 1)
		digits := submatch(text, match, 2)
		amount, err := parseAmount(digits)
		if err != nil {
			continue
		}
		if sign == "-" {
			amount = -amount
		}
		add(amount, 1.0, match[0], match[1])
	}
	for _, match := range wordAmountRe.FindAllStringSubmatchIndex(text, -1) {
		amount, err := parseAmount(submatch(text, match, 1))
		if err != nil {
			continue
		}
		add(amount, 1.0, match[0], match[1])
	}

	// amount column in banking metadata: reliable source, no marker in text
	if meta := item.Metadata.Banking; meta != nil && meta.Amount != 0 {
		add(meta.Amount, 0.7, 0, 0)
	}

	return entities
}

func parseAmount(digits string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
}
