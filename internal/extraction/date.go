package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
)

var (
	isoDateRe     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)

	monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

	monthFirstRe = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	dayFirstRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthNames + `)\s+(\d{4})\b`)
)

var monthIndex = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// day-first locales; anything else (or unknown) keeps month before day,
// matching the ISO month-before-day ordering as the deterministic default
var dayFirstLocales = map[string]bool{
	"en-gb": true, "en-au": true, "en-nz": true, "en-ie": true,
	"de-de": true, "fr-fr": true, "es-es": true, "it-it": true,
	"vi-vn": true, "pt-br": true, "nl-nl": true,
}

// DatePass finds calendar dates and normalizes them to YYYY-MM-DD.
type DatePass struct{}

func (p *DatePass) Name() string { return "date" }

func (p *DatePass) Extract(item *ingestdomain.IngestItem) []*ingestdomain.ExtractedEntity {
	text := item.RawText
	if text == "" {
		return nil
	}
	dayFirst := dayFirstLocales[strings.ToLower(item.Metadata.Locale())]

	var entities []*ingestdomain.ExtractedEntity
	var taken [][2]int
	seen := make(map[string]struct{})

	add := func(t time.Time, confidence float64, start, end int) {
		for _, span := range taken {
			if start < span[1] && end > span[0] {
				return // overlaps an earlier, higher-precision match
			}
		}
		value := t.Format("2006-01-02")
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		taken = append(taken, [2]int{start, end})
		entities = append(entities, &ingestdomain.ExtractedEntity{
			SourceItemID: item.ID,
			Type:         ingestdomain.EntityDate,
			Value:        value,
			Confidence:   confidence,
			SpanStart:    start,
			SpanEnd:      end,
		})
	}

	for _, m := range isoDateRe.FindAllStringSubmatchIndex(text, -1) {
		t, err := buildDate(submatch(text, m, 1), submatch(text, m, 2), submatch(text, m, 3))
		if err != nil {
			continue
		}
		add(t, 1.0, m[0], m[1])
	}

	for _, m := range monthFirstRe.FindAllStringSubmatchIndex(text, -1) {
		month := monthIndex[strings.ToLower(submatch(text, m, 1))]
		t, err := buildDate(submatch(text, m, 3), strconv.Itoa(int(month)), submatch(text, m, 2))
		if err != nil {
			continue
		}
		add(t, 1.0, m[0], m[1])
	}
	for _, m := range dayFirstRe.FindAllStringSubmatchIndex(text, -1) {
		month := monthIndex[strings.ToLower(submatch(text, m, 2))]
		t, err := buildDate(submatch(text, m, 3), strconv.Itoa(int(month)), submatch(text, m, 1))
		if err != nil {
			continue
		}
		add(t, 1.0, m[0], m[1])
	}

	for _, m := range numericDateRe.FindAllStringSubmatchIndex(text, -1) {
		a, _ := strconv.Atoi(submatch(text, m, 1))
		b, _ := strconv.Atoi(submatch(text, m, 2))
		year := expandYear(submatch(text, m, 3))

		month, day := a, b
		confidence := 0.8
		switch {
		case a > 12 && b <= 12:
			month, day = b, a
			confidence = 1.0 // order is unambiguous
		case b > 12 && a <= 12:
			confidence = 1.0
		case dayFirst:
			month, day = b, a
		}

		t, err := buildDate(strconv.Itoa(year), strconv.Itoa(month), strconv.Itoa(day))
		if err != nil {
			continue
		}
		add(t, confidence, m[0], m[1])
	}

	return entities
}

func buildDate(yearStr, monthStr, dayStr string) (time.Time, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, err
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, err
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("out of range: %d-%d-%d", year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid calendar date: %d-%d-%d", year, month, day)
	}
	return t, nil
}

func expandYear(s string) int {
	year, _ := strconv.Atoi(s)
	if len(s) == 2 {
		if year < 70 {
			return 2000 + year
		}
		return 1900 + year
	}
	return year
}
