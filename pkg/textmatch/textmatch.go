package textmatch

import (
	"strings"
	"unicode"
)

// Token-level text matching used by the extraction pipeline and the
// categorization engine. Addresses and keyword tables are compared after
// normalization so "123 Main St." and "123 main street" line up.

// street suffix variants collapsed to one canonical token
var streetSuffixes = map[string]string{
	"street": "st", "st": "st",
	"avenue": "ave", "ave": "ave",
	"road": "rd", "rd": "rd",
	"drive": "dr", "dr": "dr",
	"lane": "ln", "ln": "ln",
	"boulevard": "blvd", "blvd": "blvd",
	"place": "pl", "pl": "pl",
	"court": "ct", "ct": "ct",
	"way": "way",
}

// Normalize lowercases, strips punctuation and collapses whitespace
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == ',' || r == '.' || r == '-' || r == '/':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens normalizes and splits into canonical tokens
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if canonical, ok := streetSuffixes[f]; ok {
			f = canonical
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenOverlap scores how much of the reference token set appears in the
// candidate. Returns 0.0–1.0; 1.0 means every reference token was found.
func TokenOverlap(candidate, reference string) float64 {
	refTokens := Tokens(reference)
	if len(refTokens) == 0 {
		return 0
	}

	candidateSet := make(map[string]struct{})
	for _, t := range Tokens(candidate) {
		candidateSet[t] = struct{}{}
	}

	matched := 0
	for _, t := range refTokens {
		if _, ok := candidateSet[t]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(refTokens))
}

// ContainsKeyword reports whether any keyword occurs in text (normalized,
// substring match like the keyword tables expect: "plumber" hits "plumbers").
func ContainsKeyword(text string, keywords []string) bool {
	_, ok := FirstKeyword(text, keywords)
	return ok
}

// FirstKeyword returns the first keyword found in text.
func FirstKeyword(text string, keywords []string) (string, bool) {
	normalized := " " + Normalize(text) + " "
	for _, kw := range keywords {
		if strings.Contains(normalized, Normalize(kw)) {
			return kw, true
		}
	}
	return "", false
}

// ContainsWord checks for query as a whole token of text
func ContainsWord(text, query string) bool {
	query = Normalize(query)
	for _, t := range Tokens(text) {
		if t == query {
			return true
		}
	}
	return false
}
