package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and strips punctuation", "123 Main St., Springfield!", "123 main st springfield"},
		{"collapses whitespace", "  a \t b\n c  ", "a b c"},
		{"hyphen and slash become spaces", "pest-control a/c", "pest control a c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestTokensCanonicalizesStreetSuffixes(t *testing.T) {
	assert.Equal(t, []string{"123", "main", "st"}, Tokens("123 Main Street"))
	assert.Equal(t, []string{"45", "oak", "ave"}, Tokens("45 Oak Avenue"))
	assert.Equal(t, Tokens("10 Elm Boulevard"), Tokens("10 Elm Blvd."))
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reference string
		expected  float64
	}{
		{
			"identical up to suffix spelling",
			"123 Main Street, Springfield, IL",
			"123 Main St, Springfield, IL",
			1.0,
		},
		{
			"partial match",
			"123 Main St",
			"123 Main St, Springfield, IL",
			0.6,
		},
		{
			"no shared tokens",
			"99 Pine Rd",
			"123 Main St",
			0.0,
		},
		{
			"empty reference",
			"123 Main St",
			"",
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TokenOverlap(tt.candidate, tt.reference), 0.001)
		})
	}
}

func TestContainsKeyword(t *testing.T) {
	keywords := []string{"plumber", "electrician"}

	assert.True(t, ContainsKeyword("Best plumbers in town!", keywords))
	assert.True(t, ContainsKeyword("ELECTRICIAN needed", keywords))
	assert.False(t, ContainsKeyword("gardening services", keywords))

	kw, ok := FirstKeyword("call the electrician or the plumber", keywords)
	assert.True(t, ok)
	assert.Equal(t, "plumber", kw)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("Rent payment received", "rent"))
	assert.False(t, ContainsWord("parental leave", "rent"))
}
