package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

func defaultSummaryOptions() SummaryOptions {
	c := schema.Default()
	return SummaryOptions{Fields: c.Summary(), Noun: c.EntityNoun(), AboutMaxChars: 300}
}

func TestBuildSummaryPrompt(t *testing.T) {
	columns := []string{"title", "date_time", "address", "link", "rating", "about"}
	rows := []map[string]any{
		{
			"title":     "Jazz Night",
			"date_time": "20/06/2025,20 : 30",
			"address":   "Valletta",
			"link":      nil,
			"rating":    4.5,
			"about":     "Live jazz by the harbour.",
		},
	}

	prompt := BuildSummaryPrompt(columns, rows, defaultSummaryOptions())

	assert.Contains(t, prompt, "formats a list of event data")
	assert.Contains(t, prompt, "- About (max 300 chars)")
	assert.Contains(t, prompt, "Use line breaks, no JSON, no markdown.")
	assert.Contains(t, prompt, "Event 1:\nTitle: Jazz Night\nDate & Time: 20/06/2025,20 : 30\nLocation: Valletta\nRating: 4.5\nAbout: Live jazz by the harbour.\n")
	assert.NotContains(t, prompt, "Link:")
}

func TestBuildSummaryPrompt_TruncatesAbout(t *testing.T) {
	rows := []map[string]any{
		{"title": "Long", "about": strings.Repeat("é", 400)},
	}

	prompt := BuildSummaryPrompt([]string{"title", "about"}, rows, defaultSummaryOptions())

	assert.Contains(t, prompt, "About: "+strings.Repeat("é", 300)+"...\n")
	assert.NotContains(t, prompt, strings.Repeat("é", 301))
}

func TestBuildSummaryPrompt_AggregateRows(t *testing.T) {
	rows := []map[string]any{{"total": int64(12), "category_id": int64(6)}}

	prompt := BuildSummaryPrompt([]string{"category_id", "total"}, rows, defaultSummaryOptions())

	assert.Contains(t, prompt, "Event 1:\ncategory_id: 6\ntotal: 12\n")
}

func TestBuildSummaryPrompt_Deterministic(t *testing.T) {
	rows := []map[string]any{
		{"title": "A", "address": "Gozo", "rating": 3},
		{"title": "B", "address": "Sliema", "rating": 5},
	}
	columns := []string{"title", "address", "rating"}

	first := BuildSummaryPrompt(columns, rows, defaultSummaryOptions())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildSummaryPrompt(columns, rows, defaultSummaryOptions()))
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"hello world", 6, "hello..."},
		{"ñandú", 2, "ña..."},
		{"anything", 0, "anything"},
	}

	for _, tt := range tests {
		got := TruncateRunes(tt.input, tt.max)
		if got != tt.expected {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
		}
	}
}
