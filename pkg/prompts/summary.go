package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

// SummarySystemMessage is sent with every result-formatting request.
const SummarySystemMessage = "You write short, friendly plain-text summaries of database rows for a chat user."

// DefaultAboutMaxChars caps the description text handed to the formatter.
const DefaultAboutMaxChars = 300

// SummaryOptions controls how rows are rendered into the formatting prompt.
type SummaryOptions struct {
	Fields        schema.SummaryFields
	Noun          string // singular row noun, e.g. "event"
	AboutMaxChars int
}

type summaryField struct {
	label  string
	column string
}

// BuildSummaryPrompt creates the prompt asking the model to present rows.
// Columns give the result order, used for rows that carry none of the
// summary fields (aggregates, counts).
func BuildSummaryPrompt(columns []string, rows []map[string]any, opts SummaryOptions) string {
	if opts.AboutMaxChars <= 0 {
		opts.AboutMaxChars = DefaultAboutMaxChars
	}
	noun := opts.Noun
	if noun == "" {
		noun = "row"
	}

	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are an AI assistant that formats a list of %s data into a user-friendly summary.\n", noun))
	prompt.WriteString("Include:\n")
	prompt.WriteString("- Title\n")
	prompt.WriteString("- Date & Time\n")
	prompt.WriteString("- Location\n")
	prompt.WriteString("- Link (if available)\n")
	prompt.WriteString("- Rating\n")
	prompt.WriteString(fmt.Sprintf("- About (max %d chars)\n\n", opts.AboutMaxChars))
	prompt.WriteString("Use line breaks, no JSON, no markdown.\n\n")
	prompt.WriteString("Data:\n")

	fields := []summaryField{
		{"Title", opts.Fields.Title},
		{"Date & Time", opts.Fields.DateTime},
		{"Location", opts.Fields.Location},
		{"Link", opts.Fields.Link},
		{"Rating", opts.Fields.Rating},
		{"About", opts.Fields.About},
	}

	for i, row := range rows {
		prompt.WriteString(fmt.Sprintf("\n%s %d:\n", capitalize(noun), i+1))

		if hasAnyField(row, fields) {
			for _, f := range fields {
				v, ok := row[f.column]
				if !ok || isBlank(v) {
					continue
				}
				text := formatValue(v)
				if f.column == opts.Fields.About {
					text = TruncateRunes(text, opts.AboutMaxChars)
				}
				prompt.WriteString(fmt.Sprintf("%s: %s\n", f.label, text))
			}
			continue
		}

		for _, col := range columns {
			v, ok := row[col]
			if !ok {
				continue
			}
			prompt.WriteString(fmt.Sprintf("%s: %s\n", col, formatValue(v)))
		}
	}

	return prompt.String()
}

// TruncateRunes shortens s to at most max runes, marking the cut with "...".
func TruncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:max]), func(r rune) bool { return r == ' ' }) + "..."
}

func hasAnyField(row map[string]any, fields []summaryField) bool {
	for _, f := range fields {
		if f.column == "" {
			continue
		}
		if _, ok := row[f.column]; ok {
			return true
		}
	}
	return false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	default:
		return fmt.Sprint(val)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
