package sql

import (
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:[A-Za-z]*[ \t]*\r?\n)?(.*?)```")
	openFence   = regexp.MustCompile("^```(?:[A-Za-z]*[ \t]*\r?\n)?")
	langTag     = regexp.MustCompile(`(?i)^sql\s+`)
)

// ExtractStatement pulls the SQL text out of a model completion. It handles
// fenced blocks (```sql, ```SQL, bare ```), a dangling fence, and inline
// backticks wrapping the whole statement.
func ExtractStatement(raw string) string {
	s := strings.TrimSpace(raw)

	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else {
		s = openFence.ReplaceAllString(s, "")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = langTag.ReplaceAllString(strings.TrimSpace(s), "")

	// Inline code: strip as many trailing backticks as were leading, so a
	// trailing quoted identifier survives.
	n := len(s) - len(strings.TrimLeft(s, "`"))
	if n > 0 {
		s = s[n:]
		for i := 0; i < n && strings.HasSuffix(s, "`"); i++ {
			s = s[:len(s)-1]
		}
	}

	return strings.TrimSpace(s)
}
