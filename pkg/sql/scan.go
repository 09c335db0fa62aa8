package sql

import "strings"

// scanResult separates a statement into the text the database parses as
// code and the quoted literals it carries.
type scanResult struct {
	// Code is the statement with every quoted literal's contents replaced by
	// spaces, so keyword and delimiter checks never look inside strings.
	Code string
	// Literals holds the unescaped contents of each '...' and "..." literal.
	Literals []string
	// Unterminated is set when the statement ends inside a literal.
	Unterminated bool
}

// scanStatement walks the statement once, tracking quote state. Both the
// SQL-standard doubled quote ('') and backslash escapes are understood.
// Backtick identifiers are kept as code.
func scanStatement(s string) scanResult {
	var (
		code    strings.Builder
		literal strings.Builder
		result  scanResult
		quote   rune
	)
	code.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote == 0 {
			if r == '\'' || r == '"' {
				quote = r
				literal.Reset()
			}
			code.WriteRune(r)
			continue
		}

		switch {
		case r == '\\' && i+1 < len(runes):
			literal.WriteRune(runes[i+1])
			code.WriteString("  ")
			i++
		case r == quote && i+1 < len(runes) && runes[i+1] == quote:
			literal.WriteRune(r)
			code.WriteString("  ")
			i++
		case r == quote:
			result.Literals = append(result.Literals, literal.String())
			code.WriteRune(r)
			quote = 0
		default:
			literal.WriteRune(r)
			code.WriteRune(' ')
		}
	}

	result.Code = code.String()
	result.Unterminated = quote != 0
	return result
}
