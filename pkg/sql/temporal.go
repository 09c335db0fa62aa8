package sql

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeYear replaces every occurrence of placeholderYear in the statement
// with now's year. The substitution is purely textual: literals, identifiers
// and numbers are all affected.
func NormalizeYear(sqlQuery, placeholderYear string, now time.Time) string {
	current := strconv.Itoa(now.Year())
	if placeholderYear == "" || placeholderYear == current {
		return sqlQuery
	}
	return strings.ReplaceAll(sqlQuery, placeholderYear, current)
}
