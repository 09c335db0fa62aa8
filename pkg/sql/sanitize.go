package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/apperrors"
)

var (
	ErrNotSelect        = errors.New("statement does not start with SELECT")
	ErrForbiddenKeyword = errors.New("statement contains a forbidden keyword")
	ErrComment          = errors.New("statement contains a comment")
	ErrInjection        = errors.New("literal matches an injection pattern")
)

var (
	selectPrefix = regexp.MustCompile(`(?i)^select\b`)

	// Mutating statements, SELECT ... INTO targets, and server-side effects.
	// INTO also covers REPLACE INTO and INTO OUTFILE/DUMPFILE. REPLACE alone
	// is a string function and stays allowed.
	forbiddenKeyword = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate|merge|grant|revoke|call|exec|execute|into|handler|lock|unlock|waitfor|sleep|pg_sleep|benchmark|load_file|xp_cmdshell)\b`)

	commentMarker = regexp.MustCompile(`--|/\*|\*/|#`)
)

// Sanitizer rejects anything that is not a single read-only SELECT.
// It does not check table or column names against the schema.
type Sanitizer struct {
	trusted map[string]bool
}

// NewSanitizer returns a sanitizer that skips the injection check for the
// given literals.
func NewSanitizer(trustedLiterals ...string) *Sanitizer {
	trusted := make(map[string]bool, len(trustedLiterals))
	for _, lit := range trustedLiterals {
		trusted[lit] = true
	}
	return &Sanitizer{trusted: trusted}
}

// Sanitize runs the default sanitizer with no trusted literals.
func Sanitize(raw string) (string, error) {
	return NewSanitizer().Sanitize(raw)
}

// Sanitize extracts the statement from raw and returns it normalized, or an
// *apperrors.Error of KindNotAQuery wrapping apperrors.ErrNotAQuery and the
// specific reason.
func (s *Sanitizer) Sanitize(raw string) (string, error) {
	stmt := ExtractStatement(raw)

	if !selectPrefix.MatchString(stmt) {
		return "", notAQuery(ErrNotSelect)
	}

	result := ValidateAndNormalize(stmt)
	if result.Error != nil {
		return "", notAQuery(result.Error)
	}
	stmt = result.NormalizedSQL

	scan := scanStatement(stmt)

	if commentMarker.MatchString(scan.Code) {
		return "", notAQuery(ErrComment)
	}
	if m := forbiddenKeyword.FindString(scan.Code); m != "" {
		return "", notAQuery(fmt.Errorf("%w: %s", ErrForbiddenKeyword, strings.ToUpper(m)))
	}
	if hit := CheckLiterals(scan.Literals, s.trusted); hit != nil {
		return "", notAQuery(fmt.Errorf("%w: fingerprint %s", ErrInjection, hit.Fingerprint))
	}

	return stmt, nil
}

func notAQuery(reason error) error {
	return apperrors.New(apperrors.KindNotAQuery, "sanitize", fmt.Errorf("%w: %w", apperrors.ErrNotAQuery, reason))
}
