package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotAQuery       = errors.New("completion is not a read-only SELECT statement")
	ErrEmptyCompletion = errors.New("completion service returned no text")
	ErrNotConfigured   = errors.New("not configured")
)

// Kind is the closed set of pipeline failure categories. Only a Kind ever
// crosses into user-facing text; the wrapped cause stays in the logs.
type Kind int

const (
	KindUnknown Kind = iota
	KindGenerationFailure
	KindNotAQuery
	KindDataAccessFailure
)

// String returns a label-safe name, used for logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindGenerationFailure:
		return "generation_failure"
	case KindNotAQuery:
		return "not_a_query"
	case KindDataAccessFailure:
		return "data_access_failure"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Op   string // Stage that failed, e.g. "generate", "sanitize", "execute"
	Err  error
}

// New creates a classified error. A nil cause is allowed.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, or KindUnknown if err is not classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
