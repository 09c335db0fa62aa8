package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindGenerationFailure, "generation_failure"},
		{KindNotAQuery, "not_a_query"},
		{KindDataAccessFailure, "data_access_failure"},
		{KindUnknown, "unknown"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestError_UnwrapAndKindOf(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := New(KindDataAccessFailure, "execute", cause)

	wrapped := fmt.Errorf("pipeline: %w", err)

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, KindDataAccessFailure, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindDataAccessFailure))
	assert.False(t, IsKind(wrapped, KindNotAQuery))
	assert.Equal(t, "execute: data_access_failure: dial tcp: connection refused", err.Error())
}

func TestError_NilCause(t *testing.T) {
	err := New(KindNotAQuery, "sanitize", nil)

	assert.Equal(t, "sanitize: not_a_query", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.False(t, IsKind(nil, KindUnknown))
}
