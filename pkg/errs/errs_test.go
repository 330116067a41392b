package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuild(t *testing.T) {
	err := New(ElementNotFound, "no match").
		Context("selector", "#submit").
		Tried("#submit", "no dom match").
		Tried("role:button[name=Submit]", "ambiguous: 2 matches").
		Suggest("try a narrower role selector").
		Build()

	require.Equal(t, ElementNotFound, err.Kind)
	require.Len(t, err.Tried, 2)
	assert.Equal(t, "try a narrower role selector", err.Suggestions[0])
	assert.Contains(t, err.Error(), "element_not_found")
}

func TestWrapPreservesExistingKind(t *testing.T) {
	inner := New(Timeout, "bridge eval timed out").Build()
	outer := Wrap(InternalError, "dispatch failed", inner)
	assert.Equal(t, Timeout, outer.Kind)
	assert.True(t, errors.Is(outer, inner))
}

func TestKindOfDefaultsInternal(t *testing.T) {
	assert.Equal(t, InternalError, KindOf(errors.New("plain")))
	assert.Equal(t, ScrollFailed, KindOf(New(ScrollFailed, "x").Build()))
}

func TestRetryable(t *testing.T) {
	assert.True(t, ElementNotFound.Retryable())
	assert.False(t, InvalidInput.Retryable())
	assert.False(t, Cancelled.Retryable())
}
