package indexcache

import (
	"testing"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceAndGet(t *testing.T) {
	c := New()
	c.Replace(UITree, []Entry{
		{Index: 0, Bounds: desktop.Bounds{X: 1}, Label: "a"},
		{Index: 1, Bounds: desktop.Bounds{X: 2}, Label: "b"},
	})

	e, err := c.Get(UITree, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", e.Label)
}

func TestGetUnknownIndexReturnsElementNotFound(t *testing.T) {
	c := New()
	_, err := c.Get(OCR, 5)
	assert.Error(t, err)
	e, ok := errs.As(err)
	_ = e
	assert.True(t, ok)
}

func TestReplaceIsAtomicAcrossSources(t *testing.T) {
	c := New()
	c.Replace(UITree, []Entry{{Index: 0}})
	c.Replace(DOM, []Entry{{Index: 0}, {Index: 1}})
	assert.Equal(t, 1, c.Count(UITree))
	assert.Equal(t, 2, c.Count(DOM))
}
