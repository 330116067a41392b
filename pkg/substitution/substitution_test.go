package substitution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteWholeStringPlaceholderPreservesType(t *testing.T) {
	ctx := Context{"count": float64(42), "enabled": true}
	assert.Equal(t, float64(42), Substitute("{{count}}", ctx))
	assert.Equal(t, true, Substitute("{{enabled}}", ctx))
}

func TestSubstituteEmbeddedPlaceholderStringifies(t *testing.T) {
	ctx := Context{"name": "submit"}
	assert.Equal(t, "click #submit now", Substitute("click #{{name}} now", ctx))
}

func TestSubstituteUnknownPlaceholderLeftVerbatim(t *testing.T) {
	ctx := Context{}
	assert.Equal(t, "{{missing}}", Substitute("{{missing}}", ctx))
}

func TestSubstituteRecursesThroughMapsAndSlices(t *testing.T) {
	ctx := Context{"x": "1", "y": "2"}
	tree := map[string]interface{}{
		"a": "{{x}}",
		"b": []interface{}{"{{y}}", "literal"},
	}
	out := Substitute(tree, ctx).(map[string]interface{})
	assert.Equal(t, "1", out["a"])
	assert.Equal(t, []interface{}{"2", "literal"}, out["b"])
}

func TestSubstituteIsIdempotent(t *testing.T) {
	ctx := Context{"x": "hello"}
	once := Substitute("{{x}} world", ctx)
	twice := Substitute(once, ctx)
	assert.Equal(t, once, twice)
}

func TestParseIfJSONShaped(t *testing.T) {
	assert.Equal(t, "plain string", ParseIfJSONShaped("plain string"))
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, ParseIfJSONShaped(`{"a":1}`))
	assert.Equal(t, []interface{}{float64(1), float64(2)}, ParseIfJSONShaped(`[1,2]`))
}
