package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepMergeMapsOverrideWinsLeafConflicts(t *testing.T) {
	base := map[string]interface{}{
		"a": "base",
		"nested": map[string]interface{}{
			"x": 1,
			"y": 2,
		},
	}
	override := map[string]interface{}{
		"a": "override",
		"nested": map[string]interface{}{
			"y": 20,
			"z": 3,
		},
	}
	merged := deepMergeMaps(base, override)
	assert.Equal(t, "override", merged["a"])
	nested := merged["nested"].(map[string]interface{})
	assert.Equal(t, 1, nested["x"])
	assert.Equal(t, 20, nested["y"])
	assert.Equal(t, 3, nested["z"])
}

func TestDeepMergeMapsBothNil(t *testing.T) {
	assert.Nil(t, deepMergeMaps(nil, nil))
}

func TestApplyOverridesStepsReplaceWholesale(t *testing.T) {
	doc := Document{Steps: []Step{{ID: "a"}, {ID: "b"}}}
	ov := Overrides{Steps: []Step{{ID: "c"}}}
	out := applyOverrides(doc, ov)
	assert.Len(t, out.Steps, 1)
	assert.Equal(t, "c", out.Steps[0].ID)
}

func TestApplyOverridesLeavesStepsWhenEmpty(t *testing.T) {
	doc := Document{Steps: []Step{{ID: "a"}}}
	out := applyOverrides(doc, Overrides{})
	assert.Len(t, out.Steps, 1)
}

func TestApplyOverridesInputsDeepMerges(t *testing.T) {
	doc := Document{Inputs: map[string]interface{}{"a": "remote", "b": "remote-only"}}
	ov := Overrides{Inputs: map[string]interface{}{"a": "caller"}}
	out := applyOverrides(doc, ov)
	assert.Equal(t, "caller", out.Inputs["a"])
	assert.Equal(t, "remote-only", out.Inputs["b"])
}

func TestApplyOverridesScriptsBasePathOnlyWhenNonEmpty(t *testing.T) {
	doc := Document{ScriptsBasePath: "/remote"}
	out := applyOverrides(doc, Overrides{})
	assert.Equal(t, "/remote", out.ScriptsBasePath)

	out = applyOverrides(doc, Overrides{ScriptsBasePath: "/caller"})
	assert.Equal(t, "/caller", out.ScriptsBasePath)
}

func TestApplyOverridesVariablesMergeByName(t *testing.T) {
	doc := Document{Variables: map[string]VariableDefinition{
		"timeout": {Type: "number", Default: 5},
	}}
	ov := Overrides{Variables: map[string]VariableDefinition{
		"timeout": {Type: "number", Default: 10},
		"retries": {Type: "number", Default: 3},
	}}
	out := applyOverrides(doc, ov)
	assert.Equal(t, 10, out.Variables["timeout"].Default)
	assert.Equal(t, 3, out.Variables["retries"].Default)
}
