package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVariablesRequiredMissingFails(t *testing.T) {
	defs := map[string]VariableDefinition{"target_url": {Type: "string", Required: true}}
	err := validateVariables(defs, map[string]interface{}{})
	require.Error(t, err)
}

func TestValidateVariablesOptionalMissingPasses(t *testing.T) {
	defs := map[string]VariableDefinition{"timeout": {Type: "number"}}
	err := validateVariables(defs, map[string]interface{}{})
	assert.NoError(t, err)
}

func TestValidateValueTypeMismatch(t *testing.T) {
	err := validateValue("count", VariableDefinition{Type: "number"}, "not a number")
	require.Error(t, err)
}

func TestValidateValueEnumMembership(t *testing.T) {
	def := VariableDefinition{Type: "enum", Options: []string{"a", "b"}}
	assert.NoError(t, validateValue("mode", def, "a"))
	assert.Error(t, validateValue("mode", def, "c"))
}

func TestValidateValueArrayItemSchema(t *testing.T) {
	def := VariableDefinition{Type: "array", ItemSchema: &VariableDefinition{Type: "number"}}
	assert.NoError(t, validateValue("items", def, []interface{}{1.0, 2.0}))
	assert.Error(t, validateValue("items", def, []interface{}{1.0, "bad"}))
}

func TestValidateValueObjectProperties(t *testing.T) {
	def := VariableDefinition{Type: "object", Properties: map[string]VariableDefinition{
		"name": {Type: "string", Required: true},
	}}
	assert.NoError(t, validateValue("obj", def, map[string]interface{}{"name": "x"}))
	assert.Error(t, validateValue("obj", def, map[string]interface{}{}))
}

func TestValidateValueObjectValueSchemaAppliesToUndeclaredKeys(t *testing.T) {
	def := VariableDefinition{Type: "object", ValueSchema: &VariableDefinition{Type: "number"}}
	assert.NoError(t, validateValue("obj", def, map[string]interface{}{"a": 1.0, "b": 2.0}))
	assert.Error(t, validateValue("obj", def, map[string]interface{}{"a": "bad"}))
}

func TestValidateValueBooleanAndString(t *testing.T) {
	assert.NoError(t, validateValue("flag", VariableDefinition{Type: "boolean"}, true))
	assert.Error(t, validateValue("flag", VariableDefinition{Type: "boolean"}, "true"))
	assert.NoError(t, validateValue("name", VariableDefinition{Type: "string"}, "ok"))
}
