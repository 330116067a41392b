package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualityAndInequality(t *testing.T) {
	ctx := Context{"flag": "yes"}
	ok, err := Eval(`flag == 'yes'`, ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Eval(`flag != 'no'`, ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNumericComparisonWithStringCoercion(t *testing.T) {
	ctx := Context{"count": "10"}
	ok, err := Eval(`count > 5`, ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Eval(`count <= 9`, ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogicalOperators(t *testing.T) {
	ctx := Context{"a": true, "b": false}
	ok, _ := Eval(`a && !b`, ctx)
	assert.True(t, ok)

	ok, _ = Eval(`a || b`, ctx)
	assert.True(t, ok)

	ok, _ = Eval(`!a && b`, ctx)
	assert.False(t, ok)
}

func TestFunctions(t *testing.T) {
	ctx := Context{"name": "submit-button"}
	ok, _ := Eval(`contains(name, 'submit')`, ctx)
	assert.True(t, ok)

	ok, _ = Eval(`startsWith(name, 'submit')`, ctx)
	assert.True(t, ok)

	ok, _ = Eval(`endsWith(name, 'button')`, ctx)
	assert.True(t, ok)

	ok, _ = Eval(Always, ctx)
	assert.True(t, ok)
}

func TestUndefinedIdentifierPropagation(t *testing.T) {
	ok, err := Eval(`undefined_var == "x"`, Context{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Eval(`undefined_var != "x"`, Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParenthesesAndPrecedence(t *testing.T) {
	ctx := Context{"a": true, "b": false, "c": true}
	ok, _ := Eval(`(a || b) && c`, ctx)
	assert.True(t, ok)
	ok, _ = Eval(`a && b || c`, ctx)
	assert.True(t, ok)
}

func TestSyntaxError(t *testing.T) {
	_, err := Eval(`a ==`, Context{"a": 1})
	assert.Error(t, err)
}
