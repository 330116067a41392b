package scriptexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellExecutorRunsPlainOutput(t *testing.T) {
	s := NewShellExecutor()
	result, events, err := s.Execute(context.Background(), Shell, "echo hello", "", nil)
	require.NoError(t, err)
	assert.Nil(t, events)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "hello", result.Result)
}

func TestShellExecutorParsesJSONStdout(t *testing.T) {
	s := NewShellExecutor()
	result, _, err := s.Execute(context.Background(), Shell, `echo '{"ok": true}'`, "", nil)
	require.NoError(t, err)
	parsed, ok := result.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, parsed["ok"])
}

func TestShellExecutorNonZeroExitReturnsError(t *testing.T) {
	s := NewShellExecutor()
	result, _, err := s.Execute(context.Background(), Shell, "exit 1", "", nil)
	require.Error(t, err)
	assert.Equal(t, "error", result.Status)
}

func TestShellExecutorUnconfiguredLanguageFails(t *testing.T) {
	s := NewShellExecutor()
	_, _, err := s.Execute(context.Background(), Python, "print('hi')", "", nil)
	assert.Error(t, err)
}

func TestShellExecutorWithInterpreterRegistersBinaryChoice(t *testing.T) {
	s := NewShellExecutor().WithInterpreter(Python, "python3")
	assert.Equal(t, "python3", s.interpreters[Python])
}

func TestShellExecutorExposesAccumulatedEnvAsProcessVars(t *testing.T) {
	s := NewShellExecutor()
	env := map[string]interface{}{
		"_accumulated_env": map[string]interface{}{"greeting": "hi"},
	}
	result, _, err := s.Execute(context.Background(), Shell, `echo "$greeting"`, "", env)
	require.NoError(t, err)
	assert.Equal(t, "hi", result.Result)
}

func TestBuildPreambleExposesMergedEnvAsTopLevelJSVariable(t *testing.T) {
	env := map[string]interface{}{
		"_accumulated_env":    map[string]interface{}{"count": float64(1)},
		"_workflow_variables": map[string]interface{}{"region": "us"},
		"env": "explicit-wins", // an explicit per-step key named like a reserved name stays out
	}
	preamble, err := buildPreamble(NodeJS, env)
	require.NoError(t, err)
	assert.Contains(t, preamble, `const count = env["count"];`)
	assert.Contains(t, preamble, `"region":"us"`)
	assert.NotContains(t, preamble, `const env = env[`)
}

func TestBuildPreamblePreParsesJSONShapedStringOnce(t *testing.T) {
	env := map[string]interface{}{
		"_accumulated_env": map[string]interface{}{"payload": `{"a":1}`},
	}
	preamble, err := buildPreamble(NodeJS, env)
	require.NoError(t, err)
	assert.Contains(t, preamble, `"payload":{"a":1}`)
	assert.NotContains(t, preamble, `\"a\":1`)
}

func TestPrepareBrowserScriptRewritesCollidingDeclarations(t *testing.T) {
	env := map[string]interface{}{
		"_accumulated_env": map[string]interface{}{"count": float64(1)},
	}
	out, err := PrepareBrowserScript("let count = count + 1;", env)
	require.NoError(t, err)
	assert.Contains(t, out, "count = count + 1;")
	assert.NotContains(t, out, "let count = count + 1;")
}
