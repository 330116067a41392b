package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSourceReadsBareLocalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: []\n"), 0o644))

	raw, err := LoadSource(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "steps: []\n", string(raw))
}

func TestLoadSourceStripsFileScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: []\n"), 0o644))

	raw, err := LoadSource(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "steps: []\n", string(raw))
}

func TestIsTypeScriptModule(t *testing.T) {
	assert.True(t, IsTypeScriptModule("flow.ts"))
	assert.True(t, IsTypeScriptModule("flow.tsx"))
	assert.False(t, IsTypeScriptModule("flow.yaml"))
}

func TestParseYAMLBareDocument(t *testing.T) {
	raw := []byte(`
steps:
  - id: step1
    tool_name: click-element
    arguments:
      selector:
        primary:
          role: button
`)
	doc, err := ParseYAML(raw)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, "step1", doc.Steps[0].ID)
	assert.Equal(t, "click-element", doc.Steps[0].ToolName)
}

func TestParseYAMLUnwrapsExecuteSequenceEnvelope(t *testing.T) {
	raw := []byte(`
tool_name: execute_sequence
arguments:
  steps:
    - id: step1
      tool_name: click-element
`)
	doc, err := ParseYAML(raw)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, "step1", doc.Steps[0].ID)
}

func TestParseYAMLInvalidYAMLFails(t *testing.T) {
	_, err := ParseYAML([]byte("not: [valid"))
	assert.Error(t, err)
}
