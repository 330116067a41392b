package statestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	in := State{
		WorkflowID:    "wf1",
		LastStepID:    "stepA",
		LastStepIndex: 2,
		Env:           map[string]interface{}{"flag": "yes"},
	}
	require.NoError(t, store.Save(in))

	out, found, err := store.Load("wf1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "stepA", out.LastStepID)
	assert.Equal(t, "yes", out.Env["flag"])
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, found, err := store.Load("nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveWorkflowIDFallsBackToHash(t *testing.T) {
	id := ResolveWorkflowID("", "/tmp/workflow.yaml")
	assert.Len(t, id, 16)
	assert.Equal(t, id, ResolveWorkflowID("", "/tmp/workflow.yaml"))
	assert.Equal(t, "explicit", ResolveWorkflowID("explicit", "/tmp/workflow.yaml"))
}
