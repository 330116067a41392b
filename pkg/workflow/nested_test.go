package workflow

import (
	"context"
	"testing"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteNestedRunsRawStepsToSuccess(t *testing.T) {
	engine, d := newTestEngine(t)
	ran := false
	d.Register("noop-tool", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		ran = true
		return dispatch.Result{Status: "success"}, nil
	})

	rawSteps := []interface{}{
		map[string]interface{}{"id": "n1", "tool_name": "noop-tool"},
	}
	result, err := engine.ExecuteNested(context.Background(), rawSteps, dispatch.StepContext{InSequence: true})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "success", result.Status)
}

func TestExecuteNestedReportsFailure(t *testing.T) {
	engine, d := newTestEngine(t)
	d.Register("fails", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return dispatch.Result{Status: "failed"}, nil
	})

	rawSteps := []interface{}{
		map[string]interface{}{"id": "n1", "tool_name": "fails"},
	}
	result, err := engine.ExecuteNested(context.Background(), rawSteps, dispatch.StepContext{})
	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status)
}
