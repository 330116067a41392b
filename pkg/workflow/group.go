package workflow

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/substitution"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
	"github.com/mediar-ai/deskflow/pkg/workflow/expr"
)

// executeGroup runs a group step's nested steps as a mini-sequence
// in_sequence (so the Tool Dispatcher defers window management to the
// engine), honouring each sub-step's own continue_on_error (§3 Step).
func (e *Engine) executeGroup(ctx context.Context, r *run, group Step) (dispatch.Result, error) {
	var lastErr error
	for _, sub := range group.Steps {
		if ctx.Err() != nil {
			return dispatch.Result{}, ctx.Err()
		}
		if sub.If != "" && sub.If != always {
			ctxFlat := flatten(r.env, r.doc.Selectors)
			ok, err := expr.Eval(sub.If, expr.Context(ctxFlat))
			if err != nil {
				return dispatch.Result{}, err
			}
			if !ok {
				continue
			}
		}

		ctxFlat := flatten(r.env, r.doc.Selectors)
		args := substitution.Substitute(map[string]interface{}(sub.Arguments), ctxFlat)
		argMap, _ := args.(map[string]interface{})

		result, err := e.Dispatcher.Dispatch(ctx, sub.ToolName, dispatch.Args(argMap), dispatch.StepContext{InSequence: true}, 0)
		if sub.ID != "" {
			r.env[sub.ID+"_status"] = result.Status
			r.env[sub.ID+"_result"] = stripServerLogs(resultPayload(result))
		}
		if err != nil || result.Status == "failed" {
			if sub.ContinueOnError {
				telemetry.Warnf("workflow: group %q sub-step %q failed, continuing (continue_on_error)", group.GroupName, sub.ToolName)
				lastErr = nil
				continue
			}
			return result, err
		}
	}
	return dispatch.Result{Status: "success"}, lastErr
}
