package workflow

import (
	"context"
	"encoding/json"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
)

// ExecuteNested runs a raw steps[] array (as decoded from an
// execute-sequence tool call's arguments) as a self-contained
// mini-sequence, matching the Deps.Sequence signature pkg/tools closes
// over. It has no access to an enclosing run's env; each nested step sees
// only the env it produces itself.
func (e *Engine) ExecuteNested(ctx context.Context, rawSteps []interface{}, _ dispatch.StepContext) (dispatch.Result, error) {
	raw, err := json.Marshal(rawSteps)
	if err != nil {
		return dispatch.Result{}, errs.Wrap(errs.InvalidInput, "encoding nested sequence steps", err)
	}
	var steps []Step
	if err := json.Unmarshal(raw, &steps); err != nil {
		return dispatch.Result{}, errs.Wrap(errs.InvalidInput, "decoding nested sequence steps", err)
	}

	// The nested run has no window manager, so it neither captures nor
	// restores window topology and leaves an enclosing run's capture intact.
	nested := *e
	nested.Windows = nil
	summary, err := nested.Execute(ctx, Document{Steps: steps, SkipPreflightCheck: true}, nil, nil, nil)
	if err != nil {
		return dispatch.Result{}, err
	}
	status := "success"
	if summary.Status != "success" {
		status = "failed"
	}
	return dispatch.Result{Status: status, Extra: map[string]interface{}{
		"status":  summary.Status,
		"results": summary.Results,
		"env":     summary.Env,
	}}, nil
}
