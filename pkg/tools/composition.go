package tools

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
)

// registerComposition wires family 7 (§4.2): execute-sequence, a nested
// mini-workflow whose steps dispatch recurses into. Deps.Sequence is wired
// by the workflow engine after construction, since the engine owns the
// step-execution loop this tool re-enters (§9's boxed recursion note).
func registerComposition(d *dispatch.Dispatcher, deps Deps) {
	d.Register("execute-sequence", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		if deps.Sequence == nil {
			return dispatch.Result{}, errs.New(errs.InvalidInput, "execute-sequence is not wired to an engine").Build()
		}
		rawSteps, _ := args["steps"].([]interface{})
		nested := dispatch.StepContext{InSequence: true, RequestID: step.RequestID}
		return deps.Sequence(ctx, rawSteps, nested)
	})
}
