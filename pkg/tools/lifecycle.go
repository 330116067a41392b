package tools

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
)

// registerLifecycle wires family 9 (§4.2): stop-execution, which cancels
// every in-flight request via the Request Manager.
func registerLifecycle(d *dispatch.Dispatcher, deps Deps) {
	d.Register("stop-execution", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		if deps.Requests == nil {
			return dispatch.Result{Status: "success"}, nil
		}
		cancelled := deps.Requests.CancelAll()
		return jsonResult(map[string]int{"cancelled": cancelled})
	})
}
