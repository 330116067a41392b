package tools

import (
	"context"
	"time"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/scriptexec"
)

// registerScripted wires family 6 (§4.2): run-command (shell or an
// embedded JS/TS/Python engine via the Script Executor capability) and
// execute-browser-script (via the Extension Bridge's eval primitive).
func registerScripted(d *dispatch.Dispatcher, deps Deps) {
	d.Register("run-command", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		if deps.Scripts == nil {
			return dispatch.Result{}, errs.New(errs.ScriptExecutionFailed, "no script executor configured").Build()
		}
		language := scriptexec.Language(argString(args, "language"))
		if language == "" {
			language = scriptexec.Shell
		}
		source := argString(args, "source")
		cwd := argString(args, "cwd")
		env := asMap(args["env"])

		result, events, err := deps.Scripts.Execute(ctx, language, source, cwd, env)
		if events != nil {
			for range events {
				// Drain the streaming channel; individual events are
				// discarded and not surfaced anywhere.
			}
		}
		if err != nil {
			return dispatch.Result{}, err
		}
		status := result.Status
		if status == "" {
			status = "success"
		}
		return dispatch.Result{Status: status, Extra: map[string]interface{}{"result": result.Result, "logs": result.Logs}}, nil
	})

	d.Register("execute-browser-script", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		if deps.Bridge == nil {
			return dispatch.Result{}, errs.New(errs.ExtensionUnavailable, "no browser extension bridge configured").Build()
		}
		code := argString(args, "code")
		timeout := time.Duration(argFloat(args, "timeout_ms")) * time.Millisecond
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		code, err := scriptexec.PrepareBrowserScript(code, asMap(args["env"]))
		if err != nil {
			return dispatch.Result{}, errs.Wrap(errs.ScriptExecutionFailed, "preparing browser script preamble", err)
		}
		value, err := deps.Bridge.Eval(ctx, code, timeout)
		if err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success", Content: []dispatch.Content{dispatch.TextContent(value)}}, nil
	})
}
