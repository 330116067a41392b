package tools

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
)

// registerNavigation wires family 5 (§4.2): open-application, navigate-browser.
func registerNavigation(d *dispatch.Dispatcher, deps Deps) {
	d.Register("open-application", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		path := argString(args, "path")
		argv := stringSlice(args["args"])
		if err := deps.Platform.OpenApplication(ctx, path, argv); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})

	d.Register("navigate-browser", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		browser := argString(args, "browser")
		url := argString(args, "url")
		if err := deps.Platform.OpenURL(ctx, browser, url); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
