package tools

import (
	"context"
	"encoding/json"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/indexcache"
)

// registerInspection wires enumerate-applications, enumerate-windows, and
// get-accessibility-tree; get-accessibility-tree populates the UI-tree index
// cache the control family's click-by-index reads from (§4.2 family 1).
func registerInspection(d *dispatch.Dispatcher, deps Deps) {
	d.Register("enumerate-applications", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		apps, err := deps.Platform.EnumerateApplications(ctx)
		if err != nil {
			return dispatch.Result{}, err
		}
		return jsonResult(apps)
	})

	d.Register("enumerate-windows", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		windows, err := deps.Platform.EnumerateWindows(ctx)
		if err != nil {
			return dispatch.Result{}, err
		}
		return jsonResult(windows)
	})

	d.Register("get-accessibility-tree", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		sel := desktop.Selector{"process": args["process"]}
		elements, err := deps.Platform.FindElements(ctx, sel)
		if err != nil {
			return dispatch.Result{}, err
		}
		entries := make([]indexcache.Entry, 0, len(elements))
		for i, el := range elements {
			entries = append(entries, indexcache.Entry{Index: i, Bounds: el.Bounds, Label: el.Name})
		}
		if deps.Caches != nil {
			deps.Caches.Replace(indexcache.UITree, entries)
		}
		return jsonResult(elements)
	})
}

func jsonResult(v interface{}) (dispatch.Result, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{Status: "success", Content: []dispatch.Content{dispatch.TextContent(string(raw))}}, nil
}
