package tools

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/indexcache"
)

// registerControl wires family 8 (§4.2): click-by-index, which clicks the
// Nth entry from a prior scan's index cache rather than resolving a fresh
// selector.
func registerControl(d *dispatch.Dispatcher, deps Deps) {
	d.Register("click-by-index", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		if deps.Caches == nil {
			return dispatch.Result{}, errs.New(errs.ElementNotFound, "no index cache populated").Build()
		}
		source := indexcache.Source(argString(args, "source"))
		if source == "" {
			source = indexcache.UITree
		}
		index := int(argFloat(args, "index"))

		entry, err := deps.Caches.Get(source, index)
		if err != nil {
			return dispatch.Result{}, err
		}

		centerX := entry.Bounds.X + entry.Bounds.Width/2
		centerY := entry.Bounds.Y + entry.Bounds.Height/2
		sel := desktop.Selector{"x": centerX, "y": centerY}
		set := dispatch.SelectorSet{Primary: sel}
		el, _, err := dispatch.ResolveElement(ctx, deps.Platform, selectorRetryPolicy, set)
		if err != nil {
			return dispatch.Result{}, err
		}
		if err := deps.Platform.Click(ctx, el); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})
}
