package tools

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
)

// registerQueries wires the read-only family (§4.2 family 3). Unlike
// actuators these never raise on a missing element except validate-element,
// which by contract never throws and instead reports exists:false.
func registerQueries(d *dispatch.Dispatcher, deps Deps) {
	resolve := func(ctx context.Context, args dispatch.Args) (*desktop.Element, error) {
		set := selectorSetFromArgs(args)
		el, _, err := dispatch.ResolveElement(ctx, deps.Platform, selectorRetryPolicy, set)
		return el, err
	}

	d.Register("is-toggled", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		el, err := resolve(ctx, args)
		if err != nil {
			return dispatch.Result{}, err
		}
		v, err := deps.Platform.IsToggled(ctx, el)
		if err != nil {
			return dispatch.Result{}, err
		}
		return jsonResult(map[string]bool{"toggled": v})
	})

	d.Register("is-selected", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		el, err := resolve(ctx, args)
		if err != nil {
			return dispatch.Result{}, err
		}
		v, err := deps.Platform.IsSelected(ctx, el)
		if err != nil {
			return dispatch.Result{}, err
		}
		return jsonResult(map[string]bool{"selected": v})
	})

	d.Register("get-range-value", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		el, err := resolve(ctx, args)
		if err != nil {
			return dispatch.Result{}, err
		}
		v, err := deps.Platform.RangeValue(ctx, el)
		if err != nil {
			return dispatch.Result{}, err
		}
		return jsonResult(map[string]float64{"value": v})
	})

	d.Register("list-options", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		el, err := resolve(ctx, args)
		if err != nil {
			return dispatch.Result{}, err
		}
		opts, err := deps.Platform.ListOptions(ctx, el)
		if err != nil {
			return dispatch.Result{}, err
		}
		return jsonResult(map[string][]string{"options": opts})
	})

	d.Register("validate-element", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		el, err := resolve(ctx, args)
		if err != nil {
			return jsonResult(map[string]bool{"exists": false})
		}
		visible, _ := deps.Platform.IsVisible(ctx, el)
		return jsonResult(map[string]interface{}{"exists": true, "visible": visible})
	})
}
