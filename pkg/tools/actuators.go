package tools

import (
	"context"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
)

// resolveAndAct resolves the step's selector set to an element, runs
// actionability validation, ensures the element is in view, and hands the
// resolved element to act. kind is non-empty for mutating actuators, which
// additionally get post-action verification.
func resolveAndAct(ctx context.Context, deps Deps, args dispatch.Args, kind dispatch.MutationKind, expected interface{}, act func(ctx context.Context, el *desktop.Element) error) (dispatch.Result, error) {
	set := selectorSetFromArgs(args)
	el, matched, err := dispatch.ResolveElement(ctx, deps.Platform, selectorRetryPolicy, set)
	if err != nil {
		return dispatch.Result{}, err
	}

	visible, err := deps.Platform.IsVisible(ctx, el)
	if err != nil {
		return dispatch.Result{}, err
	}
	enabled, err := deps.Platform.IsEnabled(ctx, el)
	if err != nil {
		return dispatch.Result{}, err
	}
	read := func(ctx context.Context) (desktop.Bounds, bool, error) {
		refreshed, ferr := deps.Platform.FindElement(ctx, desktop.Selector(matched))
		if ferr != nil {
			return desktop.Bounds{}, false, ferr
		}
		return refreshed.Bounds, true, nil
	}
	if _, err := dispatch.VerifyActionable(ctx, read, enabled, visible); err != nil {
		return dispatch.Result{}, err
	}

	height := dispatch.ViewportHeight(ctx, deps.Platform)
	if err := dispatch.EnsureInViewport(ctx, deps.Platform, el.Handle, read, height); err != nil {
		return dispatch.Result{}, err
	}

	if err := act(ctx, el); err != nil {
		return dispatch.Result{}, err
	}

	result := dispatch.Result{Status: "success", MatchedSelector: selectorString(matched)}
	if kind != "" {
		v, verr := dispatch.VerifyMutation(ctx, deps.Platform, el, kind, expected)
		result.Verification = v
		if verr != nil {
			return result, verr
		}
	}
	return result, nil
}

func selectorString(sel desktop.Selector) string {
	if name, ok := sel["role"].(string); ok {
		return name
	}
	if name, ok := sel["name"].(string); ok {
		return name
	}
	return "selector"
}

func registerActuators(d *dispatch.Dispatcher, deps Deps) {
	d.Register("click", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.Click(ctx, el)
		})
	})
	d.Register("double-click", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.DoubleClick(ctx, el)
		})
	})
	d.Register("right-click", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.RightClick(ctx, el)
		})
	})
	d.Register("invoke", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.Invoke(ctx, el)
		})
	})
	d.Register("type-text", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		text := argString(args, "text")
		clear := argBool(args, "clear")
		return resolveAndAct(ctx, deps, args, dispatch.MutationTypeText, text, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.TypeText(ctx, el, text, clear)
		})
	})
	d.Register("press-key", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		key := argString(args, "key")
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.PressKey(ctx, el, key)
		})
	})
	d.Register("set-value", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		value := argString(args, "value")
		return resolveAndAct(ctx, deps, args, dispatch.MutationSetValue, value, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.SetValue(ctx, el, value)
		})
	})
	d.Register("set-toggled", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		toggled := argBool(args, "toggled")
		return resolveAndAct(ctx, deps, args, dispatch.MutationSetToggled, toggled, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.SetToggled(ctx, el, toggled)
		})
	})
	d.Register("set-selected", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		selected := argBool(args, "selected")
		return resolveAndAct(ctx, deps, args, dispatch.MutationSetSelected, selected, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.SetSelected(ctx, el, selected)
		})
	})
	d.Register("set-range-value", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		value := argFloat(args, "value")
		return resolveAndAct(ctx, deps, args, dispatch.MutationSetRangeValue, value, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.SetRangeValue(ctx, el, value)
		})
	})
	d.Register("select-option", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		option := argString(args, "option")
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.SelectOption(ctx, el, option)
		})
	})
	d.Register("scroll", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		dx, dy := argFloat(args, "dx"), argFloat(args, "dy")
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.Scroll(ctx, el, dx, dy)
		})
	})
	d.Register("mouse-drag", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		fromSet := dispatch.SelectorSet{Primary: desktop.Selector(asMap(args["from"]))}
		toSet := dispatch.SelectorSet{Primary: desktop.Selector(asMap(args["to"]))}
		from, _, err := dispatch.ResolveElement(ctx, deps.Platform, selectorRetryPolicy, fromSet)
		if err != nil {
			return dispatch.Result{}, err
		}
		to, _, err := dispatch.ResolveElement(ctx, deps.Platform, selectorRetryPolicy, toSet)
		if err != nil {
			return dispatch.Result{}, err
		}
		if err := deps.Platform.Drag(ctx, from, to); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})
	d.Register("activate-window", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		handle := argString(args, "window")
		if err := deps.Platform.ActivateWindow(ctx, handle); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})
	d.Register("maximise-window", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		handle := argString(args, "window")
		if err := deps.Platform.MaximizeWindow(ctx, handle); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})
	d.Register("minimise-window", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		handle := argString(args, "window")
		if err := deps.Platform.MinimizeWindow(ctx, handle); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{Status: "success"}, nil
	})
	d.Register("set-zoom", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		level := argFloat(args, "level")
		return resolveAndAct(ctx, deps, args, "", nil, func(ctx context.Context, el *desktop.Element) error {
			return deps.Platform.SetZoom(ctx, el, level)
		})
	})
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}
