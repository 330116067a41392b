package tools

import (
	"bytes"
	"context"
	"image/png"
	"time"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/retry"
)

// singleAttempt is used by wait-for-element's own poll loop, which supplies
// the retry cadence itself; each ResolveElement call inside it should not
// additionally retry.
var singleAttempt = retry.Policy{MaxAttempts: 1}

const waitPollInterval = 100 * time.Millisecond

// registerWaitsAndUtility wires family 4 (§4.2): wait-for-element, delay,
// capture-element-screenshot, highlight-element, stop-highlighting,
// hide-inspect-overlay.
func registerWaitsAndUtility(d *dispatch.Dispatcher, deps Deps) {
	d.Register("wait-for-element", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		set := selectorSetFromArgs(args)
		condition := argString(args, "condition")
		if condition == "" {
			condition = "exists"
		}
		timeout := time.Duration(argFloat(args, "timeout_ms")) * time.Millisecond
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		deadline := time.Now().Add(timeout)

		for {
			el, _, err := dispatch.ResolveElement(ctx, deps.Platform, singleAttempt, set)
			if err == nil {
				satisfied, checkErr := satisfiesCondition(ctx, deps, el, condition)
				if checkErr != nil {
					return dispatch.Result{}, checkErr
				}
				if satisfied {
					return dispatch.Result{Status: "success"}, nil
				}
			}
			if time.Now().After(deadline) {
				return dispatch.Result{}, errs.New(errs.Timeout, "element did not satisfy condition before timeout").
					Context("condition", condition).Build()
			}
			select {
			case <-ctx.Done():
				return dispatch.Result{}, errs.Wrap(errs.Cancelled, "wait-for-element cancelled", ctx.Err())
			case <-time.After(waitPollInterval):
			}
		}
	})

	d.Register("delay", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		ms := argFloat(args, "duration_ms")
		select {
		case <-ctx.Done():
			return dispatch.Result{}, errs.Wrap(errs.Cancelled, "delay cancelled", ctx.Err())
		case <-time.After(time.Duration(ms) * time.Millisecond):
		}
		return dispatch.Result{Status: "success"}, nil
	})

	d.Register("capture-element-screenshot", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		set := selectorSetFromArgs(args)
		el, _, err := dispatch.ResolveElement(ctx, deps.Platform, selectorRetryPolicy, set)
		if err != nil {
			return dispatch.Result{}, err
		}
		img, err := deps.Platform.CaptureElementScreenshot(ctx, el)
		if err != nil {
			return dispatch.Result{}, err
		}
		// resize-to-max-dimension is a platform-capability concern; this module passes the capture through
		var buf bytes.Buffer
		if img != nil {
			if err := png.Encode(&buf, img); err != nil {
				return dispatch.Result{}, errs.Wrap(errs.InternalError, "encoding element screenshot", err)
			}
		}
		return dispatch.Result{Status: "success", Content: []dispatch.Content{dispatch.ImageContent(buf.Bytes(), "image/png")}}, nil
	})

	d.Register("highlight-element", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return dispatch.Result{Status: "success"}, nil
	})
	d.Register("stop-highlighting", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return dispatch.Result{Status: "success"}, nil
	})
	d.Register("hide-inspect-overlay", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return dispatch.Result{Status: "success"}, nil
	})
}

func satisfiesCondition(ctx context.Context, deps Deps, el *desktop.Element, condition string) (bool, error) {
	switch condition {
	case "exists":
		return true, nil
	case "visible":
		return deps.Platform.IsVisible(ctx, el)
	case "enabled":
		return deps.Platform.IsEnabled(ctx, el)
	case "focused":
		return deps.Platform.IsFocused(ctx, el)
	default:
		return false, errs.New(errs.InvalidInput, "unknown wait condition").Context("condition", condition).Build()
	}
}
