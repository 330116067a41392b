package dispatch

import (
	"context"
	"time"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
)

const (
	sampleInterval = 16 * time.Millisecond
	sampleCeiling  = 800 * time.Millisecond
	boundsEpsilon  = 0.5
)

// BoundsSource reads an element's current bounds, e.g. via
// desktop.Platform.FindElement and the returned element's Bounds.
type BoundsSource func(ctx context.Context) (desktop.Bounds, bool, error)

// VerifyActionable runs the §4.2 step-5 actionability sampling algorithm:
// three 16ms-apart bounds reads that must agree pairwise (within a small
// tolerance), extending up to an 800ms ceiling on mismatch.
func VerifyActionable(ctx context.Context, read BoundsSource, enabled, visible bool) (desktop.Bounds, error) {
	if !visible {
		return desktop.Bounds{}, errs.New(errs.ElementNotVisible, "element has zero or off-screen bounds").Build()
	}
	if !enabled {
		return desktop.Bounds{}, errs.New(errs.ElementNotEnabled, "element is disabled").Build()
	}

	deadline := time.Now().Add(sampleCeiling)
	var last desktop.Bounds
	stableCount := 0
	for {
		b, ok, err := read(ctx)
		if err != nil {
			return desktop.Bounds{}, err
		}
		if !ok || (b.Width == 0 && b.Height == 0) {
			return desktop.Bounds{}, errs.New(errs.ElementNotVisible, "element has zero bounds").Build()
		}
		if stableCount > 0 && boundsEqual(last, b) {
			stableCount++
		} else {
			stableCount = 1
		}
		last = b
		if stableCount >= 3 {
			return last, nil
		}
		if time.Now().After(deadline) {
			return desktop.Bounds{}, errs.New(errs.ElementNotStable, "element bounds did not stabilise within 800ms").
				Context("last_bounds", last).Build()
		}
		select {
		case <-ctx.Done():
			return desktop.Bounds{}, errs.Wrap(errs.Cancelled, "actionability sampling cancelled", ctx.Err())
		case <-time.After(sampleInterval):
		}
	}
}

func boundsEqual(a, b desktop.Bounds) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) && approxEqual(a.Width, b.Width) && approxEqual(a.Height, b.Height)
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= boundsEpsilon
}

// ViewportHeight returns the usable work-area height, falling back to a
// 1080-pixel heuristic when the platform cannot report one (§4.2 step 6).
func ViewportHeight(ctx context.Context, platform desktop.Platform) float64 {
	if h, ok := platform.WorkAreaHeight(ctx); ok && h > 0 {
		return h
	}
	return 1080
}

// EnsureInViewport scrolls the element into view if its bounds fall outside
// [0, viewportHeight), re-checking once and nudging a single extra scroll
// step if it is still out of view.
func EnsureInViewport(ctx context.Context, platform desktop.Platform, handle string, read BoundsSource, viewportHeight float64) error {
	b, ok, err := read(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errs.New(errs.ElementNotFound, "element disappeared before viewport check").Build()
	}
	if inViewport(b, viewportHeight) {
		return nil
	}
	if err := platform.ScrollIntoView(ctx, handle); err != nil {
		return err
	}
	b, ok, err = read(ctx)
	if err != nil {
		return err
	}
	if ok && inViewport(b, viewportHeight) {
		return nil
	}
	// one extra nudge
	if err := platform.ScrollIntoView(ctx, handle); err != nil {
		return err
	}
	return nil
}

func inViewport(b desktop.Bounds, viewportHeight float64) bool {
	return b.Y >= 0 && b.Y < viewportHeight && b.X >= 0
}
