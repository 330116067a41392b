package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/retry"
	"github.com/mediar-ai/deskflow/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchUnknownToolReturnsInvalidInput(t *testing.T) {
	d := New(desktop.NoopPlatform{}, window.New(desktop.NoopPlatform{}), window.DefaultOptions())
	_, err := d.Dispatch(context.Background(), "does-not-exist", Args{}, StepContext{}, 0)
	require.Error(t, err)
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.InvalidInput, e.Kind)
}

func TestDispatchHonoursCancellationAtEntry(t *testing.T) {
	d := New(desktop.NoopPlatform{}, window.New(desktop.NoopPlatform{}), window.DefaultOptions())
	called := false
	d.Register("noop", func(ctx context.Context, args Args, step StepContext) (Result, error) {
		called = true
		return Result{Status: "success"}, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Dispatch(ctx, "noop", Args{}, StepContext{}, 0)
	require.Error(t, err)
	assert.False(t, called)
}

func TestDispatchRunsRegisteredHandler(t *testing.T) {
	d := New(desktop.NoopPlatform{}, window.New(desktop.NoopPlatform{}), window.DefaultOptions())
	d.Register("echo", func(ctx context.Context, args Args, step StepContext) (Result, error) {
		return Result{Status: "success", Content: []Content{TextContent(args["msg"].(string))}}, nil
	})
	res, err := d.Dispatch(context.Background(), "echo", Args{"msg": "hi"}, StepContext{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "hi", res.Content[0].Text)
}

func TestVerifyActionableRejectsInvisibleElement(t *testing.T) {
	_, err := VerifyActionable(context.Background(), func(ctx context.Context) (desktop.Bounds, bool, error) {
		return desktop.Bounds{}, true, nil
	}, true, false)
	require.Error(t, err)
	e, _ := errs.As(err)
	assert.Equal(t, errs.ElementNotVisible, e.Kind)
}

func TestVerifyActionableAcceptsStableBounds(t *testing.T) {
	b := desktop.Bounds{X: 10, Y: 10, Width: 50, Height: 20}
	bounds, err := VerifyActionable(context.Background(), func(ctx context.Context) (desktop.Bounds, bool, error) {
		return b, true, nil
	}, true, true)
	require.NoError(t, err)
	assert.Equal(t, b, bounds)
}

func TestVerifyActionableRejectsUnstableBounds(t *testing.T) {
	calls := 0
	start := time.Now()
	_, err := VerifyActionable(context.Background(), func(ctx context.Context) (desktop.Bounds, bool, error) {
		calls++
		return desktop.Bounds{X: float64(calls) * 100, Width: 10, Height: 10}, true, nil
	}, true, true)
	require.Error(t, err)
	e, _ := errs.As(err)
	assert.Equal(t, errs.ElementNotStable, e.Kind)
	assert.True(t, time.Since(start) < 2*time.Second)
}

type fakePlatform struct {
	desktop.NoopPlatform
	elements map[string]*desktop.Element
	attempts int
}

func (f *fakePlatform) FindElement(ctx context.Context, sel desktop.Selector) (*desktop.Element, error) {
	f.attempts++
	key, _ := sel["role"].(string)
	if el, ok := f.elements[key]; ok {
		return el, nil
	}
	return nil, errs.New(errs.ElementNotFound, "no match").Build()
}

func TestResolveElementFallsBackToAlternative(t *testing.T) {
	p := &fakePlatform{elements: map[string]*desktop.Element{
		"fallback-button": {Handle: "h2"},
	}}
	set := SelectorSet{
		Primary:      desktop.Selector{"role": "primary-button"},
		Alternatives: []desktop.Selector{{"role": "fallback-button"}},
	}
	policy := retry.Policy{MaxAttempts: 1, InitialDelay: time.Millisecond}
	el, matched, err := ResolveElement(context.Background(), p, policy, set)
	require.NoError(t, err)
	assert.Equal(t, "h2", el.Handle)
	assert.Equal(t, "fallback-button", matched["role"])
}

func TestResolveElementExhaustsAllCandidates(t *testing.T) {
	p := &fakePlatform{elements: map[string]*desktop.Element{}}
	set := SelectorSet{Primary: desktop.Selector{"role": "a"}, Fallbacks: []desktop.Selector{{"role": "b"}}}
	policy := retry.Policy{MaxAttempts: 1, InitialDelay: time.Millisecond}
	_, _, err := ResolveElement(context.Background(), p, policy, set)
	require.Error(t, err)
	e, _ := errs.As(err)
	assert.Equal(t, errs.ElementNotFound, e.Kind)
	assert.Len(t, e.Tried, 2)
}

func TestVerifyMutationSetToggledPasses(t *testing.T) {
	p := &togglePlatform{toggled: true}
	v, err := VerifyMutation(context.Background(), p, &desktop.Element{Handle: "h"}, MutationSetToggled, true)
	require.NoError(t, err)
	assert.True(t, v.Passed)
}

func TestVerifyMutationSetToggledFails(t *testing.T) {
	p := &togglePlatform{toggled: false}
	_, err := VerifyMutation(context.Background(), p, &desktop.Element{Handle: "h"}, MutationSetToggled, true)
	require.Error(t, err)
	e, _ := errs.As(err)
	assert.Equal(t, errs.VerificationFailed, e.Kind)
}

type togglePlatform struct {
	desktop.NoopPlatform
	toggled bool
}

func (t *togglePlatform) IsToggled(ctx context.Context, el *desktop.Element) (bool, error) {
	return t.toggled, nil
}
