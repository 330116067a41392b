package tools

import (
	"context"
	"testing"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/indexcache"
	"github.com/mediar-ai/deskflow/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	desktop.NoopPlatform
	elements map[string]*desktop.Element
	toggled  bool
	clicked  []string
}

func (f *fakePlatform) FindElement(ctx context.Context, sel desktop.Selector) (*desktop.Element, error) {
	if role, ok := sel["role"].(string); ok {
		if el, ok := f.elements[role]; ok {
			return el, nil
		}
	}
	return nil, assertNotFound()
}

func assertNotFound() error {
	return &notFoundErr{}
}

type notFoundErr struct{}

func (e *notFoundErr) Error() string { return "not found" }

func (f *fakePlatform) IsVisible(ctx context.Context, el *desktop.Element) (bool, error) { return true, nil }
func (f *fakePlatform) IsEnabled(ctx context.Context, el *desktop.Element) (bool, error) { return true, nil }
func (f *fakePlatform) Click(ctx context.Context, el *desktop.Element) error {
	f.clicked = append(f.clicked, el.Handle)
	return nil
}
func (f *fakePlatform) IsToggled(ctx context.Context, el *desktop.Element) (bool, error) {
	return f.toggled, nil
}
func (f *fakePlatform) SetToggled(ctx context.Context, el *desktop.Element, toggled bool) error {
	f.toggled = toggled
	return nil
}

func newDeps(p *fakePlatform) Deps {
	return Deps{Platform: p, Caches: indexcache.New()}
}

func TestClickHandlerResolvesAndClicks(t *testing.T) {
	p := &fakePlatform{elements: map[string]*desktop.Element{
		"button": {Handle: "h1", Bounds: desktop.Bounds{Width: 10, Height: 10}},
	}}
	d := dispatch.New(p, window.New(p), window.Options{})
	deps := newDeps(p)
	Register(d, deps)

	res, err := d.Dispatch(context.Background(), "click", dispatch.Args{"selector": map[string]interface{}{"role": "button"}}, dispatch.StepContext{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, []string{"h1"}, p.clicked)
}

func TestSetToggledVerifiesAndSucceeds(t *testing.T) {
	p := &fakePlatform{elements: map[string]*desktop.Element{
		"checkbox": {Handle: "h2", Bounds: desktop.Bounds{Width: 10, Height: 10}},
	}}
	d := dispatch.New(p, window.New(p), window.Options{})
	deps := newDeps(p)
	Register(d, deps)

	res, err := d.Dispatch(context.Background(), "set-toggled", dispatch.Args{
		"selector": map[string]interface{}{"role": "checkbox"},
		"toggled":  true,
	}, dispatch.StepContext{}, 0)
	require.NoError(t, err)
	assert.True(t, res.Verification.Passed)
}

func TestClickByIndexUsesCachedBounds(t *testing.T) {
	p := &fakePlatform{elements: map[string]*desktop.Element{}}
	caches := indexcache.New()
	caches.Replace(indexcache.UITree, []indexcache.Entry{{Index: 0, Bounds: desktop.Bounds{X: 0, Y: 0, Width: 4, Height: 4}}})
	d := dispatch.New(p, window.New(p), window.Options{})
	deps := Deps{Platform: p, Caches: caches}
	Register(d, deps)

	_, err := d.Dispatch(context.Background(), "click-by-index", dispatch.Args{"index": float64(0)}, dispatch.StepContext{}, 0)
	require.Error(t, err) // fakePlatform only resolves by "role", so this exercises the lookup+miss path
}
