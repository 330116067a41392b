package desktop

import (
	"context"
	"image"

	"github.com/mediar-ai/deskflow/pkg/errs"
)

// NoopPlatform is the default Platform used when no real accessibility
// backend is wired in (and by tests). Every element query fails with
// ElementNotFound; every window/application enumeration returns empty.
type NoopPlatform struct{}

func notFound() error {
	return errs.New(errs.ElementNotFound, "no desktop accessibility backend configured").Build()
}

func (NoopPlatform) EnumerateApplications(ctx context.Context) ([]Application, error) { return nil, nil }
func (NoopPlatform) EnumerateWindows(ctx context.Context) ([]WindowInfo, error)        { return nil, nil }
func (NoopPlatform) FindElement(ctx context.Context, sel Selector) (*Element, error)   { return nil, notFound() }
func (NoopPlatform) FindElements(ctx context.Context, sel Selector) ([]*Element, error) {
	return nil, notFound()
}

func (NoopPlatform) IsVisible(ctx context.Context, el *Element) (bool, error)  { return false, notFound() }
func (NoopPlatform) IsEnabled(ctx context.Context, el *Element) (bool, error)  { return false, notFound() }
func (NoopPlatform) IsFocused(ctx context.Context, el *Element) (bool, error)  { return false, notFound() }
func (NoopPlatform) IsToggled(ctx context.Context, el *Element) (bool, error) { return false, notFound() }
func (NoopPlatform) IsSelected(ctx context.Context, el *Element) (bool, error) {
	return false, notFound()
}
func (NoopPlatform) RangeValue(ctx context.Context, el *Element) (float64, error) {
	return 0, notFound()
}
func (NoopPlatform) ListOptions(ctx context.Context, el *Element) ([]string, error) {
	return nil, notFound()
}

func (NoopPlatform) Click(ctx context.Context, el *Element) error       { return notFound() }
func (NoopPlatform) DoubleClick(ctx context.Context, el *Element) error { return notFound() }
func (NoopPlatform) RightClick(ctx context.Context, el *Element) error  { return notFound() }
func (NoopPlatform) Invoke(ctx context.Context, el *Element) error      { return notFound() }
func (NoopPlatform) TypeText(ctx context.Context, el *Element, text string, clearFirst bool) error {
	return notFound()
}
func (NoopPlatform) SetValue(ctx context.Context, el *Element, value string) error { return notFound() }
func (NoopPlatform) SetRangeValue(ctx context.Context, el *Element, value float64) error {
	return notFound()
}
func (NoopPlatform) SetSelected(ctx context.Context, el *Element, selected bool) error {
	return notFound()
}
func (NoopPlatform) SetToggled(ctx context.Context, el *Element, toggled bool) error {
	return notFound()
}
func (NoopPlatform) SelectOption(ctx context.Context, el *Element, option string) error {
	return notFound()
}
func (NoopPlatform) Scroll(ctx context.Context, el *Element, dx, dy float64) error { return notFound() }
func (NoopPlatform) ScrollIntoView(ctx context.Context, handle string) error       { return notFound() }
func (NoopPlatform) WorkAreaHeight(ctx context.Context) (float64, bool)            { return 0, false }
func (NoopPlatform) PressKey(ctx context.Context, el *Element, key string) error   { return notFound() }
func (NoopPlatform) ActivateWindow(ctx context.Context, handle string) error       { return notFound() }
func (NoopPlatform) MaximizeWindow(ctx context.Context, handle string) error       { return notFound() }
func (NoopPlatform) MinimizeWindow(ctx context.Context, handle string) error       { return notFound() }
func (NoopPlatform) SetZoom(ctx context.Context, el *Element, level float64) error { return notFound() }
func (NoopPlatform) Drag(ctx context.Context, from, to *Element) error             { return notFound() }

func (NoopPlatform) CaptureElementScreenshot(ctx context.Context, el *Element) (image.Image, error) {
	return nil, notFound()
}
func (NoopPlatform) CaptureAllMonitors(ctx context.Context) ([]image.Image, error) { return nil, nil }

func (NoopPlatform) OpenURL(ctx context.Context, browser, url string) error { return notFound() }
func (NoopPlatform) OpenApplication(ctx context.Context, path string, args []string) error {
	return notFound()
}
func (NoopPlatform) FocusedElement(ctx context.Context) (*Element, error) { return nil, notFound() }
func (NoopPlatform) RunShellCommand(ctx context.Context, command string) (string, string, error) {
	return "", "", notFound()
}
