// Package desktop defines the Desktop capability: the external OS
// accessibility backend this module consumes but does not implement.
// Operations mirror the platform adapter contract; a real backend is
// wired in by the operator, not shipped here.
package desktop

import (
	"context"
	"image"
)

// Bounds is a rectangle in screen coordinates.
type Bounds struct {
	X, Y, Width, Height float64
}

// Element is an opaque handle to a located UI element plus the fields the
// dispatcher needs to evaluate actionability and run queries against it.
type Element struct {
	Handle    string
	Role      string
	Name      string
	ProcessID int
	Window    string
	Bounds    Bounds
	Visible   bool
	Enabled   bool
	Focused   bool
}

// Selector is an opaque structured query the Platform resolves to zero or
// more Elements. Its shape is adapter-specific (role/name path, DOM CSS,
// OCR text match, coordinate, etc.); this module treats it as JSON.
type Selector map[string]interface{}

// WindowInfo describes one top-level window for inspection/window
// management purposes.
type WindowInfo struct {
	Handle     string
	Title      string
	ProcessID  int
	Minimized  bool
	Maximized  bool
	AlwaysOnTop bool
	ZOrder     int
}

// Application describes one running application for the "enumerate
// applications" inspection family.
type Application struct {
	ProcessID int
	Name      string
	Windows   []WindowInfo
}

// Platform is the full Desktop capability contract (§6.1). Every method
// takes a context so long OS calls can be cancelled or (per §5) run on a
// worker pool without stalling the caller.
type Platform interface {
	EnumerateApplications(ctx context.Context) ([]Application, error)
	EnumerateWindows(ctx context.Context) ([]WindowInfo, error)
	FindElement(ctx context.Context, sel Selector) (*Element, error)
	FindElements(ctx context.Context, sel Selector) ([]*Element, error)

	IsVisible(ctx context.Context, el *Element) (bool, error)
	IsEnabled(ctx context.Context, el *Element) (bool, error)
	IsFocused(ctx context.Context, el *Element) (bool, error)
	IsToggled(ctx context.Context, el *Element) (bool, error)
	IsSelected(ctx context.Context, el *Element) (bool, error)
	RangeValue(ctx context.Context, el *Element) (float64, error)
	ListOptions(ctx context.Context, el *Element) ([]string, error)

	Click(ctx context.Context, el *Element) error
	DoubleClick(ctx context.Context, el *Element) error
	RightClick(ctx context.Context, el *Element) error
	Invoke(ctx context.Context, el *Element) error
	TypeText(ctx context.Context, el *Element, text string, clearFirst bool) error
	SetValue(ctx context.Context, el *Element, value string) error
	SetRangeValue(ctx context.Context, el *Element, value float64) error
	SetSelected(ctx context.Context, el *Element, selected bool) error
	SetToggled(ctx context.Context, el *Element, toggled bool) error
	SelectOption(ctx context.Context, el *Element, option string) error
	Scroll(ctx context.Context, el *Element, dx, dy float64) error
	ScrollIntoView(ctx context.Context, handle string) error
	WorkAreaHeight(ctx context.Context) (float64, bool)
	PressKey(ctx context.Context, el *Element, key string) error
	ActivateWindow(ctx context.Context, handle string) error
	MaximizeWindow(ctx context.Context, handle string) error
	MinimizeWindow(ctx context.Context, handle string) error
	SetZoom(ctx context.Context, el *Element, level float64) error
	Drag(ctx context.Context, from, to *Element) error

	CaptureElementScreenshot(ctx context.Context, el *Element) (image.Image, error)
	CaptureAllMonitors(ctx context.Context) ([]image.Image, error)

	OpenURL(ctx context.Context, browser, url string) error
	OpenApplication(ctx context.Context, path string, args []string) error
	FocusedElement(ctx context.Context) (*Element, error)
	RunShellCommand(ctx context.Context, command string) (stdout, stderr string, err error)
}
