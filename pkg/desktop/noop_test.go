package desktop

import (
	"context"
	"testing"

	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/stretchr/testify/assert"
)

func TestNoopPlatformEnumerationsReturnEmpty(t *testing.T) {
	p := NoopPlatform{}
	apps, err := p.EnumerateApplications(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, apps)

	windows, err := p.EnumerateWindows(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, windows)

	monitors, err := p.CaptureAllMonitors(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, monitors)
}

func TestNoopPlatformElementLookupsFailWithElementNotFound(t *testing.T) {
	p := NoopPlatform{}

	_, err := p.FindElement(context.Background(), Selector{"role": "button"})
	assert.Equal(t, errs.ElementNotFound, errs.KindOf(err))

	_, err = p.FindElements(context.Background(), Selector{"role": "button"})
	assert.Equal(t, errs.ElementNotFound, errs.KindOf(err))

	_, err = p.FocusedElement(context.Background())
	assert.Equal(t, errs.ElementNotFound, errs.KindOf(err))
}

func TestNoopPlatformActionsFail(t *testing.T) {
	p := NoopPlatform{}
	el := &Element{Handle: "h1"}

	assert.Error(t, p.Click(context.Background(), el))
	assert.Error(t, p.DoubleClick(context.Background(), el))
	assert.Error(t, p.RightClick(context.Background(), el))
	assert.Error(t, p.Invoke(context.Background(), el))
	assert.Error(t, p.TypeText(context.Background(), el, "hi", true))
	assert.Error(t, p.SetValue(context.Background(), el, "v"))
	assert.Error(t, p.Drag(context.Background(), el, el))
	assert.Error(t, p.PressKey(context.Background(), el, "Enter"))

	_, _, err := p.RunShellCommand(context.Background(), "echo hi")
	assert.Error(t, err)
}

func TestNoopPlatformQueriesReturnZeroValues(t *testing.T) {
	p := NoopPlatform{}
	el := &Element{Handle: "h1"}

	visible, err := p.IsVisible(context.Background(), el)
	assert.False(t, visible)
	assert.Error(t, err)

	rv, err := p.RangeValue(context.Background(), el)
	assert.Zero(t, rv)
	assert.Error(t, err)

	height, ok := p.WorkAreaHeight(context.Background())
	assert.Zero(t, height)
	assert.False(t, ok)
}
