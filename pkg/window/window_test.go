package window

import (
	"context"
	"testing"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	desktop.NoopPlatform
	windows   []desktop.WindowInfo
	minimized map[string]bool
	maximized map[string]bool
	activated map[string]bool
}

func newFakePlatform(windows []desktop.WindowInfo) *fakePlatform {
	return &fakePlatform{windows: windows, minimized: map[string]bool{}, maximized: map[string]bool{}, activated: map[string]bool{}}
}

func (f *fakePlatform) EnumerateWindows(ctx context.Context) ([]desktop.WindowInfo, error) {
	return f.windows, nil
}
func (f *fakePlatform) MinimizeWindow(ctx context.Context, handle string) error {
	f.minimized[handle] = true
	return nil
}
func (f *fakePlatform) MaximizeWindow(ctx context.Context, handle string) error {
	f.maximized[handle] = true
	return nil
}
func (f *fakePlatform) ActivateWindow(ctx context.Context, handle string) error {
	f.activated[handle] = true
	return nil
}

func TestCaptureInitialStateSnapshotsAllWindows(t *testing.T) {
	p := newFakePlatform([]desktop.WindowInfo{{Handle: "a", Minimized: true}, {Handle: "b", Maximized: true}})
	m := New(p)
	require.NoError(t, m.CaptureInitialState(context.Background(), DefaultOptions()))
	assert.Len(t, m.captured, 2)
}

func TestPrepareMinimizesAlwaysOnTopOccludersOnFirstStep(t *testing.T) {
	p := newFakePlatform([]desktop.WindowInfo{
		{Handle: "target", ProcessID: 1},
		{Handle: "ontop", ProcessID: 2, AlwaysOnTop: true},
	})
	m := New(p)
	require.NoError(t, m.Prepare(context.Background(), 1, DefaultOptions()))
	assert.True(t, p.minimized["ontop"])
	assert.True(t, p.activated["target"])
}

func TestPrepareMinimizesPreviousProcessOnSwitch(t *testing.T) {
	p := newFakePlatform([]desktop.WindowInfo{
		{Handle: "p1win", ProcessID: 1},
		{Handle: "p2win", ProcessID: 2},
	})
	m := New(p)
	require.NoError(t, m.Prepare(context.Background(), 1, Options{Enable: true}))
	require.NoError(t, m.Prepare(context.Background(), 2, Options{Enable: true}))
	assert.True(t, p.minimized["p1win"])
}

func TestRestoreAllRevertsCapturedWindows(t *testing.T) {
	p := newFakePlatform([]desktop.WindowInfo{{Handle: "a", Minimized: true}})
	m := New(p)
	require.NoError(t, m.CaptureInitialState(context.Background(), DefaultOptions()))
	require.NoError(t, m.RestoreAll(context.Background()))
	assert.True(t, p.minimized["a"])
	assert.Nil(t, m.captured)
}

func TestDisabledOptionsSkipAllOperations(t *testing.T) {
	p := newFakePlatform([]desktop.WindowInfo{{Handle: "a", ProcessID: 1}})
	m := New(p)
	require.NoError(t, m.Prepare(context.Background(), 1, Options{Enable: false}))
	assert.Empty(t, p.activated)
}
