// Package window implements the Window Manager: capture/prepare/restore
// of window topology around tool dispatch (§4.5).
package window

import (
	"context"
	"strings"
	"sync"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
)

// Snapshot is one window's captured topology.
type Snapshot struct {
	Handle      string
	Minimized   bool
	Maximized   bool
	AlwaysOnTop bool
	ZOrder      int
}

// Options mirror the document-level "window management" config object
// (§6.7): enable, minimize_always_on_top, maximize_target, bring_to_front.
type Options struct {
	Enable                bool
	MinimizeAlwaysOnTop   bool
	MaximizeTarget        bool
	BringToFront          bool
}

// DefaultOptions matches the spec's implied default (enabled, minimise
// always-on-top occluders, don't force-maximize, bring target forward).
func DefaultOptions() Options {
	return Options{Enable: true, MinimizeAlwaysOnTop: true, BringToFront: true}
}

// Manager captures window topology once per run and restores it on the
// way out, and brings the step's target process forward before dispatch.
type Manager struct {
	platform desktop.Platform

	mu              sync.Mutex
	captured        []Snapshot
	lastProcess     int
	firstStepDone   bool
}

// New constructs a Manager backed by platform.
func New(platform desktop.Platform) *Manager {
	return &Manager{platform: platform}
}

// CaptureInitialState snapshots every top-level window's state once per
// run (§4.5 capture_initial_state).
func (m *Manager) CaptureInitialState(ctx context.Context, opts Options) error {
	if !opts.Enable {
		return nil
	}
	windows, err := m.platform.EnumerateWindows(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captured = make([]Snapshot, 0, len(windows))
	for i, w := range windows {
		m.captured = append(m.captured, Snapshot{
			Handle:      w.Handle,
			Minimized:   w.Minimized,
			Maximized:   w.Maximized,
			AlwaysOnTop: w.AlwaysOnTop,
			ZOrder:      i,
		})
	}
	m.firstStepDone = false
	return nil
}

// Prepare brings process forward for the upcoming step, per §4.5's
// prepare() algorithm: refresh cache, minimise the previously-active
// process if this step switched targets, climb UWP container windows to
// their root ancestor, minimise occluding always-on-top windows on the
// first UI step, and optionally maximise/bring-to-front the target.
func (m *Manager) Prepare(ctx context.Context, processID int, opts Options) error {
	if !opts.Enable {
		return nil
	}

	windows, err := m.platform.EnumerateWindows(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	previousProcess := m.lastProcess
	switchedProcess := previousProcess != 0 && previousProcess != processID
	firstStep := !m.firstStepDone
	m.lastProcess = processID
	m.firstStepDone = true
	m.mu.Unlock()

	if switchedProcess {
		if prevHandle := topWindowOf(windows, previousProcess); prevHandle != "" {
			if err := m.platform.MinimizeWindow(ctx, prevHandle); err != nil {
				telemetry.Warnf("window: failed to minimise previous process window: %v", err)
			}
		}
	}

	targetHandle := topWindowOf(windows, processID)
	if targetHandle == "" {
		return nil
	}
	targetHandle = climbUWPRoot(windows, targetHandle)

	if opts.MinimizeAlwaysOnTop && firstStep {
		for _, w := range windows {
			if w.AlwaysOnTop && w.Handle != targetHandle {
				if err := m.platform.MinimizeWindow(ctx, w.Handle); err != nil {
					telemetry.Warnf("window: failed to minimise always-on-top window: %v", err)
				}
			}
		}
	}

	if opts.MaximizeTarget {
		if err := m.platform.MaximizeWindow(ctx, targetHandle); err != nil {
			return err
		}
	}
	if opts.BringToFront {
		if err := m.platform.ActivateWindow(ctx, targetHandle); err != nil {
			return err
		}
	}
	return nil
}

// RestoreAll re-applies the minimised or maximised flag of every captured
// window that had one, then clears captured state. Windows captured in the
// normal state are left as they are (a window minimised by Prepare stays
// minimised), and z-order and always-on-top are not re-applied.
func (m *Manager) RestoreAll(ctx context.Context) error {
	m.mu.Lock()
	captured := m.captured
	m.captured = nil
	m.mu.Unlock()

	var firstErr error
	for _, snap := range captured {
		var err error
		switch {
		case snap.Minimized:
			err = m.platform.MinimizeWindow(ctx, snap.Handle)
		case snap.Maximized:
			err = m.platform.MaximizeWindow(ctx, snap.Handle)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func topWindowOf(windows []desktop.WindowInfo, processID int) string {
	for _, w := range windows {
		if w.ProcessID == processID {
			return w.Handle
		}
	}
	return ""
}

// climbUWPRoot climbs a UWP-style container window to its root ancestor,
// identified here by a naming convention ("ApplicationFrameHost" prefix)
// since this module has no direct HWND parent-chain access without a
// real platform backend; a concrete Desktop implementation would walk
// GetAncestor(GA_ROOTOWNER) instead.
func climbUWPRoot(windows []desktop.WindowInfo, handle string) string {
	for _, w := range windows {
		if w.Handle == handle && strings.HasPrefix(w.Title, "ApplicationFrameHost") {
			for _, candidate := range windows {
				if candidate.Title == w.Title && candidate.Handle != handle {
					return candidate.Handle
				}
			}
		}
	}
	return handle
}
