// Package dispatch implements the Tool Dispatcher: routes
// (tool_name, arguments, step context) to a registered handler under a
// uniform envelope (cancellation, window management, actionability,
// post-action verification, retry+fallback selector search).
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
	"github.com/mediar-ai/deskflow/pkg/window"
)

// Content is the tagged-variant result union (§9), one Go type per
// variant with a Kind discriminator so consumers can switch on a single
// field instead of type-asserting through an interface{}.
type Content struct {
	Kind     string `json:"kind"` // "text" | "image" | "resource" | "audio" | "resource_link"
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"data,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// TextContent builds a text Content item.
func TextContent(text string) Content { return Content{Kind: "text", Text: text} }

// ImageContent builds an image Content item.
func ImageContent(data []byte, mime string) Content {
	return Content{Kind: "image", Data: data, MimeType: mime}
}

// Result is what every tool handler returns.
type Result struct {
	Status          string                 `json:"status"` // "success" | "failed" | "skipped"
	Content         []Content              `json:"content,omitempty"`
	MatchedSelector string                 `json:"matched_selector,omitempty"`
	Verification    *Verification          `json:"verification,omitempty"`
	Extra           map[string]interface{} `json:"-"` // structured fields a handler wants merged, bypassing JSON content
}

// Verification is attached by post-action verification (§4.2 step 7).
type Verification struct {
	Expected interface{} `json:"expected"`
	Actual   interface{} `json:"actual"`
	Passed   bool        `json:"passed"`
}

// Args is the decoded argument tree a handler receives, already
// variable-substituted by the engine.
type Args map[string]interface{}

// Handler implements one tool family member.
type Handler func(ctx context.Context, args Args, step StepContext) (Result, error)

// StepContext carries the per-call metadata the envelope needs:
// in_sequence flag, cancellation, and any process/window hint.
type StepContext struct {
	InSequence bool
	RequestID  string
}

// Dispatcher routes tool calls through the uniform envelope.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	platform desktop.Platform
	windows  *window.Manager
	winOpts  window.Options
}

// New constructs a Dispatcher backed by platform and a Window Manager.
func New(platform desktop.Platform, windows *window.Manager, winOpts window.Options) *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler), platform: platform, windows: windows, winOpts: winOpts}
}

// Register adds a handler under name, overwriting any previous
// registration (used by tests and by optional tool families).
func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Dispatch runs the uniform envelope around the named tool's handler
// (§4.2). processID, if non-zero, is taken from an arguments["process"]
// key by the caller and used to drive window management.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Args, step StepContext, processID int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(errs.Cancelled, "dispatch cancelled before start", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "dispatch."+name)
	var spanErr error
	defer func() { telemetry.EndWithError(span, spanErr) }()

	d.mu.RLock()
	handler, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		spanErr = errs.New(errs.InvalidInput, "unknown tool").Context("tool_name", name).Build()
		return Result{}, spanErr
	}

	// Prepare (foreground the step's target app) runs for every dispatch,
	// in-sequence or not: each step still needs its own window brought up
	// (§4.5 invariant 7). Only RestoreAll is gated on "direct" below, since
	// a workflow run captures/restores topology once around the whole run
	// (pkg/workflow.Engine.Execute) rather than after each of its steps.
	if d.windows != nil && processID != 0 {
		if err := d.windows.Prepare(ctx, processID, d.winOpts); err != nil {
			telemetry.Warnf("dispatch: window prepare failed for %s: %v", name, err)
		}
	}

	direct := !step.InSequence

	start := time.Now()
	result, err := handler(ctx, args, step)
	spanErr = err
	duration := time.Since(start)

	status := result.Status
	if err != nil {
		status = "failed"
	}
	telemetry.StepDuration.WithLabelValues(name, status).Observe(duration.Seconds())

	if direct && d.windows != nil && processID != 0 {
		if restoreErr := d.windows.RestoreAll(ctx); restoreErr != nil {
			telemetry.Warnf("dispatch: window restore failed for %s: %v", name, restoreErr)
		}
	}

	return result, err
}
