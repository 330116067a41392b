package workflow

import (
	"context"
	"time"

	"github.com/mediar-ai/deskflow/pkg/bridge"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/scriptexec"
	"github.com/mediar-ai/deskflow/pkg/statestore"
	"github.com/mediar-ai/deskflow/pkg/substitution"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
	"github.com/mediar-ai/deskflow/pkg/window"
	"github.com/mediar-ai/deskflow/pkg/workflow/expr"
)

// maxIterationsPerStep bounds the main loop to defeat fallback cycles
// (§4.1.2: "iterations bounded to 10 x |steps|").
const maxIterationsPerStep = 10

// Engine interprets workflow documents against a Tool Dispatcher.
type Engine struct {
	Dispatcher *dispatch.Dispatcher
	States     *statestore.Store
	Bridge     *bridge.Bridge
	Windows    *window.Manager
	Scripts    scriptexec.Executor
}

// New constructs an Engine from its collaborators.
func New(dispatcher *dispatch.Dispatcher, states *statestore.Store, br *bridge.Bridge, windows *window.Manager, scripts scriptexec.Executor) *Engine {
	return &Engine{Dispatcher: dispatcher, States: states, Bridge: br, Windows: windows, Scripts: scripts}
}

// run holds the mutable state of one Execute call.
type run struct {
	doc         Document
	idx         stepIndex
	env         map[string]interface{}
	results     []StepResult
	usedFallback bool
	inTrouble   bool
	workflowID  string
	windowOpts  window.Options
}

// Execute runs doc to completion (or to rng's end boundary), implementing
// §4.1's public contract.
func (e *Engine) Execute(ctx context.Context, doc Document, runtimeInputs map[string]interface{}, rng *Range, resumeState *statestore.State) (Summary, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "workflow.execute")
	defer func() { telemetry.EndWithError(span, nil) }()

	doc = applyOverrides(doc, Overrides{Inputs: runtimeInputs})

	if err := validateVariables(doc.Variables, doc.Inputs); err != nil {
		return Summary{Status: "failed"}, err
	}

	r := &run{doc: doc}
	r.env = buildInitialEnv(doc)
	r.doc.Selectors = parseSelectorsPayload(doc.Selectors)

	r.idx = buildStepIndex(doc.Steps, doc.Troubleshooting)
	for _, dup := range duplicateIDs(doc.Steps, doc.Troubleshooting) {
		telemetry.Warnf("workflow: duplicate step id %q, later occurrence wins", dup)
	}

	startIndex := 0
	endIndex := len(doc.Steps) - 1
	startID := doc.StartFromStep
	endID := doc.EndAtStep
	if rng != nil {
		if rng.StartFromStep != "" {
			startID = rng.StartFromStep
		}
		if rng.EndAtStep != "" {
			endID = rng.EndAtStep
		}
	}
	if startID != "" {
		i, err := r.idx.resolve(startID)
		if err != nil {
			return Summary{Status: "failed"}, err
		}
		startIndex = i
		if startIndex >= r.idx.troubleStart {
			r.inTrouble = true
		}
	}
	if endID != "" {
		i, err := r.idx.resolve(endID)
		if err != nil {
			return Summary{Status: "failed"}, err
		}
		endIndex = i
	}
	if endID == "" {
		// With no end boundary, a fallback into troubleshooting is followed.
		r.doc.FollowFallback = true
	}

	r.workflowID = statestore.ResolveWorkflowID(doc.WorkflowID, doc.SourceURL)

	if resumeState != nil {
		for k, v := range resumeState.Env {
			r.env[k] = v
		}
	} else if e.States != nil {
		if loaded, found, err := e.States.Load(r.workflowID); err == nil && found {
			for k, v := range loaded.Env {
				r.env[k] = v
			}
		}
	}

	if !doc.SkipPreflightCheck && e.Bridge != nil && hasBrowserScriptStep(r.idx.all) {
		if err := e.preflightBridge(ctx); err != nil {
			return Summary{Status: "failed"}, err
		}
	}

	r.windowOpts = resolveWindowOptions(doc.WindowManagement)
	if e.Windows != nil {
		if err := e.Windows.CaptureInitialState(ctx, r.windowOpts); err != nil {
			telemetry.Warnf("workflow: capture initial window state failed: %v", err)
		}
	}

	status, runErr := e.mainLoop(ctx, r, startIndex, endIndex)

	if e.Windows != nil {
		if err := e.Windows.RestoreAll(ctx); err != nil {
			telemetry.Warnf("workflow: restore window state failed: %v", err)
		}
	}

	summary := Summary{
		Status:       status,
		Results:      r.results,
		Env:          r.env,
		DurationMS:   time.Since(start).Milliseconds(),
		UsedFallback: r.usedFallback,
	}

	isPartial := rng != nil && (rng.StartFromStep != "" || rng.EndAtStep != "")
	if !isPartial && (doc.OutputParser != nil || len(doc.Output) > 0) && status != "cancelled" {
		if parsed, err := e.runOutputParser(ctx, doc, summary); err == nil {
			summary.ParsedOutput = parsed
		} else {
			telemetry.Warnf("workflow: output parser failed: %v", err)
		}
	}

	return summary, runErr
}

func hasBrowserScriptStep(steps []Step) bool {
	for _, s := range steps {
		if s.ToolName == "execute-browser-script" {
			return true
		}
		if s.IsGroup() && hasBrowserScriptStep(s.Steps) {
			return true
		}
	}
	return false
}

func (e *Engine) preflightBridge(ctx context.Context) error {
	deadline := time.Now().Add(10 * time.Second)
	for {
		h := e.Bridge.Health()
		if h.Clients > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return errs.New(errs.ExtensionUnavailable, "no browser extension connected before preflight deadline").Build()
		}
		select {
		case <-ctx.Done():
			return errs.Wrap(errs.Cancelled, "preflight cancelled", ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func resolveWindowOptions(opts WindowManagementOptions) window.Options {
	out := window.DefaultOptions()
	if opts.Enable != nil {
		out.Enable = *opts.Enable
	}
	if opts.MinimizeAlwaysOnTop != nil {
		out.MinimizeAlwaysOnTop = *opts.MinimizeAlwaysOnTop
	}
	if opts.MaximizeTarget != nil {
		out.MaximizeTarget = *opts.MaximizeTarget
	}
	if opts.BringToFront != nil {
		out.BringToFront = *opts.BringToFront
	}
	return out
}

func buildInitialEnv(doc Document) map[string]interface{} {
	env := map[string]interface{}{}
	for name, def := range doc.Variables {
		if def.Default != nil {
			env[name] = def.Default
		}
	}
	for k, v := range doc.Inputs {
		env[k] = v
	}
	return env
}

func parseSelectorsPayload(selectors map[string]interface{}) map[string]interface{} {
	if selectors == nil {
		return nil
	}
	return substitution.ParseSelectorsPayload(selectors)
}

// always is the literal expression that forces step execution even after
// a critical failure (§3, §4.1.2 step 2).
const always = expr.Always
