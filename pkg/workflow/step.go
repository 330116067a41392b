package workflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/statestore"
	"github.com/mediar-ai/deskflow/pkg/substitution"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
	"github.com/mediar-ai/deskflow/pkg/workflow/expr"
	"github.com/tidwall/sjson"
)

// reservedEnvKeys are never auto-merged from script return values (§3).
var reservedEnvKeys = map[string]bool{
	"status": true, "error": true, "logs": true, "duration_ms": true, "set_env": true,
}

// structuralKeys are skipped silently during auto-merge even though they
// are not reserved (§3).
var structuralKeys = map[string]bool{
	"result": true, "action": true, "mode": true, "engine": true, "content": true,
}

const stepRetryBackoff = 500 * time.Millisecond

// mainLoop implements §4.1.2. It returns the overall run status.
func (e *Engine) mainLoop(ctx context.Context, r *run, startIndex, endIndex int) (string, error) {
	currentIndex := startIndex
	criticalErrorOccurred := false
	iterations := 0
	maxIterations := maxIterationsPerStep * len(r.idx.all)
	if maxIterations == 0 {
		maxIterations = maxIterationsPerStep
	}

	for {
		if ctx.Err() != nil {
			return "cancelled", nil
		}
		if currentIndex > endIndex && !(r.doc.FollowFallback && r.inTrouble) {
			break
		}
		if currentIndex < 0 || currentIndex >= len(r.idx.all) {
			break
		}
		iterations++
		if iterations > maxIterations {
			telemetry.Warnf("workflow: iteration cap (%d) reached, stopping", maxIterations)
			break
		}

		step := r.idx.all[currentIndex]

		if criticalErrorOccurred && step.If != always {
			r.results = append(r.results, StepResult{StepID: step.ID, Index: currentIndex, Status: "skipped"})
			currentIndex++
			continue
		}

		if step.If != "" && step.If != always {
			ctxFlat := flatten(r.env, r.doc.Selectors)
			ok, err := expr.Eval(step.If, expr.Context(ctxFlat))
			if err != nil {
				return "failed", err
			}
			if !ok {
				r.results = append(r.results, StepResult{StepID: step.ID, Index: currentIndex, Status: "skipped"})
				currentIndex++
				continue
			}
		}

		var result dispatch.Result
		var matchedFallback string
		var execErr error
		if step.IsGroup() {
			result, execErr = e.executeGroup(ctx, r, step)
		} else {
			result, matchedFallback, execErr = e.executeStepWithRetry(ctx, r, step)
		}

		if execErr == nil {
			r.applyStepResultBinding(step, currentIndex, result)
			if e.States != nil {
				e.persist(r, step)
			}

			next, jumped := e.routeAfterSuccess(r, step, currentIndex, endIndex)
			if jumped {
				currentIndex = next
			} else {
				nextIndex := currentIndex + 1
				if nextIndex == r.idx.troubleStart && !r.inTrouble {
					break
				}
				currentIndex = nextIndex
			}
		} else {
			r.results = append(r.results, StepResult{StepID: step.ID, Index: currentIndex, Status: "failed", Error: execErr.Error()})

			if step.FallbackID != "" && (currentIndex < r.idx.troubleStart || r.doc.FollowFallback) {
				target, err := r.idx.resolve(step.FallbackID)
				if err != nil {
					return "failed", err
				}
				r.usedFallback = true
				if target >= r.idx.troubleStart {
					r.inTrouble = true
				}
				currentIndex = target
			} else if step.ContinueOnError {
				currentIndex++
			} else {
				criticalErrorOccurred = true
				currentIndex++
			}
		}
		_ = matchedFallback

		postDelay := time.Duration(step.DelayMS) * time.Millisecond
		if postDelay == 0 && step.Delay != "" {
			if d, err := parseDelay(step.Delay); err == nil {
				postDelay = d
			} else {
				telemetry.Warnf("workflow: step %q has an unparsable delay %q: %v", step.ID, step.Delay, err)
			}
		}
		if postDelay > 0 {
			select {
			case <-ctx.Done():
				return "cancelled", nil
			case <-time.After(postDelay):
			}
		}
	}

	if criticalErrorOccurred {
		return "failed", nil
	}
	return "success", nil
}

// executeStepWithRetry implements §4.1.2 step 4's retry loop.
func (e *Engine) executeStepWithRetry(ctx context.Context, r *run, step Step) (dispatch.Result, string, error) {
	attempts := step.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastResult dispatch.Result
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return dispatch.Result{}, "", ctx.Err()
		}

		ctxFlat := flatten(r.env, r.doc.Selectors)
		args := substitution.Substitute(map[string]interface{}(step.Arguments), ctxFlat)
		argMap, _ := args.(map[string]interface{})
		if argMap == nil {
			argMap = map[string]interface{}{}
		}

		if step.ToolName == "run-command" || step.ToolName == "execute-browser-script" {
			injectScriptEnv(argMap, r)
		}

		processID := 0
		if raw, ok := argMap["process"]; ok {
			if f, ok := raw.(float64); ok {
				processID = int(f)
			}
		}

		// InSequence: true tells the dispatcher not to restore window
		// topology after this one step (§4.5): the engine captures once at
		// Execute's start and restores once after mainLoop returns, not
		// per step.
		result, err := e.Dispatcher.Dispatch(ctx, step.ToolName, dispatch.Args(argMap), dispatch.StepContext{InSequence: true}, processID)
		lastResult, lastErr = result, err

		if err == nil && (result.Status == "success" || result.Status == "") {
			return result, result.MatchedSelector, nil
		}
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return dispatch.Result{}, "", ctx.Err()
			case <-time.After(stepRetryBackoff):
			}
		}
	}
	if lastErr == nil {
		lastErr = errs.New(errs.InternalError, "step failed without error after exhausting retries").
			Context("tool_name", step.ToolName).Build()
	}
	return lastResult, lastResult.MatchedSelector, lastErr
}

// injectScriptEnv adds _workflow_variables and _accumulated_env to a
// script-bearing step's arguments.env (§4.1.2 step 4, §4.4).
func injectScriptEnv(args map[string]interface{}, r *run) {
	envArg, _ := args["env"].(map[string]interface{})
	if envArg == nil {
		envArg = map[string]interface{}{}
	}
	variables := map[string]interface{}{}
	for name, def := range r.doc.Variables {
		if def.Default != nil {
			variables[name] = def.Default
		}
	}
	for k, v := range r.doc.Inputs {
		variables[k] = v
	}
	envArg["_workflow_variables"] = variables
	envArg["_accumulated_env"] = r.env
	args["env"] = envArg
}

// applyStepResultBinding implements §4.1.2 step 6 and §3's step-result
// binding invariant.
func (r *run) applyStepResultBinding(step Step, index int, result dispatch.Result) {
	entry := StepResult{StepID: step.ID, Index: index, Status: result.Status}
	if entry.Status == "" {
		entry.Status = "success"
	}
	payload := stripServerLogs(resultPayload(result))
	entry.Result = payload
	r.results = append(r.results, entry)

	if step.ID != "" {
		r.env[step.ID+"_status"] = entry.Status
		r.env[step.ID+"_result"] = payload
	}

	mergeScriptEnv(r, step, result)
}

func resultPayload(result dispatch.Result) interface{} {
	if len(result.Extra) > 0 {
		return result.Extra
	}
	if len(result.Content) > 0 {
		return result.Content[0].Text
	}
	return nil
}

// stripServerLogs removes the server_logs key from a step's result payload
// (§4.1's "logs is surfaced through the progress channel, not S_result")
// via sjson's JSON-tree delete rather than a hand-rolled map copy.
func stripServerLogs(payload interface{}) interface{} {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}
	if _, has := m["server_logs"]; !has {
		return payload
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return payload
	}
	stripped, err := sjson.DeleteBytes(raw, "server_logs")
	if err != nil {
		return payload
	}
	var out map[string]interface{}
	if err := json.Unmarshal(stripped, &out); err != nil {
		return payload
	}
	return out
}

// mergeScriptEnv implements §4.1.2 step 5's env propagation for
// run-command / execute-browser-script steps.
func mergeScriptEnv(r *run, step Step, result dispatch.Result) {
	if step.ToolName != "run-command" && step.ToolName != "execute-browser-script" {
		return
	}
	fields := scriptReturnFields(result)
	if fields == nil {
		return
	}
	if setEnv, ok := fields["set_env"].(map[string]interface{}); ok {
		for k, v := range setEnv {
			r.env[k] = v
		}
	}
	for k, v := range fields {
		if reservedEnvKeys[k] || structuralKeys[k] {
			continue
		}
		if _, exists := r.env[k]; exists {
			telemetry.Warnf("workflow: script return field %q collides with an existing env key", k)
		}
		r.env[k] = v
	}
}

func scriptReturnFields(result dispatch.Result) map[string]interface{} {
	if len(result.Extra) > 0 {
		if nested, ok := result.Extra["result"].(map[string]interface{}); ok {
			return nested
		}
		return result.Extra
	}
	if len(result.Content) > 0 {
		if parsed := substitution.ParseIfJSONShaped(result.Content[0].Text); parsed != nil {
			if m, ok := parsed.(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

// routeAfterSuccess implements §4.1.2 step 8's on-success routing.
func (e *Engine) routeAfterSuccess(r *run, step Step, currentIndex, endIndex int) (int, bool) {
	if len(step.Jumps) == 0 {
		return 0, false
	}
	if currentIndex == endIndex && !r.doc.ExecuteJumpsAtEnd {
		return 0, false
	}
	ctxFlat := flatten(r.env, r.doc.Selectors)
	for _, jump := range step.Jumps {
		ok, err := expr.Eval(jump.Condition, expr.Context(ctxFlat))
		if err != nil {
			telemetry.Warnf("workflow: jump condition %q failed to evaluate: %v", jump.Condition, err)
			continue
		}
		if ok {
			target, err := r.idx.resolve(jump.ToID)
			if err != nil {
				telemetry.Warnf("workflow: jump to unknown step id %q", jump.ToID)
				return 0, false
			}
			if target >= r.idx.troubleStart {
				r.inTrouble = true
			}
			return target, true
		}
	}
	return 0, false
}

func (e *Engine) persist(r *run, step Step) {
	state := statestore.State{
		LastStepID:    step.ID,
		LastStepIndex: r.idx.idToIndex[step.ID],
		WorkflowID:    r.workflowID,
		WorkflowFile:  r.doc.SourceURL,
		Env:           r.env,
	}
	if err := e.States.Save(state); err != nil {
		telemetry.Warnf("workflow: state persist failed: %v", err)
	}
}
