// Package scriptexec defines the Script Executor capability (§6.2) and
// ships a reference "shell" implementation; node-js/node-ts/python require
// an externally-configured runtime this package only declares the
// interface for.
package scriptexec

import (
	"context"
)

// Language is one of the runtimes run-command/output_parser steps may
// target.
type Language string

const (
	Shell  Language = "shell"
	NodeJS Language = "node-js"
	NodeTS Language = "node-ts"
	Python Language = "python"
)

// Result is what a script execution produces, per §6.2's contract.
type Result struct {
	Status string `json:"status"` // "success" | "failed" | "error"
	Result interface{} `json:"result,omitempty"`
	Logs   []string `json:"logs,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Event is one item of the bounded streaming channel TypeScript
// executions emit (§6.2): progress, step_started, step_completed,
// step_failed, log, data, screenshot, status.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Executor runs source code in language, returning its Result. Events is
// optional: non-nil only for streaming (TypeScript) executions; the
// caller must drain it until Execute returns.
type Executor interface {
	Execute(ctx context.Context, language Language, source string, cwd string, env map[string]interface{}) (Result, <-chan Event, error)
}
