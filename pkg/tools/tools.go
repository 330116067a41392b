// Package tools implements the tool catalogue (§4.2's nine behavioural
// families) as dispatch.Handler values registered against a
// dispatch.Dispatcher.
package tools

import (
	"context"
	"time"

	"github.com/mediar-ai/deskflow/pkg/bridge"
	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/indexcache"
	"github.com/mediar-ai/deskflow/pkg/requestmgr"
	"github.com/mediar-ai/deskflow/pkg/retry"
	"github.com/mediar-ai/deskflow/pkg/scriptexec"
)

// Deps bundles every collaborator the catalogue's handlers close over.
// Dispatcher itself holds the platform/window manager already; tools
// additionally needs the bridge, the index caches, a script executor, and
// the request manager for stop-execution.
type Deps struct {
	Platform  desktop.Platform
	Bridge    *bridge.Bridge
	Caches    *indexcache.Cache
	Scripts   scriptexec.Executor
	Requests  *requestmgr.Manager
	// Sequence is supplied by the workflow engine after construction (it
	// closes over the Dispatcher itself to recurse into execute-sequence);
	// nil until wired, matching §9's "dispatch recurses" guidance.
	Sequence func(ctx context.Context, steps []interface{}, step dispatch.StepContext) (dispatch.Result, error)
}

var selectorRetryPolicy = retry.Policy{MaxAttempts: 3, InitialDelay: 150 * time.Millisecond}

// Register installs every tool family's handlers onto d.
func Register(d *dispatch.Dispatcher, deps Deps) {
	registerInspection(d, deps)
	registerActuators(d, deps)
	registerQueries(d, deps)
	registerWaitsAndUtility(d, deps)
	registerNavigation(d, deps)
	registerScripted(d, deps)
	registerComposition(d, deps)
	registerControl(d, deps)
	registerLifecycle(d, deps)
}

func argString(args dispatch.Args, key string) string {
	s, _ := args[key].(string)
	return s
}

func argBool(args dispatch.Args, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func argFloat(args dispatch.Args, key string) float64 {
	switch n := args[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func selectorSetFromArgs(args dispatch.Args) dispatch.SelectorSet {
	set := dispatch.SelectorSet{}
	if primary, ok := args["selector"].(map[string]interface{}); ok {
		set.Primary = desktop.Selector(primary)
	}
	set.Alternatives = selectorSlice(args["alternatives"])
	set.Fallbacks = selectorSlice(args["fallbacks"])
	return set
}

func selectorSlice(v interface{}) []desktop.Selector {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]desktop.Selector, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, desktop.Selector(m))
		}
	}
	return out
}
