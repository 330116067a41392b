package workflow

import (
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/substitution"
)

// flatten builds the combined expression/substitution context (§3 "Env /
// Execution context"): env.* plus every env key promoted to top level,
// overlaid on selectors and other ambient top-level sources so that env
// keys win conflicts.
func flatten(env map[string]interface{}, selectors map[string]interface{}) substitution.Context {
	ctx := substitution.Context{}
	for k, v := range selectors {
		ctx[k] = v
	}
	ctx["selectors"] = selectors
	for k, v := range env {
		ctx[k] = v
	}
	ctx["env"] = env
	return ctx
}

// stepIndex maps step id to its position across the concatenated
// main+troubleshooting range (§4.1.1 step 5). Later duplicates win; the
// caller warns on each id that duplicateIDs reports.
type stepIndex struct {
	idToIndex     map[string]int
	all           []Step
	troubleStart  int
}

func buildStepIndex(main, troubleshooting []Step) stepIndex {
	all := make([]Step, 0, len(main)+len(troubleshooting))
	all = append(all, main...)
	all = append(all, troubleshooting...)

	idx := stepIndex{idToIndex: map[string]int{}, all: all, troubleStart: len(main)}
	for i, s := range all {
		if s.ID != "" {
			idx.idToIndex[s.ID] = i
		}
	}
	return idx
}

func (s stepIndex) resolve(id string) (int, error) {
	if id == "" {
		return -1, nil
	}
	i, ok := s.idToIndex[id]
	if !ok {
		return -1, errs.New(errs.InvalidInput, "unknown step id").Context("step_id", id).Build()
	}
	return i, nil
}

// duplicateIDs returns every step id that appears more than once, for the
// engine to log a warning about (§4.1.1 step 5: "warn on duplicates, later
// wins").
func duplicateIDs(main, troubleshooting []Step) []string {
	seen := map[string]int{}
	var dups []string
	for _, s := range append(append([]Step{}, main...), troubleshooting...) {
		if s.ID == "" {
			continue
		}
		seen[s.ID]++
		if seen[s.ID] == 2 {
			dups = append(dups, s.ID)
		}
	}
	return dups
}
