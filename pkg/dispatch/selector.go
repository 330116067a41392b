package dispatch

import (
	"context"
	"encoding/json"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/retry"
)

// SelectorSet is the ordered primary/alternatives/fallbacks an actuator
// argument declares (§4.2's retry+fallback search).
type SelectorSet struct {
	Primary      desktop.Selector
	Alternatives []desktop.Selector
	Fallbacks    []desktop.Selector
}

// candidates returns primary, then alternatives, then fallbacks, in order.
func (s SelectorSet) candidates() []desktop.Selector {
	all := make([]desktop.Selector, 0, 1+len(s.Alternatives)+len(s.Fallbacks))
	if s.Primary != nil {
		all = append(all, s.Primary)
	}
	all = append(all, s.Alternatives...)
	all = append(all, s.Fallbacks...)
	return all
}

// ResolveElement implements the retry+fallback search algorithm: try each
// candidate selector in order, each with its own retry budget, and echo the
// selector that matched so the engine can adapt future steps to it. If every
// candidate is exhausted it raises ElementNotFound with the full tried list.
func ResolveElement(ctx context.Context, platform desktop.Platform, policy retry.Policy, set SelectorSet) (*desktop.Element, desktop.Selector, error) {
	candidates := set.candidates()
	if len(candidates) == 0 {
		return nil, nil, errs.New(errs.InvalidInput, "no selector provided").Build()
	}

	coord := retry.New(policy)
	b := errs.New(errs.ElementNotFound, "exhausted primary, alternative, and fallback selectors").
		Suggest("verify the element is present and the selector still matches the current UI")

	for _, sel := range candidates {
		var el *desktop.Element
		err := coord.Execute(ctx, "resolve_selector", func(ctx context.Context) error {
			found, findErr := platform.FindElement(ctx, sel)
			if findErr != nil {
				return findErr
			}
			el = found
			return nil
		})
		if err == nil && el != nil {
			return el, sel, nil
		}
		reason := "not found"
		if err != nil {
			reason = err.Error()
		}
		b = b.Tried(selectorString(sel), reason)
	}
	return nil, nil, b.Build()
}

func selectorString(sel desktop.Selector) string {
	if raw, err := json.Marshal(sel); err == nil {
		return string(raw)
	}
	return "<unserialisable selector>"
}
