package dispatch

import (
	"context"
	"math"
	"strings"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
)

const rangeTolerance = 0.01

// MutationKind identifies which of the state-mutating actuators ran, so
// VerifyMutation knows which auto-inferred check to apply.
type MutationKind string

const (
	MutationTypeText     MutationKind = "type_text"
	MutationSetValue     MutationKind = "set_value"
	MutationSetToggled   MutationKind = "set_toggled"
	MutationSetSelected  MutationKind = "set_selected"
	MutationSetRangeValue MutationKind = "set_range_value"
)

// VerifyMutation implements §4.2 step 7's post-action verification: when
// the caller did not supply its own verification selectors, auto-infer one
// from the mutation kind and read the element back.
func VerifyMutation(ctx context.Context, platform desktop.Platform, el *desktop.Element, kind MutationKind, expected interface{}) (*Verification, error) {
	switch kind {
	case MutationTypeText:
		name, err := elementText(ctx, platform, el)
		if err != nil {
			return nil, err
		}
		expectedStr, _ := expected.(string)
		passed := strings.Contains(name, expectedStr)
		v := &Verification{Expected: expected, Actual: name, Passed: passed}
		if !passed {
			return v, errs.New(errs.VerificationFailed, "typed text did not appear in element").
				Context("expected", expectedStr).Context("actual", name).Build()
		}
		return v, nil

	case MutationSetToggled:
		actual, err := platform.IsToggled(ctx, el)
		if err != nil {
			return nil, err
		}
		expectedBool, _ := expected.(bool)
		return boolVerification(expectedBool, actual)

	case MutationSetSelected:
		actual, err := platform.IsSelected(ctx, el)
		if err != nil {
			return nil, err
		}
		expectedBool, _ := expected.(bool)
		return boolVerification(expectedBool, actual)

	case MutationSetRangeValue:
		actual, err := platform.RangeValue(ctx, el)
		if err != nil {
			return nil, err
		}
		expectedFloat, _ := toFloat(expected)
		passed := math.Abs(actual-expectedFloat) <= rangeTolerance
		v := &Verification{Expected: expectedFloat, Actual: actual, Passed: passed}
		if !passed {
			return v, errs.New(errs.VerificationFailed, "range value did not match within tolerance").
				Context("expected", expectedFloat).Context("actual", actual).Build()
		}
		return v, nil

	case MutationSetValue:
		name, err := elementText(ctx, platform, el)
		if err != nil {
			return nil, err
		}
		expectedStr, _ := expected.(string)
		passed := name == expectedStr
		v := &Verification{Expected: expectedStr, Actual: name, Passed: passed}
		if !passed {
			return v, errs.New(errs.VerificationFailed, "value did not match after set-value").
				Context("expected", expectedStr).Context("actual", name).Build()
		}
		return v, nil
	}
	return nil, nil
}

func boolVerification(expected, actual bool) (*Verification, error) {
	v := &Verification{Expected: expected, Actual: actual, Passed: expected == actual}
	if !v.Passed {
		return v, errs.New(errs.VerificationFailed, "toggled/selected state did not match").
			Context("expected", expected).Context("actual", actual).Build()
	}
	return v, nil
}

func elementText(ctx context.Context, platform desktop.Platform, el *desktop.Element) (string, error) {
	refreshed, err := platform.FindElement(ctx, desktop.Selector{"handle": el.Handle})
	if err != nil {
		return "", err
	}
	return refreshed.Name, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
