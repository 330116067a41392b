package workflow

import (
	"time"

	"github.com/senseyeio/duration"
)

// parseDelay resolves a step's humanised delay string (§3 Step.delay),
// trying Go's own duration grammar first ("500ms", "2s", "1m30s") and
// falling back to ISO-8601 ("PT1M", "P1DT2H") for documents authored
// against the wider workflow-duration convention.
func parseDelay(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	iso, err := duration.ParseISO8601(s)
	if err != nil {
		return 0, err
	}
	zero := time.Time{}
	return iso.Shift(zero).Sub(zero), nil
}
