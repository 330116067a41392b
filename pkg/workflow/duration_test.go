package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelayGoDuration(t *testing.T) {
	d, err := parseDelay("500ms")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestParseDelayISO8601(t *testing.T) {
	d, err := parseDelay("PT1M")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestParseDelayInvalidFails(t *testing.T) {
	_, err := parseDelay("not-a-duration")
	assert.Error(t, err)
}
