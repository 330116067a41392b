package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSucceedsAfterRetries(t *testing.T) {
	c := New(Policy{MaxAttempts: 3, InitialDelay: time.Millisecond})
	attempts := 0
	err := c.Execute(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	c := New(Policy{MaxAttempts: 2, InitialDelay: time.Millisecond})
	attempts := 0
	err := c.Execute(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		return errors.New("permanent")
	})
	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestExecuteIfStopsWhenShouldRetryFalse(t *testing.T) {
	c := New(Policy{MaxAttempts: 5, InitialDelay: time.Millisecond})
	attempts := 0
	err := c.ExecuteIf(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		return errors.New("fatal")
	}, func(error) bool { return false })
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(Policy{MaxAttempts: 3, InitialDelay: time.Millisecond})
	err := c.Execute(ctx, "test", func(ctx context.Context) error {
		return errors.New("should not run")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
