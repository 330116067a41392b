package requestmgr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelStopsContext(t *testing.T) {
	m := New(time.Minute)
	ctx, id, release := m.Register(context.Background())
	defer release()

	require.Equal(t, 1, m.Active())
	require.True(t, m.Cancel(id))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}
}

func TestCancelUnknownIDReturnsFalse(t *testing.T) {
	m := New(time.Minute)
	assert.False(t, m.Cancel("nope"))
}

func TestCancelAll(t *testing.T) {
	m := New(time.Minute)
	_, _, r1 := m.Register(context.Background())
	_, _, r2 := m.Register(context.Background())
	defer r1()
	defer r2()

	assert.Equal(t, 2, m.CancelAll())
	assert.Equal(t, 0, m.Active())
}

func TestReleaseClearsEntry(t *testing.T) {
	m := New(time.Minute)
	_, _, release := m.Register(context.Background())
	release()
	assert.Equal(t, 0, m.Active())
}
