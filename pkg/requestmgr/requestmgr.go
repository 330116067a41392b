// Package requestmgr tracks every in-flight dispatch under a cancellable
// context so the stop-execution tool can cancel one workflow's run or
// every run the server is currently handling.
package requestmgr

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHardTimeout bounds how long any single request may run before
// the Manager cancels it unconditionally.
const DefaultHardTimeout = 10 * time.Minute

// Manager is the process-wide registry of cancellable requests.
type Manager struct {
	mu          sync.Mutex
	cancels     map[string]context.CancelFunc
	hardTimeout time.Duration
}

// New constructs a Manager. A zero hardTimeout uses DefaultHardTimeout.
func New(hardTimeout time.Duration) *Manager {
	if hardTimeout <= 0 {
		hardTimeout = DefaultHardTimeout
	}
	return &Manager{cancels: make(map[string]context.CancelFunc), hardTimeout: hardTimeout}
}

// Register derives a cancellable, hard-timeout-bounded context from
// parent and tracks its cancel func under a fresh request id. Callers
// must call the returned release func when the request completes,
// regardless of outcome, to avoid leaking map entries.
func (m *Manager) Register(parent context.Context) (ctx context.Context, requestID string, release func()) {
	ctx, cancel := context.WithTimeout(parent, m.hardTimeout)
	requestID = uuid.NewString()

	m.mu.Lock()
	m.cancels[requestID] = cancel
	m.mu.Unlock()

	release = func() {
		m.mu.Lock()
		delete(m.cancels, requestID)
		m.mu.Unlock()
		cancel()
	}
	return ctx, requestID, release
}

// Cancel cancels a single request by id. Returns false if the request is
// not currently tracked (already completed or unknown id).
func (m *Manager) Cancel(requestID string) bool {
	m.mu.Lock()
	cancel, ok := m.cancels[requestID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

// CancelAll cancels every currently tracked request, used by the
// stop-execution tool's global form.
func (m *Manager) CancelAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.cancels)
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
	return n
}

// Active returns the count of currently tracked in-flight requests.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}
