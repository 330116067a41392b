package bridge

import (
	"context"
	"net"
	"sync"

	"github.com/mediar-ai/deskflow/pkg/telemetry"
)

// Supervisor owns the single live Bridge instance for the process. It is
// an explicit handle object rather than a package-level mutable
// singleton (§9: "model as explicit handle objects owned by a runtime
// root"), constructed once in main and threaded through the components
// that need bridge access.
type Supervisor struct {
	addr string

	mu      sync.Mutex
	current *Bridge
	lastErr error
}

// NewSupervisor constructs a Supervisor bound to addr (host:port).
func NewSupervisor(addr string) *Supervisor {
	return &Supervisor{addr: addr}
}

// Get returns the live Bridge, starting or restarting it as needed
// (§4.3.1). If a start attempt fails, it records the error, returns a
// stub Bridge whose operations all fail with ExtensionUnavailable, and
// leaves the supervisor ready to try again on the next call.
func (s *Supervisor) Get(ctx context.Context) *Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Alive() {
		return s.current
	}
	if s.current != nil {
		telemetry.Warnf("bridge: supervisor detected dead bridge task, restarting")
	}

	b := New()
	ln, err := BindWithRecovery(s.addr)
	if err != nil {
		s.lastErr = err
		telemetry.Errorf("bridge: supervisor start failed: %v", err)
		return unavailableBridge()
	}

	go func() {
		defer ln.Close()
		if serveErr := serveListener(ctx, b, ln); serveErr != nil {
			telemetry.Errorf("bridge: listener exited: %v", serveErr)
		}
	}()

	s.current = b
	s.lastErr = nil
	return b
}

// LastError returns the most recent start failure, if any.
func (s *Supervisor) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// serveListener adapts a pre-bound net.Listener into Bridge's http.Server
// loop, since BindWithRecovery already owns port-conflict handling.
func serveListener(ctx context.Context, b *Bridge, ln net.Listener) error {
	b.mu.Lock()
	b.alive = true
	b.mu.Unlock()

	mux := newMux(b)
	srv := httpServerFor(mux)
	b.server = srv

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		b.mu.Lock()
		b.alive = false
		b.mu.Unlock()
		return srv.Close()
	case err := <-errCh:
		b.mu.Lock()
		b.alive = false
		b.mu.Unlock()
		return err
	}
}

// unavailableBridge returns a Bridge that was never started; its Eval and
// Health calls observe zero clients and Alive()==false, which already
// produces the ExtensionUnavailable/Dead behaviour the supervisor
// contract requires without needing a distinct stub type.
func unavailableBridge() *Bridge {
	return New()
}
