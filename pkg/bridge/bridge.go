// Package bridge implements the Browser Extension Bridge: a supervised
// WebSocket server that multiplexes eval/request/response/event traffic
// with a browser extension.
package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
)

// HealthState is the health_status() status enum (§4.3.6).
type HealthState string

const (
	NotInitialized  HealthState = "not_initialized"
	Dead            HealthState = "dead"
	WaitingForClients HealthState = "waiting_for_clients"
	Healthy         HealthState = "healthy"
)

// Health is the structured response of Bridge.Health.
type Health struct {
	Connected      bool        `json:"connected"`
	Status         HealthState `json:"status"`
	Clients        int         `json:"clients"`
	ServerTaskAlive bool       `json:"server_task_alive"`
}

// client is one connected browser extension instance.
type client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time
	hello       *HelloInfo
}

// HelloInfo captures the fields carried on a client's hello event.
type HelloInfo struct {
	ExtensionVersion string `json:"extensionVersion"`
	TabID            int    `json:"tabId"`
	URL              string `json:"url"`
}

// pendingEval is a single in-flight eval request awaiting its correlated
// response.
type pendingEval struct {
	resultCh chan evalResult
}

type evalResult struct {
	ok     bool
	result string
	errMsg string
}

// Bridge owns one live WebSocket listener and all connected clients.
type Bridge struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  []*client // append order == connection order; last element is most-recently-connected
	pending  map[string]*pendingEval
	alive    bool

	network *networkCapture

	server *http.Server
}

// New constructs an unstarted Bridge.
func New() *Bridge {
	return &Bridge{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pending: make(map[string]*pendingEval),
		network: newNetworkCapture(1000),
	}
}

// Start binds addr and begins accepting connections. It blocks serving
// until ctx is cancelled or an unrecoverable error occurs; callers should
// run it in its own goroutine.
func (b *Bridge) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", b.handleWS)

	b.server = &http.Server{Addr: addr, Handler: mux}
	b.mu.Lock()
	b.alive = true
	b.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		b.mu.Lock()
		b.alive = false
		b.mu.Unlock()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return b.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		b.mu.Lock()
		b.alive = false
		b.mu.Unlock()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Alive reports whether the listener task is currently running, used by
// the Supervisor to detect a dead bridge.
func (b *Bridge) Alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alive
}

func (b *Bridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("bridge: websocket upgrade failed: %v", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, 32), connectedAt: time.Now()}
	b.addClient(c)
	telemetry.Infof("bridge: client %s connected (%d total)", c.id, b.clientCount())

	go b.writeLoop(c)
	b.readLoop(c) // blocks until disconnect
}

func (b *Bridge) addClient(c *client) {
	b.mu.Lock()
	b.clients = append(b.clients, c)
	b.mu.Unlock()
	telemetry.BridgeClients.Set(float64(b.clientCount()))
}

func (b *Bridge) removeClient(c *client) {
	b.mu.Lock()
	for i, existing := range b.clients {
		if existing == c {
			b.clients = append(b.clients[:i], b.clients[i+1:]...)
			break
		}
	}
	lastClientGone := len(b.clients) == 0
	var pendingToDrain map[string]*pendingEval
	if lastClientGone {
		pendingToDrain = b.pending
		b.pending = make(map[string]*pendingEval)
	}
	b.mu.Unlock()
	close(c.send)
	telemetry.BridgeClients.Set(float64(b.clientCount()))

	// Clearing pending correlation entries on last-client-disconnect
	// prevents a response that will now never arrive from leaking its
	// waiting goroutine forever (§3 Lifecycles).
	for _, p := range pendingToDrain {
		select {
		case p.resultCh <- evalResult{ok: false, errMsg: "extension disconnected"}:
		default:
		}
	}
}

func (b *Bridge) clientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Bridge) writeLoop(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			telemetry.Warnf("bridge: write to client %s failed: %v", c.id, err)
			return
		}
	}
}

func (b *Bridge) readLoop(c *client) {
	defer func() {
		b.removeClient(c)
		c.conn.Close()
		telemetry.Infof("bridge: client %s disconnected", c.id)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		b.handleIncoming(c, data)
	}
}

// incomingEnvelope discriminates between a correlated eval_result and a
// typed event by presence of "id" vs "type" (§4.3.4).
type incomingEnvelope struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	TabID  int             `json:"tabId"`
	Type   string          `json:"type"`
}

func (b *Bridge) handleIncoming(c *client, data []byte) {
	var env incomingEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		telemetry.Warnf("bridge: malformed message from client %s: %v", c.id, err)
		return
	}

	if env.ID != "" {
		b.routeEvalResult(env)
		return
	}

	switch env.Type {
	case "hello":
		b.handleHello(c, data)
	case "pong":
		// liveness only, nothing to do
	case "network_request", "network_response":
		b.network.record(env.Type, data)
	case "console_event", "exception_event", "log_event":
		telemetry.Debugf("bridge: %s from client %s", env.Type, c.id)
	default:
		telemetry.Debugf("bridge: unrecognised event type %q", env.Type)
	}
}

func (b *Bridge) handleHello(c *client, data []byte) {
	var hello HelloInfo
	_ = json.Unmarshal(data, &hello)
	b.mu.Lock()
	c.hello = &hello
	b.mu.Unlock()
	telemetry.Infof("bridge: hello from client %s (extension %s, tab %d)", c.id, hello.ExtensionVersion, hello.TabID)
}

func (b *Bridge) routeEvalResult(env incomingEnvelope) {
	b.mu.Lock()
	p, ok := b.pending[env.ID]
	if ok {
		delete(b.pending, env.ID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	res := evalResult{ok: env.OK, errMsg: env.Error}
	if env.OK {
		res.result = string(env.Result)
	}
	select {
	case p.resultCh <- res:
	default:
	}
}

// Broadcast sends a one-way message (e.g. {"action":"reset"}) to every
// currently connected client, per the recovered extension_bridge.rs
// behaviour of resetting all tabs, not just the most recently connected.
func (b *Bridge) Broadcast(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	b.mu.Lock()
	clients := append([]*client(nil), b.clients...)
	b.mu.Unlock()
	for _, c := range clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Health reports the bridge's current health (§4.3.6).
func (b *Bridge) Health() Health {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.clients)
	status := Healthy
	if !b.alive {
		status = Dead
	} else if n == 0 {
		status = WaitingForClients
	}
	return Health{Connected: n > 0, Status: status, Clients: n, ServerTaskAlive: b.alive}
}

// Eval evaluates code in the most-recently-connected client's active tab
// and returns the stringified result (§4.3.5).
func (b *Bridge) Eval(ctx context.Context, code string, timeout time.Duration) (string, error) {
	c, err := b.waitForClient(ctx)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	p := &pendingEval{resultCh: make(chan evalResult, 1)}
	b.mu.Lock()
	b.pending[id] = p
	b.mu.Unlock()

	req := map[string]interface{}{
		"action":        "eval",
		"id":            id,
		"code":          code,
		"await_promise": true,
	}
	data, _ := json.Marshal(req)

	select {
	case c.send <- data:
	default:
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return "", errs.New(errs.ExtensionUnavailable, "client send buffer full").Build()
	}

	select {
	case res := <-p.resultCh:
		if !res.ok {
			return "ERROR: " + res.errMsg, nil
		}
		return res.result, nil
	case <-time.After(timeout):
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		telemetry.Warnf("bridge: eval %s timed out after %s", id, timeout)
		return "", nil
	case <-ctx.Done():
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return "", errs.Wrap(errs.Cancelled, "eval cancelled", ctx.Err())
	}
}

// waitForClient retries every 500ms up to 10s for a connected client,
// matching §4.3.5 step 1.
func (b *Bridge) waitForClient(ctx context.Context) (*client, error) {
	deadline := time.Now().Add(10 * time.Second)
	for {
		b.mu.Lock()
		n := len(b.clients)
		var c *client
		if n > 0 {
			c = b.clients[n-1] // most recently connected
		}
		b.mu.Unlock()
		if c != nil {
			return c, nil
		}
		if time.Now().After(deadline) {
			return nil, errs.New(errs.ExtensionUnavailable, "no browser extension connected").Build()
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return nil, errs.Wrap(errs.Cancelled, "wait for client cancelled", ctx.Err())
		}
	}
}

// NetworkRequests returns the captured network events for tabID, newest
// last. Each event is stored as its own entry in arrival order; request
// and response events are not paired by requestId.
func (b *Bridge) NetworkRequests(tabID int) []json.RawMessage {
	return b.network.get(tabID)
}

// ClearNetworkRequests empties the ring buffer for tabID.
func (b *Bridge) ClearNetworkRequests(tabID int) {
	b.network.clear(tabID)
}
