package bridge

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Bridge, *httptest.Server, *websocket.Conn) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(nil)
	mux := newMux(b)
	srv.Config.Handler = mux

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	b.mu.Lock()
	b.alive = true
	b.mu.Unlock()

	time.Sleep(50 * time.Millisecond) // let the server-side accept goroutine register the client
	return b, srv, conn
}

func TestEvalRoundTrip(t *testing.T) {
	b, srv, conn := newTestServer(t)
	defer srv.Close()
	defer conn.Close()

	go func() {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req map[string]interface{}
		_ = json.Unmarshal(data, &req)
		resp := map[string]interface{}{
			"id":     req["id"],
			"ok":     true,
			"result": "42",
		}
		respData, _ := json.Marshal(resp)
		_ = conn.WriteMessage(websocket.TextMessage, respData)
	}()

	result, err := b.Eval(context.Background(), "1+1", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "42", result)
}

func TestEvalNoClientsFailsWhenContextEnds(t *testing.T) {
	b := New()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := b.Eval(ctx, "1+1", time.Second)
	assert.Error(t, err)
}

func TestHealthReportsWaitingForClientsWhenAliveButEmpty(t *testing.T) {
	b := New()
	b.mu.Lock()
	b.alive = true
	b.mu.Unlock()
	h := b.Health()
	assert.Equal(t, WaitingForClients, h.Status)
	assert.False(t, h.Connected)
}

func TestRemoveClientClearsPendingWhenLastClientDisconnects(t *testing.T) {
	b, srv, conn := newTestServer(t)
	defer srv.Close()

	b.mu.Lock()
	b.pending["fake-id"] = &pendingEval{resultCh: make(chan evalResult, 1)}
	b.mu.Unlock()

	conn.Close()
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.pending) == 0 && len(b.clients) == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNetworkCaptureRingBufferCap(t *testing.T) {
	nc := newNetworkCapture(3)
	for i := 0; i < 5; i++ {
		nc.record("network_request", []byte(`{"tabId":1,"requestId":"r"}`))
	}
	assert.Len(t, nc.get(1), 3)
}
