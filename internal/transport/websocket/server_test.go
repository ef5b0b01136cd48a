package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + server.URL[4:]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func connectionCount(hub *Hub) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.connections)
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	server := newTestServer(t, hub)
	conn := dial(t, server)

	time.Sleep(100 * time.Millisecond)

	if got := connectionCount(hub); got != 1 {
		t.Fatalf("expected 1 connection, got %d", got)
	}

	conn.Close()
	time.Sleep(100 * time.Millisecond)

	if got := connectionCount(hub); got != 0 {
		t.Fatalf("expected connection to be unregistered, got %d", got)
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	server := newTestServer(t, hub)

	conns := []*websocket.Conn{dial(t, server), dial(t, server), dial(t, server)}

	time.Sleep(100 * time.Millisecond)

	if got := connectionCount(hub); got != 3 {
		t.Fatalf("expected 3 connections, got %d", got)
	}

	hub.Broadcast(&Message{
		Type: "loan_closed",
		Data: map[string]interface{}{"id": "abc"},
	})

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		var received Message
		if err := conn.ReadJSON(&received); err != nil {
			t.Fatalf("client %d failed to read message: %v", i, err)
		}
		if received.Type != "loan_closed" {
			t.Errorf("client %d: expected type 'loan_closed', got %q", i, received.Type)
		}
	}
}
