package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newTestStream(t *testing.T, hub *Hub, mpanID string, snapshot []byte) *websocket.Conn {
	t.Helper()
	stream := NewStream(hub, time.Second, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stream.Serve(w, r, mpanID, snapshot)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return string(msg)
}

func TestStreamDeliversSnapshotThenEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := newTestStream(t, hub, "12345", []byte(`{"snapshot":true}`))

	if got := readFrame(t, conn); got != `{"snapshot":true}` {
		t.Fatalf("expected snapshot frame, got %s", got)
	}

	// Snapshot delivery means the subscription is registered.
	hub.Publish("12345", []byte(`{"kwh_consumption":0.42}`))
	if got := readFrame(t, conn); got != `{"kwh_consumption":0.42}` {
		t.Fatalf("expected usage event, got %s", got)
	}
}

func TestHubScopesEventsByMeter(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := newTestStream(t, hub, "12345", []byte(`{"snapshot":true}`))
	readFrame(t, conn)

	hub.Publish("99999", []byte(`{"other":true}`))
	hub.Publish("12345", []byte(`{"mine":true}`))

	if got := readFrame(t, conn); got != `{"mine":true}` {
		t.Fatalf("expected only own meter's event, got %s", got)
	}
}

func TestHubDropsSubscriberOnClose(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := newTestStream(t, hub, "12345", []byte(`{"snapshot":true}`))
	readFrame(t, conn)

	if got := hub.Subscribers("12345"); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("12345") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber was not removed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// Publishing into the void must not panic or block.
	hub.Publish("nobody", []byte(`{"kwh_consumption":1}`))
}
