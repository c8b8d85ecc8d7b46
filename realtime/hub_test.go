package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/tavolo-app/backend/models"
)

func dialTestClient(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(ws, models.RoleStaff)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	conn := dialTestClient(t, hub)

	// Registration happens in the server goroutine.
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(EventOrderUpdated, map[string]int{"id": 7})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	assert.NoError(t, err)

	var msg Message
	assert.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventOrderUpdated, msg.Event)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	dialTestClient(t, hub)

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// Grab the registered server-side conn and drop it.
	hub.mutex.Lock()
	var serverConn *websocket.Conn
	for c := range hub.clients {
		serverConn = c
	}
	hub.mutex.Unlock()

	hub.Unregister(serverConn)
	assert.Zero(t, hub.ClientCount())

	// Broadcasting to an empty hub is a no-op, not a panic.
	hub.Broadcast(EventWaiterCall, nil)
}
