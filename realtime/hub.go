package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/utils"
)

// Event types pushed to staff terminals. Delivery is at-least-once and
// unordered; clients refetch the affected rows instead of patching payloads.
const (
	EventOrderCreated      = "order_created"
	EventOrderUpdated      = "order_updated"
	EventWaiterCall        = "waiter_call"
	EventWaiterCallUpdated = "waiter_call_updated"
	EventTableSession      = "table_session"
	EventTableUpdated      = "table_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans change events out to connected staff clients (chef, staff, admin
// terminals). One Hub per process, constructed in main and handed to the
// controllers and services that publish.
type Hub struct {
	clients map[*websocket.Conn]models.UserRole
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]models.UserRole),
	}
}

func (h *Hub) Register(conn *websocket.Conn, role models.UserRole) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Broadcast sends the event to every connected client. A failed write only
// skips that client; the connection reaper is its read loop.
func (h *Hub) Broadcast(event string, data interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("realtime: marshal %s event: %v", event, err)
		}
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("realtime: send %s event: %v", event, err)
			}
		}
	}
}

// ClientCount reports how many terminals are attached.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
