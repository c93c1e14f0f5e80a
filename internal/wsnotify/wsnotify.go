package wsnotify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected clients.
const (
	EventContactCreated      = "contact_created"
	EventContactUpdated      = "contact_updated"
	EventContactsBulkUpdated = "contacts_bulk_updated"
	EventContactDeleted      = "contact_deleted"
	EventCategoryAdded       = "category_added"
	EventStoreChanged        = "store_changed"
)

type WebSocketManager struct {
	clients map[*websocket.Conn]bool
	lock    sync.RWMutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func Upgrader() *websocket.Upgrader {
	return &upgrader
}

var Manager = NewManager()

func NewManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[*websocket.Conn]bool),
	}
}

func (m *WebSocketManager) AddClient(conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.clients[conn] = true
}

func (m *WebSocketManager) RemoveClient(conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.clients, conn)
}

func (m *WebSocketManager) ClientCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients)
}

// Broadcast writes event to every client. Clients that fail the write are
// closed and dropped.
func (m *WebSocketManager) Broadcast(event interface{}) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for client := range m.clients {
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := client.WriteJSON(event); err != nil {
			client.Close()
			go m.RemoveClient(client)
		}
	}
}

type ContactEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  string      `json:"sentAt"`
}

func NewContactEvent(eventType string, payload interface{}) ContactEvent {
	return ContactEvent{
		Type:    eventType,
		Payload: payload,
		SentAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// SendContactEvent broadcasts an event through the process-wide Manager.
func SendContactEvent(eventType string, payload interface{}) {
	Manager.Broadcast(NewContactEvent(eventType, payload))
}
