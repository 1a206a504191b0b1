package socket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is a live update pushed to connected dashboard clients, e.g. a new
// registration or a participant-count bump.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub tracks all connected WebSocket clients, keyed by user email.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a client connection to the hub, replacing any previous
// connection for the same email.
func (h *Hub) Register(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[email] = conn
	logrus.WithField("email", email).Info("websocket client registered")
}

func (h *Hub) Unregister(email string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[email]; ok {
		delete(h.clients, email)
		logrus.WithField("email", email).Info("websocket client unregistered")
	}
}

// Broadcast sends an event to every connected client. A failed write to one
// client is logged and skipped; the client's read loop will clean up. The
// write lock also serializes the frame writes: gorilla/websocket allows at
// most one concurrent writer per connection.
func (h *Hub) Broadcast(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("failed to encode websocket event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for email, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logrus.WithError(err).WithField("email", email).Warn("failed to push websocket event")
		}
	}
}
