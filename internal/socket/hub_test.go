package socket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

const broadcasters = 50

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Simultaneous registrations and participant-count bumps broadcast from
// separate handler goroutines; every frame must still reach the client
// intact. Run with -race.
func TestBroadcastConcurrent(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade: %v", err)
			return
		}
		hub.Register("organizer@example.com", conn)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.clientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var wg sync.WaitGroup
	for i := 0; i < broadcasters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(Event{Type: "new_registration"})
		}()
	}

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for received := 0; received < broadcasters; received++ {
		if _, _, err := client.ReadMessage(); err != nil {
			t.Fatalf("read %d failed: %v", received, err)
		}
	}
	wg.Wait()
}

func TestRegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	hub.Register("a@example.com", nil)
	assert.Equal(t, 1, hub.clientCount())

	// Broadcast with no live connections must not touch a nil conn after
	// Unregister removed it.
	hub.Unregister("a@example.com")
	hub.Unregister("a@example.com")
	assert.Equal(t, 0, hub.clientCount())

	hub.Broadcast(Event{Type: "participant_count"})
}
