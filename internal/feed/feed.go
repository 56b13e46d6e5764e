// Package feed pushes state snapshots to connected screens over websocket
package feed

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"parking-client/internal/config"
	"parking-client/internal/metrics"
	"parking-client/internal/store"
)

// Message is what every client receives
type Message struct {
	Type      string      `json:"type"`
	State     store.State `json:"state"`
	Timestamp time.Time   `json:"timestamp"`
}

type Hub struct {
	store      *store.Store
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan store.State
	done       chan struct{}
	stopOnce   sync.Once
	cancel     func()
}

// NewHub subscribes to the store and starts the broadcast loop.
// allowOrigin decides which browser origins may connect besides the server's
// own host; nil allows the same host only.
func NewHub(s *store.Store, allowOrigin func(origin string) bool) *Hub {
	h := &Hub{
		store:     s,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin(allowOrigin)},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan store.State, 1),
		done:      make(chan struct{}),
	}
	h.cancel = s.Subscribe(h.publish)
	go h.handleBroadcast()
	return h
}

// publish never blocks the store. When a snapshot is still queued it is
// replaced, since only the newest state matters to a screen.
func (h *Hub) publish(st store.State) {
	for {
		select {
		case h.broadcast <- st:
			return
		default:
		}
		select {
		case <-h.broadcast:
		default:
		}
	}
}

// ServeHTTP upgrades the connection, sends the current snapshot and keeps
// the client registered until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Feed] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	err = conn.WriteJSON(newMessage(h.store.Snapshot()))
	if err != nil {
		delete(h.clients, conn)
	}
	metrics.FeedClients.Set(float64(len(h.clients)))
	h.clientsMux.Unlock()
	if err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			break
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMux.Lock()
	delete(h.clients, conn)
	metrics.FeedClients.Set(float64(len(h.clients)))
	h.clientsMux.Unlock()
}

func (h *Hub) handleBroadcast() {
	for {
		select {
		case <-h.done:
			return
		case st := <-h.broadcast:
			msg := newMessage(st)
			h.clientsMux.Lock()
			for client := range h.clients {
				if err := client.WriteJSON(msg); err != nil {
					client.Close()
					delete(h.clients, client)
				}
			}
			metrics.FeedClients.Set(float64(len(h.clients)))
			h.clientsMux.Unlock()
		}
	}
}

// ClientCount returns the number of connected screens
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}

// Close unsubscribes from the store and disconnects every client
func (h *Hub) Close() {
	h.stopOnce.Do(func() {
		h.cancel()
		close(h.done)

		h.clientsMux.Lock()
		for client := range h.clients {
			client.Close()
			delete(h.clients, client)
		}
		metrics.FeedClients.Set(0)
		h.clientsMux.Unlock()
	})
}

func checkOrigin(allowOrigin func(string) bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || config.SameHost(origin, r.Host) {
			return true
		}
		if allowOrigin != nil && allowOrigin(origin) {
			return true
		}
		log.Printf("[Feed] Refused websocket from origin %s", origin)
		return false
	}
}

func newMessage(st store.State) Message {
	return Message{Type: "state", State: st, Timestamp: time.Now()}
}
