package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// VersionEvent is pushed to event subscribers whenever the served theme changes.
type VersionEvent struct {
	Type          string `json:"type"`
	ConfigVersion string `json:"configVersion"`
}

// subscriber wraps a connection with its own write lock.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteJSON(v)
}

// hub tracks event subscribers for broadcasting.
type hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]*subscriber
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]*subscriber)}
}

func (h *hub) add(conn *websocket.Conn) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &subscriber{conn: conn}
	h.conns[conn] = s
	return s
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// broadcast sends v to every subscriber, dropping the ones that fail.
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.conns))
	for _, s := range h.conns {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if err := s.write(v); err != nil {
			h.remove(s.conn)
			s.conn.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleEvents upgrades to a websocket and streams VersionEvents. The
// current version is sent first.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.V(1).Info("websocket upgrade failed", "error", err.Error())
		return
	}

	sub := h.events.add(conn)
	defer func() {
		h.events.remove(conn)
		conn.Close()
	}()

	if err := sub.write(VersionEvent{Type: "version", ConfigVersion: h.current().version}); err != nil {
		return
	}
	// Subscribers only listen; reading drives ping/close handling.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
