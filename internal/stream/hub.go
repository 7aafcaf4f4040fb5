// Package stream broadcasts density frames to websocket clients and
// collects their control messages.
package stream

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 2 * time.Second

// Command is a control message sent by a client as JSON, for example
// {"reset": true} or {"key": "dt", "value": 0.05}.
type Command struct {
	Reset bool     `json:"reset,omitempty"`
	Key   string   `json:"key,omitempty"`
	Value *float64 `json:"value,omitempty"`
}

// Hub tracks connected clients. Each connection has its own write lock so
// a broadcast never interleaves with the greeting frame.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	last    []byte

	commands chan Command
}

// NewHub returns a hub accepting any origin. A nil logger discards output.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:      log,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		commands: make(chan Command, 16),
	}
}

// Commands delivers client control messages. Messages arriving while the
// buffer is full are dropped.
func (h *Hub) Commands() <-chan Command { return h.commands }

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request, sends the latest frame and reads control
// messages until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	lock := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = lock
	last := h.last
	h.mu.Unlock()
	defer h.remove(conn)
	h.log.Info("client connected", "remote", r.RemoteAddr)

	if last != nil {
		lock.Lock()
		err := write(conn, last)
		lock.Unlock()
		if err != nil {
			return
		}
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("websocket read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		select {
		case h.commands <- cmd:
		default:
			h.log.Warn("dropping client command", "remote", r.RemoteAddr)
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func write(conn *websocket.Conn, frame []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Broadcast sends frame to every client and keeps it for clients that
// connect later. Clients that fail to receive it are dropped. It returns
// the number of successful deliveries. Writes happen outside the hub lock,
// so a slow client never delays registration.
func (h *Hub) Broadcast(frame []byte) int {
	kept := append([]byte(nil), frame...)

	type target struct {
		conn *websocket.Conn
		lock *sync.Mutex
	}
	h.mu.Lock()
	h.last = kept
	targets := make([]target, 0, len(h.clients))
	for conn, lock := range h.clients {
		targets = append(targets, target{conn, lock})
	}
	h.mu.Unlock()

	var failed []*websocket.Conn
	sent := 0
	for _, t := range targets {
		t.lock.Lock()
		err := write(t.conn, kept)
		t.lock.Unlock()
		if err != nil {
			h.log.Warn("websocket write failed", "remote", t.conn.RemoteAddr().String(), "err", err)
			t.conn.Close()
			failed = append(failed, t.conn)
			continue
		}
		sent++
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	}
	return sent
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, lock := range h.clients {
		lock.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		lock.Unlock()
		delete(h.clients, conn)
	}
}
