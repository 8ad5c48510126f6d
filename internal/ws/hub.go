// Package ws implements the real-time broadcast hub. The hub owns the set of
// live client connections and fans change events out to all of them,
// best-effort: a failed send never blocks the other clients and causes the
// failing connection to be pruned.
package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// defaultWriteTimeout bounds a single send so a blocked connection cannot
// stall delivery to the remaining clients.
const defaultWriteTimeout = 5 * time.Second

// Conn is the subset of *websocket.Conn the hub needs
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client pairs a connection with a write mutex. Writes to one connection are
// serialized so concurrent broadcasts can never interleave frames on the
// same socket.
type client struct {
	conn Conn
	mu   sync.Mutex
}

// Hub tracks live connections and broadcasts change events to them
type Hub struct {
	mu           sync.Mutex
	clients      map[Conn]*client
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewHub creates a new broadcast hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[Conn]*client),
		writeTimeout: defaultWriteTimeout,
		logger:       logger,
	}
}

// Register adds a connection to the active set
func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn}
}

// Unregister removes a connection from the active set. Removing a
// connection that is already gone is a no-op.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Broadcast delivers the event to every connection in the active set at the
// time of the call. Delivery is attempted independently per connection;
// failing connections are closed and removed from the set. Connections that
// register after Broadcast returns never see the event: there is no backlog.
func (h *Hub) Broadcast(event models.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal change event",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return
	}

	// Snapshot membership under the lock, send outside it
	h.mu.Lock()
	snapshot := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	var failed []Conn
	for _, c := range snapshot {
		if err := h.send(c, data); err != nil {
			h.logger.Warn("failed to deliver change event, dropping connection",
				zap.String("type", string(event.Type)),
				zap.Error(err),
			)
			failed = append(failed, c.conn)
		}
	}

	// Reconcile failures with a locked removal
	for _, conn := range failed {
		h.Unregister(conn)
		conn.Close()
	}
}

// Send writes one text frame to a single registered connection. It shares
// the per-connection write mutex with Broadcast, so direct sends and
// broadcast fan-out never interleave frames on the same socket.
func (h *Hub) Send(conn Conn, data []byte) error {
	h.mu.Lock()
	c, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return errors.New("connection is not registered")
	}
	return h.send(c, data)
}

// send writes one frame to one client under its write mutex
func (h *Hub) send(c *client, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
