package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/ws"
)

// WSHandler upgrades clients onto the real-time change event channel
type WSHandler struct {
	BaseHandler
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *ws.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		BaseHandler: BaseHandler{Logger: logger},
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS policy is enforced at the middleware layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the websocket route
func (h *WSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.Serve)
}

// Serve handles GET /ws: the connection is registered with the hub for
// change event delivery, and any text the client sends is echoed back
// (diagnostic only). The connection is unregistered on read error or close.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("failed to upgrade websocket connection", zap.Error(err))
		return
	}

	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		conn.Close()
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		if messageType == websocket.TextMessage {
			// Echo through the hub so the write is serialized with broadcasts
			reply := append([]byte("Message received: "), data...)
			if err := h.hub.Send(conn, reply); err != nil {
				h.Logger.Warn("websocket echo failed", zap.Error(err))
				return
			}
		}
	}
}
