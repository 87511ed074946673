// Package hub fans live bike telemetry out to WebSocket subscribers.
package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBufferSize = 256
	maxMessageSize = 4096
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// Hub tracks connected live-feed clients.
type Hub struct {
	logger  *zap.SugaredLogger
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	id          string
	equipmentID string
	conn        *websocket.Conn
	send        chan []byte
}

// New creates an empty Hub.
func New(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger:  logger.Named("hub"),
		clients: make(map[*client]struct{}),
	}
}

// ServeWS upgrades the request and subscribes it to equipmentID, or to every bike when empty.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, equipmentID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:          uuid.NewString(),
		equipmentID: equipmentID,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast pushes msg to every client watching its bike. Slow clients miss the message.
func (h *Hub) Broadcast(msg models.LiveMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorw("failed to marshal broadcast message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.equipmentID != "" && c.equipmentID != msg.Data.EquipmentID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Debugw("client buffer full, dropping message", "client", c.id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debugw("websocket client connected", "client", c.id, "equipment_id", c.equipmentID)
}

// unregister closes the send channel once; only the goroutine that removes the client closes it.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if existed {
		close(c.send)
	}
	h.logger.Debugw("websocket client disconnected", "client", c.id)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnw("websocket read error", "client", c.id, "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
