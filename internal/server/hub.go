package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/topiccloud/pkg/selection"
)

// WebSocketConfig holds WebSocket timing and size limits.
type WebSocketConfig struct {
	WriteWait      time.Duration // Time allowed to write a message to the peer
	PongWait       time.Duration // Time allowed to read the next pong message from the peer
	PingPeriod     time.Duration // Send pings to peer with this period (must be less than PongWait)
	MaxMessageSize int64         // Maximum message size allowed from peer
}

// DefaultWebSocketConfig returns the default WebSocket configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 512,
	}
}

// checkOrigin accepts handshakes whose Origin header is missing or listed in
// origins. A "*" entry accepts every origin. CORS headers do not apply to
// WebSocket upgrades, so the hub checks the origin itself.
func checkOrigin(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Hub fans selection events out to connected WebSocket clients.
// Slow clients drop events rather than block the click.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	config   WebSocketConfig
	upgrader websocket.Upgrader
	logger   *log.Logger
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub returns an empty hub accepting connections from origins.
func NewHub(logger *log.Logger, origins []string) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		config:  DefaultWebSocketConfig(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(origins),
		},
		logger: logger,
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends ev to every client.
func (h *Hub) Broadcast(ev selection.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode selection event", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Debug("websocket client too slow, dropping event", "remote", c.conn.RemoteAddr())
		}
	}
}

// Callback returns a Dispatcher callback broadcasting each click on d.
func (h *Hub) Callback(d *selection.Dispatcher) func(int) {
	return func(i int) {
		if ev, err := d.Event(i); err == nil {
			h.Broadcast(ev)
		}
	}
}

// ServeHTTP upgrades the request and streams selection events to it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &wsClient{hub: h, conn: conn, send: make(chan []byte, 16)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "remote", conn.RemoteAddr(), "clients", h.Len())

	go c.writePump()
	go c.readPump()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		c.hub.mu.Lock()
		delete(c.hub.clients, c)
		close(c.send)
		c.hub.mu.Unlock()
		_ = c.conn.Close()
	})
}

// readPump discards client messages and keeps the read deadline moving
// with pongs. It returns when the peer goes away.
func (c *wsClient) readPump() {
	cfg := c.hub.config
	defer c.close()

	c.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends queued events and periodic pings.
func (c *wsClient) writePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
