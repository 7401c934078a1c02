package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/config"
	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/logging"
)

const (
	// defaultMaxMessageSize limits inbound client messages.
	defaultMaxMessageSize = 8192

	// defaultPingInterval is how often the server pings idle clients.
	defaultPingInterval = 30 * time.Second

	// defaultPongTimeout is how long to wait for a pong before
	// considering the client dead.
	defaultPongTimeout = 10 * time.Second

	// writeTimeout bounds individual write operations.
	writeTimeout = 10 * time.Second

	// sendBufferSize is the per-client outbound message buffer.
	// Slow clients that fall this far behind are disconnected.
	sendBufferSize = 64
)

// Topic names clients can subscribe to.
const (
	TopicDevices       = "devices"
	TopicNotifications = "notifications"
	TopicMetrics       = "metrics"
)

// WSMessage is the envelope for all WebSocket traffic in both directions.
type WSMessage struct {
	Type    string          `json:"type"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// client represents a single connected WebSocket client.
type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
	mu     sync.RWMutex
}

// subscribed reports whether the client wants messages for topic.
// A client with no explicit subscriptions receives everything.
func (c *client) subscribed(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.topics) == 0 {
		return true
	}
	return c.topics[topic]
}

func (c *client) subscribe(topic string) {
	c.mu.Lock()
	c.topics[topic] = true
	c.mu.Unlock()
}

func (c *client) unsubscribe(topic string) {
	c.mu.Lock()
	delete(c.topics, topic)
	c.mu.Unlock()
}

// Hub manages WebSocket clients and fans out broadcast messages.
//
// Clients connect via ServeWS, optionally subscribe to topics, and
// receive JSON messages pushed by Broadcast. Run() must be started
// in a goroutine before accepting connections.
type Hub struct {
	cfg        config.WebSocketConfig
	logger     *logging.Logger
	clients    map[string]*client
	register   chan *client
	unregister chan *client
	broadcast  chan broadcastMsg
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
}

type broadcastMsg struct {
	topic string
	data  []byte
}

// NewHub creates a WebSocket hub with the given configuration.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:        cfg,
		logger:     logger,
		clients:    make(map[string]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan broadcastMsg, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard SPA is served from a different origin
			// during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run processes client registration and broadcast fan-out until ctx
// is cancelled, then closes all connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client connected", "client_id", c.id, "clients", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected", "client_id", c.id, "clients", count)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				if c.subscribed(msg.topic) {
					h.trySend(c, msg.data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a JSON message to all clients subscribed to topic.
// The payload is marshalled once and shared across clients.
func (h *Hub) Broadcast(topic string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("websocket broadcast marshal failed", "topic", topic, "error", err)
		return
	}

	data, err := json.Marshal(WSMessage{
		Type:    "event",
		Topic:   topic,
		Payload: raw,
	})
	if err != nil {
		h.logger.Error("websocket broadcast marshal failed", "topic", topic, "error", err)
		return
	}

	select {
	case h.broadcast <- broadcastMsg{topic: topic, data: data}:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message", "topic", topic)
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// trySend queues data for a client, disconnecting clients whose send
// buffer is full. Recovers from sends on a concurrently-closed channel.
func (h *Hub) trySend(c *client, data []byte) {
	defer func() {
		_ = recover()
	}()

	select {
	case c.send <- data:
	default:
		// Slow client, drop the connection rather than block the hub.
		go func() { h.unregister <- c }()
	}
}

// closeAll disconnects every client during shutdown.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, id)
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and
// starts the client's read and write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		topics: make(map[string]bool),
	}

	h.register <- c

	go h.writePump(c)
	go h.readPump(c)
}

// readPump reads client messages (subscribe, unsubscribe, ping) until
// the connection drops.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()

	maxSize := int64(h.cfg.MaxMessageSize)
	if maxSize <= 0 {
		maxSize = defaultMaxMessageSize
	}
	pongTimeout := time.Duration(h.cfg.PongTimeout) * time.Second
	if pongTimeout <= 0 {
		pongTimeout = defaultPongTimeout
	}
	pingInterval := time.Duration(h.cfg.PingInterval) * time.Second
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	c.conn.SetReadLimit(maxSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "client_id", c.id, "error", err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn("websocket invalid message", "client_id", c.id, "error", err)
			continue
		}

		switch msg.Type {
		case "subscribe":
			if msg.Topic != "" {
				c.subscribe(msg.Topic)
			}
		case "unsubscribe":
			if msg.Topic != "" {
				c.unsubscribe(msg.Topic)
			}
		case "ping":
			pong, _ := json.Marshal(WSMessage{Type: "pong"})
			h.trySend(c, pong)
		default:
			h.logger.Warn("websocket unknown message type", "client_id", c.id, "type", msg.Type)
		}
	}
}

// writePump writes queued messages and periodic pings to the client.
func (h *Hub) writePump(c *client) {
	pingInterval := time.Duration(h.cfg.PingInterval) * time.Second
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
