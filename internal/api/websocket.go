package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sword-arena/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Max concurrent WebSocket connections per IP
	maxWSConnectionsPerIP = 3
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return IsAllowedOrigin(r.Header.Get("Origin"))
	},
}

// WireMessage is the envelope for everything on the wire.
// Type is "command" (client to host) or "snapshot" (host to clients).
type WireMessage struct {
	Type     string         `json:"type"`
	Command  *game.Command  `json:"command,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// CommandSink receives remote state for the simulation to apply next tick
type CommandSink interface {
	QueueCommand(cmd game.Command)
	QueueSnapshot(snap game.Snapshot)
}

// Client represents a single WebSocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ip   string
}

// Hub maintains active WebSocket connections and broadcasts snapshots
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	sink      CommandSink
	wsLimiter *WebSocketRateLimiter

	mu sync.RWMutex
}

// NewHub creates a WebSocket hub delivering inbound commands to sink
func NewHub(sink CommandSink) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		sink:       sink,
		wsLimiter:  NewWebSocketRateLimiter(maxWSConnectionsPerIP),
	}
}

// Run processes hub events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			RecordWSConnection(1)
			log.Printf("🔌 Client connected from %s (%d active)", client.ip, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.wsLimiter.Release(client.ip)
			RecordWSConnection(-1)
			log.Printf("🔌 Client disconnected from %s (%d active)", client.ip, count)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastSnapshot sends an authoritative snapshot to all connected clients
func (h *Hub) BroadcastSnapshot(snap game.Snapshot) {
	msg := WireMessage{Type: "snapshot", Snapshot: &snap}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️ Failed to encode snapshot: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
		RecordWSMessageSent()
	default:
		log.Printf("⚠️ Broadcast channel full, snapshot dropped")
	}
}

// ClientCount returns the number of active connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request to a WebSocket connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if !h.wsLimiter.Allow(ip) {
		RecordConnectionRejected("too_many_connections")
		log.Printf("⚠️ WebSocket rejected for %s: connection limit", ip)
		http.Error(w, "Too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsLimiter.Release(ip)
		RecordConnectionRejected("upgrade_failed")
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
		ip:   ip,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump reads wire messages from the peer and hands them to the sink
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ WebSocket read error from %s: %v", c.ip, err)
			}
			return
		}

		var msg WireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("⚠️ Malformed wire message from %s: %v", c.ip, err)
			continue
		}

		RecordWSMessageReceived(msg.Type)

		switch msg.Type {
		case "command":
			if msg.Command != nil {
				c.hub.sink.QueueCommand(*msg.Command)
				RecordCommandApplied()
			}
		case "snapshot":
			if msg.Snapshot != nil {
				c.hub.sink.QueueSnapshot(*msg.Snapshot)
				RecordSnapshotApplied()
			}
		default:
			log.Printf("⚠️ Unknown wire message type %q from %s", msg.Type, c.ip)
		}
	}
}

// writePump writes queued messages to the peer
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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
