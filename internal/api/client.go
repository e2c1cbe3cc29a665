package api

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sword-arena/internal/game"
)

const (
	reconnectDelay    = 2 * time.Second
	maxReconnectDelay = 30 * time.Second
)

// PeerLink is the client side of the wire: it dials the authoritative host,
// streams local commands up, and feeds received snapshots into the sink.
type PeerLink struct {
	url  string
	sink CommandSink

	mu       sync.Mutex
	conn     *websocket.Conn
	outbound chan game.Command

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPeerLink creates a link to the host at url
func NewPeerLink(url string, sink CommandSink) *PeerLink {
	ctx, cancel := context.WithCancel(context.Background())
	return &PeerLink{
		url:      url,
		sink:     sink,
		outbound: make(chan game.Command, 64),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the connection loop with reconnection backoff
func (pl *PeerLink) Start() {
	go pl.run()
}

// Stop closes the link and waits for the loop to exit
func (pl *PeerLink) Stop() {
	pl.cancel()
	pl.mu.Lock()
	if pl.conn != nil {
		pl.conn.Close()
	}
	pl.mu.Unlock()
	<-pl.done
}

// SendCommand queues a local command for delivery to the host.
// Drops the oldest pending command when the queue is full so fresh
// input always wins.
func (pl *PeerLink) SendCommand(cmd game.Command) {
	for {
		select {
		case pl.outbound <- cmd:
			return
		default:
			select {
			case <-pl.outbound:
			default:
			}
		}
	}
}

func (pl *PeerLink) run() {
	defer close(pl.done)

	delay := reconnectDelay
	for {
		select {
		case <-pl.ctx.Done():
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(pl.ctx, pl.url, nil)
		if err != nil {
			log.Printf("⚠️ Host dial failed (%s), retrying in %s: %v", pl.url, delay, err)
			select {
			case <-pl.ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
			continue
		}

		delay = reconnectDelay
		log.Printf("🔗 Connected to host at %s", pl.url)

		pl.mu.Lock()
		pl.conn = conn
		pl.mu.Unlock()

		pl.serve(conn)

		pl.mu.Lock()
		pl.conn = nil
		pl.mu.Unlock()
		conn.Close()
	}
}

// serve runs the read and write pumps until the connection drops
func (pl *PeerLink) serve(conn *websocket.Conn) {
	readDone := make(chan struct{})

	go func() {
		defer close(readDone)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg WireMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("⚠️ Malformed message from host: %v", err)
				continue
			}

			if msg.Type == "snapshot" && msg.Snapshot != nil {
				RecordWSMessageReceived("snapshot")
				pl.sink.QueueSnapshot(*msg.Snapshot)
				RecordSnapshotApplied()
			}
		}
	}()

	for {
		select {
		case <-pl.ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-readDone:
			log.Printf("🔗 Host connection lost")
			return
		case cmd := <-pl.outbound:
			msg := WireMessage{Type: "command", Command: &cmd}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			RecordWSMessageSent()
		}
	}
}
