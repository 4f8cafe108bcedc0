// Package spectator exposes the fan-out hub over a WebSocket upgrade.
// The wire contract is write-only: the referee pushes one frame per
// turn per subscriber; inbound frames are read only to notice a
// disconnect and are otherwise discarded.
package spectator

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jhaezhyr/generals-io-ai/internal/fanout"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP connections on /spectate into snapshot
// streams fed by a fanout.Hub.
type Handler struct {
	hub *fanout.Hub
}

// NewHandler builds a Handler backed by hub.
func NewHandler(hub *fanout.Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeHTTP upgrades the connection, subscribes it to the hub, and
// relays snapshots as JSON text frames until the subscriber's stream
// closes or the connection is lost.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("spectator: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientID := uuid.New()
	log.Printf("spectator: client %s connected", clientID)
	defer log.Printf("spectator: client %s disconnected", clientID)

	sub := h.hub.Subscribe()
	// A stream the hub closed itself (hub shutdown or slow-subscriber
	// drop) is already unregistered; unsubscribing it again would block
	// once the hub's loop has exited.
	streamClosed := false
	defer func() {
		if !streamClosed {
			h.hub.Unsubscribe(sub)
		}
	}()

	// Discard anything the peer sends; this connection is write-only
	// from the referee's side, but a dead read loop never notices a
	// closed client, so drain it to detect disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-sub.Snapshots:
			if !ok {
				streamClosed = true
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap.ToWire()); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
