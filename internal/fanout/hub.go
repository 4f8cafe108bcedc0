// Package fanout broadcasts post-turn snapshots to a dynamic set of
// spectator subscribers. Publish never blocks on a slow subscriber: a
// subscriber whose buffer fills up is disconnected rather than
// allowed to stall the turn loop or any sibling subscriber.
package fanout

import (
	"log"
	"sync"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// subscriberBuffer is the recommended bound on pending snapshots per
// subscriber before it is dropped for falling behind.
const subscriberBuffer = 16

// Subscriber is a spectator's inbound stream of snapshots. Callers
// read from Snapshots until it is closed, then stop.
type Subscriber struct {
	id        uint64
	Snapshots chan board.Snapshot
	hub       *Hub
}

// Hub owns the set of active subscribers and the single turn loop
// that publishes to them. It is safe for concurrent use: Publish is
// called by the scheduler, Subscribe/Unsubscribe by spectator
// connection handlers.
type Hub struct {
	mu         sync.Mutex
	nextID     uint64
	subscriber map[uint64]*Subscriber
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan board.Snapshot
}

// NewHub constructs an idle Hub. Call Run in its own goroutine before
// Subscribe or Publish are used.
func NewHub() *Hub {
	return &Hub{
		subscriber: make(map[uint64]*Subscriber),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		broadcast:  make(chan board.Snapshot, 256),
	}
}

// Run drives the hub's main loop until stop is closed.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			h.closeAll()
			return
		case sub := <-h.register:
			h.mu.Lock()
			h.subscriber[sub.id] = sub
			h.mu.Unlock()
		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscriber[sub.id]; ok {
				delete(h.subscriber, sub.id)
				close(sub.Snapshots)
			}
			h.mu.Unlock()
		case snap := <-h.broadcast:
			h.deliver(snap)
		}
	}
}

// Subscribe registers a new spectator stream. It sees every snapshot
// published after this call and no prior state.
func (h *Hub) Subscribe() *Subscriber {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.mu.Unlock()

	sub := &Subscriber{id: id, Snapshots: make(chan board.Snapshot, subscriberBuffer), hub: h}
	h.register <- sub
	return sub
}

// Unsubscribe removes a subscriber and closes its stream.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}

// Publish fans snapshot out to every current subscriber. It does not
// block on any subscriber; a subscriber whose buffer is full is
// terminated.
func (h *Hub) Publish(snap board.Snapshot) {
	h.broadcast <- snap
}

func (h *Hub) deliver(snap board.Snapshot) {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.subscriber))
	for _, sub := range h.subscriber {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.Snapshots <- snap:
		default:
			log.Printf("fanout: subscriber %d fell behind, disconnecting", sub.id)
			go h.Unsubscribe(sub)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subscriber {
		close(sub.Snapshots)
		delete(h.subscriber, id)
	}
}
