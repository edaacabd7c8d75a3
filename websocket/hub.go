package websocket

import (
	"context"
	"sync"

	"github.com/talesoul/talesoul-api/loggers"
)

const (
	EventBookingUpdated   = "booking.updated"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventCommunityReply   = "community.reply"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uint
	Conn   Conn
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type delivery struct {
	userIDs []uint
	event   Event
}

// Hub fans events out to the connections of each user. A user may hold several connections.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	done       chan struct{}

	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 256),
		done:       make(chan struct{}),
		clients:    make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			loggers.Log.WithField("user_id", client.UserID).Debug("Client registered")
		case client := <-h.unregister:
			h.remove(client)
			loggers.Log.WithField("user_id", client.UserID).Debug("Client unregistered")
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// Register and Unregister return immediately once the hub has stopped.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Conn.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues event for every connection of the given users. It never blocks;
// events are dropped when the queue is full.
func (h *Hub) Publish(event Event, userIDs ...uint) {
	if h == nil || len(userIDs) == 0 {
		return
	}
	select {
	case h.broadcast <- delivery{userIDs: userIDs, event: event}:
	default:
		loggers.Log.WithField("type", event.Type).Warn("⚠️ Websocket queue full, dropping event")
	}
}

func (h *Hub) Connected(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) deliver(d delivery) {
	var failed []*Client
	h.mu.RLock()
	seen := make(map[uint]bool, len(d.userIDs))
	for _, id := range d.userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		for client := range h.clients[id] {
			if err := client.Conn.WriteJSON(d.event); err != nil {
				loggers.Log.WithError(err).WithField("user_id", id).Warn("Error sending event to client")
				failed = append(failed, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range failed {
		_ = client.Conn.Close()
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conns := range h.clients {
		for client := range conns {
			_ = client.Conn.Close()
		}
		delete(h.clients, id)
	}
}
