package websocket

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// Hub maintains the set of active Clients and fans domain events out to
// the room of the owning organization. Rooms exist only while they have at
// least one member; membership is revoked automatically when a connection
// is unregistered.
type Hub struct {
	// rooms maps organization IDs to the connections subscribed to that
	// tenant's events. This map is the only shared mutable state of the
	// real-time layer and is never touched outside this type.
	rooms map[uuid.UUID]map[*Client]bool

	// broadcast carries events from mutating services to the fan-out loop
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the rooms map
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for delivery to the owning organization's room.
// Delivery is best-effort: when the queue is full the event is dropped and
// clients converge via their polling fallback instead.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_kind", event.Kind,
			"org_id", event.OrgID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient accepts a new connection. The connection starts with no
// room membership; it joins via a join:org message once connected.
func (h *Hub) registerClient(client *Client) {
	h.logger.Info("client registered",
		"connection_id", client.ID,
		"user_id", client.UserID,
	)
}

// unregisterClient removes a client from every room it joined and closes
// its send channel. Membership is connection-scoped: destroying the
// connection revokes all of it.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	client.closed = true
	for _, orgID := range client.Memberships() {
		if room, ok := h.rooms[orgID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, orgID)
			}
		}
	}
	h.mu.Unlock()

	client.CloseSend()

	h.logger.Info("client unregistered", "connection_id", client.ID)
}

// broadcastEvent sends an event to every connection in the owning
// organization's room. Publishing to an empty room is a no-op.
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	room, ok := h.rooms[event.OrgID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_kind", event.Kind,
		"org_id", event.OrgID,
		"client_count", len(clients),
	)

	for _, client := range clients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full, unregister them
			h.logger.Warn("client send buffer full, unregistering",
				"connection_id", client.ID,
			)
			h.unregisterClient(client)
		}
	}
}

// joinRoom adds a client to an organization's room. A connection may be a
// member of more than one room; each join stands until an explicit leave
// or disconnect.
func (h *Hub) joinRoom(client *Client, orgID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A join processed after this connection was evicted must not put its
	// closed send channel back into a room.
	if client.closed {
		h.logger.Debug("ignoring join from closed connection",
			"connection_id", client.ID,
			"org_id", orgID,
		)
		return
	}

	if h.rooms[orgID] == nil {
		h.rooms[orgID] = make(map[*Client]bool)
	}
	h.rooms[orgID][client] = true
	client.addMembership(orgID)

	h.logger.Debug("client joined org room",
		"connection_id", client.ID,
		"org_id", orgID,
	)
}

// leaveRoom removes a client from an organization's room. No-op if the
// client is not a member.
func (h *Hub) leaveRoom(client *Client, orgID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[orgID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, orgID)
		}
	}
	client.removeMembership(orgID)

	h.logger.Debug("client left org room",
		"connection_id", client.ID,
		"org_id", orgID,
	)
}

// RoomSize returns the number of connections in an organization's room.
func (h *Hub) RoomSize(orgID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[orgID]; ok {
		return len(room)
	}
	return 0
}

// RoomCount returns the number of rooms with at least one member.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
