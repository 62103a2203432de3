package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/calliko/statuspage-backend/internal/core/domain"
	"github.com/calliko/statuspage-backend/internal/core/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

// Client message types understood by the server.
const (
	messageJoinOrg  = "join:org"
	messageLeaveOrg = "leave:org"
)

// clientMessage is the envelope for messages received from a client.
type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// joinPayload carries the tenant reference of a join:org request. When
// both fields are present the ID wins and the slug is ignored.
type joinPayload struct {
	OrgID   string `json:"orgId"`
	OrgSlug string `json:"orgSlug"`
}

// leavePayload carries the tenant reference of a leave:org request.
type leavePayload struct {
	OrgID string `json:"orgId"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound events
	Send chan domain.Event

	// ID uniquely identifies this connection
	ID uuid.UUID

	// UserID is the authenticated user, or uuid.Nil for anonymous
	// status-page viewers
	UserID uuid.UUID

	// directory resolves organization slugs sent in join:org requests
	directory ports.TenantDirectory

	// memberships tracks which org rooms this connection has joined,
	// so the hub can purge all of them on disconnect
	memberships   map[uuid.UUID]bool
	membershipsMu sync.RWMutex

	// closeOnce ensures the send channel is closed exactly once
	closeOnce sync.Once

	// closed is set by the hub when it evicts this connection. Guarded by
	// the hub's mutex; once set the connection can never rejoin a room,
	// even if its read pump finishes a join after the eviction.
	closed bool

	logger *slog.Logger
}

// NewClient creates a new websocket client for the given connection.
func NewClient(hub *Hub, conn *websocket.Conn, directory ports.TenantDirectory, userID uuid.UUID, logger *slog.Logger) *Client {
	id := uuid.New()
	return &Client{
		hub:         hub,
		conn:        conn,
		Send:        make(chan domain.Event, 256),
		ID:          id,
		UserID:      userID,
		directory:   directory,
		memberships: make(map[uuid.UUID]bool),
		logger:      logger.With("component", "websocket_client", "connection_id", id),
	}
}

// CloseSend closes the send channel exactly once.
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// addMembership records that this connection joined an org room.
func (c *Client) addMembership(orgID uuid.UUID) {
	c.membershipsMu.Lock()
	defer c.membershipsMu.Unlock()
	c.memberships[orgID] = true
}

// removeMembership records that this connection left an org room.
func (c *Client) removeMembership(orgID uuid.UUID) {
	c.membershipsMu.Lock()
	defer c.membershipsMu.Unlock()
	delete(c.memberships, orgID)
}

// Memberships returns the org rooms this connection is a member of.
func (c *Client) Memberships() []uuid.UUID {
	c.membershipsMu.RLock()
	defer c.membershipsMu.RUnlock()

	orgs := make([]uuid.UUID, 0, len(c.memberships))
	for orgID := range c.memberships {
		orgs = append(orgs, orgID)
	}
	return orgs
}

// ReadPump pumps messages from the websocket connection to the hub.
//
// The application runs ReadPump in a per-connection goroutine. The
// application ensures that there is at most one reader on a connection by
// executing all reads from this goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

// handleMessage dispatches a single inbound client message. Malformed
// messages and unknown types are dropped without closing the connection.
func (c *Client) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Warn("dropping malformed client message", "error", err)
		return
	}

	switch msg.Type {
	case messageJoinOrg:
		c.handleJoin(msg.Payload)
	case messageLeaveOrg:
		c.handleLeave(msg.Payload)
	default:
		c.logger.Warn("dropping unknown client message", "message_type", msg.Type)
	}
}

// handleJoin subscribes the connection to an organization's room. The
// request may carry the org ID directly or a slug to be resolved; a
// reference that resolves to nothing is dropped silently so a probing
// client learns nothing about which tenants exist.
func (c *Client) handleJoin(payload json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("dropping malformed join request", "error", err)
		return
	}

	if p.OrgID != "" {
		orgID, err := uuid.Parse(p.OrgID)
		if err != nil {
			c.logger.Warn("dropping join request with invalid org id", "org_id", p.OrgID)
			return
		}
		c.hub.joinRoom(c, orgID)
		return
	}

	if p.OrgSlug == "" {
		c.logger.Warn("dropping join request with no org reference")
		return
	}

	// Slug resolution happens here, on the connection's own goroutine,
	// so a slow lookup never stalls the hub's fan-out loop.
	orgID, err := c.directory.ResolveSlug(context.Background(), p.OrgSlug)
	if err != nil {
		c.logger.Warn("dropping join request for unresolvable slug",
			"org_slug", p.OrgSlug,
			"error", err,
		)
		return
	}
	c.hub.joinRoom(c, orgID)
}

// handleLeave unsubscribes the connection from an organization's room.
func (c *Client) handleLeave(payload json.RawMessage) {
	var p leavePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("dropping malformed leave request", "error", err)
		return
	}

	orgID, err := uuid.Parse(p.OrgID)
	if err != nil {
		c.logger.Warn("dropping leave request with invalid org id", "org_id", p.OrgID)
		return
	}
	c.hub.leaveRoom(c, orgID)
}

// WritePump pumps events from the hub to the websocket connection.
//
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Warn("websocket write error", "error", err)
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
