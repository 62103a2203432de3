// Package statusclient is a Go client for the status page's real-time
// feed. It maintains a websocket connection to the backend, joins the
// configured organization's room, and hands every received event to the
// caller. Delivery is best-effort; consumers should pair the client with
// a Reconciler so missed events are healed by refetching.
package statusclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State is the connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// defaultReconnectDelay is deliberately minimal: the server tolerates
// rejoining clients cheaply, and a status page wants to be live again as
// soon as possible.
const defaultReconnectDelay = 2 * time.Second

// Event is one server-pushed notification.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinMessage struct {
	Type    string      `json:"type"`
	Payload joinPayload `json:"payload"`
}

type joinPayload struct {
	OrgID   string `json:"orgId,omitempty"`
	OrgSlug string `json:"orgSlug,omitempty"`
}

// Config configures a Client.
type Config struct {
	// URL is the websocket endpoint, e.g. wss://status.example.com/api/v1/ws.
	URL string

	// OrgID or OrgSlug identifies the room to join. OrgID wins when both
	// are set, matching the server's join semantics.
	OrgID   string
	OrgSlug string

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer

	// ReconnectDelay defaults to 2s.
	ReconnectDelay time.Duration

	Logger *slog.Logger

	// OnConnect fires after the join message has been written on a fresh
	// connection. It is suppressed when the client is torn down while the
	// dial is still in flight.
	OnConnect func()

	// OnEvent receives every event pushed by the server.
	OnEvent func(Event)

	// OnDisconnect fires when an established connection is lost.
	OnDisconnect func(error)
}

// Client maintains the connection lifecycle. Each attempt uses a fresh
// connection; a dropped connection is never resumed, only replaced.
type Client struct {
	cfg Config

	mu    sync.Mutex
	state State

	done chan struct{}
	once sync.Once
}

// New creates a client. Call Run to start it.
func New(cfg Config) *Client {
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		cfg:   cfg,
		state: StateDisconnected,
		done:  make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run connects and keeps reconnecting until the context is cancelled.
// It blocks; run it in its own goroutine.
func (c *Client) Run(ctx context.Context) {
	defer c.setState(StateDisconnected)
	defer c.once.Do(func() { close(c.done) })

	for {
		if err := c.runOnce(ctx); err != nil {
			c.cfg.Logger.Warn("connection lost", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// Done is closed when Run has returned.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) runOnce(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, _, err := c.cfg.Dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}
	defer conn.Close()

	// Teardown during the dial wins: drop the fresh connection without
	// ever reporting it as connected.
	if ctx.Err() != nil {
		c.setState(StateDisconnected)
		return ctx.Err()
	}

	if err := conn.WriteJSON(joinMessage{
		Type: "join:org",
		Payload: joinPayload{
			OrgID:   c.cfg.OrgID,
			OrgSlug: c.cfg.OrgSlug,
		},
	}); err != nil {
		c.setState(StateDisconnected)
		return err
	}

	c.setState(StateConnected)
	if c.cfg.OnConnect != nil {
		c.cfg.OnConnect()
	}

	// Unblock the read loop when the context is cancelled.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if c.cfg.OnDisconnect != nil {
				c.cfg.OnDisconnect(err)
			}
			return err
		}

		if c.cfg.OnEvent != nil {
			c.cfg.OnEvent(event)
		}
	}
}
