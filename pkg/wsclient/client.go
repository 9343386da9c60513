// Package wsclient maintains one logical connection to the idea-collab
// realtime endpoint: it authenticates on every (re)connect, reconnects with
// a flat delay after unexpected closes, and exposes a command surface plus
// an observable event stream to the rest of the application.
package wsclient

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls a Client. URL and Token are required.
type Config struct {
	URL   string
	Token string
	// ReconnectDelay is the flat wait between reconnect attempts.
	// Defaults to 3 seconds.
	ReconnectDelay time.Duration
	// EventBuffer is the capacity of the Events channel. Events beyond the
	// buffer are dropped rather than blocking the read loop. Defaults to 64.
	EventBuffer int
}

// Client is the consumer-side session manager.
type Client struct {
	cfg Config

	mu            sync.Mutex
	conn          *websocket.Conn
	notifications []Notification
	halted        bool // authentication rejected; wait for a fresh token
	stopped       bool

	events chan Event
	stop   chan struct{}
	wake   chan struct{}
	logger zerolog.Logger
}

// New constructs a Client. Call Start to open the connection.
func New(cfg Config) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	return &Client{
		cfg:    cfg,
		events: make(chan Event, cfg.EventBuffer),
		stop:   make(chan struct{}),
		wake:   make(chan struct{}, 1),
		logger: log.With().Str("component", "wsclient").Logger(),
	}
}

// Start launches the session loop in the background.
func (c *Client) Start() {
	go c.run()
}

// Stop ends the session loop and closes the connection.
func (c *Client) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	conn := c.conn
	c.mu.Unlock()

	close(c.stop)
	if conn != nil {
		conn.Close()
	}
}

// Events returns the stream of server events.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Connected reports whether the underlying channel is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Notifications returns the accumulated notifications in arrival order.
func (c *Client) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// ClearNotifications empties the accumulated notification list.
func (c *Client) ClearNotifications() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = nil
}

// SetToken installs a fresh credential and resumes the session loop if it
// was halted by an authentication failure.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.cfg.Token = token
	c.halted = false
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// JoinIdea enters the room for an idea. No-op when disconnected.
func (c *Client) JoinIdea(ideaID string) {
	c.send(map[string]any{"type": "join-idea", "ideaId": ideaID})
}

// LeaveIdea leaves the current room. No-op when disconnected or not joined.
func (c *Client) LeaveIdea() {
	c.send(map[string]any{"type": "leave-idea"})
}

// NotifyIdeaUpdate fans an idea mutation out to the other room members.
func (c *Client) NotifyIdeaUpdate(ideaID string, idea any) {
	c.send(map[string]any{"type": "idea-update", "ideaId": ideaID, "idea": idea})
}

// NotifyEnhancementCreated announces a new enhancement to the other room members.
func (c *Client) NotifyEnhancementCreated(ideaID string, enhancement any) {
	c.send(map[string]any{"type": "enhancement-created", "ideaId": ideaID, "enhancement": enhancement})
}

// NotifyIdeaShared asks the server to notify another user of a share.
func (c *Client) NotifyIdeaShared(targetUserID, ideaID, ideaTitle, sharedBy string) {
	c.send(map[string]any{
		"type":         "idea-shared",
		"targetUserId": targetUserID,
		"ideaId":       ideaID,
		"ideaTitle":    ideaTitle,
		"sharedBy":     sharedBy,
	})
}

// send writes v if the channel is open; otherwise it is a silent no-op.
// Commands never error and never queue.
func (c *Client) send(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteJSON(v); err != nil {
		c.logger.Debug().Err(err).Msg("send failed")
	}
}

func (c *Client) run() {
	for {
		c.mu.Lock()
		stopped, halted := c.stopped, c.halted
		c.mu.Unlock()
		if stopped {
			return
		}
		if halted {
			select {
			case <-c.stop:
				return
			case <-c.wake:
				continue
			}
		}

		c.session()

		select {
		case <-c.stop:
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// session runs one connection from dial to close.
func (c *Client) session() {
	c.mu.Lock()
	url, token := c.cfg.URL, c.cfg.Token
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		c.logger.Debug().Err(err).Msg("dial failed")
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	// Authenticate immediately on every (re)connect.
	c.send(map[string]any{"type": "authenticate", "token": token})

	authenticated := false
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}

		switch ev.Type {
		case EventAuthenticated:
			authenticated = true
		case EventNotification:
			if ev.Notification != nil {
				c.mu.Lock()
				c.notifications = append(c.notifications, *ev.Notification)
				c.mu.Unlock()
			}
		case EventError:
			if !authenticated {
				// Credential rejected before anything else happened: stop
				// reconnecting until the application supplies a new token.
				c.logger.Warn().Str("message", ev.Message).Msg("authentication rejected")
				c.mu.Lock()
				c.halted = true
				c.mu.Unlock()
			}
		}

		c.emit(ev)
	}

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	conn.Close()
}

// emit forwards an event without ever blocking the read loop.
func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Debug().Str("type", ev.Type).Msg("event dropped, consumer too slow")
	}
}
