package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Identity is the result of verifying a credential token.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier checks a raw credential token. It may block on an external
// verifier; the router always calls it outside the hub's critical section.
type TokenVerifier func(token string) (Identity, error)

// Router is the single entry point for every inbound message on a
// connection. It gates on authentication and dispatches by message type.
type Router struct {
	hub    *Hub
	verify TokenVerifier
	logger zerolog.Logger
}

// NewRouter wires a router to a hub and a token verifier.
func NewRouter(hub *Hub, verify TokenVerifier) *Router {
	return &Router{
		hub:    hub,
		verify: verify,
		logger: log.With().Str("component", "realtime").Logger(),
	}
}

// HandleMessage processes one raw inbound message from c. Failures are
// confined to c: at worst it gets an error event or a forced close, other
// connections and rooms are never affected.
func (r *Router) HandleMessage(c *Client, raw []byte) {
	if r.hub.closed(c) {
		return
	}

	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.logger.Debug().Err(err).Msg("malformed message")
		c.conn.Send(ErrorEvent{Type: EventError, Message: "Invalid message format"})
		return
	}

	switch msg.Type {
	case MsgAuthenticate:
		r.handleAuthenticate(c, msg.Token)
	case MsgJoinIdea:
		r.handleJoin(c, msg.IdeaID)
	case MsgLeaveIdea:
		r.hub.Leave(c)
	case MsgIdeaUpdate:
		r.handleIdeaUpdate(c, &msg)
	case MsgEnhancementCreated:
		r.handleEnhancementCreated(c, &msg)
	case MsgIdeaShared:
		r.handleIdeaShared(c, &msg)
	default:
		r.logger.Debug().Str("type", msg.Type).Msg("ignoring unknown message type")
	}
}

// Disconnect runs the hub's close sequence for c.
func (r *Router) Disconnect(c *Client) {
	r.hub.Disconnect(c)
}

func (r *Router) handleAuthenticate(c *Client, token string) {
	// Verification may suspend; it must not hold up other connections.
	identity, err := r.verify(token)
	if err != nil {
		c.conn.Send(ErrorEvent{Type: EventError, Message: "Authentication failed"})
		r.hub.Disconnect(c)
		return
	}

	userID := r.hub.BindIdentity(c, identity.UserID, identity.Email)
	if userID == "" {
		// Closed while the token was being verified.
		return
	}
	c.conn.Send(AuthenticatedEvent{Type: EventAuthenticated, UserID: userID})
}

func (r *Router) handleJoin(c *Client, ideaID ID) {
	if _, ok := r.hub.identity(c); !ok {
		c.conn.Send(ErrorEvent{Type: EventError, Message: "Not authenticated"})
		return
	}
	if ideaID == "" {
		c.conn.Send(ErrorEvent{Type: EventError, Message: "ideaId is required"})
		return
	}
	r.hub.Join(c, ideaID)
}

func (r *Router) handleIdeaUpdate(c *Client, msg *inboundMessage) {
	// Best-effort fan-out: dropped silently unless authenticated and joined.
	userID, ok := r.hub.identity(c)
	if !ok {
		return
	}
	if _, joined := r.hub.currentRoom(c); !joined {
		return
	}
	r.hub.Broadcast(msg.IdeaID, c, IdeaUpdatedEvent{
		Type:      EventIdeaUpdated,
		IdeaID:    msg.IdeaID,
		Idea:      msg.Idea,
		UpdatedBy: userID,
	})
}

func (r *Router) handleEnhancementCreated(c *Client, msg *inboundMessage) {
	if _, ok := r.hub.identity(c); !ok {
		return
	}
	r.hub.Broadcast(msg.IdeaID, c, NewEnhancementEvent{
		Type:        EventNewEnhancement,
		IdeaID:      msg.IdeaID,
		Enhancement: msg.Enhancement,
	})
}

func (r *Router) handleIdeaShared(c *Client, msg *inboundMessage) {
	if _, ok := r.hub.identity(c); !ok {
		return
	}
	delivered := r.hub.Notify(string(msg.TargetUserID), NotificationEvent{
		Type: EventNotification,
		Notification: Notification{
			Type:      MsgIdeaShared,
			Message:   fmt.Sprintf("%s shared an idea with you: \"%s\"", msg.SharedBy, msg.IdeaTitle),
			IdeaID:    msg.IdeaID,
			Timestamp: time.Now().UTC(),
		},
	})
	if !delivered {
		// Target offline; the sender is not told.
		r.logger.Debug().Str("target", string(msg.TargetUserID)).Msg("share notification dropped")
	}
}
