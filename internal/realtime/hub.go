package realtime

import (
	"sync"
)

// Hub owns all realtime state: the identity-to-connection registry and the
// per-idea rooms. A single mutex serializes every mutation and every fan-out,
// so events for one room are observed in the order their causes were applied.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client         // userID -> newest authenticated connection
	rooms   map[ID]map[*Client]struct{} // ideaID -> members
}

// NewHub returns an empty hub. State is process-local and rebuilt from zero
// on restart; clients re-authenticate and re-join.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[ID]map[*Client]struct{}),
	}
}

// NewClient wraps a transport in a Client managed by this hub.
func (h *Hub) NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// BindIdentity records the verified identity for c and registers it as that
// identity's active connection. When the same user connects again, the newer
// connection takes the registry slot; the older one keeps running and keeps
// any room membership, it just stops receiving direct notifications.
// An identity is set at most once per connection; re-authentication keeps
// the first binding. Returns the bound user id, or "" if c already closed.
func (h *Hub) BindIdentity(c *Client, userID, email string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.state == StateClosed {
		return ""
	}
	if c.userID == "" {
		c.userID = userID
		c.email = email
	}
	h.clients[c.userID] = c
	return c.userID
}

// Join adds c to the room for ideaID, creating the room if absent, and
// pushes a fresh presence snapshot to every member including c. A client
// sits in at most one room; joining another room leaves the current one
// first (with its own presence update to the members left behind).
func (h *Hub) Join(c *Client, ideaID ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	if c.ideaID != "" && c.ideaID != ideaID {
		h.leaveLocked(c)
	}
	c.ideaID = ideaID
	room := h.rooms[ideaID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[ideaID] = room
	}
	room[c] = struct{}{}
	h.broadcastPresenceLocked(ideaID)
}

// Leave removes c from its current room, if any, and sends the members that
// remain an updated presence snapshot. Safe to call when not joined.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c)
}

func (h *Hub) leaveLocked(c *Client) {
	if c.ideaID == "" {
		return
	}
	ideaID := c.ideaID
	c.ideaID = ""
	room, ok := h.rooms[ideaID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		// Empty rooms are pruned; a later join recreates them.
		delete(h.rooms, ideaID)
		return
	}
	h.broadcastPresenceLocked(ideaID)
}

// Broadcast sends event to every open member of the room except exclude.
// The member set is the live one at call time, not a snapshot.
func (h *Hub) Broadcast(ideaID ID, exclude *Client, event any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for member := range h.rooms[ideaID] {
		if member == exclude || member.state != StateOpen {
			continue
		}
		member.conn.Send(event)
	}
}

// Notify delivers event to the active connection of userID. Offline or
// unknown targets are dropped silently; the return value reports delivery
// was attempted on an open connection.
func (h *Hub) Notify(userID string, event any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	target, ok := h.clients[userID]
	if !ok || target.state != StateOpen {
		return false
	}
	return target.conn.Send(event)
}

// Presence returns the authenticated members of a room at this instant.
func (h *Hub) Presence(ideaID ID) []ActiveUser {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presenceLocked(ideaID)
}

func (h *Hub) presenceLocked(ideaID ID) []ActiveUser {
	users := make([]ActiveUser, 0, len(h.rooms[ideaID]))
	for member := range h.rooms[ideaID] {
		if !member.authenticated() {
			// Unauthenticated connections never show up in presence.
			continue
		}
		users = append(users, ActiveUser{UserID: member.userID, Email: member.email})
	}
	return users
}

// broadcastPresenceLocked recomputes presence and pushes it to every open
// member of the room, the actor included. Presence is the one event kind
// that is not echo-suppressed.
func (h *Hub) broadcastPresenceLocked(ideaID ID) {
	event := PresenceUpdateEvent{
		Type:        EventPresenceUpdate,
		IdeaID:      ideaID,
		ActiveUsers: h.presenceLocked(ideaID),
	}
	for member := range h.rooms[ideaID] {
		if member.state != StateOpen {
			continue
		}
		member.conn.Send(event)
	}
}

// Disconnect runs the close sequence for c exactly once: leave the current
// room (remaining members get a presence update), release the registry slot
// if it still points at c, and mark the connection closed for good. The
// registry check guards against clobbering a replacement connection that
// registered before a stale close arrived.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	if c.state == StateClosed {
		h.mu.Unlock()
		return
	}
	c.state = StateClosing
	h.leaveLocked(c)
	if c.userID != "" && h.clients[c.userID] == c {
		delete(h.clients, c.userID)
	}
	c.state = StateClosed
	h.mu.Unlock()

	c.conn.Close()
}

// closed reports whether c reached its terminal state.
func (h *Hub) closed(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.state == StateClosed
}

// identity returns the bound user id of c, if authenticated.
func (h *Hub) identity(c *Client) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.userID, c.authenticated()
}

// currentRoom returns the room c is joined to, if any.
func (h *Hub) currentRoom(c *Client) (ID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.ideaID, c.ideaID != ""
}
