package realtime

import (
	"encoding/json"
	"strconv"
	"time"
)

// ID is an idea or user identifier on the wire. Clients send identifiers as
// either a JSON string or a JSON number; both normalize to decimal text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(b)
	return nil
}

// MarshalJSON round-trips numeric identifiers as numbers so clients see the
// same shape they sent. Only canonical decimal text takes the number path;
// anything else (leading zeros included) is emitted as a string, since raw
// bytes like 042 are not valid JSON.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Inbound message kinds.
const (
	MsgAuthenticate       = "authenticate"
	MsgJoinIdea           = "join-idea"
	MsgLeaveIdea          = "leave-idea"
	MsgIdeaUpdate         = "idea-update"
	MsgEnhancementCreated = "enhancement-created"
	MsgIdeaShared         = "idea-shared"
)

// Outbound event kinds.
const (
	EventAuthenticated  = "authenticated"
	EventError          = "error"
	EventPresenceUpdate = "presence-update"
	EventIdeaUpdated    = "idea-updated"
	EventNewEnhancement = "new-enhancement"
	EventNotification   = "notification"
)

// inboundMessage is the envelope every client message arrives in. Only the
// fields for the given type are set.
type inboundMessage struct {
	Type         string          `json:"type"`
	Token        string          `json:"token"`
	IdeaID       ID              `json:"ideaId"`
	Idea         json.RawMessage `json:"idea"`
	Enhancement  json.RawMessage `json:"enhancement"`
	TargetUserID ID              `json:"targetUserId"`
	IdeaTitle    string          `json:"ideaTitle"`
	SharedBy     string          `json:"sharedBy"`
}

// AuthenticatedEvent confirms a successful in-band authentication.
type AuthenticatedEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// ErrorEvent reports a failure back to the offending connection.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ActiveUser is one authenticated viewer in a presence snapshot.
type ActiveUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// PresenceUpdateEvent carries the full viewer list of a room. It goes to
// every member, the actor included.
type PresenceUpdateEvent struct {
	Type        string       `json:"type"`
	IdeaID      ID           `json:"ideaId"`
	ActiveUsers []ActiveUser `json:"activeUsers"`
}

// IdeaUpdatedEvent fans an idea mutation out to the other room members.
type IdeaUpdatedEvent struct {
	Type      string          `json:"type"`
	IdeaID    ID              `json:"ideaId"`
	Idea      json.RawMessage `json:"idea"`
	UpdatedBy string          `json:"updatedBy"`
}

// NewEnhancementEvent announces a freshly created enhancement to the other
// room members.
type NewEnhancementEvent struct {
	Type        string          `json:"type"`
	IdeaID      ID              `json:"ideaId"`
	Enhancement json.RawMessage `json:"enhancement"`
}

// Notification is a point-to-point message for a specific user.
type Notification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IdeaID    ID        `json:"ideaId"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationEvent wraps a Notification for delivery.
type NotificationEvent struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}
