package wsclient

import (
	"encoding/json"
	"time"
)

// Event kinds delivered by the server.
const (
	EventAuthenticated  = "authenticated"
	EventError          = "error"
	EventPresenceUpdate = "presence-update"
	EventIdeaUpdated    = "idea-updated"
	EventNewEnhancement = "new-enhancement"
	EventNotification   = "notification"
)

// ActiveUser is one authenticated viewer in a presence update.
type ActiveUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Notification is a point-to-point message delivered to this user.
type Notification struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	IdeaID    json.RawMessage `json:"ideaId"`
	Timestamp time.Time       `json:"timestamp"`
}

// Event is one server-to-client message. Only the fields relevant to the
// given Type are populated.
type Event struct {
	Type         string          `json:"type"`
	Message      string          `json:"message"`
	UserID       string          `json:"userId"`
	IdeaID       json.RawMessage `json:"ideaId"`
	ActiveUsers  []ActiveUser    `json:"activeUsers"`
	Idea         json.RawMessage `json:"idea"`
	UpdatedBy    string          `json:"updatedBy"`
	Enhancement  json.RawMessage `json:"enhancement"`
	Notification *Notification   `json:"notification"`
}
