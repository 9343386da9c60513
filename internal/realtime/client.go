package realtime

// Conn is the transport half of a client connection. The actual network
// conn is managed by the websocket handler; the hub only ever sends.
// Send reports false when the channel is no longer writable, which the hub
// treats as a no-op rather than an error.
type Conn interface {
	Send(event any) bool
	Close()
}

// State tracks connection liveness. StateClosed is terminal.
type State int

const (
	StateOpen State = iota
	StateClosing
	StateClosed
)

// Client is one live connection. The identity, room and state fields are
// owned by the Hub and must only be touched while holding its lock.
type Client struct {
	conn   Conn
	userID string // empty until authenticated, then fixed for the lifetime
	email  string
	ideaID ID // current room, empty when not joined
	state  State
}

func (c *Client) authenticated() bool {
	return c.userID != ""
}
