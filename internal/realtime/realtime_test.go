package realtime

import (
	"errors"
	"sync"
)

// fakeConn records everything sent to it, in order.
type fakeConn struct {
	mu     sync.Mutex
	events []any
	closed bool
}

func (f *fakeConn) Send(event any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.events = append(f.events, event)
	return true
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) all() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]any, len(f.events))
	copy(out, f.events)
	return out
}

// eventsOf collects the recorded events of one concrete type, in order.
func eventsOf[T any](f *fakeConn) []T {
	var out []T
	for _, e := range f.all() {
		if ev, ok := e.(T); ok {
			out = append(out, ev)
		}
	}
	return out
}

// userIDs flattens a presence snapshot to its user ids.
func userIDs(users []ActiveUser) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	return ids
}

var errBadToken = errors.New("bad token")

// testVerifier accepts tokens of the form "tok-<userID>".
func testVerifier(token string) (Identity, error) {
	switch token {
	case "tok-u1":
		return Identity{UserID: "u1", Email: "u1@example.com"}, nil
	case "tok-u2":
		return Identity{UserID: "u2", Email: "u2@example.com"}, nil
	case "tok-u3":
		return Identity{UserID: "u3", Email: "u3@example.com"}, nil
	}
	return Identity{}, errBadToken
}

// connect authenticates a fresh client with the given token.
func connect(r *Router, token string) (*Client, *fakeConn) {
	conn := &fakeConn{}
	c := r.hub.NewClient(conn)
	r.HandleMessage(c, []byte(`{"type":"authenticate","token":"`+token+`"}`))
	return c, conn
}
