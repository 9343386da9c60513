package handlers

import (
	"net/http"
	"sync"
	"time"

	"idea-collab-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// wsConn implements realtime.Conn by wrapping a websocket connection.
// Writes are serialized: broadcasts arrive from other connections'
// goroutines while the read loop may be replying on its own.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(event any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(event) == nil
}

func (c *wsConn) Close() {
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

var (
	wsHub    *realtime.Hub
	wsRouter *realtime.Router
)

// InitRealtime wires the websocket endpoint to a hub and router.
func InitRealtime(hub *realtime.Hub, router *realtime.Router) {
	wsHub = hub
	wsRouter = router
}

// WebSocketHandler upgrades the connection and pumps inbound messages into
// the realtime router. There is no HTTP-level auth here: clients
// authenticate in-band with their first message.
func WebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := wsHub.NewClient(&wsConn{conn: conn})

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		wsRouter.Disconnect(client)
	}()

	conn.SetReadLimit(32 << 10)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; the deferred disconnect cleans up
			return
		}
		wsRouter.HandleMessage(client, data)
	}
}
