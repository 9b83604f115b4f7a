// Package ws provides a write-only WebSocket transport built on
// gorilla/websocket. It exists for clients that prefer a socket over the SSE
// stream: the server pushes JSON events, inbound messages are discarded.
//
//	conn, err := ws.Upgrade(c.W, c.R)
//	if err != nil { return }
//	conn.SendJSON(payload)
//	<-conn.Closed()
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/vastra/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // inbound frames are discarded; keep them small
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Conn is a single upgraded connection. All writes are serialized; Closed()
// fires exactly once when the peer goes away or Close is called.
type Conn struct {
	sock *websocket.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// Upgrade switches the HTTP connection to a WebSocket and starts the
// connection's keepalive and close-detection pumps.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	c := &Conn{sock: sock, closed: make(chan struct{})}
	go c.readPump()
	go c.pingPump()
	return c, nil
}

// SendJSON writes v as a single text frame. Returns the write error so the
// caller can drop the connection.
func (c *Conn) SendJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.sock.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	return c.sock.WriteMessage(websocket.TextMessage, payload)
}

// Closed returns a channel that is closed when the connection dies.
func (c *Conn) Closed() <-chan struct{} { return c.closed }

// Close tears the connection down. Safe to call multiple times.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.sock.Close()
	})
}

// readPump drains and discards inbound frames so close/pong control messages
// are processed. Exits (and closes the Conn) on any read error.
func (c *Conn) readPump() {
	defer c.Close()

	c.sock.SetReadLimit(maxMessageSize)
	c.sock.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.sock.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

// pingPump sends protocol-level pings so intermediaries keep the socket open
// and dead peers are detected via the read deadline.
func (c *Conn) pingPump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.sock.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			err := c.sock.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.Close()
				return
			}
		}
	}
}
