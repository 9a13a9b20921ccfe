package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn serializes writes to a single websocket connection. Handlers for
// different clients run on different goroutines and fanout targets any live
// conn, while gorilla permits at most one concurrent writer per conn.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteJSON(v)
}

// ReadJSON is unsynchronized; each connection has exactly one reader
// goroutine.
func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
