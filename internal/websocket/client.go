package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	outBufferSize = 32
	pingEvery     = 25 * time.Second
)

// Client is one connected display.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	out  chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		out:  make(chan []byte, outBufferSize),
	}
}

// Run serves the connection until it closes, keeping the client registered
// with the hub for the duration.
func (c *Client) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.hub.Register(c)
	defer c.hub.Unregister(c)

	// Displays send nothing meaningful; the read loop exists to notice the
	// peer going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.out:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
