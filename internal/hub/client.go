package hub

import (
	"log/slog"

	"github.com/gorilla/websocket"

	"tictacroom/internal/player"
)

const sendQueueSize = 32

// Client couples an authenticated player to its connection and outbound
// send queue. A client holds at most one seat at a time.
type Client struct {
	player   *player.Player
	hub      *Hub
	send     chan []byte
	roomCode string
}

// NewClient creates a client for an authenticated player.
func NewClient(p *player.Player, h *Hub) *Client {
	return &Client{
		player: p,
		hub:    h,
		send:   make(chan []byte, sendQueueSize),
	}
}

// Username returns the authenticated identity behind the connection.
func (c *Client) Username() string {
	return c.player.Username
}

// ReadPump pumps messages from the connection into the hub's event loop
// until the connection drops, then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.player.Conn.Close()
		c.hub.unregister <- c
	}()

	for {
		_, msg, err := c.player.Conn.ReadMessage()
		if err != nil {
			slog.Warn("player connection closed", "player.id", c.Username(), "error", err)
			return
		}
		c.hub.inbound <- &inboundMessage{client: c, data: msg}
	}
}

// WritePump drains the send queue to the connection. The queue is
// closed by the hub when the client unregisters.
func (c *Client) WritePump() {
	for data := range c.send {
		if err := c.player.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("error writing message to player", "player.id", c.Username(), "error", err)
			return
		}
	}
	c.player.Conn.Close()
}

// enqueue queues data for delivery, dropping it when the client cannot
// keep up. Called only from the hub's event loop, so delivery order per
// client matches event-processing order.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("send queue full, dropping message", "player.id", c.Username())
	}
}
