package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Individual client connection handler

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before pong wait expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
)

type Client struct {
	ID          string          // unique client ID
	UserID      string          // user ID get from auth token(JWT.claims)
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound(chan <-) messages
	Hub         *Hub            // reference to the central Hub
}

// constructor new client
func NewClient(id, userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		Conn:        conn,
		SendChannel: make(chan []byte, 16),
		Hub:         hub,
	}
}

// ReadPump keeps the read deadline moving on pongs. The feed is one-way, anything the
// peer sends is discarded. Returns when the connection fails.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.logger.Debug("live client read failed", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

// WritePump sends queued messages and pings. The hub closes SendChannel to end it.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
