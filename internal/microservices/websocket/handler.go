package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// bearer auth already happened in middleware.AuthMiddleware
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades an authenticated request to the caller's live hold feed
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		// get user info from JWT middleware
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		// upgrade HTTP connection to WebSocket; Upgrade writes the error response itself
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Debug("websocket upgrade failed", "user_id", userID, "error", err)
			return
		}

		client := NewClient(uuid.NewString(), userID, conn, hub)
		if welcome, err := NewSystemMessage(userID, "connected").ToJSON(); err == nil {
			client.SendChannel <- welcome
		}
		if !hub.register(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
