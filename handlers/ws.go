// handlers/ws.go - WebSocket endpoint for gamification notifications
package handlers

import (
	"flashlearn/middleware"
	"flashlearn/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade gates the upgrade and authenticates the connection from
// a ?token= query parameter (browsers cannot set headers on WebSocket
// dials).
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := middleware.ParseToken(token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	c.Locals("wsUserId", uint(userIDFloat))
	return c.Next()
}

// NotificationSocket holds the connection open and feeds it into the hub.
// The read loop exists only to detect disconnects; clients never send
// anything meaningful.
var NotificationSocket = websocket.New(func(conn *websocket.Conn) {
	userID, ok := conn.Locals("wsUserId").(uint)
	if !ok {
		conn.Close()
		return
	}

	hub := services.GetNotificationHub()
	hub.Register(userID, conn)
	defer func() {
		hub.Unregister(userID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
})
