package controllers

import (
	"instituteadmin_go/middleware"
	"instituteadmin_go/services/dashboard"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade gates the upgrade behind JWT auth and marks the connection
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	c.Locals("ws_user_id", claims.UserID)
	return c.Next()
}

// HandleWebSocket attaches an upgraded connection to the dashboard hub
func HandleWebSocket(conn *fiberws.Conn) {
	userID, _ := conn.Locals("ws_user_id").(uint)

	hub := dashboard.Default()
	if hub == nil {
		conn.Close()
		return
	}
	hub.ServeFiberWS(conn, userID)
}

// GetWebSocketStats reports connected dashboard clients
func GetWebSocketStats(c *fiber.Ctx) error {
	count := 0
	if hub := dashboard.Default(); hub != nil {
		count = hub.GetClientCount()
	}

	return c.JSON(fiber.Map{
		"connected_clients": count,
	})
}
