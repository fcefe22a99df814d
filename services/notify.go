package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// NotificationHub pushes gamification toasts (level-ups, streak milestones)
// to connected clients over WebSocket. A user may hold several connections
// at once (multiple tabs); every one of them gets the toast.
type NotificationHub struct {
	mu    sync.RWMutex
	conns map[uint]map[*websocket.Conn]bool
}

var notificationHub *NotificationHub

// InitNotificationHub initializes the singleton hub.
func InitNotificationHub() {
	notificationHub = &NotificationHub{
		conns: make(map[uint]map[*websocket.Conn]bool),
	}
}

// GetNotificationHub returns the initialized hub.
func GetNotificationHub() *NotificationHub {
	return notificationHub
}

// Register adds a connection for a user.
func (h *NotificationHub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
	log.Printf("🔔 User %d connected to notifications (%d connections)", userID, len(h.conns[userID]))
}

// Unregister removes a connection for a user.
func (h *NotificationHub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Show implements gamification.Notifier. Delivery is best-effort: a dead
// connection drops its message and gets cleaned up on the next read error.
func (h *NotificationHub) Show(userID uint, message, level string) {
	payload, err := json.Marshal(map[string]string{
		"type":    "toast",
		"message": message,
		"level":   level,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Failed to push notification to user %d: %v", userID, err)
		}
	}
}
