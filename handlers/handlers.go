// handlers/handlers.go - Shared handler wiring
package handlers

import (
	"flashlearn/gamification"
)

// gamify is the single entry point for every profile mutation (points,
// streaks, monthly progress). Handlers never write user gamification fields
// directly; see InitHandlers.
var gamify *gamification.Service

// InitHandlers injects the gamification service. Must be called before any
// route is served.
func InitHandlers(service *gamification.Service) {
	gamify = service
}
