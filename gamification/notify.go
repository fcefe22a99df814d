// gamification/notify.go
package gamification

// Notifier is the toast collaborator: fire-and-forget user-facing messages
// (level-ups, streak milestones). Implementations must never block the
// caller; the engine ignores delivery failures.
type Notifier interface {
	Show(userID uint, message, level string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Show(userID uint, message, level string) {}
