// models/user.go
package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`

	// Gamification. CurrentLevel is derived from TotalPoints plus the
	// learned-card and streak bonuses; it is stored for display but always
	// recomputed by the gamification service on every points change.
	TotalPoints  int `gorm:"default:0" json:"total_points"`
	CurrentLevel int `gorm:"default:1" json:"current_level"`

	// Streaks
	StreakDays     int        `gorm:"default:0" json:"streak_days"`
	BestStreak     int        `gorm:"default:0" json:"best_streak"`
	LastActivityAt *time.Time `json:"last_activity_at"`

	// MonthlyProgress maps a 3-letter month key ("ene".."dic") to a count of
	// items learned/answered that month, stored as JSON. Keys carry no year
	// dimension, so counts never reset across years.
	MonthlyProgress string `gorm:"type:text;default:'{}'" json:"-"`

	// LastStudiedSetID references the most recently studied set, which may
	// live in another user's namespace when studying a catalog set.
	LastStudiedSetID *uint `json:"last_studied_set_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	Sets    []FlashcardSet `gorm:"foreignKey:OwnerID" json:"sets,omitempty"`
	Quizzes []Quiz         `gorm:"foreignKey:OwnerID" json:"quizzes,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// MonthlyProgressMap decodes the stored JSON counters. A corrupt or empty
// column decodes to an empty map rather than an error.
func (u *User) MonthlyProgressMap() map[string]int {
	progress := map[string]int{}
	if u.MonthlyProgress != "" {
		_ = json.Unmarshal([]byte(u.MonthlyProgress), &progress)
	}
	return progress
}

// SetMonthlyProgressMap re-encodes the counters for persistence.
func (u *User) SetMonthlyProgressMap(progress map[string]int) {
	data, err := json.Marshal(progress)
	if err != nil {
		return
	}
	u.MonthlyProgress = string(data)
}
