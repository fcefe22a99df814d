package handlers

import (
	"testing"
	"time"

	"flashlearn/models"

	"github.com/stretchr/testify/assert"
)

func TestUserInfo(t *testing.T) {
	email := "ana@example.com"
	created := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	user := models.User{
		ID:           42,
		Username:     "ana",
		Email:        &email,
		DisplayName:  "Ana",
		AvatarURL:    "https://cdn.example.com/ana.png",
		IsGuest:      false,
		TotalPoints:  310,
		CurrentLevel: 3,
		StreakDays:   4,
		CreatedAt:    created,
	}

	info := userInfo(user)

	assert.Equal(t, uint(42), info.ID)
	assert.Equal(t, "ana", info.Username)
	assert.Equal(t, "ana@example.com", info.Email)
	assert.Equal(t, "Ana", info.DisplayName)
	assert.Equal(t, 310, info.TotalPoints)
	assert.Equal(t, 3, info.Level)
	assert.Equal(t, 4, info.StreakDays)
	assert.Equal(t, created, info.CreatedAt)
}

func TestUserInfo_NilEmail(t *testing.T) {
	info := userInfo(models.User{ID: 7, Username: "Guest_abc", IsGuest: true})

	assert.Equal(t, "", info.Email)
	assert.True(t, info.IsGuest)
}
