// handlers/users.go - Profile and dashboard
package handlers

import (
	"time"

	"flashlearn/database"
	"flashlearn/gamification"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
)

// GetMe returns the caller's profile.
func GetMe(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"success": true, "user": userInfo(user)})
}

// UpdateMe updates display name and avatar. Identity fields (username,
// email, password) go through the auth endpoints, not here.
func UpdateMe(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.DisplayName != "" {
		updates["display_name"] = req.DisplayName
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	db.First(&user, userID)
	return c.JSON(fiber.Map{"success": true, "user": userInfo(user)})
}

// GetDashboard assembles the home-screen payload: points, level, streak,
// the monthly study chart, and the set to resume.
func GetDashboard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	progress := user.MonthlyProgressMap()

	// Fixed 12-bucket series in calendar order; months the user never
	// studied render as zero.
	months := gamification.MonthKeys()
	series := make([]fiber.Map, len(months))
	for i, key := range months {
		series[i] = fiber.Map{"month": key, "count": progress[key]}
	}

	now := time.Now()
	studiedToday := false
	if user.LastActivityAt != nil {
		y1, m1, d1 := user.LastActivityAt.Date()
		y2, m2, d2 := now.Date()
		studiedToday = y1 == y2 && m1 == m2 && d1 == d2
	}

	// Monday-based weekday index for the streak week strip.
	weekdayIndex := (int(now.Weekday()) + 6) % 7

	return c.JSON(fiber.Map{
		"success": true,
		"dashboard": fiber.Map{
			"total_points":  user.TotalPoints,
			"level":         user.CurrentLevel,
			"streak_days":   user.StreakDays,
			"best_streak":   user.BestStreak,
			"studied_today": studiedToday,
			"weekday_index": weekdayIndex,
			"current_month": gamification.MonthKey(now),
			"monthly_chart": series,
			"recent_set":    recentSetPayload(&user),
		},
	})
}

// recentSetPayload picks the set the home screen offers to resume: the last
// set actually studied, else the user's newest own set, else the newest
// catalog entry.
func recentSetPayload(user *models.User) fiber.Map {
	db := database.GetDB()

	if user.LastStudiedSetID != nil {
		var set models.FlashcardSet
		if err := db.First(&set, *user.LastStudiedSetID).Error; err == nil {
			return setSummary(&set, "last_studied")
		}
	}

	var set models.FlashcardSet
	if err := db.Where("owner_id = ?", user.ID).Order("created_at DESC").First(&set).Error; err == nil {
		return setSummary(&set, "newest_own")
	}

	var entry models.CatalogEntry
	if err := db.Where("resource_type = ?", "set").Order("shared_at DESC").First(&entry).Error; err == nil {
		if err := db.First(&set, entry.ResourceID).Error; err == nil {
			return setSummary(&set, "catalog")
		}
	}

	return nil
}

func setSummary(set *models.FlashcardSet, source string) fiber.Map {
	db := database.GetDB()
	var cardCount int64
	db.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&cardCount)

	return fiber.Map{
		"id":              set.ID,
		"title":           set.Title,
		"subject":         set.Subject,
		"cover_image_url": set.CoverImageURL,
		"card_count":      cardCount,
		"source":          source,
	}
}
