// handlers/progression.go - Level and streak progression view
package handlers

import (
	"flashlearn/database"
	"flashlearn/gamification"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
)

// GetProgression returns the caller's level standing, how far they are into
// the current level, and their recent quiz history.
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	level := user.CurrentLevel
	if level < 1 {
		level = gamification.LevelForPoints(user.TotalPoints)
	}

	floor := gamification.PointsForLevel(level)
	ceiling := gamification.PointsForLevel(level + 1)

	// Progress within the current level, 0-100. The top level has no
	// ceiling, so it always reads full.
	progressPercent := 100
	pointsToNext := 0
	if level < gamification.MaxLevel && ceiling > floor {
		pointsToNext = ceiling - user.TotalPoints
		if pointsToNext < 0 {
			pointsToNext = 0
		}
		progressPercent = (user.TotalPoints - floor) * 100 / (ceiling - floor)
		if progressPercent > 100 {
			progressPercent = 100
		}
		if progressPercent < 0 {
			progressPercent = 0
		}
	}

	var results []models.QuizResult
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(10).Find(&results).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch quiz history"})
	}

	recentResults := make([]fiber.Map, len(results))
	for i, r := range results {
		var quiz models.Quiz
		quizTitle := ""
		if err := db.Select("title").First(&quiz, r.QuizID).Error; err == nil {
			quizTitle = quiz.Title
		}
		recentResults[i] = fiber.Map{
			"quiz_id":         r.QuizID,
			"quiz_title":      quizTitle,
			"correct_count":   r.CorrectCount,
			"total_questions": r.TotalQuestions,
			"percentage":      r.Percentage,
			"points_earned":   r.PointsEarned,
			"timestamp":       r.CreatedAt,
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"progression": fiber.Map{
			"level":               level,
			"max_level":           gamification.MaxLevel,
			"total_points":        user.TotalPoints,
			"points_to_next":      pointsToNext,
			"progress_percent":    progressPercent,
			"streak_days":         user.StreakDays,
			"best_streak":         user.BestStreak,
			"recent_quiz_results": recentResults,
		},
	})
}
