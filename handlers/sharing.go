// handlers/sharing.go - Public catalog, share links, and copying
package handlers

import (
	"fmt"
	"os"
	"time"

	"flashlearn/database"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCatalog lists shared sets and quizzes, newest first. An optional
// ?type=set|quiz filter narrows the listing.
func GetCatalog(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Order("shared_at DESC")
	if resourceType := c.Query("type"); resourceType != "" {
		if resourceType != "set" && resourceType != "quiz" {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid resource type"})
		}
		query = query.Where("resource_type = ?", resourceType)
	}

	var entries []models.CatalogEntry
	if err := query.Find(&entries).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch catalog"})
	}

	entriesData := make([]fiber.Map, len(entries))
	for i, entry := range entries {
		var creator models.User
		creatorName := "Unknown"
		if err := db.Select("display_name", "username").First(&creator, entry.CreatorID).Error; err == nil {
			creatorName = creator.DisplayName
			if creatorName == "" {
				creatorName = creator.Username
			}
		}

		entriesData[i] = fiber.Map{
			"id":              entry.ID,
			"type":            entry.ResourceType,
			"resource_id":     entry.ResourceID,
			"title":           entry.Title,
			"subject":         entry.Subject,
			"description":     entry.Description,
			"cover_image_url": entry.CoverImageURL,
			"creator":         creatorName,
			"shared_at":       entry.SharedAt,
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entriesData,
		"total":   len(entriesData),
	})
}

// ResolveShared loads a shared resource from its share link parameters,
// with a content preview. Publicly reachable: share links work before
// login.
func ResolveShared(c *fiber.Ctx) error {
	resourceType := c.Query("type")
	resourceID := c.QueryInt("id")
	if resourceID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid resource id"})
	}

	db := database.GetDB()

	var entry models.CatalogEntry
	err := db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).First(&entry).Error
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Shared resource not found"})
	}

	resp := fiber.Map{
		"success": true,
		"entry": fiber.Map{
			"type":            entry.ResourceType,
			"resource_id":     entry.ResourceID,
			"title":           entry.Title,
			"subject":         entry.Subject,
			"description":     entry.Description,
			"cover_image_url": entry.CoverImageURL,
			"shared_at":       entry.SharedAt,
		},
	}

	switch entry.ResourceType {
	case "set":
		cards, err := loadCardsOrdered(db, entry.ResourceID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cards"})
		}
		preview := make([]fiber.Map, 0, len(cards))
		for _, card := range cards {
			preview = append(preview, fiber.Map{"question": card.Question, "answer": card.Answer})
		}
		resp["cards"] = preview
		resp["count"] = len(preview)
	case "quiz":
		questions, err := loadQuestionsOrdered(db, entry.ResourceID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch questions"})
		}
		// Preview shows question texts only; answers stay hidden until play.
		preview := make([]fiber.Map, 0, len(questions))
		for _, q := range questions {
			preview = append(preview, fiber.Map{"text": q.Text})
		}
		resp["questions"] = preview
		resp["count"] = len(preview)
	}

	return c.JSON(resp)
}

// ShareSet publishes a set to the catalog and returns its share link.
// Sharing twice refreshes the catalog entry instead of duplicating it.
func ShareSet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}

	db := database.GetDB()

	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&set).Updates(map[string]interface{}{
			"is_public": true,
			"shared_at": now,
		}).Error; err != nil {
			return err
		}
		return upsertCatalogEntry(tx, models.CatalogEntry{
			ResourceType:  "set",
			ResourceID:    set.ID,
			CreatorID:     userID,
			Title:         set.Title,
			Subject:       set.Subject,
			Description:   set.Description,
			CoverImageURL: set.CoverImageURL,
			SourcePath:    fmt.Sprintf("users/%d/sets/%d", userID, set.ID),
			SharedAt:      now,
		})
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to share set"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"share_link": shareLink("set", set.ID),
	})
}

// UnshareSet pulls a set out of the catalog and flips it private. Existing
// copies are untouched: they already belong to whoever copied them.
func UnshareSet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}

	db := database.GetDB()

	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&set).Updates(map[string]interface{}{
			"is_public": false,
			"shared_at": nil,
		}).Error; err != nil {
			return err
		}
		return tx.Where("resource_type = ? AND resource_id = ?", "set", set.ID).
			Delete(&models.CatalogEntry{}).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unshare set"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// CopySet duplicates a public set (or the caller's own) into the caller's
// library. The copy starts with cleared progress, a "(Copy)" title suffix,
// and no link back to the source beyond the copy counter.
func CopySet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}

	db := database.GetDB()

	source, err := findReadableSet(db, userID, uint(setID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	cards, err := loadCardsOrdered(db, source.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cards"})
	}

	copySet := models.FlashcardSet{
		OwnerID:       userID,
		Title:         source.Title + " (Copy)",
		Subject:       source.Subject,
		Description:   source.Description,
		CoverImageURL: source.CoverImageURL,
		IsCopy:        true,
		CreatedAt:     time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&copySet).Error; err != nil {
			return err
		}
		for i, card := range cards {
			fresh := models.Flashcard{
				SetID:    copySet.ID,
				Question: card.Question,
				Answer:   card.Answer,
				Position: i,
			}
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.FlashcardSet{}).Where("id = ?", source.ID).
			Update("copy_count", gorm.Expr("copy_count + 1")).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to copy set"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "set": copySet})
}

// ShareQuiz publishes a quiz to the catalog and returns its share link.
func ShareQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	db := database.GetDB()

	var quiz models.Quiz
	if err := db.Where("id = ? AND owner_id = ?", quizID, userID).First(&quiz).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quiz not found"})
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&quiz).Updates(map[string]interface{}{
			"is_public": true,
			"shared_at": now,
		}).Error; err != nil {
			return err
		}
		return upsertCatalogEntry(tx, models.CatalogEntry{
			ResourceType:  "quiz",
			ResourceID:    quiz.ID,
			CreatorID:     userID,
			Title:         quiz.Title,
			Subject:       quiz.Subject,
			Description:   quiz.Description,
			CoverImageURL: quiz.CoverImageURL,
			SourcePath:    fmt.Sprintf("users/%d/quizzes/%d", userID, quiz.ID),
			SharedAt:      now,
		})
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to share quiz"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"share_link": shareLink("quiz", quiz.ID),
	})
}

// UnshareQuiz pulls a quiz out of the catalog and flips it private.
func UnshareQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	db := database.GetDB()

	var quiz models.Quiz
	if err := db.Where("id = ? AND owner_id = ?", quizID, userID).First(&quiz).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quiz not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&quiz).Updates(map[string]interface{}{
			"is_public": false,
			"shared_at": nil,
		}).Error; err != nil {
			return err
		}
		return tx.Where("resource_type = ? AND resource_id = ?", "quiz", quiz.ID).
			Delete(&models.CatalogEntry{}).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unshare quiz"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// CopyQuiz duplicates a public quiz (or the caller's own) into the caller's
// library.
func CopyQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	db := database.GetDB()

	source, err := findReadableQuiz(db, userID, uint(quizID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quiz not found"})
	}

	questions, err := loadQuestionsOrdered(db, source.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	copyQuiz := models.Quiz{
		OwnerID:       userID,
		Title:         source.Title + " (Copy)",
		Subject:       source.Subject,
		Description:   source.Description,
		CoverImageURL: source.CoverImageURL,
		IsCopy:        true,
		CreatedAt:     time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&copyQuiz).Error; err != nil {
			return err
		}
		for i, q := range questions {
			fresh := models.QuizQuestion{
				QuizID:        copyQuiz.ID,
				Text:          q.Text,
				CorrectAnswer: q.CorrectAnswer,
				Distractors:   q.Distractors,
				Position:      i,
			}
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Quiz{}).Where("id = ?", source.ID).
			Update("copy_count", gorm.Expr("copy_count + 1")).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to copy quiz"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "quiz": copyQuiz})
}

// upsertCatalogEntry refreshes the existing entry for a resource or creates
// a new one.
func upsertCatalogEntry(tx *gorm.DB, entry models.CatalogEntry) error {
	var existing models.CatalogEntry
	err := tx.Where("resource_type = ? AND resource_id = ?", entry.ResourceType, entry.ResourceID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&entry).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&existing).Updates(map[string]interface{}{
		"title":           entry.Title,
		"subject":         entry.Subject,
		"description":     entry.Description,
		"cover_image_url": entry.CoverImageURL,
		"shared_at":       entry.SharedAt,
	}).Error
}

func shareLink(resourceType string, resourceID uint) string {
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return fmt.Sprintf("%s/shared?type=%s&id=%d", baseURL, resourceType, resourceID)
}
