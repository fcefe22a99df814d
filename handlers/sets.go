// handlers/sets.go - Flashcard set and card CRUD
package handlers

import (
	"log"
	"time"

	"flashlearn/database"
	"flashlearn/gamification"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SetRequest struct {
	Title         string        `json:"title"`
	Subject       string        `json:"subject"`
	Description   string        `json:"description"`
	CoverImageURL string        `json:"cover_image_url"`
	Cards         []CardRequest `json:"cards"`
}

// GetSets lists the caller's own sets, newest first, with card counts.
func GetSets(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var sets []models.FlashcardSet
	if err := db.Where("owner_id = ?", userID).Order("created_at DESC").Find(&sets).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sets"})
	}

	setsData := make([]fiber.Map, len(sets))
	for i, set := range sets {
		var cardCount int64
		db.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&cardCount)

		setsData[i] = fiber.Map{
			"id":              set.ID,
			"title":           set.Title,
			"subject":         set.Subject,
			"description":     set.Description,
			"cover_image_url": set.CoverImageURL,
			"is_public":       set.IsPublic,
			"is_copy":         set.IsCopy,
			"copy_count":      set.CopyCount,
			"card_count":      cardCount,
			"created_at":      set.CreatedAt,
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sets":    setsData,
		"total":   len(setsData),
	})
}

// GetSet returns one set with its cards in display order. The caller's own
// sets are checked first, then the public catalog (same cascade as study).
func GetSet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}

	db := database.GetDB()

	set, err := findReadableSet(db, userID, uint(setID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	cards, err := loadCardsOrdered(db, set.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cards"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"set":     set,
		"cards":   cards,
		"count":   len(cards),
	})
}

// CreateSet creates a set with its initial cards (sequenced in request
// order) and awards the set-created points.
func CreateSet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req SetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Set title is required"})
	}

	db := database.GetDB()

	set := models.FlashcardSet{
		OwnerID:       userID,
		Title:         req.Title,
		Subject:       req.Subject,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		CreatedAt:     time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}
		for i, card := range req.Cards {
			if card.Question == "" || card.Answer == "" {
				continue
			}
			flashcard := models.Flashcard{
				SetID:    set.ID,
				Question: card.Question,
				Answer:   card.Answer,
				Position: i,
			}
			if err := tx.Create(&flashcard).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create set"})
	}

	award, err := gamify.AwardPoints(userID, gamification.PointsFor(gamification.ReasonSetCreated), gamification.ReasonSetCreated)
	if err != nil {
		log.Printf("Failed to award set-created points for user %d: %v", userID, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"set":     set,
		"award":   award,
	})
}

// UpdateSet updates set metadata and, when a cards array is present,
// replaces the card list wholesale with fresh sequencing.
func UpdateSet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}

	var req SetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"updated_at": time.Now()}
		if req.Title != "" {
			updates["title"] = req.Title
		}
		if req.Subject != "" {
			updates["subject"] = req.Subject
		}
		if req.Description != "" {
			updates["description"] = req.Description
		}
		if req.CoverImageURL != "" {
			updates["cover_image_url"] = req.CoverImageURL
		}
		if err := tx.Model(&set).Updates(updates).Error; err != nil {
			return err
		}

		if req.Cards == nil {
			return nil
		}

		// Full replacement: edit mode saves the whole card list back.
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		for i, card := range req.Cards {
			if card.Question == "" || card.Answer == "" {
				continue
			}
			flashcard := models.Flashcard{
				SetID:    set.ID,
				Question: card.Question,
				Answer:   card.Answer,
				Position: i,
			}
			if err := tx.Create(&flashcard).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update set"})
	}

	return c.JSON(fiber.Map{"success": true, "set": set})
}

// DeleteSet removes a set and all of its cards (cards first) along with any
// catalog entry pointing at it.
func DeleteSet(c *fiber.Ctx) error {
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
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", "set", set.ID).
			Delete(&models.CatalogEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&set).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete set"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// AddCard inserts a card at the end (or at an explicit position) and
// re-sequences the set.
func AddCard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}

	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Position *int   `json:"order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Question == "" || req.Answer == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Question and answer are required"})
	}

	db := database.GetDB()

	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	var card models.Flashcard
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&count).Error; err != nil {
			return err
		}

		position := int(count)
		if req.Position != nil && *req.Position >= 0 && *req.Position < position {
			position = *req.Position
			// Shift the tail down to open the slot.
			if err := tx.Model(&models.Flashcard{}).
				Where("set_id = ? AND position >= ?", set.ID, position).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		}

		card = models.Flashcard{
			SetID:    set.ID,
			Question: req.Question,
			Answer:   req.Answer,
			Position: position,
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		return resequenceCards(tx, set.ID)
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to add card"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "card": card})
}

// UpdateCard edits a card's question/answer.
func UpdateCard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}
	cardID, err := c.ParamsInt("cardId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid card id"})
	}

	var req CardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	var card models.Flashcard
	if err := db.Where("id = ? AND set_id = ?", cardID, set.ID).First(&card).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Card not found"})
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Question != "" {
		updates["question"] = req.Question
	}
	if req.Answer != "" {
		updates["answer"] = req.Answer
	}
	if err := db.Model(&card).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update card"})
	}

	return c.JSON(fiber.Map{"success": true, "card": card})
}

// DeleteCard removes a card and closes the gap in the sequence.
func DeleteCard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	setID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid set id"})
	}
	cardID, err := c.ParamsInt("cardId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid card id"})
	}

	db := database.GetDB()

	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Set not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND set_id = ?", cardID, set.ID).Delete(&models.Flashcard{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return resequenceCards(tx, set.ID)
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Card not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete card"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// findReadableSet resolves a set the user may study: their own first, then
// anything flagged public. One lookup path for both visibilities.
func findReadableSet(db *gorm.DB, userID, setID uint) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	if err := db.Where("id = ? AND owner_id = ?", setID, userID).First(&set).Error; err == nil {
		return &set, nil
	}
	if err := db.Where("id = ? AND is_public = ?", setID, true).First(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

// loadCardsOrdered returns a set's cards by ascending position. Ties (and
// the all-zero legacy case where no card carries a position) fall back to
// insertion order via id.
func loadCardsOrdered(db *gorm.DB, setID uint) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := db.Where("set_id = ?", setID).Order("position ASC, id ASC").Find(&cards).Error
	return cards, err
}

// resequenceCards rewrites positions to a dense 0..n-1 run in current
// display order, so inserts and deletes never leave gaps or duplicates.
func resequenceCards(tx *gorm.DB, setID uint) error {
	cards, err := loadCardsOrdered(tx, setID)
	if err != nil {
		return err
	}
	for _, card := range cardsToResequence(cards) {
		if err := tx.Model(&models.Flashcard{}).Where("id = ?", card.ID).
			Update("position", card.Position).Error; err != nil {
			return err
		}
	}
	return nil
}

// cardsToResequence takes cards already in display order and returns the
// ones whose position must change for the list to carry a dense 0..n-1 run.
// An already-dense list yields nothing to write.
func cardsToResequence(cards []models.Flashcard) []models.Flashcard {
	var changed []models.Flashcard
	for i := range cards {
		if cards[i].Position != i {
			cards[i].Position = i
			changed = append(changed, cards[i])
		}
	}
	return changed
}
