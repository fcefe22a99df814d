// handlers/study.go - Flashcard study sessions
package handlers

import (
	"fmt"
	"log"
	"time"

	"flashlearn/database"
	"flashlearn/gamification"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StartStudy opens a study session over a set. The card order is snapshotted
// at start so concurrent edits to the set cannot shift cards under the
// session's feet.
func StartStudy(c *fiber.Ctx) error {
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
	if len(cards) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Set has no cards to study"})
	}

	cardIDs := make([]uint, len(cards))
	for i, card := range cards {
		cardIDs[i] = card.ID
	}

	session := models.StudySession{
		Token:      uuid.New().String(),
		UserID:     userID,
		SetID:      set.ID,
		SetOwnerID: set.OwnerID,
		CardIndex:  0,
		CardCount:  len(cards),
		Status:     models.SessionActive,
		StartedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := session.SetCardIDs(cardIDs); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start session"})
	}
	if err := db.Create(&session).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start session"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"session":    session.Token,
		"set_title":  set.Title,
		"card_count": session.CardCount,
		"card":       studyCardPayload(db, &session),
	})
}

// GetStudyState returns the session's current card and position.
func GetStudyState(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	session, err := findStudySession(db, userID, c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session not found"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"status":     session.Status,
		"card_index": session.CardIndex,
		"card_count": session.CardCount,
		"card":       studyCardPayload(db, session),
	})
}

// NextCard advances the session one card. Advancing past the last card
// closes the session and records the day's activity.
func NextCard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	session, err := findStudySession(db, userID, c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Status != models.SessionActive {
		return c.Status(400).JSON(fiber.Map{"error": "Session already finished"})
	}

	if session.CardIndex >= session.CardCount-1 {
		return finishStudySession(c, db, session)
	}

	session.CardIndex++
	session.UpdatedAt = time.Now()
	if err := db.Model(session).Updates(map[string]interface{}{
		"card_index": session.CardIndex,
		"updated_at": session.UpdatedAt,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to advance session"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"status":     session.Status,
		"card_index": session.CardIndex,
		"card_count": session.CardCount,
		"card":       studyCardPayload(db, session),
	})
}

// PrevCard steps the session back one card. Already at the first card is a
// no-op, not an error.
func PrevCard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	session, err := findStudySession(db, userID, c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Status != models.SessionActive {
		return c.Status(400).JSON(fiber.Map{"error": "Session already finished"})
	}

	if session.CardIndex > 0 {
		session.CardIndex--
		session.UpdatedAt = time.Now()
		if err := db.Model(session).Updates(map[string]interface{}{
			"card_index": session.CardIndex,
			"updated_at": session.UpdatedAt,
		}).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to rewind session"})
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"status":     session.Status,
		"card_index": session.CardIndex,
		"card_count": session.CardCount,
		"card":       studyCardPayload(db, session),
	})
}

// MarkLearned flags the session's current card as learned without
// advancing. Finishing the session does the same for the last card, so this
// exists for mid-session marking.
func MarkLearned(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	session, err := findStudySession(db, userID, c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Status != models.SessionActive {
		return c.Status(400).JSON(fiber.Map{"error": "Session already finished"})
	}

	// Learned-state lives on the owner's cards. Studying someone else's
	// public set is read-only until the user copies it into their library.
	if session.SetOwnerID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "Copy this set to your library to track progress"})
	}

	card, award, alreadyLearned, err := learnSessionCard(db, session)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update card"})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"card":            card,
		"award":           award,
		"already_learned": alreadyLearned,
	})
}

// learnSessionCard marks the session's current card learned and settles the
// per-card gamification. The learned write is idempotent but the points are
// not: reviewing an already-learned card pays again. Mastery is pinned at 1.
func learnSessionCard(db *gorm.DB, session *models.StudySession) (*models.Flashcard, gamification.Award, bool, error) {
	cardIDs, err := session.CardIDs()
	if err != nil || session.CardIndex >= len(cardIDs) {
		return nil, gamification.Award{}, false, fmt.Errorf("corrupt session state for session %s", session.Token)
	}

	var card models.Flashcard
	if err := db.First(&card, cardIDs[session.CardIndex]).Error; err != nil {
		return nil, gamification.Award{}, false, err
	}

	now := time.Now()
	alreadyLearned := card.Learned
	if err := db.Model(&card).Updates(map[string]interface{}{
		"learned":          true,
		"mastery_level":    1,
		"last_reviewed_at": now,
	}).Error; err != nil {
		return nil, gamification.Award{}, false, err
	}
	card.Learned = true
	card.MasteryLevel = 1
	card.LastReviewedAt = &now

	award, err := gamify.AwardPoints(session.UserID, gamification.PointsFor(gamification.ReasonFlashcardLearned), gamification.ReasonFlashcardLearned)
	if err != nil {
		log.Printf("Failed to award learned-card points for user %d: %v", session.UserID, err)
	}
	if err := gamify.IncrementMonthlyProgress(session.UserID, 1); err != nil {
		log.Printf("Failed to bump monthly progress for user %d: %v", session.UserID, err)
	}

	return &card, award, alreadyLearned, nil
}

// finishStudySession closes out a session after the user advances past the
// last card: that card gets marked learned (when the set is the user's own),
// the day's activity is recorded, and the set becomes the resume target.
// Gamification failures must not hide the finished state from the caller.
func finishStudySession(c *fiber.Ctx, db *gorm.DB, session *models.StudySession) error {
	var award gamification.Award
	if session.SetOwnerID == session.UserID {
		if _, a, _, err := learnSessionCard(db, session); err != nil {
			log.Printf("Failed to mark final card learned for user %d: %v", session.UserID, err)
		} else {
			award = a
		}
	}

	if err := db.Model(session).Updates(map[string]interface{}{
		"status":     models.SessionFinished,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to finish session"})
	}

	streak, err := gamify.RecordActivity(session.UserID, time.Now())
	if err != nil {
		log.Printf("Failed to record study activity for user %d: %v", session.UserID, err)
	}
	if err := gamify.MarkLastStudied(session.UserID, session.SetID); err != nil {
		log.Printf("Failed to mark last-studied set for user %d: %v", session.UserID, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"status":     models.SessionFinished,
		"card_index": session.CardIndex,
		"card_count": session.CardCount,
		"award":      award,
		"streak":     streak,
	})
}

func findStudySession(db *gorm.DB, userID uint, token string) (*models.StudySession, error) {
	var session models.StudySession
	err := db.Where("token = ? AND user_id = ?", token, userID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func studyCardPayload(db *gorm.DB, session *models.StudySession) fiber.Map {
	cardIDs, err := session.CardIDs()
	if err != nil || session.CardIndex < 0 || session.CardIndex >= len(cardIDs) {
		return nil
	}

	var card models.Flashcard
	if err := db.First(&card, cardIDs[session.CardIndex]).Error; err != nil {
		return nil
	}

	return fiber.Map{
		"id":       card.ID,
		"question": card.Question,
		"answer":   card.Answer,
		"learned":  card.Learned,
	}
}
