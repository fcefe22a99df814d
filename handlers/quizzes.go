// handlers/quizzes.go - Quiz and question CRUD
package handlers

import (
	"time"

	"flashlearn/database"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuestionRequest struct {
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correct_answer"`
	Distractors   []string `json:"distractors"`
}

type QuizRequest struct {
	Title         string            `json:"title"`
	Subject       string            `json:"subject"`
	Description   string            `json:"description"`
	CoverImageURL string            `json:"cover_image_url"`
	Questions     []QuestionRequest `json:"questions"`
}

// GetQuizzes lists the caller's own quizzes, newest first.
func GetQuizzes(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var quizzes []models.Quiz
	if err := db.Where("owner_id = ?", userID).Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch quizzes"})
	}

	quizzesData := make([]fiber.Map, len(quizzes))
	for i, quiz := range quizzes {
		var questionCount int64
		db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount)

		quizzesData[i] = fiber.Map{
			"id":              quiz.ID,
			"title":           quiz.Title,
			"subject":         quiz.Subject,
			"description":     quiz.Description,
			"cover_image_url": quiz.CoverImageURL,
			"is_public":       quiz.IsPublic,
			"is_copy":         quiz.IsCopy,
			"copy_count":      quiz.CopyCount,
			"question_count":  questionCount,
			"created_at":      quiz.CreatedAt,
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"quizzes": quizzesData,
		"total":   len(quizzesData),
	})
}

// GetQuiz returns one quiz with its questions in authoring order. Correct
// answers and distractors are included: this is the edit view, not play.
func GetQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	db := database.GetDB()

	quiz, err := findReadableQuiz(db, userID, uint(quizID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quiz not found"})
	}

	questions, err := loadQuestionsOrdered(db, quiz.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	questionsData := make([]fiber.Map, len(questions))
	for i, q := range questions {
		questionsData[i] = fiber.Map{
			"id":             q.ID,
			"text":           q.Text,
			"correct_answer": q.CorrectAnswer,
			"distractors":    q.DistractorList(),
			"order":          q.Position,
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"quiz":      quiz,
		"questions": questionsData,
		"count":     len(questionsData),
	})
}

// CreateQuiz creates a quiz with its questions. Every question needs a
// correct answer plus at least two distractors.
func CreateQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Quiz title is required"})
	}
	for i, q := range req.Questions {
		if err := validateQuestion(q); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error(), "question": i})
		}
	}

	db := database.GetDB()

	quiz := models.Quiz{
		OwnerID:       userID,
		Title:         req.Title,
		Subject:       req.Subject,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		CreatedAt:     time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for i, q := range req.Questions {
			question := models.QuizQuestion{
				QuizID:        quiz.ID,
				Text:          q.Text,
				CorrectAnswer: q.CorrectAnswer,
				Position:      i,
			}
			question.SetDistractorList(q.Distractors)
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "quiz": quiz})
}

// UpdateQuiz updates quiz metadata and, when a questions array is present,
// replaces the question list wholesale.
func UpdateQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	for i, q := range req.Questions {
		if err := validateQuestion(q); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error(), "question": i})
		}
	}

	db := database.GetDB()

	var quiz models.Quiz
	if err := db.Where("id = ? AND owner_id = ?", quizID, userID).First(&quiz).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quiz not found"})
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
		if err := tx.Model(&quiz).Updates(updates).Error; err != nil {
			return err
		}

		if req.Questions == nil {
			return nil
		}

		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i, q := range req.Questions {
			question := models.QuizQuestion{
				QuizID:        quiz.ID,
				Text:          q.Text,
				CorrectAnswer: q.CorrectAnswer,
				Position:      i,
			}
			question.SetDistractorList(q.Distractors)
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update quiz"})
	}

	return c.JSON(fiber.Map{"success": true, "quiz": quiz})
}

// DeleteQuiz removes a quiz, its questions, and any catalog entry pointing
// at it. Past results stay: the history is append-only.
func DeleteQuiz(c *fiber.Ctx) error {
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
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", "quiz", quiz.ID).
			Delete(&models.CatalogEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete quiz"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func validateQuestion(q QuestionRequest) error {
	if q.Text == "" {
		return fiber.NewError(400, "Question text is required")
	}
	if q.CorrectAnswer == "" {
		return fiber.NewError(400, "Correct answer is required")
	}
	if len(q.Distractors) < 2 {
		return fiber.NewError(400, "At least 2 incorrect options are required")
	}
	for _, d := range q.Distractors {
		if d == "" {
			return fiber.NewError(400, "Incorrect options cannot be empty")
		}
	}
	return nil
}

// findReadableQuiz resolves a quiz the user may play: their own first, then
// anything flagged public.
func findReadableQuiz(db *gorm.DB, userID, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := db.Where("id = ? AND owner_id = ?", quizID, userID).First(&quiz).Error; err == nil {
		return &quiz, nil
	}
	if err := db.Where("id = ? AND is_public = ?", quizID, true).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func loadQuestionsOrdered(db *gorm.DB, quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := db.Where("quiz_id = ?", quizID).Order("position ASC, id ASC").Find(&questions).Error
	return questions, err
}
