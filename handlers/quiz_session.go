// handlers/quiz_session.go - Quiz play sessions and scoring
package handlers

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"flashlearn/database"
	"flashlearn/gamification"
	"flashlearn/middleware"
	"flashlearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const quizOptionCount = 4

// StartQuiz opens a play session over a quiz. Question order and the
// options shown for each question are shuffled once and snapshotted, so a
// refresh mid-game cannot reshuffle or leak a different option set.
func StartQuiz(c *fiber.Ctx) error {
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
	if len(questions) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Quiz has no questions"})
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	snapshot := make([]models.SessionQuestion, len(questions))
	for i, q := range questions {
		snapshot[i] = models.SessionQuestion{
			QuestionID:    q.ID,
			Text:          q.Text,
			Options:       GenerateOptions(q.CorrectAnswer, q.DistractorList()),
			CorrectAnswer: q.CorrectAnswer,
		}
	}

	session := models.QuizSession{
		Token:          uuid.New().String(),
		UserID:         userID,
		QuizID:         quiz.ID,
		QuestionIndex:  0,
		TotalQuestions: len(snapshot),
		Status:         models.SessionActive,
		StartedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := session.SetQuestions(snapshot); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start quiz"})
	}
	if err := session.SetAnswers([]models.SessionAnswer{}); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start quiz"})
	}
	if err := db.Create(&session).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start quiz"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success":         true,
		"session":         session.Token,
		"quiz_title":      quiz.Title,
		"total_questions": session.TotalQuestions,
		"question":        quizQuestionPayload(&session, snapshot),
	})
}

// GetQuizState returns the current question, or the final results once the
// session is finished.
func GetQuizState(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	session, err := findQuizSession(db, userID, c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session not found"})
	}

	if session.Status == models.SessionFinished {
		return c.JSON(fiber.Map{
			"success": true,
			"status":  session.Status,
			"results": quizResultsPayload(session),
		})
	}

	questions, err := session.Questions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Corrupt session state"})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"status":          session.Status,
		"question_index":  session.QuestionIndex,
		"total_questions": session.TotalQuestions,
		"question":        quizQuestionPayload(session, questions),
	})
}

// AnswerQuestion records the answer for the current question, reveals the
// correct one, and advances. Answering the last question closes the session
// and settles points, streak, and the permanent result row.
func AnswerQuestion(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	session, err := findQuizSession(db, userID, c.Params("token"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Status != models.SessionActive {
		return c.Status(400).JSON(fiber.Map{"error": "Session already finished"})
	}

	questions, err := session.Questions()
	if err != nil || session.QuestionIndex >= len(questions) {
		return c.Status(500).JSON(fiber.Map{"error": "Corrupt session state"})
	}
	answers, err := session.Answers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Corrupt session state"})
	}

	current := questions[session.QuestionIndex]
	correct := req.Answer == current.CorrectAnswer

	answers = append(answers, models.SessionAnswer{
		QuestionID: current.QuestionID,
		Selected:   req.Answer,
		Correct:    correct,
	})
	if correct {
		session.CorrectCount++
	}
	session.QuestionIndex++
	session.UpdatedAt = time.Now()
	if err := session.SetAnswers(answers); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record answer"})
	}

	finished := session.QuestionIndex >= session.TotalQuestions
	if finished {
		session.Status = models.SessionFinished
	}

	if err := db.Model(session).Updates(map[string]interface{}{
		"question_index": session.QuestionIndex,
		"correct_count":  session.CorrectCount,
		"answers_json":   session.AnswersJSON,
		"status":         session.Status,
		"updated_at":     session.UpdatedAt,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record answer"})
	}

	resp := fiber.Map{
		"success":         true,
		"correct":         correct,
		"correct_answer":  current.CorrectAnswer,
		"question_index":  session.QuestionIndex,
		"total_questions": session.TotalQuestions,
		"status":          session.Status,
	}

	if finished {
		resp["results"] = settleQuizSession(db, session)
	} else {
		resp["question"] = quizQuestionPayload(session, questions)
	}

	return c.JSON(resp)
}

// settleQuizSession pays out points, records the day's activity, and writes
// the append-only result row. Gamification failures are logged but never
// withhold the results from the player.
func settleQuizSession(db *gorm.DB, session *models.QuizSession) fiber.Map {
	percentage := gamification.QuizPercentage(session.CorrectCount, session.TotalQuestions)
	points := gamification.QuizPoints(session.CorrectCount, session.TotalQuestions)

	award, err := gamify.AwardPoints(session.UserID, points, gamification.ReasonQuizCompleted)
	if err != nil {
		log.Printf("Failed to award quiz points for user %d: %v", session.UserID, err)
	}
	if percentage == 100 {
		bonus := gamification.PointsFor(gamification.ReasonPerfectQuiz)
		if perfect, err := gamify.AwardPoints(session.UserID, bonus, gamification.ReasonPerfectQuiz); err != nil {
			log.Printf("Failed to award perfect-quiz bonus for user %d: %v", session.UserID, err)
		} else {
			points += perfect.PointsAwarded
			award = gamification.CombineAwards(award, perfect)
		}
	}
	streak, err := gamify.RecordActivity(session.UserID, time.Now())
	if err != nil {
		log.Printf("Failed to record quiz activity for user %d: %v", session.UserID, err)
	}
	if err := gamify.IncrementMonthlyProgress(session.UserID, session.TotalQuestions); err != nil {
		log.Printf("Failed to bump monthly progress for user %d: %v", session.UserID, err)
	}

	result := models.QuizResult{
		UserID:         session.UserID,
		QuizID:         session.QuizID,
		CorrectCount:   session.CorrectCount,
		TotalQuestions: session.TotalQuestions,
		Percentage:     percentage,
		PointsEarned:   points,
		CreatedAt:      time.Now(),
	}
	if err := db.Create(&result).Error; err != nil {
		log.Printf("Failed to persist quiz result for user %d: %v", session.UserID, err)
	}

	payload := quizResultsPayload(session)
	payload["points_earned"] = points
	payload["award"] = award
	payload["streak"] = streak
	return payload
}

// GenerateOptions builds the multiple-choice list for one question: the
// correct answer plus every configured distractor, padded with placeholder
// options when the author supplied fewer than three, then shuffled. Filler
// only ever pads up to four; extra distractors all stay in.
func GenerateOptions(correctAnswer string, distractors []string) []string {
	options := []string{correctAnswer}
	for _, d := range distractors {
		if d != "" {
			options = append(options, d)
		}
	}
	for i := len(options); i < quizOptionCount; i++ {
		options = append(options, fmt.Sprintf("Option %d", i+1))
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func findQuizSession(db *gorm.DB, userID uint, token string) (*models.QuizSession, error) {
	var session models.QuizSession
	err := db.Where("token = ? AND user_id = ?", token, userID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func quizQuestionPayload(session *models.QuizSession, questions []models.SessionQuestion) fiber.Map {
	if session.QuestionIndex < 0 || session.QuestionIndex >= len(questions) {
		return nil
	}
	q := questions[session.QuestionIndex]
	return fiber.Map{
		"question_id": q.QuestionID,
		"text":        q.Text,
		"options":     q.Options,
	}
}

func quizResultsPayload(session *models.QuizSession) fiber.Map {
	payload := fiber.Map{
		"correct_count":   session.CorrectCount,
		"total_questions": session.TotalQuestions,
		"percentage":      gamification.QuizPercentage(session.CorrectCount, session.TotalQuestions),
	}
	if answers, err := session.Answers(); err == nil {
		payload["answers"] = answers
	}
	return payload
}
