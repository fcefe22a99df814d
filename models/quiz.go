// models/quiz.go - Quizzes, their questions and attempt results
package models

import (
	"encoding/json"
	"time"
)

// Quiz mirrors the set/card shape: a titled container of ordered questions.
type Quiz struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OwnerID       uint       `json:"owner_id" gorm:"not null;index"`
	Owner         *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Title         string     `json:"title" gorm:"not null;size:200"`
	Subject       string     `json:"subject" gorm:"size:100"`
	Description   string     `json:"description" gorm:"type:text"`
	CoverImageURL string     `json:"cover_image_url" gorm:"size:500"`
	IsPublic      bool       `json:"is_public" gorm:"default:false"`
	IsCopy        bool       `json:"is_copy" gorm:"default:false"`
	CopyCount     int        `json:"copy_count" gorm:"default:0"`
	SharedAt      *time.Time `json:"shared_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// QuizQuestion holds one correct answer plus at least two distractors,
// stored as a JSON array in a text column.
type QuizQuestion struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	QuizID        uint      `json:"quiz_id" gorm:"not null;index"`
	Text          string    `json:"text" gorm:"not null;type:text"`
	CorrectAnswer string    `json:"correct_answer" gorm:"not null;size:500"`
	Distractors   string    `json:"-" gorm:"not null;type:text"`
	Position      int       `json:"order" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuizResult is an append-only record of one completed attempt. It is never
// mutated after creation.
type QuizResult struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	QuizID         uint      `json:"quiz_id" gorm:"index"`
	CorrectCount   int       `json:"correct_count" gorm:"default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"default:0"`
	Percentage     int       `json:"percentage" gorm:"default:0"`
	PointsEarned   int       `json:"points_earned" gorm:"default:0"`
	CreatedAt      time.Time `json:"timestamp"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// DistractorList decodes the stored distractor array.
func (q *QuizQuestion) DistractorList() []string {
	var distractors []string
	if q.Distractors != "" {
		_ = json.Unmarshal([]byte(q.Distractors), &distractors)
	}
	return distractors
}

// SetDistractorList encodes the distractor array for persistence.
func (q *QuizQuestion) SetDistractorList(distractors []string) {
	data, err := json.Marshal(distractors)
	if err != nil {
		return
	}
	q.Distractors = string(data)
}
