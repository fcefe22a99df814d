// models/session.go - Persisted study/quiz session state
//
// Sessions survive page refreshes: the controller state machine lives in
// these rows, addressed by an opaque token, with larger snapshots stored as
// JSON text columns.
package models

import (
	"encoding/json"
	"time"
)

const (
	SessionActive   = "active"
	SessionFinished = "finished"
)

// StudySession is the state machine behind per-set card iteration:
// Ready(CardIndex) moving within [0, CardCount-1], then Finished once the
// user advances past the last card.
type StudySession struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Token      string `json:"token" gorm:"uniqueIndex;not null;size:100"`
	UserID     uint   `json:"user_id" gorm:"not null;index"`
	SetID      uint   `json:"set_id" gorm:"not null;index"`
	SetOwnerID uint   `json:"set_owner_id" gorm:"not null"`

	CardIndex int `json:"card_index" gorm:"default:0"`
	CardCount int `json:"card_count" gorm:"default:0"`

	// CardIDsJSON snapshots the ordered card ids at session start so that
	// concurrent edits to the set cannot shift indices mid-session.
	CardIDsJSON string `json:"-" gorm:"type:text"`

	Status    string    `json:"status" gorm:"default:'active';size:20"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuizSession drives question iteration and scoring. Each question is
// Unanswered until submitted, then locked with its outcome recorded.
type QuizSession struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Token  string `json:"token" gorm:"uniqueIndex;not null;size:100"`
	UserID uint   `json:"user_id" gorm:"not null;index"`
	QuizID uint   `json:"quiz_id" gorm:"not null;index"`

	QuestionIndex  int `json:"question_index" gorm:"default:0"`
	TotalQuestions int `json:"total_questions" gorm:"default:0"`
	CorrectCount   int `json:"correct_count" gorm:"default:0"`

	// QuestionsJSON snapshots the shuffled questions with their generated
	// option sets; AnswersJSON accumulates one entry per submitted answer.
	QuestionsJSON string `json:"-" gorm:"type:text"`
	AnswersJSON   string `json:"-" gorm:"type:text;default:'[]'"`

	Status    string    `json:"status" gorm:"default:'active';size:20"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionQuestion is one snapshotted quiz question with its display options
// already generated and shuffled.
type SessionQuestion struct {
	QuestionID    uint     `json:"question_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// SessionAnswer records one locked-in answer.
type SessionAnswer struct {
	QuestionID uint   `json:"question_id"`
	Selected   string `json:"selected"`
	Correct    bool   `json:"correct"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}

func (s *StudySession) CardIDs() ([]uint, error) {
	var ids []uint
	if s.CardIDsJSON == "" {
		return ids, nil
	}
	err := json.Unmarshal([]byte(s.CardIDsJSON), &ids)
	return ids, err
}

func (s *StudySession) SetCardIDs(ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	s.CardIDsJSON = string(data)
	return nil
}

func (s *QuizSession) Questions() ([]SessionQuestion, error) {
	var questions []SessionQuestion
	if s.QuestionsJSON == "" {
		return questions, nil
	}
	err := json.Unmarshal([]byte(s.QuestionsJSON), &questions)
	return questions, err
}

func (s *QuizSession) SetQuestions(questions []SessionQuestion) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	s.QuestionsJSON = string(data)
	return nil
}

func (s *QuizSession) Answers() ([]SessionAnswer, error) {
	var answers []SessionAnswer
	if s.AnswersJSON == "" {
		return answers, nil
	}
	err := json.Unmarshal([]byte(s.AnswersJSON), &answers)
	return answers, err
}

func (s *QuizSession) SetAnswers(answers []SessionAnswer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	s.AnswersJSON = string(data)
	return nil
}
