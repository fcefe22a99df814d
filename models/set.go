// models/set.go - Flashcard sets and their ordered cards
package models

import (
	"time"
)

// FlashcardSet is a named collection of flashcards owned by a user. A set
// becomes visible in the shared catalog when IsPublic is true and a
// CatalogEntry points back at it.
type FlashcardSet struct {
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

	Cards []Flashcard `json:"cards,omitempty" gorm:"foreignKey:SetID"`
}

// Flashcard belongs to a set. Display order is the explicit Position field,
// re-sequenced on insert/delete; collection order is never relied on.
type Flashcard struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SetID    uint   `json:"set_id" gorm:"not null;index"`
	Question string `json:"question" gorm:"not null;type:text"`
	Answer   string `json:"answer" gorm:"not null;type:text"`
	Position int    `json:"order" gorm:"default:0"`

	// Learned and MasteryLevel are mutated only by the study session
	// controller. MasteryLevel is 0 or 1 in the current design.
	Learned        bool       `json:"learned" gorm:"default:false"`
	MasteryLevel   int        `json:"mastery_level" gorm:"default:0"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FlashcardSet) TableName() string {
	return "flashcard_sets"
}

func (Flashcard) TableName() string {
	return "flashcards"
}
