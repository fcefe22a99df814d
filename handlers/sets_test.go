package handlers

import (
	"testing"

	"flashlearn/models"

	"github.com/stretchr/testify/assert"
)

func cardsAt(positions ...int) []models.Flashcard {
	cards := make([]models.Flashcard, len(positions))
	for i, p := range positions {
		cards[i] = models.Flashcard{ID: uint(i + 1), Position: p}
	}
	return cards
}

func TestCardsToResequence_AlreadyDense(t *testing.T) {
	changed := cardsToResequence(cardsAt(0, 1, 2, 3))
	assert.Empty(t, changed, "a dense list needs no writes")
}

func TestCardsToResequence_ClosesDeleteGap(t *testing.T) {
	// Deleting the card at position 1 leaves 0,2,3: the tail shifts down.
	changed := cardsToResequence(cardsAt(0, 2, 3))

	assert.Len(t, changed, 2)
	assert.Equal(t, uint(2), changed[0].ID)
	assert.Equal(t, 1, changed[0].Position)
	assert.Equal(t, uint(3), changed[1].ID)
	assert.Equal(t, 2, changed[1].Position)
}

func TestCardsToResequence_LegacyAllZero(t *testing.T) {
	// Cards that never carried a position (all zero) come in id order and
	// get assigned their index.
	changed := cardsToResequence(cardsAt(0, 0, 0))

	assert.Len(t, changed, 2)
	assert.Equal(t, 1, changed[0].Position)
	assert.Equal(t, 2, changed[1].Position)
}

func TestCardsToResequence_RoundTrips(t *testing.T) {
	cards := cardsAt(0, 5, 2, 9, 9)
	for _, card := range cardsToResequence(cards) {
		for i := range cards {
			if cards[i].ID == card.ID {
				cards[i].Position = card.Position
			}
		}
	}

	// After applying the writes the list is dense and a second pass finds
	// nothing left to fix.
	for i, card := range cards {
		assert.Equal(t, i, card.Position)
	}
	assert.Empty(t, cardsToResequence(cards))
}
