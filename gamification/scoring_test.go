package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizPercentage(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"empty quiz", 0, 0, 0},
		{"all wrong", 0, 10, 0},
		{"perfect", 10, 10, 100},
		{"seven of ten", 7, 10, 70},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
		{"half of three rounds up", 1, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuizPercentage(tt.correct, tt.total))
		})
	}
}

func TestQuizPoints(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"empty quiz", 0, 0, 0},
		{"all wrong", 0, 10, 0},
		{"perfect ten", 10, 10, 50},
		{"seven of ten", 7, 10, 35},
		{"two of three", 2, 3, 15},
		{"one of three", 1, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuizPoints(tt.correct, tt.total))
		})
	}
}

func TestQuizPoints_NeverNegative(t *testing.T) {
	for correct := 0; correct <= 20; correct++ {
		for total := correct; total <= 20; total++ {
			assert.GreaterOrEqual(t, QuizPoints(correct, total), 0)
		}
	}
}
