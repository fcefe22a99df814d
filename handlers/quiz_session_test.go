package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOptions_PadsToFour(t *testing.T) {
	options := GenerateOptions("Madrid", []string{"Paris"})

	assert.Len(t, options, 4)
	assert.Contains(t, options, "Madrid")
	assert.Contains(t, options, "Paris")
}

func TestGenerateOptions_NoDistractors(t *testing.T) {
	options := GenerateOptions("42", nil)

	assert.Len(t, options, 4)
	assert.Contains(t, options, "42")
}

func TestGenerateOptions_FullSet(t *testing.T) {
	options := GenerateOptions("a", []string{"b", "c", "d"})

	assert.Len(t, options, 4)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, options)
}

func TestGenerateOptions_KeepsExtraDistractors(t *testing.T) {
	options := GenerateOptions("a", []string{"b", "c", "d", "e", "f"})

	// More than three distractors means more than four options; none of
	// them get dropped and no filler is added.
	assert.Len(t, options, 6)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f"}, options)
}

func TestGenerateOptions_SkipsEmptyDistractors(t *testing.T) {
	options := GenerateOptions("a", []string{"", "b", ""})

	assert.Len(t, options, 4)
	assert.Contains(t, options, "a")
	assert.Contains(t, options, "b")
	assert.NotContains(t, options, "")
}

func TestGenerateOptions_CorrectAlwaysPresent(t *testing.T) {
	// Shuffle must never lose the correct answer, whatever the mix.
	for i := 0; i < 50; i++ {
		options := GenerateOptions("right", []string{"w1", "w2", "w3", "w4", "w5"})
		assert.Contains(t, options, "right")
	}
}

func TestValidateQuestion(t *testing.T) {
	valid := QuestionRequest{
		Text:          "Capital of France?",
		CorrectAnswer: "Paris",
		Distractors:   []string{"Madrid", "Rome"},
	}
	assert.NoError(t, validateQuestion(valid))

	tests := []struct {
		name string
		q    QuestionRequest
	}{
		{"missing text", QuestionRequest{CorrectAnswer: "Paris", Distractors: []string{"a", "b"}}},
		{"missing answer", QuestionRequest{Text: "q", Distractors: []string{"a", "b"}}},
		{"one distractor", QuestionRequest{Text: "q", CorrectAnswer: "a", Distractors: []string{"b"}}},
		{"empty distractor", QuestionRequest{Text: "q", CorrectAnswer: "a", Distractors: []string{"b", ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateQuestion(tt.q))
		})
	}
}
