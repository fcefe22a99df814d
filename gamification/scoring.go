// gamification/scoring.go - Quiz score to points conversion
package gamification

import (
	"math"
)

// QuizPercentage rounds 100*correct/total to the nearest integer. Zero
// questions scores zero.
func QuizPercentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// QuizPoints converts a quiz outcome to points:
// ceil(total * percentage / 100) * 5.
func QuizPoints(correct, total int) int {
	pct := QuizPercentage(correct, total)
	return int(math.Ceil(float64(total)*float64(pct)/100)) * 5
}
