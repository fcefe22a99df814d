package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPointsFor(t *testing.T) {
	assert.Equal(t, 15, PointsFor(ReasonFlashcardLearned))
	assert.Equal(t, 30, PointsFor(ReasonQuizCompleted))
	assert.Equal(t, 50, PointsFor(ReasonPerfectQuiz))
	assert.Equal(t, 10, PointsFor(ReasonDailyLogin))
	assert.Equal(t, 25, PointsFor(ReasonSetCreated))
	assert.Equal(t, 100, PointsFor(ReasonStreakWeek))
	assert.Equal(t, 300, PointsFor(ReasonStreakMonth))
	assert.Equal(t, 0, PointsFor("unknown_reason"))
}

func TestCombineAwards(t *testing.T) {
	base := Award{PointsAwarded: 50, Reason: ReasonQuizCompleted, NewTotal: 150, NewLevel: 2, LeveledUp: true}
	bonus := Award{PointsAwarded: 50, Reason: ReasonPerfectQuiz, NewTotal: 200, NewLevel: 2, LeveledUp: false}

	combined := CombineAwards(base, bonus)

	// The client sees one delta covering both grants: summed points, the
	// final running totals, and the level-up from either grant.
	assert.Equal(t, 100, combined.PointsAwarded)
	assert.Equal(t, "quiz_completed+perfect_quiz", combined.Reason)
	assert.Equal(t, 200, combined.NewTotal)
	assert.Equal(t, 2, combined.NewLevel)
	assert.True(t, combined.LeveledUp)
}

func TestCombineAwards_EmptySides(t *testing.T) {
	grant := Award{PointsAwarded: 35, Reason: ReasonQuizCompleted, NewTotal: 35, NewLevel: 1}

	assert.Equal(t, grant, CombineAwards(grant, Award{}))
	assert.Equal(t, grant, CombineAwards(Award{}, grant))
}

func TestFirstLoginOutcome(t *testing.T) {
	// A brand-new account's first login: streak becomes 1, the daily login
	// bonus is 10 points, and 10 points is still level 1.
	streak, persist := AdvanceStreak(0, nil, time.Now())
	assert.Equal(t, 1, streak)
	assert.True(t, persist)

	bonus := PointsFor(ReasonDailyLogin)
	assert.Equal(t, 10, bonus)
	assert.Equal(t, 1, HybridLevel(bonus, 0, streak))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "ene", MonthKey(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "jun", MonthKey(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "dic", MonthKey(time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)))
}

func TestMonthKeys(t *testing.T) {
	keys := MonthKeys()
	assert.Len(t, keys, 12)
	assert.Equal(t, "ene", keys[0])
	assert.Equal(t, "dic", keys[11])

	seen := make(map[string]bool)
	for _, key := range keys {
		assert.False(t, seen[key], "duplicate month key %s", key)
		seen[key] = true
	}
}
