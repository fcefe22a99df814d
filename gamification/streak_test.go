package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(yearMonthDay ...int) time.Time {
	return time.Date(yearMonthDay[0], time.Month(yearMonthDay[1]), yearMonthDay[2], 12, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak_FirstActivity(t *testing.T) {
	streak, persist := AdvanceStreak(0, nil, day(2025, 3, 10))
	assert.Equal(t, 1, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_SameDayIdempotent(t *testing.T) {
	last := day(2025, 3, 10)
	streak, persist := AdvanceStreak(5, &last, day(2025, 3, 10))
	assert.Equal(t, 5, streak)
	assert.False(t, persist)
}

func TestAdvanceStreak_SameDayZeroState(t *testing.T) {
	// A zero streak with same-day activity still bootstraps to one; it
	// means the counter was never initialized.
	last := day(2025, 3, 10)
	streak, persist := AdvanceStreak(0, &last, day(2025, 3, 10))
	assert.Equal(t, 1, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_ConsecutiveDay(t *testing.T) {
	last := day(2025, 3, 10)
	streak, persist := AdvanceStreak(5, &last, day(2025, 3, 11))
	assert.Equal(t, 6, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_GapResets(t *testing.T) {
	last := day(2025, 3, 10)

	streak, persist := AdvanceStreak(5, &last, day(2025, 3, 12))
	assert.Equal(t, 1, streak)
	assert.True(t, persist)

	streak, persist = AdvanceStreak(30, &last, day(2025, 6, 1))
	assert.Equal(t, 1, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_BackwardsClock(t *testing.T) {
	// A clock reading an earlier calendar day than the last activity must
	// not reset an active streak; it behaves like same-day.
	last := day(2025, 3, 10)

	streak, persist := AdvanceStreak(5, &last, day(2025, 3, 9))
	assert.Equal(t, 5, streak)
	assert.False(t, persist)

	streak, persist = AdvanceStreak(0, &last, day(2025, 3, 9))
	assert.Equal(t, 1, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_MidnightBoundary(t *testing.T) {
	// 23:59 to 00:01 is two minutes of wall clock but one calendar day.
	last := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)

	streak, persist := AdvanceStreak(3, &last, now)
	assert.Equal(t, 4, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_MonthBoundary(t *testing.T) {
	last := day(2025, 3, 31)
	streak, persist := AdvanceStreak(9, &last, day(2025, 4, 1))
	assert.Equal(t, 10, streak)
	assert.True(t, persist)
}

func TestAdvanceStreak_LongRun(t *testing.T) {
	streak := 0
	var last *time.Time
	start := day(2025, 1, 1)

	for i := 0; i < 60; i++ {
		current := start.AddDate(0, 0, i)
		next, persist := AdvanceStreak(streak, last, current)
		assert.True(t, persist)
		assert.Equal(t, i+1, next)
		streak = next
		last = &current
	}
}
