// gamification/streak.go - Consecutive-day study streak transitions
package gamification

import (
	"math"
	"time"
)

// AdvanceStreak computes the next streak value at a qualifying activity
// (flashcard learned, quiz finished, first login of the day).
//
// Transitions, on calendar days rather than 24h windows:
//   - no prior activity            -> 1, persist
//   - exactly the next day         -> current+1, persist
//   - gap of 2+ days               -> 1, persist (reset)
//   - same/earlier day, current == 0 -> 1, persist (zero-state bootstrap)
//   - same/earlier day, current > 0  -> unchanged, do not persist
//
// Callers persist only when shouldPersist is true and must stamp
// lastActivityAt alongside, so repeated calls within one day cannot inflate
// the streak.
func AdvanceStreak(streakDays int, lastActivityAt *time.Time, now time.Time) (newStreak int, shouldPersist bool) {
	if lastActivityAt == nil {
		return 1, true
	}

	// A negative diff means now reads as an earlier calendar day than the
	// last activity (clock skew, timezone change). Treated as same-day so a
	// backwards clock cannot reset an active streak.
	diffDays := calendarDaysBetween(*lastActivityAt, now)
	switch {
	case diffDays <= 0 && streakDays > 0:
		return streakDays, false
	case diffDays <= 0:
		return 1, true
	case diffDays == 1:
		return streakDays + 1, true
	default:
		return 1, true
	}
}

// calendarDaysBetween counts calendar-day boundaries crossed between two
// instants, in the local zone of the timestamps. Rounding absorbs DST
// offsets between the two midnights.
func calendarDaysBetween(from, to time.Time) int {
	fromDay := dateOnly(from)
	toDay := dateOnly(to)
	return int(math.Round(toDay.Sub(fromDay).Hours() / 24))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
