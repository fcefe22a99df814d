// gamification/levels.go - Level calculator
package gamification

const (
	MaxLevel = 20

	// Hybrid level bonus caps
	maxFlashcardBonus = 2
	maxStreakBonus    = 3

	cardsPerBonusLevel = 50
	daysPerStreakBonus = 7
)

// levelThresholds[n-1] is the cumulative point total required to reach level
// n. Spacing between tiers grows roughly 50% per tier; the last entry is the
// sentinel used when rendering progress past the cap.
var levelThresholds = [MaxLevel]int{
	0,      // 1
	100,    // 2
	250,    // 3
	475,    // 4
	800,    // 5
	1300,   // 6
	2100,   // 7
	3300,   // 8
	5100,   // 9
	7800,   // 10
	11800,  // 11
	17800,  // 12
	26700,  // 13
	40000,  // 14
	60000,  // 15
	90000,  // 16
	135000, // 17
	200000, // 18
	300000, // 19
	450000, // 20
}

// LevelForPoints returns the highest level whose threshold is at most
// totalPoints, bounded to [1, MaxLevel]. Negative input is treated as zero.
func LevelForPoints(totalPoints int) int {
	level := 1
	for i := 1; i < MaxLevel; i++ {
		if totalPoints >= levelThresholds[i] {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// PointsForLevel is the inverse lookup, used for "X/Y points to next level"
// progress bars. Levels past the table clamp to the sentinel last entry;
// levels below 2 cost nothing.
func PointsForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}

// HybridLevel combines the point-derived base level with a learned-card
// bonus (one per 50 cards, max 2) and a streak bonus (one per 7 days, max 3),
// capped at MaxLevel. Pure function of its inputs; calling it twice with
// unchanged state yields the same level.
func HybridLevel(totalPoints, learnedCards, streakDays int) int {
	base := LevelForPoints(totalPoints)

	flashcardBonus := learnedCards / cardsPerBonusLevel
	if flashcardBonus > maxFlashcardBonus {
		flashcardBonus = maxFlashcardBonus
	}

	streakBonus := streakDays / daysPerStreakBonus
	if streakBonus > maxStreakBonus {
		streakBonus = maxStreakBonus
	}

	level := base + flashcardBonus + streakBonus
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}
