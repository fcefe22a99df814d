// gamification/service.go - Points engine
//
// Every profile mutation in the application funnels through this service so
// the level is recomputed consistently. Mutations for one user are
// serialized through a per-user lock and applied inside a transaction,
// closing the lost-update window between two activities firing in quick
// succession.
package gamification

import (
	"fmt"
	"sync"
	"time"

	"flashlearn/models"

	"gorm.io/gorm"
)

// Award reasons and their flat point values. Quiz completion points are
// computed from the score (QuizPoints) rather than taken from this table;
// the flat quiz entries are the perfect-score and completion bonuses.
const (
	ReasonFlashcardLearned = "flashcard_learned"
	ReasonQuizCompleted    = "quiz_completed"
	ReasonPerfectQuiz      = "perfect_quiz"
	ReasonDailyLogin       = "daily_login"
	ReasonSetCreated       = "set_created"
	ReasonStreakWeek       = "streak_week"
	ReasonStreakMonth      = "streak_month"
)

var reasonPoints = map[string]int{
	ReasonFlashcardLearned: 15,
	ReasonQuizCompleted:    30,
	ReasonPerfectQuiz:      50,
	ReasonDailyLogin:       10,
	ReasonSetCreated:       25,
	ReasonStreakWeek:       100,
	ReasonStreakMonth:      300,
}

// PointsFor returns the flat point value for a reason, 0 for unknown ones.
func PointsFor(reason string) int {
	return reasonPoints[reason]
}

// Spanish 3-letter month keys, as rendered by the dashboard chart.
var monthKeys = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// MonthKey returns the month key for a timestamp.
func MonthKey(t time.Time) string {
	return monthKeys[int(t.Month())-1]
}

// MonthKeys returns the twelve keys in calendar order.
func MonthKeys() []string {
	return monthKeys[:]
}

// Award reports the outcome of a points grant.
type Award struct {
	PointsAwarded int    `json:"points_awarded"`
	Reason        string `json:"reason"`
	NewTotal      int    `json:"new_total"`
	NewLevel      int    `json:"new_level"`
	LeveledUp     bool   `json:"leveled_up"`
}

// CombineAwards merges two grants settled back to back into one delta for
// the client: summed points, the later grant's running totals, and a
// level-up if either crossed a level. Reasons are joined with "+".
func CombineAwards(base, bonus Award) Award {
	if bonus.PointsAwarded == 0 {
		return base
	}
	if base.PointsAwarded == 0 {
		return bonus
	}
	return Award{
		PointsAwarded: base.PointsAwarded + bonus.PointsAwarded,
		Reason:        base.Reason + "+" + bonus.Reason,
		NewTotal:      bonus.NewTotal,
		NewLevel:      bonus.NewLevel,
		LeveledUp:     base.LeveledUp || bonus.LeveledUp,
	}
}

// StreakResult reports a streak transition.
type StreakResult struct {
	StreakDays   int  `json:"streak_days"`
	BestStreak   int  `json:"best_streak"`
	Advanced     bool `json:"advanced"`
	BonusAwarded int  `json:"bonus_awarded"`
	NewLevel     int  `json:"new_level"`
}

type Service struct {
	db       *gorm.DB
	notifier Notifier

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

func NewService(db *gorm.DB, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		db:        db,
		notifier:  notifier,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

// lockUser serializes profile mutations for one user within this process.
func (s *Service) lockUser(userID uint) func() {
	s.mu.Lock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// AwardPoints adds amount points for reason, recomputes the hybrid level and
// stamps last_activity_at. Callers treat failures as non-fatal: log and move
// on, the primary flow never blocks on a points write.
func (s *Service) AwardPoints(userID uint, amount int, reason string) (Award, error) {
	if amount <= 0 {
		return Award{}, fmt.Errorf("points amount must be positive, got %d", amount)
	}

	unlock := s.lockUser(userID)
	defer unlock()

	var award Award
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		learned, err := s.learnedCardCount(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		newTotal := user.TotalPoints + amount
		newLevel := HybridLevel(newTotal, learned, user.StreakDays)

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"total_points":     newTotal,
			"current_level":    newLevel,
			"last_activity_at": now,
		}).Error; err != nil {
			return err
		}

		award = Award{
			PointsAwarded: amount,
			Reason:        reason,
			NewTotal:      newTotal,
			NewLevel:      newLevel,
			LeveledUp:     newLevel > user.CurrentLevel,
		}
		return nil
	})
	if err != nil {
		return Award{}, err
	}

	if award.LeveledUp {
		s.notifier.Show(userID, fmt.Sprintf("Level up! You reached level %d", award.NewLevel), "success")
	}
	return award, nil
}

// RecordActivity advances the streak for a qualifying activity at now.
// When the streak lands exactly on a milestone (7 or 30 days) the bonus is
// granted in the same transaction. The level is recomputed whenever the
// streak changes. Safe to call any number of times per day; only the first
// qualifying call per calendar day persists anything.
func (s *Service) RecordActivity(userID uint, now time.Time) (StreakResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	var result StreakResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		newStreak, persist := AdvanceStreak(user.StreakDays, user.LastActivityAt, now)
		result = StreakResult{
			StreakDays: newStreak,
			BestStreak: user.BestStreak,
			NewLevel:   user.CurrentLevel,
		}
		if !persist {
			return nil
		}

		bonus := 0
		switch newStreak {
		case 7:
			bonus = reasonPoints[ReasonStreakWeek]
		case 30:
			bonus = reasonPoints[ReasonStreakMonth]
		}

		learned, err := s.learnedCardCount(tx, userID)
		if err != nil {
			return err
		}

		newTotal := user.TotalPoints + bonus
		newLevel := HybridLevel(newTotal, learned, newStreak)
		best := user.BestStreak
		if newStreak > best {
			best = newStreak
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"streak_days":      newStreak,
			"best_streak":      best,
			"total_points":     newTotal,
			"current_level":    newLevel,
			"last_activity_at": now,
		}).Error; err != nil {
			return err
		}

		result = StreakResult{
			StreakDays:   newStreak,
			BestStreak:   best,
			Advanced:     true,
			BonusAwarded: bonus,
			NewLevel:     newLevel,
		}
		return nil
	})
	if err != nil {
		return StreakResult{}, err
	}

	if result.BonusAwarded > 0 {
		s.notifier.Show(userID, fmt.Sprintf("%d-day streak! +%d points", result.StreakDays, result.BonusAwarded), "success")
	}
	return result, nil
}

// IncrementMonthlyProgress bumps the current month's learned/answered
// counter by count. This is the single implementation; counts only grow and
// never reset across calendar years.
func (s *Service) IncrementMonthlyProgress(userID uint, count int) error {
	if count <= 0 {
		count = 1
	}

	unlock := s.lockUser(userID)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		progress := user.MonthlyProgressMap()
		progress[MonthKey(time.Now())] += count
		user.SetMonthlyProgressMap(progress)

		return tx.Model(&user).Update("monthly_progress", user.MonthlyProgress).Error
	})
}

// MarkLastStudied records the most recently studied set on the profile.
func (s *Service) MarkLastStudied(userID, setID uint) error {
	unlock := s.lockUser(userID)
	defer unlock()
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_studied_set_id", setID).Error
}

// learnedCardCount scans all cards in the user's sets. Call frequency is
// low enough (points grants only) that the count query is acceptable.
func (s *Service) learnedCardCount(tx *gorm.DB, userID uint) (int, error) {
	var count int64
	err := tx.Model(&models.Flashcard{}).
		Joins("JOIN flashcard_sets ON flashcard_sets.id = flashcards.set_id").
		Where("flashcard_sets.owner_id = ? AND flashcards.learned = ?", userID, true).
		Count(&count).Error
	return int(count), err
}
