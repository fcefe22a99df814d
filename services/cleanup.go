package services

import (
	"log"
	"os"
	"time"

	"flashlearn/database"
	"flashlearn/models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// Guest accounts that have not studied for this long get purged.
const guestRetention = 30 * 24 * time.Hour

// CleanupService purges stale guest accounts and their content on a daily
// schedule.
type CleanupService struct {
	scheduler *gocron.Scheduler
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service.
func InitCleanupService() {
	cleanupService = &CleanupService{
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start schedules the daily purge. Disabled unless GUEST_CLEANUP_ENABLED is
// set to true.
func (s *CleanupService) Start() {
	if os.Getenv("GUEST_CLEANUP_ENABLED") != "true" {
		log.Println("Guest cleanup disabled (set GUEST_CLEANUP_ENABLED=true to enable)")
		return
	}

	if _, err := s.scheduler.Every(1).Day().At("03:00").Do(func() {
		if err := s.CleanupStaleGuests(); err != nil {
			log.Printf("Guest cleanup run failed: %v", err)
		}
	}); err != nil {
		log.Printf("Failed to schedule guest cleanup: %v", err)
		return
	}

	s.scheduler.StartAsync()
	log.Println("🧹 Guest cleanup scheduled daily at 03:00 UTC")
}

// Stop stops the scheduler.
func (s *CleanupService) Stop() {
	s.scheduler.Stop()
}

// CleanupStaleGuests deletes guest accounts idle past the retention window
// together with everything they own: sets, cards, quizzes, questions,
// catalog entries, sessions, and quiz results.
func (s *CleanupService) CleanupStaleGuests() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}

	cutoff := time.Now().Add(-guestRetention)

	var guests []models.User
	if err := db.Where("is_guest = ? AND (last_activity_at IS NULL OR last_activity_at < ?) AND created_at < ?",
		true, cutoff, cutoff).Find(&guests).Error; err != nil {
		log.Printf("Error finding stale guests: %v", err)
		return err
	}

	if len(guests) == 0 {
		log.Println("No stale guest accounts to cleanup")
		return nil
	}

	for _, guest := range guests {
		if err := s.purgeUser(db, guest.ID); err != nil {
			log.Printf("Failed to purge guest %d: %v", guest.ID, err)
			continue
		}
		log.Printf("🧹 Purged stale guest account %d (%s)", guest.ID, guest.Username)
	}

	return nil
}

func (s *CleanupService) purgeUser(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var setIDs []uint
		if err := tx.Model(&models.FlashcardSet{}).Where("owner_id = ?", userID).
			Pluck("id", &setIDs).Error; err != nil {
			return err
		}
		if len(setIDs) > 0 {
			if err := tx.Where("set_id IN ?", setIDs).Delete(&models.Flashcard{}).Error; err != nil {
				return err
			}
			if err := tx.Where("resource_type = ? AND resource_id IN ?", "set", setIDs).
				Delete(&models.CatalogEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.FlashcardSet{}).Error; err != nil {
			return err
		}

		var quizIDs []uint
		if err := tx.Model(&models.Quiz{}).Where("owner_id = ?", userID).
			Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.QuizQuestion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("resource_type = ? AND resource_id IN ?", "quiz", quizIDs).
				Delete(&models.CatalogEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.StudySession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.QuizSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.QuizResult{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}
