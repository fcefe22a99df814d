// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"flashlearn/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.FlashcardSet{},
		&models.Flashcard{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizResult{},
		&models.CatalogEntry{},
		&models.StudySession{},
		&models.QuizSession{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes beyond what AutoMigrate derives from tags
func createIndexes() {
	db := GetDB()

	// User lookups
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_last_activity ON users(last_activity_at)")

	// Content listings
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sets_owner_created ON flashcard_sets(owner_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_cards_set_position ON flashcards(set_id, position)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quizzes_owner ON quizzes(owner_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz_position ON quiz_questions(quiz_id, position)")

	// Attempt history, newest first
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_results_user_created ON quiz_results(user_id, created_at DESC)")

	// Catalog resolution by shared resource
	db.Exec("CREATE INDEX IF NOT EXISTS idx_catalog_creator ON catalog_entries(creator_id)")

	log.Println("✅ Indexes created successfully")
}
