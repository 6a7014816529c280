// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"statboard/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	log.Println("✅ All migrations completed successfully")
}

// Migrate applies the schema to the given connection. Split out from
// RunMigrations so cmd/ binaries and tests can migrate their own
// connections.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.PlayerProfile{},
		&models.GameSession{},
		&models.ScoreEntry{},
		&models.Question{},
		&models.AnswerOption{},
	); err != nil {
		return err
	}

	return createIndexes(db)
}

// createIndexes creates the indexes AutoMigrate cannot express.
func createIndexes(db *gorm.DB) error {
	// One IN_PROGRESS session per user, enforced at the storage layer.
	// Partial indexes work on both PostgreSQL and SQLite.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_session_per_user " +
			"ON game_sessions(user_id) WHERE status = 'IN_PROGRESS'",
	).Error; err != nil {
		return err
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_game_sessions_status ON game_sessions(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_game_sessions_user_status ON game_sessions(user_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_questions_position ON questions(board_position)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_profiles_best_score ON player_profiles(best_score DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_profiles_games_played ON player_profiles(games_played)")

	return nil
}
