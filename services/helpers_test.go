package services

import (
	"fmt"
	"testing"
	"time"

	"statboard/database"
	"statboard/models"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database scoped to the test and
// applies the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// newTestPending backs a PendingStore with an in-process redis.
func newTestPending(t *testing.T) *PendingStore {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewPendingStore(client, time.Minute)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:    username,
		DisplayName: username,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// newGameStack wires the full service graph on top of a fresh database
// and redis, the same way the handlers do.
func newGameStack(t *testing.T) (*gorm.DB, *GameService, *StatsService, *QuestionService) {
	t.Helper()

	db := newTestDB(t)
	pending := newTestPending(t)
	stats := NewStatsService(db)
	games := NewGameService(db, stats, pending)
	questions := NewQuestionService(db, games, stats, pending)
	return db, games, stats, questions
}

func seedQuestion(t *testing.T, db *gorm.DB, code string, position int, correctText string, wrongTexts ...string) *models.Question {
	t.Helper()

	question := &models.Question{
		Code:          code,
		Text:          "Question " + code,
		Category:      models.CategoryBasics,
		BoardPosition: position,
		Hint:          "a hint",
		Explanation:   "an explanation",
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("create question %s: %v", code, err)
	}

	answers := []models.AnswerOption{
		{Code: "R" + code[1:] + "01", QuestionID: question.ID, Text: correctText, IsCorrect: true},
	}
	for i, text := range wrongTexts {
		answers = append(answers, models.AnswerOption{
			Code:       fmt.Sprintf("R%s%02d", code[1:], i+2),
			QuestionID: question.ID,
			Text:       text,
		})
	}
	if err := db.Create(&answers).Error; err != nil {
		t.Fatalf("create answers for %s: %v", code, err)
	}

	question.Answers = answers
	return question
}
