// handlers/init.go - Handler wiring and shared error mapping
package handlers

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"statboard/database"
	"statboard/services"

	"github.com/gofiber/fiber/v2"
)

var (
	gameService     *services.GameService
	statsService    *services.StatsService
	rankingService  *services.RankingService
	questionService *services.QuestionService
)

// InitGameHandlers wires the services against the shared database and
// redis connections. Call after InitDB and InitRedis.
func InitGameHandlers() {
	db := database.GetDB()
	pending := services.NewPendingStore(database.GetRedis(), pendingTTL())

	statsService = services.NewStatsService(db)
	gameService = services.NewGameService(db, statsService, pending)
	questionService = services.NewQuestionService(db, gameService, statsService, pending)
	rankingService = services.NewRankingService(db)
}

// Games exposes the game service for the background sweeper.
func Games() *services.GameService {
	return gameService
}

func pendingTTL() time.Duration {
	hours := 2
	if v := os.Getenv("PENDING_QUESTION_TTL_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	return time.Duration(hours) * time.Hour
}

// fail translates a service error into the matching HTTP status with
// the standard error payload. Unexpected errors are logged and masked.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidState):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	default:
		log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		message = "Unexpected internal error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
