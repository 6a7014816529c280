// handlers/board.go - Game session endpoints
package handlers

import (
	"statboard/middleware"
	"statboard/models"

	"github.com/gofiber/fiber/v2"
)

type UpdateScoreRequest struct {
	Points   int  `json:"points"`
	Position int  `json:"position"`
	Finalize bool `json:"finalize"`
}

// StartBoard returns the user's in-progress game session, creating one
// (with a zeroed score) when none exists.
func StartBoard(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	game, resumed, err := gameService.StartOrResume(userID)
	if err != nil {
		return fail(c, err)
	}

	_, points, err := gameService.CheckStatus(game.ID, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"game_id":    game.ID,
		"resumed":    resumed,
		"status":     game.Status,
		"score":      points,
		"started_at": game.StartedAt,
	})
}

// GameStatus reports the session's current status and score.
func GameStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	game, points, err := gameService.CheckStatus(uint(gameID), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"game_id": game.ID,
		"status":  game.Status,
		"score":   points,
	})
}

// UpdateScore applies a score delta to the running game. The request
// doubles as the completion signal: an explicit finalize flag or a
// board position at or past the final space completes the game after
// the delta is applied.
func UpdateScore(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	var req UpdateScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	points, err := gameService.ApplyScoreDelta(uint(gameID), userID, req.Points)
	if err != nil {
		return fail(c, err)
	}

	if req.Finalize || req.Position >= models.FinalBoardPosition {
		return finalize(c, uint(gameID), userID)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"game_id": gameID,
		"score":   points,
	})
}

// FinalizeGame completes the session without a score change.
func FinalizeGame(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	return finalize(c, uint(gameID), userID)
}

func finalize(c *fiber.Ctx, gameID, userID uint) error {
	outcome, err := gameService.Finalize(c.Context(), gameID, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"message":          outcome.Message,
		"final_score":      outcome.FinalScore,
		"won":              outcome.Won,
		"duration_seconds": outcome.DurationSeconds,
		"games_played":     outcome.GamesPlayed,
		"wins":             outcome.Wins,
	})
}

// CancelGame abandons an in-progress session. It still counts as a
// played game.
func CancelGame(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	if err := gameService.Cancel(c.Context(), uint(gameID), userID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Game cancelled.",
	})
}
