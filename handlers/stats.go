// handlers/stats.go - Player statistics endpoint
package handlers

import (
	"statboard/middleware"
	"statboard/utils"

	"github.com/gofiber/fiber/v2"
)

// GetMyStatistics returns the authenticated player's cumulative stats,
// the derived rates, the latest sessions and the current ranking
// position (0 means unranked).
func GetMyStatistics(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	stats, err := statsService.PlayerStatistics(userID)
	if err != nil {
		return fail(c, err)
	}

	position, err := rankingService.FindPosition(userID, "", "")
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"stats":             stats,
		"average_game_time": utils.FormatDuration(stats.AverageGameSeconds),
		"ranking_position":  position,
	})
}
