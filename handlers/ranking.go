// handlers/ranking.go - Ranking endpoints
package handlers

import (
	"statboard/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetRanking returns the top players ordered by the requested
// statistic.
// GET /api/ranking?order_by=best_score&dir=desc
func GetRanking(c *fiber.Ctx) error {
	orderBy := c.Query("order_by")
	direction := c.Query("dir")

	ranked, err := rankingService.Rank(orderBy, direction)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"players": ranked,
	})
}

// GetMyRankingPosition returns the authenticated player's 1-based
// position in the full ordering, or 0 when unranked.
// GET /api/ranking/me?order_by=best_score&dir=desc
func GetMyRankingPosition(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	position, err := rankingService.FindPosition(userID, c.Query("order_by"), c.Query("dir"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"position": position,
		"ranked":   position > 0,
	})
}
