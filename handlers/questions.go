// handlers/questions.go - Question dispatch and answer submission
package handlers

import (
	"statboard/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmitAnswerRequest struct {
	AnswerID uint `json:"answer_id"`
	UsedHint bool `json:"used_hint"`
}

// GetQuestion serves a random question for a board position. The
// served question becomes the pending question for the player's turn;
// the payload never reveals which option is correct.
func GetQuestion(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	position := c.QueryInt("position", -1)
	if position < 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Missing or invalid board position"})
	}

	question, err := questionService.PickQuestion(c.Context(), uint(gameID), userID, position)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

// SubmitAnswer scores the player's answer to the pending question.
func SubmitAnswer(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	var req SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.AnswerID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Missing answer ID"})
	}

	result, err := questionService.SubmitAnswer(c.Context(), uint(gameID), userID, req.AnswerID, req.UsedHint)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}
