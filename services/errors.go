// services/errors.go - Error taxonomy shared by the game services
package services

import "errors"

var (
	// ErrNotFound is returned when a game, score entry, question or
	// answer cannot be located.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when an action targets a session
	// that is not in the required status.
	ErrInvalidState = errors.New("invalid game state")
	// ErrInvalidInput is returned for missing or malformed parameters,
	// including answers submitted without a pending question.
	ErrInvalidInput = errors.New("invalid input")
)
