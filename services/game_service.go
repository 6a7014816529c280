// services/game_service.go - Game session state machine
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"statboard/models"

	"gorm.io/gorm"
)

// GameService owns the session lifecycle: start/resume, score deltas,
// completion and cancellation. Sessions move IN_PROGRESS -> COMPLETED
// or IN_PROGRESS -> CANCELLED exactly once; both transitions are
// compare-and-swap updates guarded by the current status, so a
// concurrent duplicate request loses the race and gets ErrInvalidState.
type GameService struct {
	db      *gorm.DB
	stats   *StatsService
	pending *PendingStore
}

func NewGameService(db *gorm.DB, stats *StatsService, pending *PendingStore) *GameService {
	return &GameService{db: db, stats: stats, pending: pending}
}

// GameOutcome is returned when a session completes.
type GameOutcome struct {
	GameID          uint   `json:"game_id"`
	FinalScore      int    `json:"final_score"`
	Won             bool   `json:"won"`
	DurationSeconds int    `json:"duration_seconds"`
	GamesPlayed     int    `json:"games_played"`
	Wins            int    `json:"wins"`
	Message         string `json:"message"`
}

// StartOrResume returns the user's IN_PROGRESS session, creating a new
// one with a zeroed score entry when none exists. The partial unique
// index on (user_id) WHERE status = 'IN_PROGRESS' closes the
// check-then-act race: a concurrent create loses the insert and the
// existing session is returned instead.
func (s *GameService) StartOrResume(userID uint) (*models.GameSession, bool, error) {
	var existing models.GameSession
	err := s.db.Where("user_id = ? AND status = ?", userID, models.StatusInProgress).
		First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	game := models.GameSession{
		UserID:    userID,
		Status:    models.StatusInProgress,
		StartedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		return tx.Create(&models.ScoreEntry{
			GameID: game.ID,
			UserID: userID,
			Points: 0,
		}).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race: another request created the session first.
			err = s.db.Where("user_id = ? AND status = ?", userID, models.StatusInProgress).
				First(&existing).Error
			if err != nil {
				return nil, false, err
			}
			return &existing, true, nil
		}
		return nil, false, err
	}

	return &game, false, nil
}

// CheckStatus returns the session's current status and score.
func (s *GameService) CheckStatus(gameID, userID uint) (*models.GameSession, int, error) {
	game, err := s.findSession(gameID, userID)
	if err != nil {
		return nil, 0, err
	}

	var entry models.ScoreEntry
	err = s.db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: score entry for game %d", ErrNotFound, gameID)
		}
		return nil, 0, err
	}

	return game, entry.Points, nil
}

// ApplyScoreDelta adds delta (positive or negative, no clamping) to the
// session's score entry. The adjustment is a single UPDATE with an
// expression, so concurrent duplicate submissions cannot double-apply
// a read-modify-write.
func (s *GameService) ApplyScoreDelta(gameID, userID uint, delta int) (int, error) {
	var game models.GameSession
	err := s.db.Where("id = ? AND user_id = ? AND status = ?",
		gameID, userID, models.StatusInProgress).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: no game %d in progress", ErrNotFound, gameID)
		}
		return 0, err
	}

	res := s.db.Model(&models.ScoreEntry{}).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: score entry for game %d", ErrNotFound, gameID)
	}

	var entry models.ScoreEntry
	if err := s.db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&entry).Error; err != nil {
		return 0, err
	}
	return entry.Points, nil
}

// Finalize completes the session: status COMPLETED, end time now, and
// the user as winner iff the final score is positive. Reaching the last
// board space and an explicit finalize request both land here. The
// player's statistics update inside the same transaction.
func (s *GameService) Finalize(ctx context.Context, gameID, userID uint) (*GameOutcome, error) {
	outcome := &GameOutcome{GameID: gameID}
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var entry models.ScoreEntry
		err := tx.Where("game_id = ? AND user_id = ?", gameID, userID).First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: score entry for game %d", ErrNotFound, gameID)
			}
			return err
		}

		var winnerID *uint
		if entry.Points > 0 {
			winnerID = &userID
		}

		res := tx.Model(&models.GameSession{}).
			Where("id = ? AND user_id = ? AND status = ?", gameID, userID, models.StatusInProgress).
			Updates(map[string]interface{}{
				"status":    models.StatusCompleted,
				"ended_at":  now,
				"winner_id": winnerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.terminalError(tx, gameID, userID)
		}

		outcome.FinalScore = entry.Points
		outcome.Won = entry.Points > 0

		return s.stats.RecordOutcome(tx, userID, outcome.Won)
	})
	if err != nil {
		return nil, err
	}

	var game models.GameSession
	if err := s.db.First(&game, gameID).Error; err == nil {
		outcome.DurationSeconds = game.DurationSeconds()
	}

	var profile models.PlayerProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err == nil {
		outcome.GamesPlayed = profile.GamesPlayed
		outcome.Wins = profile.Wins
	}

	if outcome.Won {
		outcome.Message = "Congratulations! You completed the game."
	} else {
		outcome.Message = "Game finished, but the score was not enough for a win."
	}

	s.clearTransient(ctx, userID, gameID)

	return outcome, nil
}

// Cancel abandons an in-progress session. It counts as a played game
// and never as a win.
func (s *GameService) Cancel(ctx context.Context, gameID, userID uint) error {
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.GameSession{}).
			Where("id = ? AND user_id = ? AND status = ?", gameID, userID, models.StatusInProgress).
			Updates(map[string]interface{}{
				"status":   models.StatusCancelled,
				"ended_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.terminalError(tx, gameID, userID)
		}

		return s.stats.RecordOutcome(tx, userID, false)
	})
	if err != nil {
		return err
	}

	s.clearTransient(ctx, userID, gameID)
	return nil
}

// CancelStale cancels IN_PROGRESS sessions that started before the
// cutoff. Used by the background sweeper.
func (s *GameService) CancelStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	var stale []models.GameSession
	err := s.db.Where("status = ? AND started_at < ?", models.StatusInProgress, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, game := range stale {
		if err := s.Cancel(ctx, game.ID, game.UserID); err != nil {
			log.Printf("Failed to cancel stale game %d: %v", game.ID, err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *GameService) findSession(gameID, userID uint) (*models.GameSession, error) {
	var game models.GameSession
	err := s.db.Where("id = ? AND user_id = ?", gameID, userID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}
		return nil, err
	}
	return &game, nil
}

// terminalError distinguishes "no such session" from "session already
// in a terminal status" after a zero-row CAS update.
func (s *GameService) terminalError(tx *gorm.DB, gameID, userID uint) error {
	var game models.GameSession
	err := tx.Where("id = ? AND user_id = ?", gameID, userID).First(&game).Error
	if err != nil {
		return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}
	return fmt.Errorf("%w: game %d is %s", ErrInvalidState, gameID, game.Status)
}

// clearTransient drops the session's redis state. Best effort: the
// keys carry a TTL anyway.
func (s *GameService) clearTransient(ctx context.Context, userID, gameID uint) {
	if s.pending == nil {
		return
	}
	if err := s.pending.ClearSession(ctx, userID, gameID); err != nil {
		log.Printf("Failed to clear transient state for game %d: %v", gameID, err)
	}
}

// isUniqueViolation matches the unique-index error text of both
// PostgreSQL and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
