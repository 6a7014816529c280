// services/stats_service.go - Player statistics aggregation
package services

import (
	"errors"
	"time"

	"statboard/models"

	"gorm.io/gorm"
)

// StatsService maintains PlayerProfile rows: provisioning, the per-game
// counters and the derived statistics recomputed from session history.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// PlayerStatistics is the read model served by the stats endpoint.
type PlayerStatistics struct {
	GamesPlayed        int     `json:"games_played"`
	Wins               int     `json:"wins"`
	WinRate            float64 `json:"win_rate"`
	AverageScore       float64 `json:"average_score"`
	BestScore          int     `json:"best_score"`
	AverageGameSeconds int     `json:"average_game_seconds"`
	CorrectAnswers     int     `json:"correct_answers"`
	CorrectPerGame     float64 `json:"correct_per_game"`

	RecentGames []RecentGame `json:"recent_games"`
}

// RecentGame is one of the player's latest sessions with its score.
type RecentGame struct {
	GameID    uint       `json:"game_id"`
	Status    string     `json:"status"`
	Points    int        `json:"points"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// EnsureProfile creates the player's profile if it does not exist yet.
// Called once at account provisioning, so the read paths can assume
// the row is there.
func (s *StatsService) EnsureProfile(userID uint) (*models.PlayerProfile, error) {
	var profile models.PlayerProfile
	err := s.db.Where("user_id = ?", userID).
		FirstOrCreate(&profile, models.PlayerProfile{UserID: userID}).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// RecordOutcome updates the profile after a session reaches a terminal
// status. games_played always increments by one; wins only for a
// completed session with a positive final score. The derived score and
// duration statistics are then recomputed from the full history.
// Runs inside the caller's transaction.
func (s *StatsService) RecordOutcome(tx *gorm.DB, userID uint, won bool) error {
	var profile models.PlayerProfile
	if err := tx.Where("user_id = ?", userID).
		FirstOrCreate(&profile, models.PlayerProfile{UserID: userID}).Error; err != nil {
		return err
	}

	profile.GamesPlayed++
	if won {
		profile.Wins++
	}

	if err := s.recomputeDerived(tx, &profile); err != nil {
		return err
	}

	return tx.Save(&profile).Error
}

// IncrementCorrectAnswers bumps the lifetime correct-answer counter.
func (s *StatsService) IncrementCorrectAnswers(tx *gorm.DB, userID uint) error {
	var profile models.PlayerProfile
	if err := tx.Where("user_id = ?", userID).
		FirstOrCreate(&profile, models.PlayerProfile{UserID: userID}).Error; err != nil {
		return err
	}
	return tx.Model(&profile).
		Update("correct_answers", gorm.Expr("correct_answers + ?", 1)).Error
}

// recomputeDerived recalculates average/best score and the average
// game duration from the player's finished sessions.
//
// Score statistics only count strictly positive entries; with no
// positive entry both fall back to zero. The duration average only
// counts sessions with both timestamps and a strictly positive
// duration, and is left untouched when no such session exists, so a
// backlog of invalid-timestamp games cannot erase a valid average.
func (s *StatsService) recomputeDerived(tx *gorm.DB, profile *models.PlayerProfile) error {
	var points []int
	err := tx.Model(&models.ScoreEntry{}).
		Joins("JOIN game_sessions ON game_sessions.id = score_entries.game_id").
		Where("score_entries.user_id = ? AND game_sessions.status IN ?",
			profile.UserID, []string{models.StatusCompleted, models.StatusCancelled}).
		Pluck("score_entries.points", &points).Error
	if err != nil {
		return err
	}

	var positive []int
	for _, p := range points {
		if p > 0 {
			positive = append(positive, p)
		}
	}

	if len(positive) > 0 {
		sum := 0
		best := 0
		for _, p := range positive {
			sum += p
			if p > best {
				best = p
			}
		}
		profile.AverageScore = float64(sum) / float64(len(positive))
		profile.BestScore = best
	} else {
		profile.AverageScore = 0
		profile.BestScore = 0
	}

	var sessions []models.GameSession
	err = tx.Where("user_id = ? AND status IN ? AND ended_at IS NOT NULL",
		profile.UserID, []string{models.StatusCompleted, models.StatusCancelled}).
		Find(&sessions).Error
	if err != nil {
		return err
	}

	validGames := 0
	totalSeconds := 0
	for _, g := range sessions {
		seconds := g.DurationSeconds()
		if seconds > 0 {
			totalSeconds += seconds
			validGames++
		}
	}
	if validGames > 0 {
		profile.AverageGameSeconds = totalSeconds / validGames
	}

	return nil
}

// PlayerStatistics returns the full stats read model for a user,
// including derived rates and the five most recent sessions. Rates are
// defined as zero when no games were played.
func (s *StatsService) PlayerStatistics(userID uint) (*PlayerStatistics, error) {
	profile, err := s.EnsureProfile(userID)
	if err != nil {
		return nil, err
	}

	stats := &PlayerStatistics{
		GamesPlayed:        profile.GamesPlayed,
		Wins:               profile.Wins,
		AverageScore:       profile.AverageScore,
		BestScore:          profile.BestScore,
		AverageGameSeconds: profile.AverageGameSeconds,
		CorrectAnswers:     profile.CorrectAnswers,
	}

	if profile.GamesPlayed > 0 {
		stats.WinRate = float64(profile.Wins) / float64(profile.GamesPlayed) * 100
		stats.CorrectPerGame = float64(profile.CorrectAnswers) / float64(profile.GamesPlayed)
	}

	var sessions []models.GameSession
	err = s.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(5).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	for _, g := range sessions {
		recent := RecentGame{
			GameID:    g.ID,
			Status:    g.Status,
			StartedAt: g.StartedAt,
			EndedAt:   g.EndedAt,
		}

		var entry models.ScoreEntry
		err := s.db.Where("game_id = ? AND user_id = ?", g.ID, userID).First(&entry).Error
		if err == nil {
			recent.Points = entry.Points
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		stats.RecentGames = append(stats.RecentGames, recent)
	}

	return stats, nil
}
