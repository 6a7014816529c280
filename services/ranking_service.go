// services/ranking_service.go - Player ranking
package services

import (
	"fmt"

	"statboard/models"
	"statboard/utils"

	"gorm.io/gorm"
)

// RankingLimit caps the ranking listing.
const RankingLimit = 20

// Default ranking criteria.
const (
	DefaultRankingKey = "best_score"
	DefaultDirection  = "desc"
)

// rankingColumns is the closed set of sortable statistics. Unknown keys
// are rejected instead of silently falling back to the default.
var rankingColumns = map[string]string{
	"best_score":      "best_score",
	"average_score":   "average_score",
	"wins":            "wins",
	"games_played":    "games_played",
	"correct_answers": "correct_answers",
}

// RankingService orders player profiles by a chosen statistic. Only
// players with at least one finished game appear. Ties break on
// profile ID, which keeps the order deterministic.
type RankingService struct {
	db *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db}
}

// RankedProfile is one row of the ranking listing.
type RankedProfile struct {
	Position           int     `json:"position"`
	UserID             uint    `json:"user_id"`
	Username           string  `json:"username"`
	GamesPlayed        int     `json:"games_played"`
	Wins               int     `json:"wins"`
	WinRate            float64 `json:"win_rate"`
	AverageScore       float64 `json:"average_score"`
	BestScore          int     `json:"best_score"`
	CorrectAnswers     int     `json:"correct_answers"`
	AverageGameSeconds int     `json:"average_game_seconds"`
	AverageGameTime    string  `json:"average_game_time"`
}

type rankedRow struct {
	models.PlayerProfile
	Username string
}

// normalize validates the sort key and direction, applying the
// defaults for empty values.
func normalize(key, direction string) (string, string, error) {
	if key == "" {
		key = DefaultRankingKey
	}
	column, ok := rankingColumns[key]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown ranking key %q", ErrInvalidInput, key)
	}

	switch direction {
	case "":
		direction = DefaultDirection
	case "asc", "desc":
	default:
		return "", "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidInput, direction)
	}

	return column, direction, nil
}

// Rank returns the top players ordered by the given statistic, each
// annotated with its 1-based position.
func (s *RankingService) Rank(key, direction string) ([]RankedProfile, error) {
	column, direction, err := normalize(key, direction)
	if err != nil {
		return nil, err
	}

	var rows []rankedRow
	err = s.db.Model(&models.PlayerProfile{}).
		Select("player_profiles.*, users.username").
		Joins("JOIN users ON users.id = player_profiles.user_id").
		Where("player_profiles.games_played > 0").
		Order(fmt.Sprintf("player_profiles.%s %s, player_profiles.id ASC", column, direction)).
		Limit(RankingLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedProfile, 0, len(rows))
	for i, row := range rows {
		entry := RankedProfile{
			Position:           i + 1,
			UserID:             row.UserID,
			Username:           row.Username,
			GamesPlayed:        row.GamesPlayed,
			Wins:               row.Wins,
			AverageScore:       row.AverageScore,
			BestScore:          row.BestScore,
			CorrectAnswers:     row.CorrectAnswers,
			AverageGameSeconds: row.AverageGameSeconds,
			AverageGameTime:    utils.FormatDuration(row.AverageGameSeconds),
		}
		if row.GamesPlayed > 0 {
			entry.WinRate = float64(row.Wins) / float64(row.GamesPlayed) * 100
		}
		ranked = append(ranked, entry)
	}

	return ranked, nil
}

// FindPosition returns the user's 1-based position within the full
// filtered ordering, or 0 when the user is unranked (no finished games
// or no profile).
func (s *RankingService) FindPosition(userID uint, key, direction string) (int, error) {
	column, direction, err := normalize(key, direction)
	if err != nil {
		return 0, err
	}

	var userIDs []uint
	err = s.db.Model(&models.PlayerProfile{}).
		Where("games_played > 0").
		Order(fmt.Sprintf("%s %s, id ASC", column, direction)).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return 0, err
	}

	for i, id := range userIDs {
		if id == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}
