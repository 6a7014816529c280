// models/game.go - Game session and score records
package models

import (
	"time"
)

// Game session statuses. A session leaves IN_PROGRESS exactly once and
// never transitions out of a terminal status.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// FinalBoardPosition is the last space on the board. Reaching it (or
// beyond) completes the game the same way an explicit finalize does.
const FinalBoardPosition = 21

// GameSession is one play-through of the board by a single user.
type GameSession struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Status    string     `gorm:"not null;default:'IN_PROGRESS';size:20" json:"status"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	WinnerID  *uint      `json:"winner_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User   *User        `gorm:"foreignKey:UserID" json:"-"`
	Scores []ScoreEntry `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"scores,omitempty"`
}

// ScoreEntry is the running point total for a user within one session.
// Points are signed: wrong-answer penalties can push the total below zero.
type ScoreEntry struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	GameID uint `gorm:"not null;uniqueIndex:idx_score_game_user" json:"game_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_score_game_user" json:"user_id"`
	Points int  `gorm:"not null;default:0" json:"points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Game *GameSession `gorm:"foreignKey:GameID" json:"-"`
	User *User        `gorm:"foreignKey:UserID" json:"-"`
}

// IsTerminal reports whether the session can no longer be mutated.
func (g *GameSession) IsTerminal() bool {
	return g.Status == StatusCompleted || g.Status == StatusCancelled
}

// DurationSeconds returns the elapsed whole seconds between start and
// end, or 0 when the session has not ended.
func (g *GameSession) DurationSeconds() int {
	if g.EndedAt == nil {
		return 0
	}
	return int(g.EndedAt.Sub(g.StartedAt).Seconds())
}

func (GameSession) TableName() string {
	return "game_sessions"
}

func (ScoreEntry) TableName() string {
	return "score_entries"
}
