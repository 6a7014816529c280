// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Profile  *PlayerProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Sessions []GameSession  `gorm:"foreignKey:UserID" json:"sessions,omitempty"`
}

// PlayerProfile holds the cumulative play statistics for one user.
// Created once when the account is provisioned; mutated only when a
// game session reaches a terminal status.
type PlayerProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	GamesPlayed        int     `gorm:"default:0" json:"games_played"`
	Wins               int     `gorm:"default:0" json:"wins"`
	AverageScore       float64 `gorm:"default:0" json:"average_score"`
	BestScore          int     `gorm:"default:0" json:"best_score"`
	AverageGameSeconds int     `gorm:"default:0" json:"average_game_seconds"`
	CorrectAnswers     int     `gorm:"default:0" json:"correct_answers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (PlayerProfile) TableName() string {
	return "player_profiles"
}
