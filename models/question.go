// models/question.go - Question bank (read-only at runtime, populated by cmd/importer)
package models

import (
	"regexp"
	"time"
)

// Question categories.
const (
	CategoryBasics          = "BASICS"
	CategoryCentralTendency = "CENTRAL_TENDENCY"
	CategoryProbability     = "PROBABILITY"
	CategoryGraphical       = "GRAPHICAL"
	CategoryCorrelation     = "CORRELATION"
	CategoryDispersion      = "DISPERSION"
)

// Import codes: questions are "P" + 3 digits, answers are "R" + the
// question's 3 digits + a 2-digit sequence (R00101 belongs to P001).
var (
	QuestionCodePattern = regexp.MustCompile(`^P\d{3}$`)
	AnswerCodePattern   = regexp.MustCompile(`^R\d{5}$`)
)

type Question struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Code          string `gorm:"uniqueIndex;not null;size:4" json:"code"`
	Text          string `gorm:"not null;type:text" json:"text"`
	Category      string `gorm:"not null;size:20" json:"category"`
	BoardPosition int    `gorm:"not null;index" json:"board_position"`
	Hint          string `gorm:"type:text" json:"hint,omitempty"`
	Explanation   string `gorm:"type:text" json:"explanation,omitempty"`
	ImagePath     string `gorm:"size:255" json:"image_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Answers []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

// AnswerOption is one choice for a question. Well-formed data has
// exactly one correct option per question; the importer reports but
// does not reject questions that violate this.
type AnswerOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Code       string `gorm:"not null;size:6;uniqueIndex:idx_answer_code_question" json:"code"`
	QuestionID uint   `gorm:"not null;uniqueIndex:idx_answer_code_question;index" json:"question_id"`
	Text       string `gorm:"not null;size:255" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
