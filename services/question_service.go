// services/question_service.go - Question dispatch and answer scoring
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"statboard/models"

	"gorm.io/gorm"
)

// Scoring constants. Fixed values, no partial credit and no scaling by
// question difficulty.
const (
	CorrectAnswerPoints = 100
	HintPenaltyPoints   = 30
	WrongAnswerPenalty  = 20
)

// QuestionService serves questions for board positions and scores the
// submitted answers. The served question is remembered per (user, game)
// in the pending store and consumed on submission, so a client can only
// answer the question it was actually given, and only once per turn.
type QuestionService struct {
	db      *gorm.DB
	games   *GameService
	stats   *StatsService
	pending *PendingStore
}

func NewQuestionService(db *gorm.DB, games *GameService, stats *StatsService, pending *PendingStore) *QuestionService {
	return &QuestionService{db: db, games: games, stats: stats, pending: pending}
}

// QuestionPayload is the question as exposed to the client. Answer
// correctness is deliberately absent.
type QuestionPayload struct {
	ID            uint           `json:"id"`
	Text          string         `json:"text"`
	Category      string         `json:"category"`
	BoardPosition int            `json:"board_position"`
	Hint          string         `json:"hint,omitempty"`
	ImagePath     string         `json:"image_path,omitempty"`
	Answers       []AnswerChoice `json:"answers"`
}

type AnswerChoice struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// AnswerResult is the feedback for a submitted answer.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	PointsAwarded int    `json:"points_awarded,omitempty"`
	Penalty       int    `json:"penalty,omitempty"`
	QuestionText  string `json:"question_text"`
	Explanation   string `json:"explanation,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	CurrentScore  int    `json:"current_score"`
}

// PickQuestion selects a question for the board position, uniformly at
// random among the ones not yet served during this session. When every
// question at the position was already asked, the whole set becomes
// eligible again. The selection is recorded as the pending question for
// the player's turn.
func (s *QuestionService) PickQuestion(ctx context.Context, gameID, userID uint, position int) (*QuestionPayload, error) {
	var game models.GameSession
	err := s.db.Where("id = ? AND user_id = ? AND status = ?",
		gameID, userID, models.StatusInProgress).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no game %d in progress", ErrNotFound, gameID)
		}
		return nil, err
	}

	var questions []models.Question
	err = s.db.Preload("Answers").
		Where("board_position = ?", position).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions for board position %d", ErrNotFound, position)
	}

	asked, err := s.pending.AskedSet(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	candidates := questions[:0:0]
	for _, q := range questions {
		if !asked[q.ID] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		candidates = questions
	}

	question := candidates[rand.Intn(len(candidates))]

	if err := s.pending.SetPending(ctx, userID, gameID, question.ID); err != nil {
		return nil, err
	}
	if err := s.pending.MarkAsked(ctx, userID, gameID, question.ID); err != nil {
		return nil, err
	}

	payload := &QuestionPayload{
		ID:            question.ID,
		Text:          question.Text,
		Category:      question.Category,
		BoardPosition: question.BoardPosition,
		Hint:          question.Hint,
		ImagePath:     question.ImagePath,
		Answers:       make([]AnswerChoice, 0, len(question.Answers)),
	}
	for _, a := range question.Answers {
		payload.Answers = append(payload.Answers, AnswerChoice{ID: a.ID, Text: a.Text})
	}

	return payload, nil
}

// SubmitAnswer consumes the pending question and scores the chosen
// answer: +100 for a correct answer (-30 of that when the hint was
// used), a flat -20 for a wrong one. The response always carries the
// question's explanation; for a wrong answer it also reveals the
// correct option. An answer that does not belong to the pending
// question is rejected without consuming the turn.
func (s *QuestionService) SubmitAnswer(ctx context.Context, gameID, userID, answerID uint, usedHint bool) (*AnswerResult, error) {
	questionID, ok, err := s.pending.TakePending(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no pending question for this turn", ErrInvalidInput)
	}

	var question models.Question
	err = s.db.Preload("Answers").First(&question, questionID).Error
	if err != nil {
		s.restorePending(ctx, userID, gameID, questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return nil, err
	}

	var chosen *models.AnswerOption
	var correct *models.AnswerOption
	for i := range question.Answers {
		a := &question.Answers[i]
		if a.ID == answerID {
			chosen = a
		}
		if a.IsCorrect {
			correct = a
		}
	}
	if chosen == nil {
		// The turn survives a bad answer ID: only a scored submission
		// consumes the pending question.
		s.restorePending(ctx, userID, gameID, questionID)
		return nil, fmt.Errorf("%w: answer %d does not belong to the pending question", ErrNotFound, answerID)
	}

	result := &AnswerResult{
		QuestionText: question.Text,
		Explanation:  question.Explanation,
	}

	if chosen.IsCorrect {
		points := CorrectAnswerPoints
		if usedHint {
			points -= HintPenaltyPoints
		}

		total, err := s.games.ApplyScoreDelta(gameID, userID, points)
		if err != nil {
			return nil, err
		}
		if err := s.stats.IncrementCorrectAnswers(s.db, userID); err != nil {
			return nil, err
		}

		result.Correct = true
		result.PointsAwarded = points
		result.CurrentScore = total
		return result, nil
	}

	total, err := s.games.ApplyScoreDelta(gameID, userID, -WrongAnswerPenalty)
	if err != nil {
		return nil, err
	}

	result.Penalty = WrongAnswerPenalty
	result.CurrentScore = total
	if correct != nil {
		result.CorrectAnswer = correct.Text
	}
	return result, nil
}

// restorePending puts the consumed marker back. Best effort: losing it
// only costs the player a re-pick.
func (s *QuestionService) restorePending(ctx context.Context, userID, gameID, questionID uint) {
	if err := s.pending.SetPending(ctx, userID, gameID, questionID); err != nil {
		log.Printf("Failed to restore pending question for game %d: %v", gameID, err)
	}
}
