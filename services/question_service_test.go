package services

import (
	"context"
	"errors"
	"testing"

	"statboard/models"
)

func TestPickAndAnswerCorrectly(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)

	seeded := seedQuestion(t, db, "P001", 3, "the mean", "the mode", "the median")

	payload, err := questions.PickQuestion(ctx, game.ID, user.ID, 3)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if payload.ID != seeded.ID {
		t.Fatalf("expected question %d, got %d", seeded.ID, payload.ID)
	}
	if len(payload.Answers) != 3 {
		t.Fatalf("expected 3 answer choices, got %d", len(payload.Answers))
	}

	var correctID uint
	for _, a := range seeded.Answers {
		if a.IsCorrect {
			correctID = a.ID
		}
	}

	result, err := questions.SubmitAnswer(ctx, game.ID, user.ID, correctID, false)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.Correct || result.PointsAwarded != CorrectAnswerPoints {
		t.Fatalf("expected a %d-point correct answer, got %+v", CorrectAnswerPoints, result)
	}
	if result.CurrentScore != CorrectAnswerPoints {
		t.Fatalf("expected score %d, got %d", CorrectAnswerPoints, result.CurrentScore)
	}

	var profile models.PlayerProfile
	db.Where("user_id = ?", user.ID).First(&profile)
	if profile.CorrectAnswers != 1 {
		t.Fatalf("expected 1 correct answer recorded, got %d", profile.CorrectAnswers)
	}
}

func TestHintReducesAward(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)
	seeded := seedQuestion(t, db, "P001", 3, "the mean", "the mode")

	if _, err := questions.PickQuestion(ctx, game.ID, user.ID, 3); err != nil {
		t.Fatalf("pick failed: %v", err)
	}

	result, err := questions.SubmitAnswer(ctx, game.ID, user.ID, seeded.Answers[0].ID, true)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	want := CorrectAnswerPoints - HintPenaltyPoints
	if result.PointsAwarded != want || result.CurrentScore != want {
		t.Fatalf("expected %d points with hint, got %+v", want, result)
	}
}

func TestWrongAnswerAppliesPenaltyAndReveals(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)
	seeded := seedQuestion(t, db, "P001", 3, "the mean", "the mode")

	var wrongID uint
	for _, a := range seeded.Answers {
		if !a.IsCorrect {
			wrongID = a.ID
		}
	}

	if _, err := questions.PickQuestion(ctx, game.ID, user.ID, 3); err != nil {
		t.Fatalf("pick failed: %v", err)
	}

	result, err := questions.SubmitAnswer(ctx, game.ID, user.ID, wrongID, false)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Correct {
		t.Fatalf("expected a wrong answer")
	}
	if result.Penalty != WrongAnswerPenalty || result.CurrentScore != -WrongAnswerPenalty {
		t.Fatalf("expected a %d-point penalty, got %+v", WrongAnswerPenalty, result)
	}
	if result.CorrectAnswer != "the mean" {
		t.Fatalf("expected the correct option revealed, got %q", result.CorrectAnswer)
	}

	var profile models.PlayerProfile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		if profile.CorrectAnswers != 0 {
			t.Fatalf("a wrong answer must not count as correct")
		}
	}
}

func TestSubmitWithoutPendingQuestionRejected(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)
	seeded := seedQuestion(t, db, "P001", 3, "the mean", "the mode")

	_, err := questions.SubmitAnswer(ctx, game.ID, user.ID, seeded.Answers[0].ID, false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without a pending question, got %v", err)
	}
}

func TestDoubleSubmitRejected(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)
	seeded := seedQuestion(t, db, "P001", 3, "the mean", "the mode")

	if _, err := questions.PickQuestion(ctx, game.ID, user.ID, 3); err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if _, err := questions.SubmitAnswer(ctx, game.ID, user.ID, seeded.Answers[0].ID, false); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := questions.SubmitAnswer(ctx, game.ID, user.ID, seeded.Answers[0].ID, false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on a replayed submit, got %v", err)
	}

	_, score, _ := games.CheckStatus(game.ID, user.ID)
	if score != CorrectAnswerPoints {
		t.Fatalf("a replayed submit must not double-score, got %d", score)
	}
}

func TestSubmitForeignAnswerKeepsTurn(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)
	seeded := seedQuestion(t, db, "P001", 3, "the mean", "the mode")
	other := seedQuestion(t, db, "P002", 7, "positive correlation")

	if _, err := questions.PickQuestion(ctx, game.ID, user.ID, 3); err != nil {
		t.Fatalf("pick failed: %v", err)
	}

	_, err := questions.SubmitAnswer(ctx, game.ID, user.ID, other.Answers[0].ID, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an answer of another question, got %v", err)
	}

	// The rejected submission must not consume the turn: the same
	// pending question can still be answered without re-picking.
	result, err := questions.SubmitAnswer(ctx, game.ID, user.ID, seeded.Answers[0].ID, false)
	if err != nil {
		t.Fatalf("submit after rejection failed: %v", err)
	}
	if !result.Correct || result.CurrentScore != CorrectAnswerPoints {
		t.Fatalf("expected a scored correct answer, got %+v", result)
	}
}

func TestPickQuestionEmptyPosition(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)

	_, err := questions.PickQuestion(ctx, game.ID, user.ID, 15)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty position, got %v", err)
	}
}

func TestPickQuestionRequiresActiveGame(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)
	seedQuestion(t, db, "P001", 3, "the mean")

	if err := games.Cancel(ctx, game.ID, user.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := questions.PickQuestion(ctx, game.ID, user.ID, 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a finished game, got %v", err)
	}
}

func TestPickQuestionAvoidsRepeatsUntilExhausted(t *testing.T) {
	ctx := context.Background()
	db, games, _, questions := newGameStack(t)
	user := createTestUser(t, db, "alice")
	game, _, _ := games.StartOrResume(user.ID)

	seedQuestion(t, db, "P001", 3, "the mean", "the mode")
	seedQuestion(t, db, "P002", 3, "the median", "the range")

	first, err := questions.PickQuestion(ctx, game.ID, user.ID, 3)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	second, err := questions.PickQuestion(ctx, game.ID, user.ID, 3)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("the second pick must avoid the already-asked question")
	}

	// Both questions asked: the pool resets instead of starving.
	third, err := questions.PickQuestion(ctx, game.ID, user.ID, 3)
	if err != nil {
		t.Fatalf("pick after exhaustion failed: %v", err)
	}
	if third.ID != first.ID && third.ID != second.ID {
		t.Fatalf("unexpected question %d", third.ID)
	}
}
