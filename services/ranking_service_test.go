package services

import (
	"errors"
	"testing"

	"statboard/models"

	"gorm.io/gorm"
)

func seedProfile(t *testing.T, db *gorm.DB, username string, games, wins, best int) *models.User {
	t.Helper()

	user := createTestUser(t, db, username)
	profile := models.PlayerProfile{
		UserID:      user.ID,
		GamesPlayed: games,
		Wins:        wins,
		BestScore:   best,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile for %s: %v", username, err)
	}
	return user
}

func TestRankOrdersByBestScoreDescending(t *testing.T) {
	db := newTestDB(t)
	ranking := NewRankingService(db)

	seedProfile(t, db, "carol", 2, 0, 50)
	seedProfile(t, db, "alice", 5, 3, 200)
	seedProfile(t, db, "bob", 3, 1, 75)
	seedProfile(t, db, "bystander", 0, 0, 0)

	ranked, err := ranking.Rank("", "")
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	if len(ranked) != 3 {
		t.Fatalf("players without games must be excluded, got %d rows", len(ranked))
	}
	want := []string{"alice", "bob", "carol"}
	for i, username := range want {
		if ranked[i].Username != username {
			t.Fatalf("position %d: expected %s, got %s", i+1, username, ranked[i].Username)
		}
		if ranked[i].Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, ranked[i].Position)
		}
	}
}

func TestRankByWinsAscending(t *testing.T) {
	db := newTestDB(t)
	ranking := NewRankingService(db)

	seedProfile(t, db, "alice", 5, 3, 200)
	seedProfile(t, db, "bob", 3, 1, 75)

	ranked, err := ranking.Rank("wins", "asc")
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if ranked[0].Username != "bob" || ranked[1].Username != "alice" {
		t.Fatalf("expected bob before alice, got %+v", ranked)
	}
}

func TestRankRejectsUnknownKey(t *testing.T) {
	db := newTestDB(t)
	ranking := NewRankingService(db)

	if _, err := ranking.Rank("elo", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown key, got %v", err)
	}
	if _, err := ranking.Rank("best_score", "sideways"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown direction, got %v", err)
	}
}

func TestFindPosition(t *testing.T) {
	db := newTestDB(t)
	ranking := NewRankingService(db)

	seedProfile(t, db, "alice", 5, 3, 200)
	bob := seedProfile(t, db, "bob", 3, 1, 75)
	idle := seedProfile(t, db, "bystander", 0, 0, 0)

	position, err := ranking.FindPosition(bob.ID, "", "")
	if err != nil {
		t.Fatalf("find position failed: %v", err)
	}
	if position != 2 {
		t.Fatalf("expected position 2, got %d", position)
	}

	position, err = ranking.FindPosition(idle.ID, "", "")
	if err != nil {
		t.Fatalf("find position failed: %v", err)
	}
	if position != 0 {
		t.Fatalf("a player without games is unranked, got %d", position)
	}

	position, err = ranking.FindPosition(99999, "", "")
	if err != nil {
		t.Fatalf("find position failed: %v", err)
	}
	if position != 0 {
		t.Fatalf("an unknown user is unranked, got %d", position)
	}
}

func TestRankTiesBreakOnProfileID(t *testing.T) {
	db := newTestDB(t)
	ranking := NewRankingService(db)

	seedProfile(t, db, "first", 2, 1, 100)
	seedProfile(t, db, "second", 2, 1, 100)

	ranked, err := ranking.Rank("best_score", "desc")
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if ranked[0].Username != "first" || ranked[1].Username != "second" {
		t.Fatalf("ties must keep insertion order, got %+v", ranked)
	}
}
