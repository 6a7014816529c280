// services/cleanup.go - Background sweeper for abandoned sessions
package services

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"
)

// CleanupService periodically cancels IN_PROGRESS sessions that were
// abandoned. Cancellation goes through the normal Cancel path, so the
// player statistics stay consistent with the session history.
type CleanupService struct {
	games    *GameService
	interval time.Duration
	maxAge   time.Duration
	stop     chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes and starts the singleton sweeper.
// STALE_SESSION_MAX_AGE_HOURS (default 24) controls how old a session
// must be before it is cancelled.
func InitCleanupService(games *GameService) {
	maxAgeHours := 24
	if v := os.Getenv("STALE_SESSION_MAX_AGE_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAgeHours = parsed
		}
	}

	cleanupService = &CleanupService{
		games:    games,
		interval: time.Hour,
		maxAge:   time.Duration(maxAgeHours) * time.Hour,
		stop:     make(chan struct{}),
	}
	cleanupService.Start()
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start launches the background sweep loop.
func (s *CleanupService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (s *CleanupService) Stop() {
	close(s.stop)
}

func (s *CleanupService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cancelled, err := s.games.CancelStale(ctx, s.maxAge)
	if err != nil {
		log.Printf("Stale session sweep failed: %v", err)
		return
	}
	if cancelled > 0 {
		log.Printf("✅ Cancelled %d stale game sessions", cancelled)
	}
}
