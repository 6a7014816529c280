// services/pending_store.go - Session-scoped transient state in Redis
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PendingStore tracks per-(user, game) turn state: which question was
// served last (the pending marker consumed by the answer submission)
// and which questions were already asked during the session.
type PendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPendingStore(client *redis.Client, ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &PendingStore{client: client, ttl: ttl}
}

func (s *PendingStore) pendingKey(userID, gameID uint) string {
	return fmt.Sprintf("game:pending:%d:%d", userID, gameID)
}

func (s *PendingStore) askedKey(userID, gameID uint) string {
	return fmt.Sprintf("game:asked:%d:%d", userID, gameID)
}

// SetPending records the question served for the player's current turn,
// replacing any previous marker.
func (s *PendingStore) SetPending(ctx context.Context, userID, gameID, questionID uint) error {
	return s.client.Set(ctx, s.pendingKey(userID, gameID), questionID, s.ttl).Err()
}

// TakePending returns and clears the pending question ID. The marker is
// consumed atomically, so a duplicate submission for the same turn
// finds nothing and is rejected by the caller.
func (s *PendingStore) TakePending(ctx context.Context, userID, gameID uint) (uint, bool, error) {
	id, err := s.client.GetDel(ctx, s.pendingKey(userID, gameID)).Uint64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint(id), true, nil
}

// MarkAsked adds the question to the session's asked set.
func (s *PendingStore) MarkAsked(ctx context.Context, userID, gameID, questionID uint) error {
	key := s.askedKey(userID, gameID)
	if err := s.client.SAdd(ctx, key, questionID).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

// AskedSet returns the IDs of questions already served this session.
func (s *PendingStore) AskedSet(ctx context.Context, userID, gameID uint) (map[uint]bool, error) {
	members, err := s.client.SMembers(ctx, s.askedKey(userID, gameID)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	asked := make(map[uint]bool, len(members))
	for _, m := range members {
		var id uint
		if _, err := fmt.Sscanf(m, "%d", &id); err == nil {
			asked[id] = true
		}
	}
	return asked, nil
}

// ClearSession drops all transient state for a finished session.
func (s *PendingStore) ClearSession(ctx context.Context, userID, gameID uint) error {
	return s.client.Del(ctx, s.pendingKey(userID, gameID), s.askedKey(userID, gameID)).Err()
}
