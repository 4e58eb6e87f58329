package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courtagent/models"

	"github.com/go-redis/redis/v8"
)

// WorkflowSession is the state parked between Execute and a later Confirm or
// Cancel. Offered is the exact candidate set the user saw; confirming
// anything outside it is a stale selection.
type WorkflowSession struct {
	SessionID   string                 `json:"sessionId"`
	Date        string                 `json:"date"`
	Intent      models.BookingIntent   `json:"intent"`
	Status      models.BookingStatus   `json:"status"`
	Offered     []models.CandidateSlot `json:"offered"`
	VisitorMode bool                   `json:"visitorMode"`
	Warnings    []string               `json:"warnings,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Contains reports whether the slot was part of the offered set.
func (s *WorkflowSession) Contains(slot models.CandidateSlot) bool {
	for _, offered := range s.Offered {
		if offered.Key() == slot.Key() {
			return true
		}
	}
	return false
}

// WithoutSlot returns the offered set minus the given slot, for re-offering
// alternatives after a failed commit.
func (s *WorkflowSession) WithoutSlot(slot models.CandidateSlot) []models.CandidateSlot {
	var remaining []models.CandidateSlot
	for _, offered := range s.Offered {
		if offered.Key() != slot.Key() {
			remaining = append(remaining, offered)
		}
	}
	return remaining
}

// RedisSessionStore keeps workflow sessions as JSON blobs with a TTL, so a
// pending confirmation expires on its own if the user walks away.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(sessionID string) string {
	return "bookingSession:" + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, session *WorkflowSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(session.SessionID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save workflow session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*WorkflowSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow session: %w", err)
	}
	var session WorkflowSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKey(sessionID)).Err()
}
