package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bhmida/bricodirect-backend/internal/navigation"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

const sessionKeyPrefix = "session:nav:"

// SessionSnapshot is the persisted navigation state plus a monotonically
// increasing version. The version lets the session service detect a data
// load that resolved after the user already navigated elsewhere.
type SessionSnapshot struct {
	State   navigation.State `json:"state"`
	Version uint64           `json:"version"`
}

type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Save(ctx context.Context, sessionID string, snapshot *SessionSnapshot) error
}

type sessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &sessionStore{client: client, ttl: ttl}
}

// Load returns the stored snapshot; a missing or corrupt entry degrades to a
// fresh home-screen session.
func (s *sessionStore) Load(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &SessionSnapshot{State: navigation.Home()}, nil
		}
		logger.Error("Failed to load navigation session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return DecodeSnapshot(sessionID, data), nil
}

// DecodeSnapshot unmarshals a stored session, degrading corrupt data to a
// fresh home-screen session.
func DecodeSnapshot(sessionID string, data []byte) *SessionSnapshot {
	var snapshot SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Warn("Corrupt session payload, starting at home", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return &SessionSnapshot{State: navigation.Home()}
	}
	return &snapshot
}

func (s *sessionStore) Save(ctx context.Context, sessionID string, snapshot *SessionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		logger.Error("Failed to persist navigation session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}
