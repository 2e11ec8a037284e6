package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

const keyPrefix = "session:"

// Store persists auth sessions. The token and the profile live as a
// single value so a reader can never observe one without the other.
type Store interface {
	Save(ctx context.Context, token string, user models.UserProfile) error
	Get(ctx context.Context, token string) (*models.Session, error)
	IsValid(ctx context.Context, token string) (*models.Session, bool)
	Clear(ctx context.Context, token string) error
	ClearAllForUser(ctx context.Context, userID string) error
}

// RedisStore keeps sessions in Redis with an optional expiry window.
// expiry == 0 disables expiry entirely.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	expiry time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, logger *zap.Logger, expiry time.Duration) *RedisStore {
	return &RedisStore{client: client, logger: logger, expiry: expiry}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

// Save writes the session as one JSON value under session:<token>.
// A repeated save for the same token is a full overwrite.
func (s *RedisStore) Save(ctx context.Context, token string, user models.UserProfile) error {
	if token == "" {
		return fmt.Errorf("empty token: %w", models.ErrBadRequest)
	}

	sess := models.Session{
		Token:   token,
		User:    user,
		SavedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), payload, s.expiry).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the session for token. A missing key, or a stored value
// that no longer parses, both come back as ErrNotFound. Corrupt values
// are deleted on sight so the next read is clean.
func (s *RedisStore) Get(ctx context.Context, token string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn("discarding corrupt session payload",
			zap.Error(err))
		_ = s.client.Del(ctx, sessionKey(token)).Err()
		return nil, models.ErrNotFound
	}
	if sess.Token == "" || sess.User.ID == "" {
		// Token without profile (or vice versa) is not a session.
		_ = s.client.Del(ctx, sessionKey(token)).Err()
		return nil, models.ErrNotFound
	}
	return &sess, nil
}

// IsValid reports whether token maps to a live session. Store errors
// fail closed: the caller sees an invalid session, never an error.
func (s *RedisStore) IsValid(ctx context.Context, token string) (*models.Session, bool) {
	if token == "" {
		return nil, false
	}
	sess, err := s.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("session validity check failed", zap.Error(err))
		}
		return nil, false
	}
	if s.expiry > 0 && time.Since(sess.SavedAt) > s.expiry {
		_ = s.Clear(ctx, token)
		return nil, false
	}
	return sess, true
}

// Clear removes the session. Clearing an absent token is a no-op.
func (s *RedisStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ClearAllForUser removes every session belonging to userID. Sessions are
// keyed by token, so this scans the namespace and matches on the stored
// profile.
func (s *RedisStore) ClearAllForUser(ctx context.Context, userID string) error {
	var clearErr error
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var sess models.Session
		if err := json.Unmarshal(raw, &sess); err != nil || sess.User.ID != userID {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			clearErr = errors.Join(clearErr, fmt.Errorf("failed to clear %s: %w", key, err))
		}
	}
	if err := iter.Err(); err != nil {
		clearErr = errors.Join(clearErr, fmt.Errorf("session scan failed: %w", err))
	}
	return clearErr
}
