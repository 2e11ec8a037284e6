package navstate

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

const keyPrefix = "nav:"

// PageHome is the landing page. Navigation to it is never persisted so a
// fresh visit always starts clean.
const PageHome = "Home"

// Store remembers the last in-app location per user. Writes are whole
// value overwrites; there is no merge.
type Store interface {
	Save(ctx context.Context, userID string, state models.NavigationState) error
	Load(ctx context.Context, userID string) (*models.NavigationState, error)
	Clear(ctx context.Context, userID string) error
}

type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func navKey(userID string) string {
	return keyPrefix + userID
}

// Save persists the navigation state. Saves for the Home page, or with
// no user, are silent no-ops: only meaningful in-app locations survive a
// reload.
func (s *RedisStore) Save(ctx context.Context, userID string, state models.NavigationState) error {
	if userID == "" || state.CurrentPage == PageHome || state.CurrentPage == "" {
		return nil
	}
	if state.Timestamp.IsZero() {
		state.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal navigation state: %w", err)
	}
	if err := s.client.Set(ctx, navKey(userID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store navigation state: %w", err)
	}
	return nil
}

// Load returns the stored state, or nil when nothing (or nothing
// parseable) is stored. It does not check whether the owning session is
// still valid; the dispatcher does that.
func (s *RedisStore) Load(ctx context.Context, userID string) (*models.NavigationState, error) {
	raw, err := s.client.Get(ctx, navKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation state: %w", err)
	}

	var state models.NavigationState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Warn("discarding corrupt navigation state",
			zap.String("userID", userID), zap.Error(err))
		_ = s.client.Del(ctx, navKey(userID)).Err()
		return nil, nil
	}
	return &state, nil
}

// Clear removes the stored state. Idempotent.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, navKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear navigation state: %w", err)
	}
	return nil
}
