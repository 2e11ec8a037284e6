package dashcache

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

const keyPrefix = "dash:"

// Store holds the last-fetched dashboard snapshot per role scope. It is
// a paint-first seed for shell restores, not a source of truth: every
// write is a full overwrite, including empty fetch results.
type Store interface {
	Save(ctx context.Context, scope models.DashboardScope, userID string, snap models.DashboardSnapshot) error
	Load(ctx context.Context, scope models.DashboardScope, userID string) (*models.DashboardSnapshot, error)
	Clear(ctx context.Context, scope models.DashboardScope, userID string) error
	ClearAll(ctx context.Context, userID string) error
}

type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func dashKey(scope models.DashboardScope, userID string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, scope, userID)
}

// Save overwrites the snapshot for one scope. Scopes are independent;
// writing the manager snapshot never touches the admin one.
func (s *RedisStore) Save(ctx context.Context, scope models.DashboardScope, userID string, snap models.DashboardSnapshot) error {
	if !models.ValidScope(string(scope)) {
		return fmt.Errorf("unknown dashboard scope %q: %w", scope, models.ErrBadRequest)
	}
	if snap.LastFetch.IsZero() {
		snap.LastFetch = time.Now().UTC()
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard snapshot: %w", err)
	}
	if err := s.client.Set(ctx, dashKey(scope, userID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store dashboard snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when absent or unparseable.
func (s *RedisStore) Load(ctx context.Context, scope models.DashboardScope, userID string) (*models.DashboardSnapshot, error) {
	raw, err := s.client.Get(ctx, dashKey(scope, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard snapshot: %w", err)
	}

	var snap models.DashboardSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("discarding corrupt dashboard snapshot",
			zap.String("scope", string(scope)),
			zap.String("userID", userID),
			zap.Error(err))
		_ = s.client.Del(ctx, dashKey(scope, userID)).Err()
		return nil, nil
	}
	return &snap, nil
}

// Clear removes one scope's snapshot. Idempotent.
func (s *RedisStore) Clear(ctx context.Context, scope models.DashboardScope, userID string) error {
	if err := s.client.Del(ctx, dashKey(scope, userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear dashboard snapshot: %w", err)
	}
	return nil
}

// ClearAll removes the snapshot for every scope, touching each namespace
// explicitly and reporting any partial failure.
func (s *RedisStore) ClearAll(ctx context.Context, userID string) error {
	var clearErr error
	for _, scope := range models.DashboardScopes {
		if err := s.Clear(ctx, scope, userID); err != nil {
			clearErr = errors.Join(clearErr, err)
		}
	}
	return clearErr
}
