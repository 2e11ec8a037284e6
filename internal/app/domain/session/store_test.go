package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

func newTestStore(t *testing.T, expiry time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, zap.NewNop(), expiry), mr
}

func testProfile(id string) models.UserProfile {
	return models.UserProfile{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Asha",
		LastName:  "Verma",
		Role:      models.RoleCustomer,
	}
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, 0)

	err := store.Save(ctx, "tok-1", testProfile("u-1"))
	require.NoError(t, err)

	sess, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "u-1", sess.User.ID)
	assert.False(t, sess.SavedAt.IsZero())
}

func TestRedisStore_IsValid(t *testing.T) {
	ctx := context.Background()

	t.Run("valid only with token and profile together", func(t *testing.T) {
		store, _ := newTestStore(t, 0)
		require.NoError(t, store.Save(ctx, "tok-1", testProfile("u-1")))

		sess, ok := store.IsValid(ctx, "tok-1")
		assert.True(t, ok)
		assert.Equal(t, "u-1", sess.User.ID)
	})

	t.Run("absent token is invalid", func(t *testing.T) {
		store, _ := newTestStore(t, 0)
		_, ok := store.IsValid(ctx, "never-saved")
		assert.False(t, ok)
	})

	t.Run("empty token is invalid", func(t *testing.T) {
		store, _ := newTestStore(t, 0)
		_, ok := store.IsValid(ctx, "")
		assert.False(t, ok)
	})

	t.Run("stored value without profile is invalid", func(t *testing.T) {
		store, mr := newTestStore(t, 0)
		mr.Set("session:tok-x", `{"token":"tok-x","savedAt":"2026-01-01T00:00:00Z"}`)

		_, ok := store.IsValid(ctx, "tok-x")
		assert.False(t, ok)
	})

	t.Run("corrupt payload fails closed and is purged", func(t *testing.T) {
		store, mr := newTestStore(t, 0)
		mr.Set("session:tok-bad", "{not json")

		_, ok := store.IsValid(ctx, "tok-bad")
		assert.False(t, ok)
		assert.False(t, mr.Exists("session:tok-bad"))
	})

	t.Run("session outside the expiry window is invalid", func(t *testing.T) {
		store, mr := newTestStore(t, time.Minute)
		require.NoError(t, store.Save(ctx, "tok-old", testProfile("u-1")))

		mr.Set("session:tok-old",
			`{"token":"tok-old","user":{"id":"u-1","email":"a@b.c","role":"customer"},"savedAt":"2020-01-01T00:00:00Z"}`)

		_, ok := store.IsValid(ctx, "tok-old")
		assert.False(t, ok)
	})

	t.Run("zero expiry window disables expiry", func(t *testing.T) {
		store, mr := newTestStore(t, 0)
		mr.Set("session:tok-old",
			`{"token":"tok-old","user":{"id":"u-1","email":"a@b.c","role":"customer"},"savedAt":"2020-01-01T00:00:00Z"}`)

		_, ok := store.IsValid(ctx, "tok-old")
		assert.True(t, ok)
	})
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, 0)

	require.NoError(t, store.Save(ctx, "tok-1", testProfile("u-1")))
	require.NoError(t, store.Clear(ctx, "tok-1"))

	_, ok := store.IsValid(ctx, "tok-1")
	assert.False(t, ok)

	// idempotent
	assert.NoError(t, store.Clear(ctx, "tok-1"))
}

func TestRedisStore_ClearAllForUser(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, 0)

	require.NoError(t, store.Save(ctx, "tok-a", testProfile("u-1")))
	require.NoError(t, store.Save(ctx, "tok-b", testProfile("u-1")))
	require.NoError(t, store.Save(ctx, "tok-other", testProfile("u-2")))

	require.NoError(t, store.ClearAllForUser(ctx, "u-1"))

	_, ok := store.IsValid(ctx, "tok-a")
	assert.False(t, ok)
	_, ok = store.IsValid(ctx, "tok-b")
	assert.False(t, ok)
	_, ok = store.IsValid(ctx, "tok-other")
	assert.True(t, ok, "other users' sessions must survive")
}
