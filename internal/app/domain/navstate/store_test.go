package navstate

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

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, zap.NewNop()), mr
}

func TestRedisStore_SaveGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a non-Home page exactly", func(t *testing.T) {
		store, _ := newTestStore(t)
		err := store.Save(ctx, "u-1", models.NavigationState{
			CurrentPage:  "Fleet",
			SelectedRole: "customer",
		})
		require.NoError(t, err)

		got, err := store.Load(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Fleet", got.CurrentPage)
		assert.Equal(t, "customer", got.SelectedRole)
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("Home page save is a silent no-op", func(t *testing.T) {
		store, mr := newTestStore(t)
		err := store.Save(ctx, "u-1", models.NavigationState{CurrentPage: PageHome})
		require.NoError(t, err)
		assert.False(t, mr.Exists("nav:u-1"))
	})

	t.Run("missing user is a silent no-op", func(t *testing.T) {
		store, mr := newTestStore(t)
		err := store.Save(ctx, "", models.NavigationState{CurrentPage: "Fleet"})
		require.NoError(t, err)
		assert.Empty(t, mr.Keys())
	})

	t.Run("save is a whole value overwrite", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Save(ctx, "u-1", models.NavigationState{
			CurrentPage:  "Fleet",
			SelectedRole: "customer",
			Timestamp:    time.Now(),
		}))
		require.NoError(t, store.Save(ctx, "u-1", models.NavigationState{
			CurrentPage: "Services",
			Timestamp:   time.Now(),
		}))

		got, err := store.Load(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "Services", got.CurrentPage)
		assert.Empty(t, got.SelectedRole, "old fields must not bleed through")
	})
}

func TestRedisStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("nil when nothing stored", func(t *testing.T) {
		store, _ := newTestStore(t)
		got, err := store.Load(ctx, "u-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("nil and purge when corrupt", func(t *testing.T) {
		store, mr := newTestStore(t)
		mr.Set("nav:u-1", "%%%")

		got, err := store.Load(ctx, "u-1")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, mr.Exists("nav:u-1"))
	})
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, "u-1", models.NavigationState{CurrentPage: "Fleet"}))
	require.NoError(t, store.Clear(ctx, "u-1"))

	got, err := store.Load(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Clear(ctx, "u-1"))
}
