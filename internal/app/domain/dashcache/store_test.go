package dashcache

import (
	"context"
	"testing"

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

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	snap := models.DashboardSnapshot{
		ActiveModule: "bookings",
		Bookings:     []models.Booking{{ID: "b-1", Status: models.BookingStatusPending}},
	}
	require.NoError(t, store.Save(ctx, models.ScopeManager, "u-1", snap))

	got, err := store.Load(ctx, models.ScopeManager, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bookings", got.ActiveModule)
	require.Len(t, got.Bookings, 1)
	assert.Equal(t, "b-1", got.Bookings[0].ID)
	assert.False(t, got.LastFetch.IsZero())
}

func TestRedisStore_ScopeIndependence(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, models.ScopeManager, "u-1",
		models.DashboardSnapshot{ActiveModule: "fleet"}))
	require.NoError(t, store.Save(ctx, models.ScopeAdmin, "u-1",
		models.DashboardSnapshot{ActiveModule: "users"}))

	mgr, err := store.Load(ctx, models.ScopeManager, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "fleet", mgr.ActiveModule)

	adm, err := store.Load(ctx, models.ScopeAdmin, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "users", adm.ActiveModule)

	require.NoError(t, store.Clear(ctx, models.ScopeManager, "u-1"))

	gone, err := store.Load(ctx, models.ScopeManager, "u-1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	still, err := store.Load(ctx, models.ScopeAdmin, "u-1")
	require.NoError(t, err)
	require.NotNil(t, still, "clearing one scope must not touch another")
	assert.Equal(t, "users", still.ActiveModule)
}

func TestRedisStore_EmptyFetchOverwritesStale(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, models.ScopeUser, "u-1",
		models.DashboardSnapshot{Bookings: []models.Booking{{ID: "b-1"}}}))
	require.NoError(t, store.Save(ctx, models.ScopeUser, "u-1",
		models.DashboardSnapshot{}))

	got, err := store.Load(ctx, models.ScopeUser, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Bookings, "stale rows must not survive an empty fetch")
}

func TestRedisStore_UnknownScopeRejected(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	err := store.Save(ctx, models.DashboardScope("superuser"), "u-1", models.DashboardSnapshot{})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestRedisStore_ClearAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, scope := range models.DashboardScopes {
		require.NoError(t, store.Save(ctx, scope, "u-1",
			models.DashboardSnapshot{ActiveModule: string(scope)}))
	}
	require.NoError(t, store.Save(ctx, models.ScopeAdmin, "u-2",
		models.DashboardSnapshot{ActiveModule: "users"}))

	require.NoError(t, store.ClearAll(ctx, "u-1"))

	for _, scope := range models.DashboardScopes {
		got, err := store.Load(ctx, scope, "u-1")
		require.NoError(t, err)
		assert.Nil(t, got, "scope %s should be cleared", scope)
	}

	other, err := store.Load(ctx, models.ScopeAdmin, "u-2")
	require.NoError(t, err)
	assert.NotNil(t, other, "other users' snapshots must survive")
}
