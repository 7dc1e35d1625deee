package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test", ttl), mr
}

func TestRedisStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v"))
	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, time.Hour, mr.TTL("test:k"))

	require.NoError(t, store.Remove(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	require.NoError(t, store.Set(ctx, "k", "v"))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()

	_, _, err := store.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryStore_ExpiresIdleEntries(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreTTL(time.Hour)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Set(ctx, "abandoned", "a"))
	require.NoError(t, store.Set(ctx, "active", "b"))

	clock = clock.Add(50 * time.Minute)
	require.NoError(t, store.Set(ctx, "active", "b2"))

	clock = clock.Add(20 * time.Minute)
	_, ok, err := store.Get(ctx, "abandoned")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := store.Get(ctx, "active")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b2", v)
}

func TestMemoryStore_SweepDropsUnreadEntries(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreTTL(time.Minute)
	store.now = func() time.Time { return clock }

	for _, k := range []string{"s1", "s2", "s3"} {
		require.NoError(t, store.Set(ctx, k, "x"))
	}
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, store.Set(ctx, "s4", "x"))

	store.mu.Lock()
	size := len(store.data)
	store.mu.Unlock()
	assert.Equal(t, 1, size, "expired sessions are removed from the map, not only hidden")
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_NoTTLKeepsEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	require.NoError(t, store.Set(ctx, "k", "v"))
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNamespace_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	a := Namespace(base, "a")
	b := Namespace(base, "b")

	require.NoError(t, a.Set(ctx, cartdom.StorageKey, "A"))
	_, ok, err := b.Get(ctx, cartdom.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, _ := base.Get(ctx, "session/a/"+cartdom.StorageKey)
	assert.True(t, ok)
	assert.Equal(t, "A", v)
}

func TestCartSurvivesReopenThroughRedis(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Hour)
	session := Namespace(store, "s1")

	c := cartdom.Open(ctx, session, cartdom.StorageKey)
	c.Add(ctx, catalog.Product{ID: "P1", Name: "Velvet", CategoryID: "c", Price: decimal.NewFromInt(10)}, nil, "")
	c.Add(ctx, catalog.Product{ID: "P1", Name: "Velvet", CategoryID: "c", Price: decimal.NewFromInt(10)}, nil, "")

	again := cartdom.Open(ctx, session, cartdom.StorageKey)
	assert.Equal(t, 2, again.TotalQuantity())
	assert.True(t, decimal.NewFromInt(20).Equal(again.TotalPrice()))
}
