package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheRepo, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := &clients.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: srv.Addr()})}
	t.Cleanup(func() { _ = client.Client.Close() })

	repo := NewCacheRepo(client, converter.ProductConverterImpl{}, &cfg.RedisCfg{ProductTTL: time.Minute}, logger.NewNopLogger())
	return repo, srv
}

func TestCacheRoundTrip(t *testing.T) {
	repo, srv := newTestCache(t)
	ctx := context.Background()

	products := []domain.Product{
		{ID: "a1", Name: "Lamp", Price: 1500, Rating: 4.5, CategoryName: "Basic", CreatedAt: time.Unix(100, 0).UTC()},
		{ID: "b2", Name: "Chair", Price: 9900, CategoryName: "Premium", CreatedAt: time.Unix(200, 0).UTC()},
	}
	require.NoError(t, repo.SetProducts(ctx, products))
	assert.Equal(t, time.Minute, srv.TTL("product:a1"))

	got, err := repo.GetProducts(ctx, []string{"a1", "missing", "b2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, products[0], got["a1"])
	assert.Equal(t, products[1], got["b2"])

	require.NoError(t, repo.DeleteProducts(ctx, []string{"a1"}))
	got, err = repo.GetProducts(ctx, []string{"a1", "b2"})
	require.NoError(t, err)
	assert.NotContains(t, got, "a1")
	assert.Contains(t, got, "b2")
}

func TestCacheDropsMismatchedAndCorruptEntries(t *testing.T) {
	repo, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, srv.Set("product:x", `{"id":"y","name":"wrong"}`))
	require.NoError(t, srv.Set("product:z", `not json`))

	got, err := repo.GetProducts(ctx, []string{"x", "z"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, srv.Exists("product:x"))
}

func TestCacheReportsUnavailableServer(t *testing.T) {
	repo, srv := newTestCache(t)
	srv.Close()

	_, err := repo.GetProducts(context.Background(), []string{"a1"})
	assert.Error(t, err)
}

func TestRedisValueToBytes(t *testing.T) {
	b, err := redisValueToBytes("abc", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)

	b, err = redisValueToBytes(nil, "k")
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = redisValueToBytes(42, "k")
	assert.Error(t, err)
}
