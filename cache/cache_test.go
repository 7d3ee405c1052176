package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "test:", time.Minute), mr
}

func TestCache_FillAndGet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	type payload struct {
		GoldPrice string `json:"gold_price"`
	}
	var got payload
	found, gen, err := c.Get(ctx, KeyLatestPrice, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, gen)

	stored, err := c.Fill(ctx, KeyLatestPrice, gen, payload{GoldPrice: "6100.50"})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("test:"+KeyLatestPrice), "value is stored under the prefix")

	found, _, err = c.Get(ctx, KeyLatestPrice, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "6100.50", got.GoldPrice)
}

func TestCache_Miss(t *testing.T) {
	c, _ := setupTestCache(t)
	var got string
	found, _, err := c.Get(context.Background(), "nothing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_TTL(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	_, err := c.Fill(ctx, KeyActiveBanners, 0, []string{"spring"})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("test:"+KeyActiveBanners))

	mr.FastForward(2 * time.Minute)
	var got []string
	found, _, err := c.Get(ctx, KeyActiveBanners, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Delete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	for i, key := range []string{KeyLatestPrice, KeyActiveBanners, "other"} {
		stored, err := c.Fill(ctx, key, 0, i+1)
		require.NoError(t, err)
		require.True(t, stored)
	}

	require.NoError(t, c.Delete(ctx, KeyLatestPrice, KeyActiveBanners, "never-set"))
	require.NoError(t, c.Delete(ctx))

	var v int
	found, gen, _ := c.Get(ctx, KeyLatestPrice, &v)
	assert.False(t, found)
	assert.Equal(t, int64(1), gen)
	found, _, _ = c.Get(ctx, KeyActiveBanners, &v)
	assert.False(t, found)
	found, gen, _ = c.Get(ctx, "other", &v)
	assert.True(t, found)
	assert.Zero(t, gen)
	assert.Equal(t, 3, v)
}

func TestCache_FillAfterDeleteIsDropped(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	var v string
	found, gen, err := c.Get(ctx, KeyLatestPrice, &v)
	require.NoError(t, err)
	require.False(t, found)

	// a write lands between the miss and the fill
	require.NoError(t, c.Delete(ctx, KeyLatestPrice))

	stored, err := c.Fill(ctx, KeyLatestPrice, gen, "stale")
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("test:"+KeyLatestPrice))

	_, gen, err = c.Get(ctx, KeyLatestPrice, &v)
	require.NoError(t, err)
	stored, err = c.Fill(ctx, KeyLatestPrice, gen, "fresh")
	require.NoError(t, err)
	assert.True(t, stored)

	found, _, err = c.Get(ctx, KeyLatestPrice, &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fresh", v)
}

func TestCache_UnreachableServer(t *testing.T) {
	c, mr := setupTestCache(t)
	mr.Close()

	var v int
	_, _, err := c.Get(context.Background(), KeyLatestPrice, &v)
	assert.Error(t, err)
	_, err = c.Fill(context.Background(), KeyLatestPrice, 0, 1)
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := Connect(context.Background(), mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	assert.NoError(t, c.Ping(context.Background()))

	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}
