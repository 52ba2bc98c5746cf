package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "estate_market/internal/adapters/redis"
	"estate_market/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	var got domain.Property
	ok, err := c.Get(ctx, "property:1", &got)
	require.NoError(t, err)
	assert.False(t, ok, "expected miss on empty cache")

	in := domain.Property{ID: "1", PropertyFields: domain.PropertyFields{Title: "Villa", City: "Goa"}}
	require.NoError(t, c.Set(ctx, "property:1", in, 60))
	assert.True(t, mr.Exists("estate:property:1"))

	ok, err = c.Get(ctx, "property:1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Villa", got.Title)

	require.NoError(t, c.Del(ctx, "property:1", "properties:all"))
	assert.False(t, mr.Exists("estate:property:1"))
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []string{"a"}, 1))
	mr.FastForward(2 * time.Second)

	var out []string
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
