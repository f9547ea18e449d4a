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

type entry struct {
	Name string `json:"name"`
}

func newTestHelper(t *testing.T) (*Helper, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewHelper(client, "test:"), mr
}

func TestHelperSetGetDelete(t *testing.T) {
	ctx := context.Background()
	h, mr := newTestHelper(t)

	require.NoError(t, h.Set(ctx, "k", []entry{{Name: "a"}}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	var got []entry
	require.NoError(t, h.Get(ctx, "k", &got))
	assert.Equal(t, []entry{{Name: "a"}}, got)

	require.NoError(t, h.Delete(ctx, "k"))
	assert.ErrorIs(t, h.Get(ctx, "k", &got), ErrCacheNotFound)
}

func TestHelperExpires(t *testing.T) {
	ctx := context.Background()
	h, mr := newTestHelper(t)

	require.NoError(t, h.Set(ctx, "k", entry{Name: "a"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got entry
	assert.ErrorIs(t, h.Get(ctx, "k", &got), ErrCacheNotFound)
}

func TestHelperWithoutClient(t *testing.T) {
	ctx := context.Background()
	h := NewHelper(nil, "test:")

	assert.False(t, h.Enabled())
	assert.NoError(t, h.Set(ctx, "k", entry{}, time.Minute))
	assert.NoError(t, h.Delete(ctx, "k"))

	var got entry
	assert.ErrorIs(t, h.Get(ctx, "k", &got), ErrCacheNotAvailable)
}
