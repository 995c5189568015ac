package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type item struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestCache_SetGetDelete(t *testing.T) {
	mr, client := newTestClient(t)
	c := NewCache(client, zap.NewNop(), "tasks")
	ctx := context.Background()

	var got []item
	found, err := c.GetObject(ctx, "all_tasks", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := []item{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}
	require.NoError(t, c.Set(ctx, "all_tasks", want, time.Hour))
	assert.True(t, mr.Exists("tasks:all_tasks"))
	assert.Equal(t, time.Hour, mr.TTL("tasks:all_tasks"))

	found, err = c.GetObject(ctx, "all_tasks", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Set(ctx, "tasks_by_status", map[string][]item{"TODO": want}, time.Hour))
	require.NoError(t, c.Delete(ctx, "all_tasks", "tasks_by_status"))
	assert.False(t, mr.Exists("tasks:all_tasks"))
	assert.False(t, mr.Exists("tasks:tasks_by_status"))
}

func TestCache_Expiry(t *testing.T) {
	mr, client := newTestClient(t)
	c := NewCache(client, zap.NewNop(), "tasks")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{ID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got item
	found, err := c.GetObject(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_CorruptValue(t *testing.T) {
	mr, client := newTestClient(t)
	c := NewCache(client, zap.NewNop(), "tasks")
	require.NoError(t, mr.Set("tasks:k", "{not json"))

	var got item
	found, err := c.GetObject(context.Background(), "k", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCache_ServerDown(t *testing.T) {
	mr, client := newTestClient(t)
	c := NewCache(client, zap.NewNop(), "tasks")
	mr.Close()

	var got item
	_, err := c.GetObject(context.Background(), "k", &got)
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), "k", item{}, time.Minute))
}

func TestLimiter_Allow(t *testing.T) {
	mr, client := newTestClient(t)
	l := NewLimiter(client, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := l.Allow(ctx, "login:1.2.3.4", 5, 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := l.Allow(ctx, "login:1.2.3.4", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow(ctx, "login:5.6.7.8", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "keys are independent")

	mr.FastForward(11 * time.Minute)
	allowed, err = l.Allow(ctx, "login:1.2.3.4", 5, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window resets")
}

func TestLimiter_FailsOpen(t *testing.T) {
	mr, client := newTestClient(t)
	l := NewLimiter(client, zap.NewNop())
	mr.Close()

	allowed, err := l.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, allowed)
}
