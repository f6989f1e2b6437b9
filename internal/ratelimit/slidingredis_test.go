package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newSlidingWindow(t *testing.T) (SlidingWindow, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	return SlidingWindow{Client: client, Prefix: "checkout:ratelimit:", Now: clock.Now}, mr, clock
}

func TestSlidingWindowAllow(t *testing.T) {
	limiter, _, clock := newSlidingWindow(t)
	ctx := context.Background()
	window := 2 * time.Second
	first := clock.now

	for i := 0; i < 2; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "ip:10.0.0.1", window, 2)
		require.NoError(t, err)
		require.True(t, allowed, "request %d", i)
		require.Equal(t, 1-i, remaining)
		clock.Advance(500 * time.Millisecond)
	}

	allowed, remaining, reset, err := limiter.Allow(ctx, "ip:10.0.0.1", window, 2)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)
	require.Equal(t, first.Add(window), reset, "reset follows the oldest admitted request")

	allowed, _, _, err = limiter.Allow(ctx, "ip:10.0.0.2", window, 2)
	require.NoError(t, err)
	require.True(t, allowed, "keys are limited independently")
}

func TestSlidingWindowSlidesPastOldestRequest(t *testing.T) {
	limiter, _, clock := newSlidingWindow(t)
	ctx := context.Background()
	window := time.Second

	allowed, _, _, err := limiter.Allow(ctx, "ip:10.0.0.1", window, 1)
	require.NoError(t, err)
	require.True(t, allowed)

	clock.Advance(600 * time.Millisecond)
	allowed, _, _, err = limiter.Allow(ctx, "ip:10.0.0.1", window, 1)
	require.NoError(t, err)
	require.False(t, allowed)

	clock.Advance(500 * time.Millisecond)
	allowed, remaining, _, err := limiter.Allow(ctx, "ip:10.0.0.1", window, 1)
	require.NoError(t, err)
	require.True(t, allowed, "rejected requests do not extend the window")
	require.Zero(t, remaining)
}

func TestSlidingWindowRecordsOnlyAdmittedRequests(t *testing.T) {
	limiter, mr, _ := newSlidingWindow(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, _, err := limiter.Allow(ctx, "ip:10.0.0.1", time.Minute, 3)
		require.NoError(t, err)
	}

	members, err := mr.ZMembers("checkout:ratelimit:ip:10.0.0.1")
	require.NoError(t, err)
	require.Len(t, members, 3)
	require.Equal(t, time.Minute, mr.TTL("checkout:ratelimit:ip:10.0.0.1"))
}

func TestSlidingWindowWithoutClientAllows(t *testing.T) {
	allowed, remaining, _, err := SlidingWindow{}.Allow(context.Background(), "key", time.Second, 3)
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 3, remaining)
}
