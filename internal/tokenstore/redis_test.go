package tokenstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb), mr
}

func TestRedisWhitelistRoundtrip(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WhitelistAdd(ctx, record("r1", time.Hour)))

	rec, err := s.WhitelistLookup(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "fp-abc", rec.Fingerprint)

	require.NoError(t, s.WhitelistRemove(ctx, "r1"))
	rec, err = s.WhitelistLookup(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Removal of an absent token is a no-op.
	require.NoError(t, s.WhitelistRemove(ctx, "r1"))
}

func TestRedisWhitelistLookupAbsent(t *testing.T) {
	s, _ := newRedisTestStore(t)

	rec, err := s.WhitelistLookup(context.Background(), "never-there")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRedisWhitelistTTL(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WhitelistAdd(ctx, record("r1", time.Minute)))

	mr.FastForward(2 * time.Minute)

	rec, err := s.WhitelistLookup(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, rec, "expired key must not report as present")
}

func TestRedisWhitelistReplace(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WhitelistAdd(ctx, record("old", time.Hour)))

	ok, err := s.WhitelistReplace(ctx, "old", record("new", time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := s.WhitelistLookup(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.WhitelistLookup(ctx, "new")
	require.NoError(t, err)
	require.NotNil(t, rec)

	// Second rotation of the consumed token loses.
	ok, err = s.WhitelistReplace(ctx, "old", record("newer", time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err = s.WhitelistLookup(ctx, "newer")
	require.NoError(t, err)
	assert.Nil(t, rec, "losing rotation must not install its record")
}

func TestRedisWhitelistReplaceConcurrentSingleWinner(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WhitelistAdd(ctx, record("contested", time.Hour)))

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	wins := make(chan bool, n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			ok, err := s.WhitelistReplace(ctx, "contested", record(fmt.Sprintf("next-%d", i), time.Hour))
			assert.NoError(t, err)
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for ok := range wins {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent rotation may win")

	rec, err := s.WhitelistLookup(ctx, "contested")
	require.NoError(t, err)
	assert.Nil(t, rec, "contested token must be consumed")
}

func TestRedisBlacklist(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BlacklistAdd(ctx, "t1", time.Now().Add(time.Minute)))

	present, err := s.BlacklistContains(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, present)

	present, err = s.BlacklistContains(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, present)

	mr.FastForward(2 * time.Minute)
	present, err = s.BlacklistContains(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, present)

	// Tokens already past expiry are never stored.
	require.NoError(t, s.BlacklistAdd(ctx, "t2", time.Now().Add(-time.Minute)))
	present, err = s.BlacklistContains(ctx, "t2")
	require.NoError(t, err)
	assert.False(t, present)
}
