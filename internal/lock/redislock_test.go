package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) Locker {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return Locker{R: redis.NewClient(&redis.Options{Addr: mr.Addr()}), RetryBackoff: 5 * time.Millisecond}
}

func TestWithLockRunsCallback(t *testing.T) {
	locker := newLocker(t)
	ran := false
	err := locker.WithLock(context.Background(), "lock:test", time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)

	// Lock is released afterwards, so a second acquisition succeeds immediately.
	err = locker.TryWithLock(context.Background(), "lock:test", time.Second, func(context.Context) error { return nil })
	require.NoError(t, err)
}

func TestTryWithLockSkipsWhenHeld(t *testing.T) {
	locker := newLocker(t)
	require.NoError(t, locker.R.SetNX(context.Background(), "lock:scan", "other", time.Minute).Err())

	err := locker.TryWithLock(context.Background(), "lock:scan", time.Second, func(context.Context) error {
		t.Fatal("callback should not run while lock is held")
		return nil
	})
	require.ErrorIs(t, err, ErrNotAcquired)
}

func TestWithLockPropagatesCallbackError(t *testing.T) {
	locker := newLocker(t)
	boom := errors.New("boom")
	err := locker.WithLock(context.Background(), "lock:test", time.Second, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
}
