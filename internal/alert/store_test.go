package alert_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketbot/internal/alert"
)

func newWatch(sub int64, symbol, target string) alert.Watch {
	return alert.Watch{
		ID:           uuid.New(),
		SubscriberID: sub,
		Symbol:       symbol,
		Target:       decimal.RequireFromString(target),
		CreatedAt:    time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC),
	}
}

func stores(t *testing.T, capacity int) map[string]alert.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return map[string]alert.Store{
		"memory": alert.NewMemoryStore(capacity),
		"redis":  alert.NewRedisStore(rdb, "", capacity),
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	for name, s := range stores(t, 0) {
		t.Run(name, func(t *testing.T) {
			first := newWatch(7, "BTCUSDT", "50000")
			_, replaced, err := s.Put(t.Context(), first)
			require.NoError(t, err)
			require.False(t, replaced)

			second := newWatch(7, "ETHUSDT", "3000")
			prev, replaced, err := s.Put(t.Context(), second)
			require.NoError(t, err)
			require.True(t, replaced)
			require.Equal(t, first.ID, prev.ID)

			n, err := s.Len(t.Context())
			require.NoError(t, err)
			require.Equal(t, 1, n)

			got, ok, err := s.Get(t.Context(), 7)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "ETHUSDT", got.Symbol)
			require.True(t, got.Target.Equal(decimal.NewFromInt(3000)))
		})
	}
}

func TestStore_CompareAndDelete(t *testing.T) {
	for name, s := range stores(t, 0) {
		t.Run(name, func(t *testing.T) {
			old := newWatch(1, "BTCUSDT", "10")
			_, _, err := s.Put(t.Context(), old)
			require.NoError(t, err)

			current := newWatch(1, "BTCUSDT", "20")
			_, _, err = s.Put(t.Context(), current)
			require.NoError(t, err)

			// A stale snapshot must not remove the newer watch.
			removed, err := s.CompareAndDelete(t.Context(), old)
			require.NoError(t, err)
			require.False(t, removed)

			removed, err = s.CompareAndDelete(t.Context(), current)
			require.NoError(t, err)
			require.True(t, removed)

			removed, err = s.CompareAndDelete(t.Context(), current)
			require.NoError(t, err)
			require.False(t, removed)

			_, ok, err := s.Get(t.Context(), 1)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	for name, s := range stores(t, 0) {
		t.Run(name, func(t *testing.T) {
			for _, sub := range []int64{3, 1, 2} {
				_, _, err := s.Put(t.Context(), newWatch(sub, "BTCUSDT", "1"))
				require.NoError(t, err)
			}

			list, err := s.List(t.Context())
			require.NoError(t, err)
			require.Len(t, list, 3)
			require.Equal(t, int64(1), list[0].SubscriberID)
			require.Equal(t, int64(3), list[2].SubscriberID)

			ok, err := s.Delete(t.Context(), 2)
			require.NoError(t, err)
			require.True(t, ok)
			ok, err = s.Delete(t.Context(), 2)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestStore_Capacity(t *testing.T) {
	for name, s := range stores(t, 2) {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Put(t.Context(), newWatch(1, "BTCUSDT", "1"))
			require.NoError(t, err)
			_, _, err = s.Put(t.Context(), newWatch(2, "BTCUSDT", "1"))
			require.NoError(t, err)

			_, _, err = s.Put(t.Context(), newWatch(3, "BTCUSDT", "1"))
			require.ErrorIs(t, err, alert.ErrRegistryFull)

			// Overwrites are still accepted at capacity.
			_, replaced, err := s.Put(t.Context(), newWatch(2, "ETHUSDT", "1"))
			require.NoError(t, err)
			require.True(t, replaced)
		})
	}
}

func TestStore_PutIfAbsent(t *testing.T) {
	for name, s := range stores(t, 1) {
		t.Run(name, func(t *testing.T) {
			first := newWatch(1, "BTCUSDT", "50000")
			ok, err := s.PutIfAbsent(t.Context(), first)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = s.PutIfAbsent(t.Context(), newWatch(1, "ETHUSDT", "3000"))
			require.NoError(t, err)
			require.False(t, ok)

			got, _, err := s.Get(t.Context(), 1)
			require.NoError(t, err)
			require.Equal(t, first.ID, got.ID)

			// A returned watch is not refused at capacity.
			ok, err = s.PutIfAbsent(t.Context(), newWatch(2, "BTCUSDT", "1"))
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}
