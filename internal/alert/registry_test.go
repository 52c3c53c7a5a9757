package alert_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketbot/internal/alert"
	"marketbot/internal/provider"
)

type fakeQuoter struct {
	mu     sync.Mutex
	prices map[string]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeQuoter() *fakeQuoter {
	return &fakeQuoter{prices: map[string]string{}, errs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeQuoter) SpotPrice(_ context.Context, symbol string) (provider.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if err := f.errs[symbol]; err != nil {
		return provider.Quote{}, err
	}
	p, ok := f.prices[symbol]
	if !ok {
		return provider.Quote{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return provider.Quote{Symbol: symbol, Price: decimal.RequireFromString(p)}, nil
}

func TestRegistry_SetWatchOverwrites(t *testing.T) {
	r := alert.NewRegistry(alert.NewMemoryStore(0), newFakeQuoter(), nil)

	_, err := r.SetWatch(t.Context(), 42, "BTCUSDT", decimal.NewFromInt(50000))
	require.NoError(t, err)
	_, err = r.SetWatch(t.Context(), 42, "ETHUSDT", decimal.NewFromInt(3000))
	require.NoError(t, err)

	n, err := r.Len(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	w, ok, err := r.Watch(t.Context(), 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ETHUSDT", w.Symbol)
}

func TestRegistry_SetWatchRejectsNonPositiveTarget(t *testing.T) {
	r := alert.NewRegistry(alert.NewMemoryStore(0), newFakeQuoter(), nil)

	_, err := r.SetWatch(t.Context(), 1, "BTCUSDT", decimal.NewFromInt(-5))
	require.ErrorIs(t, err, alert.ErrInvalidTarget)
	_, err = r.SetWatch(t.Context(), 1, "BTCUSDT", decimal.Zero)
	require.ErrorIs(t, err, alert.ErrInvalidTarget)
}

func TestRegistry_SetWatchRejectsHugeExponent(t *testing.T) {
	r := alert.NewRegistry(alert.NewMemoryStore(0), newFakeQuoter(), nil)

	for _, target := range []string{"1e100000", "1e-100000", "1234567890123456789012345678901234567890"} {
		_, err := r.SetWatch(t.Context(), 1, "BTCUSDT", decimal.RequireFromString(target))
		require.ErrorIs(t, err, alert.ErrInvalidTarget, target)
	}

	n, err := r.Len(t.Context())
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = r.SetWatch(t.Context(), 1, "BTCUSDT", decimal.RequireFromString("1e18"))
	require.NoError(t, err)
	_, err = r.SetWatch(t.Context(), 1, "SHIBUSDT", decimal.RequireFromString("0.000012345"))
	require.NoError(t, err)
}

func TestRegistry_FiresImmediatelyWhenAlreadyAbove(t *testing.T) {
	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "50000"
	r := alert.NewRegistry(alert.NewMemoryStore(0), q, nil)

	_, err := r.SetWatch(t.Context(), 1, "BTCUSDT", decimal.NewFromInt(10))
	require.NoError(t, err)

	fired, err := r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Len(t, fired, 1)
	require.Equal(t, int64(1), fired[0].Watch.SubscriberID)
	require.Equal(t, "50000", fired[0].Quote.Price.String())

	// Never returned twice.
	fired, err = r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Empty(t, fired)
	_, ok, err := r.Watch(t.Context(), 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegistry_BelowTargetStaysPending(t *testing.T) {
	q := newFakeQuoter()
	q.prices["ETHUSDT"] = "2999.99"
	r := alert.NewRegistry(alert.NewMemoryStore(0), q, nil)

	_, err := r.SetWatch(t.Context(), 1, "ETHUSDT", decimal.NewFromInt(3000))
	require.NoError(t, err)

	fired, err := r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Empty(t, fired)

	q.mu.Lock()
	q.prices["ETHUSDT"] = "3000"
	q.mu.Unlock()

	fired, err = r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Len(t, fired, 1)
}

func TestRegistry_FetchesEachSymbolOnce(t *testing.T) {
	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "1"
	r := alert.NewRegistry(alert.NewMemoryStore(0), q, nil)

	for sub := int64(1); sub <= 5; sub++ {
		_, err := r.SetWatch(t.Context(), sub, "BTCUSDT", decimal.NewFromInt(100))
		require.NoError(t, err)
	}

	_, err := r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, q.calls["BTCUSDT"])
}

func TestRegistry_FailuresAreIsolated(t *testing.T) {
	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "60000"
	q.errs["USDTRY"] = errors.New("upstream down")
	r := alert.NewRegistry(alert.NewMemoryStore(0), q, nil)

	_, err := r.SetWatch(t.Context(), 1, "USDTRY", decimal.NewFromInt(30))
	require.NoError(t, err)
	_, err = r.SetWatch(t.Context(), 2, "BTCUSDT", decimal.NewFromInt(50000))
	require.NoError(t, err)

	fired, err := r.CheckAndConsume(t.Context())
	require.Error(t, err)
	require.ErrorContains(t, err, "USDTRY")
	require.Len(t, fired, 1)
	require.Equal(t, int64(2), fired[0].Watch.SubscriberID)

	// The failed watch is kept for the next tick.
	_, ok, err := r.Watch(t.Context(), 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegistry_ClearWatch(t *testing.T) {
	r := alert.NewRegistry(alert.NewMemoryStore(0), newFakeQuoter(), nil)

	ok, err := r.ClearWatch(t.Context(), 9)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = r.SetWatch(t.Context(), 9, "BTCUSDT", decimal.NewFromInt(1))
	require.NoError(t, err)
	ok, err = r.ClearWatch(t.Context(), 9)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegistry_ConcurrentSetAndCheckNeverDoubleFires(t *testing.T) {
	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "100"
	r := alert.NewRegistry(alert.NewMemoryStore(0), q, nil)

	const subscribers = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		seen  = map[string]int{}
		start = make(chan struct{})
	)
	for sub := int64(0); sub < subscribers; sub++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 10; i++ {
				_, err := r.SetWatch(context.Background(), sub, "BTCUSDT", decimal.NewFromInt(1))
				assert.NoError(t, err)
			}
		}()
	}
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 10; i++ {
				fired, err := r.CheckAndConsume(context.Background())
				assert.NoError(t, err)
				mu.Lock()
				for _, f := range fired {
					seen[f.Watch.ID.String()]++
				}
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	for id, n := range seen {
		require.Equalf(t, 1, n, "watch %s fired %d times", id, n)
	}

	// Whatever survived is the last watch set per subscriber and still fires once.
	left, err := r.Len(t.Context())
	require.NoError(t, err)
	fired, err := r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Len(t, fired, left)
}

func TestRegistry_WithRedisStore(t *testing.T) {
	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "60000"
	s := stores(t, 0)["redis"]
	r := alert.NewRegistry(s, q, nil)

	_, err := r.SetWatch(t.Context(), 5, "BTCUSDT", decimal.NewFromInt(59000))
	require.NoError(t, err)

	fired, err := r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Len(t, fired, 1)
	require.Equal(t, int64(5), fired[0].Watch.SubscriberID)

	n, err := r.Len(t.Context())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRegistry_RestoreKeepsNewerWatch(t *testing.T) {
	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "60000"
	registry := alert.NewRegistry(alert.NewMemoryStore(0), q, nil)
	_, err := registry.SetWatch(t.Context(), 9, "BTCUSDT", decimal.NewFromInt(50000))
	require.NoError(t, err)

	fired, err := registry.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Len(t, fired, 1)

	newer, err := registry.SetWatch(t.Context(), 9, "ETHUSDT", decimal.NewFromInt(4000))
	require.NoError(t, err)

	restored, err := registry.Restore(t.Context(), fired[0].Watch)
	require.NoError(t, err)
	require.False(t, restored)

	w, ok, err := registry.Watch(t.Context(), 9)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, newer.ID, w.ID)
}

func TestRegistry_CorruptRedisFieldDoesNotBlockOthers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := newFakeQuoter()
	q.prices["BTCUSDT"] = "60000"
	r := alert.NewRegistry(alert.NewRedisStore(rdb, "", 0), q, nil)

	_, err := r.SetWatch(t.Context(), 5, "BTCUSDT", decimal.NewFromInt(59000))
	require.NoError(t, err)
	mr.HSet(alert.DefaultRedisKey, "6", "{not json")

	fired, err := r.CheckAndConsume(t.Context())
	require.NoError(t, err)
	require.Len(t, fired, 1)
	require.Equal(t, int64(5), fired[0].Watch.SubscriberID)
	require.Equal(t, "{not json", mr.HGet(alert.DefaultRedisKey, "6"))
}
