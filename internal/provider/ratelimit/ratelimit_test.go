package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"marketbot/internal/provider"
	"marketbot/internal/provider/providertest"
)

func TestNew_DisabledReturnsUnderlying(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := providertest.NewMockProvider(ctrl)

	require.Same(t, p, New(p, 0, 5))
	require.Same(t, p, Every(p, 0))
}

func TestProvider_PassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := providertest.NewMockProvider(ctrl)
	p.EXPECT().Name().Return("Binance")
	p.EXPECT().Spot(gomock.Any(), "BTCUSDT").Return(provider.Quote{Symbol: "BTCUSDT"}, nil)
	p.EXPECT().History(gomock.Any(), "BTCUSDT", 5).Return(provider.Series{Symbol: "BTCUSDT"}, nil)

	l := New(p, 100, 2)
	require.Equal(t, "Binance", l.Name())

	q, err := l.Spot(t.Context(), "BTCUSDT")
	require.NoError(t, err)
	require.Equal(t, "BTCUSDT", q.Symbol)

	s, err := l.History(t.Context(), "BTCUSDT", 5)
	require.NoError(t, err)
	require.Equal(t, "BTCUSDT", s.Symbol)
}

func TestProvider_CanceledWhileWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := providertest.NewMockProvider(ctrl)
	p.EXPECT().Spot(gomock.Any(), "BTCUSDT").Return(provider.Quote{}, nil).Times(1)

	l := Every(p, time.Hour)

	// First call consumes the only token.
	_, err := l.Spot(t.Context(), "BTCUSDT")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Spot(ctx, "BTCUSDT")
	require.Error(t, err)
}
