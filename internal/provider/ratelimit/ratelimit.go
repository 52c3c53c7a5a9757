package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"marketbot/internal/provider"
)

// Provider wraps a provider and gates every upstream call with a token
// bucket. Calls wait for a token or return early if the context is canceled;
// failed calls are never retried here.
type Provider struct {
	P       provider.Provider
	Limiter *rate.Limiter
}

// New builds a limiter allowing perSecond calls with the given burst.
// A non-positive rate disables limiting and returns p unchanged.
func New(p provider.Provider, perSecond float64, burst int) provider.Provider {
	if perSecond <= 0 {
		return p
	}
	if burst <= 0 {
		burst = 1
	}
	return &Provider{P: p, Limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Every builds a limiter allowing one call per interval.
func Every(p provider.Provider, interval time.Duration) provider.Provider {
	if interval <= 0 {
		return p
	}
	return &Provider{P: p, Limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (l *Provider) Name() string { return l.P.Name() }

func (l *Provider) Spot(ctx context.Context, symbol string) (provider.Quote, error) {
	if err := l.wait(ctx); err != nil {
		return provider.Quote{}, err
	}
	return l.P.Spot(ctx, symbol)
}

func (l *Provider) History(ctx context.Context, symbol string, days int) (provider.Series, error) {
	if err := l.wait(ctx); err != nil {
		return provider.Series{}, err
	}
	return l.P.History(ctx, symbol, days)
}

func (l *Provider) wait(ctx context.Context) error {
	if l.Limiter == nil {
		return nil
	}
	return l.Limiter.Wait(ctx)
}
