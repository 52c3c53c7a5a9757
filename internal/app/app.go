// Package app assembles the quote, news, chart and alert components from
// configuration. The binaries under cmd share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"marketbot/internal/alert"
	"marketbot/internal/bot"
	"marketbot/internal/chart"
	"marketbot/internal/config"
	"marketbot/internal/httpx"
	"marketbot/internal/metrics"
	"marketbot/internal/news"
	"marketbot/internal/news/newsapi"
	"marketbot/internal/provider"
	"marketbot/internal/provider/binance"
	"marketbot/internal/provider/cache"
	"marketbot/internal/provider/ratelimit"
	"marketbot/internal/provider/yahoo"
	"marketbot/internal/quote"
)

// ChartDays is the lookback of every rendered chart.
const ChartDays = 5

type App struct {
	HTTP   *httpx.Client
	Quotes *quote.Gateway
	News   *news.Gateway
	Charts *chart.Renderer
	Alerts *alert.Registry

	closers []func() error
}

// Build wires the components. m may be nil when nothing is scraped.
func Build(ctx context.Context, cfg config.Config, log *logrus.Logger, m *metrics.Metrics) (*App, error) {
	entry := logrus.NewEntry(log)

	httpc := httpx.New(cfg.HTTP.RequestTimeout)
	httpc.Log = entry.WithField("component", "http")

	crypto := Decorate(binance.New(binance.Config{
		APIKey:    cfg.Binance.APIKey,
		APISecret: cfg.Binance.APISecret,
		BaseURL:   cfg.Binance.Endpoint,
		HTTP:      httpc.HTTP,
	}), cfg.Quotes)

	yopts := []yahoo.ClientOption{yahoo.WithHTTPClient(httpc)}
	if cfg.Yahoo.Endpoint != "" {
		yopts = append(yopts, yahoo.WithBaseURL(cfg.Yahoo.Endpoint))
	}
	forex := Decorate(yahoo.New(yahoo.NewClient(yopts...)), cfg.Quotes)

	quotes := quote.NewGateway(crypto, forex, entry)
	if m != nil {
		quotes.OnError = m.ObserveProviderError
	}

	nopts := []newsapi.ClientOption{newsapi.WithHTTPClient(httpc)}
	if cfg.News.Endpoint != "" {
		nopts = append(nopts, newsapi.WithBaseURL(cfg.News.Endpoint))
	}
	if cfg.News.Language != "" {
		nopts = append(nopts, newsapi.WithLanguage(cfg.News.Language))
	}
	newsGateway := news.NewGateway(newsapi.NewClient(cfg.News.APIKey, nopts...), nil, entry)

	a := &App{
		HTTP:   httpc,
		Quotes: quotes,
		News:   newsGateway,
		Charts: chart.New(ChartDays),
	}

	store, err := a.store(ctx, cfg, entry)
	if err != nil {
		return nil, err
	}
	a.Alerts = alert.NewRegistry(store, quotes, entry)
	return a, nil
}

// Decorate applies the configured rate limit and spot cache to p. The cache
// sits outside the limiter so hits never wait for a token.
func Decorate(p provider.Provider, q config.Quotes) provider.Provider {
	p = ratelimit.New(p, q.RatePerSec, q.Burst)
	return cache.New(p, q.CacheTTL, uint(max(q.CacheSize, 0)))
}

func (a *App) store(ctx context.Context, cfg config.Config, log *logrus.Entry) (alert.Store, error) {
	switch strings.ToLower(cfg.Alerts.Store) {
	case "", "memory":
		return alert.NewMemoryStore(cfg.Alerts.MaxWatches), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, rdb.Close)
		log.WithField("addr", cfg.Redis.Addr).Info("alert watches stored in redis")
		rs := alert.NewRedisStore(rdb, cfg.Redis.Key, cfg.Alerts.MaxWatches)
		rs.Log = log.WithField("component", "alert")
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown alert store %q", cfg.Alerts.Store)
	}
}

// Dispatcher registers the bot commands over the app's components.
func (a *App) Dispatcher(cfg config.Config, log *logrus.Logger, m *metrics.Metrics) (*bot.Dispatcher, error) {
	d, err := bot.New(bot.Deps{
		Quotes:       a.Quotes,
		News:         a.News,
		Charts:       a.Charts,
		Alerts:       a.Alerts,
		Crypto:       cryptoSymbols(cfg.Symbols.Crypto),
		Forex:        ForexSymbols(cfg.Symbols.Forex),
		ChartDays:    ChartDays,
		NewsPageSize: cfg.News.PageSize,
	}, logrus.NewEntry(log))
	if err != nil {
		return nil, err
	}
	if m != nil {
		d.OnCommand = m.ObserveCommand
	}
	return d, nil
}

func cryptoSymbols(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = quote.Normalize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ForexSymbols maps configured base currencies to display entries, reusing the
// known names and falling back to the code itself. Empty input keeps the
// bot defaults.
func ForexSymbols(bases []string) []bot.ForexSymbol {
	if len(bases) == 0 {
		return nil
	}
	names := make(map[string]string, len(bot.DefaultForex))
	for _, f := range bot.DefaultForex {
		names[f.Base] = f.Name
	}
	out := make([]bot.ForexSymbol, 0, len(bases))
	for _, b := range bases {
		b = quote.Normalize(b)
		if b == "" {
			continue
		}
		name, ok := names[b]
		if !ok {
			name = b
		}
		out = append(out, bot.ForexSymbol{Base: b, Name: name})
	}
	return out
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
