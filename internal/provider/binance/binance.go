package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"marketbot/internal/provider"
)

// ErrNoRows is returned when the exchange answers with no tickers or klines.
var ErrNoRows = errors.New("no price rows")

type Config struct {
	APIKey    string
	APISecret string
	// BaseURL overrides the REST endpoint; empty keeps the SDK default.
	BaseURL string
	// HTTP is the shared transport client; nil keeps http.DefaultClient.
	HTTP *http.Client
}

// Provider serves spot tickers and daily klines from the Binance REST API.
// Symbols are passed through unchanged (e.g. BTCUSDT).
type Provider struct {
	client *gobinance.Client
	now    func() time.Time
}

func New(cfg Config) *Provider {
	c := gobinance.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.HTTP != nil {
		c.HTTPClient = cfg.HTTP
	}
	return &Provider{client: c, now: time.Now}
}

func (p *Provider) Name() string { return "Binance" }

func (p *Provider) Spot(ctx context.Context, symbol string) (provider.Quote, error) {
	prices, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return provider.Quote{}, fmt.Errorf("ticker price: %w", err)
	}
	for _, sp := range prices {
		if sp == nil || sp.Symbol != symbol {
			continue
		}
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return provider.Quote{}, fmt.Errorf("decoding price %q: %w", sp.Price, err)
		}
		return provider.Quote{
			Symbol:     symbol,
			Price:      price,
			Source:     p.Name(),
			ReceivedAt: p.now().UTC(),
		}, nil
	}
	return provider.Quote{}, ErrNoRows
}

// History returns daily closes starting `days` days ago (UTC), oldest first.
func (p *Provider) History(ctx context.Context, symbol string, days int) (provider.Series, error) {
	if days <= 0 {
		days = 1
	}
	start := p.now().UTC().AddDate(0, 0, -days)
	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval("1d").
		StartTime(start.UnixMilli()).
		Do(ctx)
	if err != nil {
		return provider.Series{}, fmt.Errorf("klines: %w", err)
	}

	s := provider.Series{Symbol: symbol, Points: make([]provider.PricePoint, 0, len(klines))}
	for _, k := range klines {
		if k == nil {
			continue
		}
		closePrice, err := decimal.NewFromString(k.Close)
		if err != nil {
			return provider.Series{}, fmt.Errorf("decoding close %q: %w", k.Close, err)
		}
		s.Points = append(s.Points, provider.PricePoint{
			Date:  time.UnixMilli(k.OpenTime).UTC(),
			Close: closePrice,
		})
	}
	if len(s.Points) == 0 {
		return s, ErrNoRows
	}
	return s, nil
}
