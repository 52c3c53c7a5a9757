package yahoo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"marketbot/internal/provider"
)

// Provider adapts Client to provider.Provider. Symbols are expected in
// Yahoo form (e.g. USDTRY=X).
type Provider struct {
	name   string
	client *Client
	now    func() time.Time
}

func New(client *Client) *Provider {
	return &Provider{name: "Yahoo", client: client, now: time.Now}
}

func (p *Provider) Name() string { return p.name }

// Spot returns the latest daily close.
func (p *Provider) Spot(ctx context.Context, symbol string) (provider.Quote, error) {
	chart, err := p.client.GetChart(ctx, symbol, 1)
	if err != nil {
		return provider.Quote{}, err
	}
	last := chart.Bars[len(chart.Bars)-1]
	return provider.Quote{
		Symbol:     symbol,
		Price:      decimal.NewFromFloat(last.Close),
		Currency:   chart.Currency,
		Source:     p.name,
		ReceivedAt: p.now().UTC(),
	}, nil
}

// History returns daily closes covering the last days.
func (p *Provider) History(ctx context.Context, symbol string, days int) (provider.Series, error) {
	chart, err := p.client.GetChart(ctx, symbol, days)
	if err != nil {
		return provider.Series{}, err
	}
	s := provider.Series{Symbol: symbol, Points: make([]provider.PricePoint, 0, len(chart.Bars))}
	for _, b := range chart.Bars {
		s.Points = append(s.Points, provider.PricePoint{Date: b.Time, Close: decimal.NewFromFloat(b.Close)})
	}
	return s, nil
}
