package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the normalized spot price returned by all providers.
type Quote struct {
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Source     string          `json:"source"`
	ReceivedAt time.Time       `json:"received_at"`
}

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Series is a chronological list of daily closes for one symbol.
type Series struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Dates returns the point dates in order.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// Closes returns the point closes in order.
func (s Series) Closes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Provider is a market-data source addressed with provider-native symbols.
//
//go:generate mockgen -package=providertest -destination=providertest/mock_provider.go -source=provider.go Provider
type Provider interface {
	Name() string
	Spot(ctx context.Context, symbol string) (Quote, error)
	History(ctx context.Context, symbol string, days int) (Series, error)
}
