package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketbot/internal/provider"
)

// ErrEmptySeries is wrapped by UnavailableError when a provider returns no points.
var ErrEmptySeries = errors.New("empty series")

// UnavailableError reports that no usable quote could be obtained for Symbol.
type UnavailableError struct {
	Symbol string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("quote unavailable for %s: %v", e.Symbol, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Gateway routes quote requests to the crypto or forex provider by symbol class.
// It does not retry or cache; decorate the providers for that.
type Gateway struct {
	crypto provider.Provider
	forex  provider.Provider
	log    *logrus.Entry

	// OnError, when set, observes every provider failure by provider name.
	OnError func(providerName string)
}

func NewGateway(crypto, forex provider.Provider, log *logrus.Entry) *Gateway {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Gateway{crypto: crypto, forex: forex, log: log.WithField("component", "quote")}
}

func (g *Gateway) route(symbol string) provider.Provider {
	if Classify(symbol) == Crypto {
		return g.crypto
	}
	return g.forex
}

func (g *Gateway) fail(p provider.Provider, symbol string, err error) error {
	g.log.WithFields(logrus.Fields{"provider": p.Name(), "symbol": symbol}).WithError(err).Warn("quote lookup failed")
	if g.OnError != nil {
		g.OnError(p.Name())
	}
	return &UnavailableError{Symbol: symbol, Err: err}
}

// SpotPrice returns the latest price of symbol. Currency is always set from
// the symbol, so forex quotes read TRY for XXXTRY and crypto quotes the pair suffix.
func (g *Gateway) SpotPrice(ctx context.Context, symbol string) (provider.Quote, error) {
	sym := Normalize(symbol)
	p := g.route(sym)
	q, err := p.Spot(ctx, ProviderSymbol(sym))
	if err != nil {
		return provider.Quote{}, g.fail(p, sym, err)
	}
	if q.Price.IsZero() || q.Price.IsNegative() {
		return provider.Quote{}, g.fail(p, sym, fmt.Errorf("non-positive price %s", q.Price))
	}
	q.Symbol = sym
	q.Currency = Currency(sym)
	if q.Source == "" {
		q.Source = p.Name()
	}
	return q, nil
}

// History returns up to days daily closes for symbol, oldest first.
func (g *Gateway) History(ctx context.Context, symbol string, days int) (provider.Series, error) {
	sym := Normalize(symbol)
	p := g.route(sym)
	s, err := p.History(ctx, ProviderSymbol(sym), days)
	if err != nil {
		return provider.Series{}, g.fail(p, sym, err)
	}
	if len(s.Points) == 0 {
		return provider.Series{}, g.fail(p, sym, ErrEmptySeries)
	}
	s.Symbol = sym
	return s, nil
}
