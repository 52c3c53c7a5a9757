package alert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketbot/internal/provider"
)

// Quoter supplies spot prices for watched symbols.
type Quoter interface {
	SpotPrice(ctx context.Context, symbol string) (provider.Quote, error)
}

// Registry owns the subscriber watches. Callers never see the store directly.
type Registry struct {
	store  Store
	quotes Quoter
	log    *logrus.Entry
	now    func() time.Time

	// Concurrency bounds the parallel quote lookups of one check.
	Concurrency int
}

func NewRegistry(store Store, quotes Quoter, log *logrus.Entry) *Registry {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{
		store:       store,
		quotes:      quotes,
		log:         log.WithField("component", "alert"),
		now:         time.Now,
		Concurrency: 4,
	}
}

// SetWatch replaces any watch the subscriber has with a new one.
func (r *Registry) SetWatch(ctx context.Context, subscriberID int64, symbol string, target decimal.Decimal) (Watch, error) {
	if !validTarget(target) {
		return Watch{}, ErrInvalidTarget
	}
	w := Watch{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		Symbol:       symbol,
		Target:       target,
		CreatedAt:    r.now().UTC(),
	}
	prev, replaced, err := r.store.Put(ctx, w)
	if err != nil {
		return Watch{}, err
	}
	entry := r.log.WithFields(logrus.Fields{"subscriber": subscriberID, "symbol": symbol, "target": target.String()})
	if replaced {
		entry = entry.WithField("replaced", prev.Symbol)
	}
	entry.Info("watch set")
	return w, nil
}

// ClearWatch drops the subscriber's watch and reports whether one existed.
func (r *Registry) ClearWatch(ctx context.Context, subscriberID int64) (bool, error) {
	return r.store.Delete(ctx, subscriberID)
}

// Restore puts back a fired watch whose notification could not be delivered,
// so the next check fires it again. A watch the subscriber set in the
// meantime wins; Restore then reports false.
func (r *Registry) Restore(ctx context.Context, w Watch) (bool, error) {
	ok, err := r.store.PutIfAbsent(ctx, w)
	if err != nil {
		return false, err
	}
	r.log.WithFields(logrus.Fields{"subscriber": w.SubscriberID, "symbol": w.Symbol, "restored": ok}).Info("undelivered watch returned")
	return ok, nil
}

// Watch returns the subscriber's pending watch.
func (r *Registry) Watch(ctx context.Context, subscriberID int64) (Watch, bool, error) {
	return r.store.Get(ctx, subscriberID)
}

func (r *Registry) Len(ctx context.Context) (int, error) {
	return r.store.Len(ctx)
}

// CheckAndConsume prices every watched symbol once and removes and returns
// each watch whose symbol trades at or above its target. A watch replaced
// while the check runs is left in place. Lookup failures are joined into the
// returned error and only affect the watches on that symbol.
func (r *Registry) CheckAndConsume(ctx context.Context) ([]Trigger, error) {
	watches, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing watches: %w", err)
	}
	if len(watches) == 0 {
		return nil, nil
	}

	var (
		mu     sync.Mutex
		quotes = make(map[string]provider.Quote)
		errs   []error
	)
	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	seen := make(map[string]bool)
	for _, w := range watches {
		if seen[w.Symbol] {
			continue
		}
		seen[w.Symbol] = true
		symbol := w.Symbol
		g.Go(func() error {
			q, err := r.quotes.SpotPrice(gctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				return nil
			}
			quotes[symbol] = q
			return nil
		})
	}
	_ = g.Wait()

	var fired []Trigger
	for _, w := range watches {
		q, ok := quotes[w.Symbol]
		if !ok || q.Price.LessThan(w.Target) {
			continue
		}
		removed, err := r.store.CompareAndDelete(ctx, w)
		if err != nil {
			errs = append(errs, fmt.Errorf("removing watch of %d: %w", w.SubscriberID, err))
			continue
		}
		if !removed {
			continue
		}
		r.log.WithFields(logrus.Fields{
			"subscriber": w.SubscriberID,
			"symbol":     w.Symbol,
			"target":     w.Target.String(),
			"price":      q.Price.String(),
		}).Info("watch fired")
		fired = append(fired, Trigger{Watch: w, Quote: q})
	}
	return fired, errors.Join(errs...)
}
