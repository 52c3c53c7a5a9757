// Package poller periodically checks the alert registry and notifies the
// subscribers whose watches fired.
package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"marketbot/internal/alert"
)

const DefaultInterval = 5 * time.Minute

// Checker is the alert registry as seen by the poller.
type Checker interface {
	CheckAndConsume(ctx context.Context) ([]alert.Trigger, error)
	Restore(ctx context.Context, w alert.Watch) (bool, error)
	Len(ctx context.Context) (int, error)
}

// Notifier pushes a message to a subscriber outside any request.
type Notifier interface {
	Notify(ctx context.Context, subscriberID int64, text string) error
}

// Hooks observe tick results. Any of them may be nil.
type Hooks struct {
	Fired        func(n int)
	NotifyFailed func()
	Watches      func(n int)
	TickDuration func(d time.Duration)
}

type Poller struct {
	checker  Checker
	notifier Notifier
	interval time.Duration
	log      *logrus.Entry
	hooks    Hooks
}

func New(checker Checker, notifier Notifier, interval time.Duration, log *logrus.Entry, hooks Hooks) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Poller{
		checker:  checker,
		notifier: notifier,
		interval: interval,
		log:      log.WithField("component", "poller"),
		hooks:    hooks,
	}
}

// Run ticks once immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.log.WithField("interval", p.interval).Info("poller started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Tick(ctx)
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick runs one check. Failed lookups and failed pushes are logged and never
// stop the remaining notifications. Both are retried next tick: a failed
// push returns its watch to the registry.
func (p *Poller) Tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		if p.hooks.TickDuration != nil {
			p.hooks.TickDuration(time.Since(start))
		}
	}()

	fired, err := p.checker.CheckAndConsume(ctx)
	if err != nil {
		p.log.WithError(err).Warn("some watches could not be evaluated")
	}
	if p.hooks.Fired != nil && len(fired) > 0 {
		p.hooks.Fired(len(fired))
	}

	for _, t := range fired {
		entry := p.log.WithFields(logrus.Fields{
			"subscriber": t.Watch.SubscriberID,
			"symbol":     t.Watch.Symbol,
		})
		if err := p.notifier.Notify(ctx, t.Watch.SubscriberID, Message(t)); err != nil {
			entry.WithError(err).Error("alert notification failed")
			if p.hooks.NotifyFailed != nil {
				p.hooks.NotifyFailed()
			}
			if _, err := p.checker.Restore(ctx, t.Watch); err != nil {
				entry.WithError(err).Error("undelivered watch lost")
			}
			continue
		}
		entry.Debug("alert notification sent")
	}

	if p.hooks.Watches != nil {
		if n, err := p.checker.Len(ctx); err == nil {
			p.hooks.Watches(n)
		}
	}
}

// Message is the notification text for a fired watch.
func Message(t alert.Trigger) string {
	currency := t.Quote.Currency
	if currency == "" {
		currency = "TL"
	}
	return fmt.Sprintf("📈 %s fiyatı %s %s seviyesine ulaştı! (hedef: %s)",
		t.Watch.Symbol, t.Quote.Price.StringFixed(2), currency, t.Watch.Target.String())
}
