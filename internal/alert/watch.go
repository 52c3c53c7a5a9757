// Package alert keeps one pending price watch per subscriber and fires it
// once the watched symbol trades at or above the target.
package alert

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketbot/internal/provider"
)

var (
	// ErrRegistryFull is returned when a new subscriber would exceed the capacity.
	// Overwriting an existing watch is always allowed.
	ErrRegistryFull = errors.New("alert registry full")
	// ErrInvalidTarget is returned for a non-positive target price or one
	// outside the digit bounds below.
	ErrInvalidTarget = errors.New("target price must be positive")
)

// Targets carry at most maxTargetDigits significant digits and an exponent
// within ±maxTargetExponent. Comparing against larger exponents rescales
// to numbers with that many digits.
const (
	maxTargetDigits   = 36
	maxTargetExponent = 18
)

func validTarget(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}
	exp := d.Exponent()
	return exp >= -maxTargetExponent && exp <= maxTargetExponent && d.NumDigits() <= maxTargetDigits
}

// Watch is a subscriber's single pending price target.
type Watch struct {
	ID           uuid.UUID       `json:"id"`
	SubscriberID int64           `json:"subscriber_id"`
	Symbol       string          `json:"symbol"`
	Target       decimal.Decimal `json:"target"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Trigger is a watch that fired together with the quote that fired it.
type Trigger struct {
	Watch Watch
	Quote provider.Quote
}

// Store holds watches keyed by subscriber. Every method is atomic.
type Store interface {
	// Put stores w, replacing the subscriber's previous watch, which is
	// returned with replaced set.
	Put(ctx context.Context, w Watch) (prev Watch, replaced bool, err error)
	// PutIfAbsent stores w only while the subscriber has no watch. Capacity
	// is not checked: it is used to return a watch that was just removed.
	PutIfAbsent(ctx context.Context, w Watch) (bool, error)
	Get(ctx context.Context, subscriberID int64) (Watch, bool, error)
	List(ctx context.Context) ([]Watch, error)
	// CompareAndDelete removes the subscriber's watch only if it is still w
	// (same ID). It reports whether it removed anything.
	CompareAndDelete(ctx context.Context, w Watch) (bool, error)
	Delete(ctx context.Context, subscriberID int64) (bool, error)
	Len(ctx context.Context) (int, error)
}
