package bot

import (
	"context"
	"errors"

	"marketbot/internal/alert"
	"marketbot/internal/chart"
	"marketbot/internal/news"
	"marketbot/internal/quote"
)

const (
	outcomeOK          = "ok"
	outcomeUsage       = "usage"
	outcomeInvalid     = "invalid"
	outcomeUnavailable = "unavailable"
	outcomeNoData      = "no_data"
	outcomeFull        = "full"
	outcomeTimeout     = "timeout"
	outcomeError       = "error"
	outcomePanic       = "panic"
	outcomeUnknown     = "unknown"
)

// ValidationError is a bad argument caught before any downstream call.
// Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// translate maps a handler error to one line of user text and a metrics outcome.
func translate(err error) (string, string) {
	var (
		ve *ValidationError
		qe *quote.UnavailableError
		ne *news.UnavailableError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message, outcomeInvalid
	case errors.Is(err, alert.ErrInvalidTarget):
		return msgInvalidPrice, outcomeInvalid
	case errors.Is(err, alert.ErrRegistryFull):
		return msgRegistryFull, outcomeFull
	case errors.Is(err, chart.ErrNoData):
		return msgNoChartData, outcomeNoData
	case errors.As(err, &qe):
		return quoteUnavailable(qe.Symbol), outcomeUnavailable
	case errors.As(err, &ne):
		return msgNewsUnavailable, outcomeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout, outcomeTimeout
	default:
		return msgInternalError, outcomeError
	}
}
