package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"time"
)

// ErrNoRows is returned when the chart response carries no usable closes.
var ErrNoRows = errors.New("no price rows")

// Bar is a single daily close.
type Bar struct {
	Time  time.Time
	Close float64
}

// Chart is the decoded part of a chart response we use.
type Chart struct {
	Symbol   string
	Currency string
	Bars     []Bar
}

// APIError is the error object Yahoo returns inside the chart envelope.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo: %s: %s", e.Code, e.Description)
}

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Currency string `json:"currency"`
		Symbol   string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// GetChart retrieves daily bars for symbol covering the last `days` days.
// Null closes (holidays, the still-open bar) are skipped.
func (c *Client) GetChart(ctx context.Context, symbol string, days int) (Chart, error) {
	if days <= 0 {
		days = 1
	}

	query := maps.Clone(c.query)
	query.Set("range", fmt.Sprintf("%dd", days))
	query.Set("interval", "1d")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return Chart{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Chart{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	var env chartEnvelope
	decErr := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&env)

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		if decErr == nil && env.Chart.Error != nil {
			return Chart{}, env.Chart.Error
		}
		return Chart{}, fmt.Errorf("symbol %q not found", symbol)
	case http.StatusUnauthorized, http.StatusForbidden:
		return Chart{}, fmt.Errorf("unauthorized")
	case http.StatusTooManyRequests:
		return Chart{}, fmt.Errorf("rate limited")
	default:
		return Chart{}, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	if decErr != nil {
		return Chart{}, fmt.Errorf("decoding chart response: %w", decErr)
	}
	if env.Chart.Error != nil {
		return Chart{}, env.Chart.Error
	}
	if len(env.Chart.Result) == 0 {
		return Chart{}, ErrNoRows
	}

	r := env.Chart.Result[0]
	out := Chart{Symbol: r.Meta.Symbol, Currency: r.Meta.Currency}
	if len(r.Indicators.Quote) == 0 {
		return out, ErrNoRows
	}
	closes := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		out.Bars = append(out.Bars, Bar{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	if len(out.Bars) == 0 {
		return out, ErrNoRows
	}
	return out, nil
}
