// Package chart renders a daily close series as a PNG line chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"marketbot/internal/provider"
)

var (
	// ErrNoData is returned for an empty series; no image is produced.
	ErrNoData = errors.New("no data to render")
	// ErrLengthMismatch means dates and prices differ in length.
	ErrLengthMismatch = errors.New("dates and prices differ in length")
)

var (
	lineColor = drawing.ColorFromHex("1f77b4")
	gridColor = drawing.ColorFromHex("dddddd")
)

// Renderer draws price charts. The zero value is not usable; use New.
type Renderer struct {
	Width  int
	Height int
	// Days is the lookback shown in the title.
	Days int
}

func New(days int) *Renderer {
	return &Renderer{Width: 1000, Height: 500, Days: days}
}

// RenderSeries renders s.
func (r *Renderer) RenderSeries(s provider.Series) ([]byte, error) {
	return r.Render(s.Symbol, s.Dates(), s.Closes())
}

// Render draws prices against dates and returns PNG bytes.
// Identical input gives an identical layout.
func (r *Renderer) Render(symbol string, dates []time.Time, prices []decimal.Decimal) ([]byte, error) {
	if len(dates) != len(prices) {
		return nil, fmt.Errorf("%w: %d dates, %d prices", ErrLengthMismatch, len(dates), len(prices))
	}
	if len(dates) == 0 {
		return nil, ErrNoData
	}

	ys := make([]float64, len(prices))
	for i, p := range prices {
		ys[i] = p.InexactFloat64()
	}
	xMin, xMax := timeRange(dates)
	yMin, yMax := valueRange(ys)

	series := gochart.TimeSeries{
		Name: "Fiyat",
		Style: gochart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2,
			DotColor:    lineColor,
			DotWidth:    4,
		},
		XValues: dates,
		YValues: ys,
	}

	grid := gochart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s Fiyat Hareketi (Son %d Gün)", symbol, r.Days),
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Tarih",
			TickStyle:      gochart.Style{TextRotationDegrees: 45},
			ValueFormatter: dateLabel,
			GridMajorStyle: grid,
			Range:          &gochart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:           "Fiyat",
			ValueFormatter: priceLabel,
			GridMajorStyle: grid,
			Range:          &gochart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []gochart.Series{series},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering %s chart: %w", symbol, err)
	}
	return buf.Bytes(), nil
}

// timeRange spans the dates, widened by half a day on each side so a single
// point still has a non-empty axis.
func timeRange(dates []time.Time) (float64, float64) {
	lo, hi := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	return float64(lo.Add(-12 * time.Hour).UnixNano()), float64(hi.Add(12 * time.Hour).UnixNano())
}

func valueRange(ys []float64) (float64, float64) {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Abs(hi) * 0.01
	}
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func dateLabel(v any) string {
	if f, ok := v.(float64); ok {
		return time.Unix(0, int64(f)).UTC().Format("02.01.2006")
	}
	return ""
}

func priceLabel(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return ""
}
