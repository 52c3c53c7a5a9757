package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"marketbot/internal/app"
	"marketbot/internal/chart"
	"marketbot/internal/config"
	"marketbot/internal/logging"
	"marketbot/internal/quote"
)

func main() {
	var (
		symbol     string
		days       int
		outPath    string
		width      int
		height     int
		timeoutSec int
		cfgPath    string
	)
	flag.StringVar(&symbol, "symbol", "BTCUSDT", "symbol to plot")
	flag.IntVar(&days, "days", app.ChartDays, "lookback in days")
	flag.StringVar(&outPath, "out", "", "output PNG path (default <SYMBOL>.png)")
	flag.IntVar(&width, "width", 1000, "image width in pixels")
	flag.IntVar(&height, "height", 500, "image height in pixels")
	flag.IntVar(&timeoutSec, "timeout", 20, "HTTP timeout seconds")
	flag.StringVar(&cfgPath, "config", "", "path to a config file (optional)")
	flag.Parse()

	cfg, err := config.Read(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Alerts.Store = "memory"

	symbol = quote.Normalize(symbol)
	if symbol == "" {
		log.Fatal("no symbol provided")
	}
	if outPath == "" {
		outPath = symbol + ".png"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	a, err := app.Build(ctx, cfg, logging.New(cfg.Log.Level, cfg.Log.Format), nil)
	if err != nil {
		log.Fatalf("build: %v", err)
	}

	series, err := a.Quotes.History(ctx, symbol, days)
	if err != nil {
		log.Fatalf("history: %v", err)
	}

	r := chart.New(days)
	r.Width, r.Height = width, height
	png, err := r.RenderSeries(series)
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	// never leave a truncated image at outPath
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".plot-*.png")
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	if _, err := tmp.Write(png); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		log.Fatalf("write: %v", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		log.Fatalf("close: %v", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		_ = os.Remove(tmp.Name())
		log.Fatalf("rename: %v", err)
	}
	log.Printf("%s: %d points written to %s", symbol, len(series.Points), outPath)
}
