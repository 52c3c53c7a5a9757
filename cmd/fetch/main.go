package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"marketbot/internal/app"
	"marketbot/internal/config"
	"marketbot/internal/logging"
	"marketbot/internal/news"
	"marketbot/internal/provider"
)

type report struct {
	Quotes  []provider.Quote  `json:"quotes,omitempty"`
	History []provider.Series `json:"history,omitempty"`
	News    []news.Article    `json:"news,omitempty"`
	Errors  []string          `json:"errors,omitempty"`
}

func main() {
	var (
		symbolsCSV string
		days       int
		keyword    string
		timeout    int
		configPath string
		verbose    bool
	)
	flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "BTCUSDT,USDTRY"), "comma-separated symbols")
	flag.IntVar(&days, "days", getenvInt("DAYS", 0), "also fetch this many days of closes (0 = spot only)")
	flag.StringVar(&keyword, "news", getenv("NEWS_KEYWORD", ""), "also search news for this keyword")
	flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "overall timeout seconds")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to a config file (optional)")
	flag.BoolVar(&verbose, "v", false, "log provider failures to stderr")
	flag.Parse()

	cfg, err := config.Read(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Alerts.Store = "memory"

	logger := logging.Discard()
	if verbose {
		logger = logging.New("debug", cfg.Log.Format)
	}

	symbols := splitCSV(symbolsCSV)
	if len(symbols) == 0 && keyword == "" {
		log.Fatal("nothing to fetch: pass -symbols or -news")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatalf("build: %v", err)
	}

	out := fetch(ctx, a, symbols, days, keyword)
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
	if len(out.Quotes) == 0 && len(out.History) == 0 && len(out.News) == 0 {
		os.Exit(1)
	}
}

func fetch(ctx context.Context, a *app.App, symbols []string, days int, keyword string) report {
	var (
		mu  sync.Mutex
		out report
	)
	fail := func(format string, args ...any) {
		mu.Lock()
		out.Errors = append(out.Errors, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(4)
	for _, s := range symbols {
		g.Go(func() error {
			q, err := a.Quotes.SpotPrice(ctx, s)
			if err != nil {
				fail("%s: %v", s, err)
				return nil
			}
			mu.Lock()
			out.Quotes = append(out.Quotes, q)
			mu.Unlock()
			return nil
		})
		if days > 0 {
			g.Go(func() error {
				series, err := a.Quotes.History(ctx, s, days)
				if err != nil {
					fail("%s history: %v", s, err)
					return nil
				}
				mu.Lock()
				out.History = append(out.History, series)
				mu.Unlock()
				return nil
			})
		}
	}
	if keyword != "" {
		g.Go(func() error {
			articles, err := a.News.Search(ctx, keyword, news.DefaultPage, news.DefaultPageSize)
			if err != nil {
				fail("news %q: %v", keyword, err)
				return nil
			}
			mu.Lock()
			out.News = articles
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if x, err := strconv.Atoi(v); err == nil {
			return x
		}
	}
	return def
}
