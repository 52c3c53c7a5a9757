package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketbot/internal/app"
	"marketbot/internal/config"
	"marketbot/internal/httpx"
	"marketbot/internal/logging"
	"marketbot/internal/metrics"
	"marketbot/internal/poller"
	"marketbot/internal/telegram"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("bot stopped")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	a, err := app.Build(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.WithError(err).Warn("closing app")
		}
	}()

	dispatcher, err := a.Dispatcher(cfg, logger, m)
	if err != nil {
		return err
	}

	api, err := telegram.Dial(cfg.Telegram.Token, httpx.New(telegram.ClientTimeout))
	if err != nil {
		return err
	}
	tg := telegram.New(api, api.Self.UserName, dispatcher, logrus.NewEntry(logger))

	poll := poller.New(a.Alerts, tg, cfg.Poller.Interval, logrus.NewEntry(logger), poller.Hooks{
		Fired:        func(n int) { m.AlertsFiredTotal.Add(float64(n)) },
		NotifyFailed: m.NotifyErrorsTotal.Inc,
		Watches:      func(n int) { m.ActiveWatches.Set(float64(n)) },
		TickDuration: func(d time.Duration) { m.PollDuration.Observe(d.Seconds()) },
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tg.Run(gctx) })
	g.Go(func() error {
		if err := poll.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if cfg.Ops.Addr != "" {
		opsLog := logger.WithField("component", "ops")
		srv := newOpsServer(cfg.Ops.Addr, opsHandler(m.Handler(), opsLog))
		g.Go(func() error {
			opsLog.WithField("addr", cfg.Ops.Addr).Info("ops server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}
