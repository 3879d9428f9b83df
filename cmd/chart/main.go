package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jainsamta1990/TradingPro/config"
	"github.com/jainsamta1990/TradingPro/internal/chart"
	"github.com/jainsamta1990/TradingPro/internal/logger"
	"github.com/jainsamta1990/TradingPro/internal/marketdata"
	"github.com/jainsamta1990/TradingPro/internal/metrics"
	"github.com/jainsamta1990/TradingPro/internal/model"
	"github.com/jainsamta1990/TradingPro/internal/ringbuf"
	"github.com/jainsamta1990/TradingPro/internal/store/sqlite"
	"github.com/jainsamta1990/TradingPro/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chart:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; env vars win either way.
	godotenv.Load()
	cfg := config.Load()

	log, err := logger.Init("chart", cfg.LogFile, parseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	log.Info("starting", "symbol", cfg.Symbol, "tf", cfg.Timeframe)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Metrics & health (optional) ----
	var prom *metrics.Metrics
	var health *metrics.HealthStatus
	if cfg.MetricsAddr != "" {
		prom = metrics.NewMetrics()
		health = metrics.NewHealthStatus()
		srv := metrics.NewServer(cfg.MetricsAddr, health)
		srv.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			srv.Stop(shutdownCtx)
		}()
	}

	// ---- Preference store ----
	os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755)
	prefs, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		log.Warn("preference store unavailable, continuing without persistence", "err", err)
		prefs = nil
	} else {
		defer prefs.Close()
		if health != nil {
			health.SetSQLiteOK(true)
		}
	}

	// ---- Bar cache (optional) ----
	var cache *marketdata.BarCache
	if cfg.RedisAddr != "" {
		cache, err = marketdata.NewBarCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			log.Warn("bar cache unavailable, continuing uncached", "err", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	if health != nil {
		switch {
		case cache != nil && prefs != nil:
			health.StartLivenessChecker(ctx, cache.Client(), prefs.DB(), 10*time.Second)
		case cache != nil:
			health.StartLivenessChecker(ctx, cache.Client(), nil, 10*time.Second)
		case prefs != nil:
			health.StartLivenessChecker(ctx, nil, prefs.DB(), 10*time.Second)
		}
	}

	// ---- Market data service ----
	provider := marketdata.NewYahooClient(cfg.YahooBaseURL, cfg.FetchTimeout)
	svc := marketdata.NewService(provider, cache, prom)
	if health != nil {
		svc.OnFetch = func() { health.SetLastFetchAt(time.Now()) }
	}

	// ---- Live tick stream (optional) ----
	var ring *ringbuf.Ring
	if cfg.StreamURL != "" {
		ring = ringbuf.New(4096)
		stream := marketdata.NewStream(cfg.StreamURL, ring)
		if prom != nil {
			stream.OnTick = func() { prom.TicksTotal.Inc() }
			stream.OnReconnect = func() { prom.StreamReconnects.Inc() }
			stream.OnOverflow = func() { prom.RingBufOverflow.Inc() }
		}
		if health != nil {
			stream.OnConnected = func(up bool) { health.SetStreamConnected(up) }
			tick := stream.OnTick
			stream.OnTick = func() {
				if tick != nil {
					tick()
				}
				health.SetLastTickTime(time.Now())
			}
		}
		go stream.Run(ctx)
	}

	// ---- Controller: reopen the last viewed chart when one is saved ----
	ctrl := chart.New(svc, prefs, prom, ring)
	symbol, tf := cfg.Symbol, cfg.ValidTimeframe()
	if prefs != nil {
		if s, t, ok, err := prefs.LastView(); err == nil && ok {
			symbol, tf = s, t
			log.Info("restoring last view", "symbol", symbol, "tf", tf)
		}
	}
	ctrl.BeginLoad(symbol, tf)
	if health != nil {
		health.SetView(symbol, string(tf))
	}

	timeframes := model.DefaultTimeframes
	if prefs != nil {
		if saved, err := prefs.PreferredTimeframes(symbol); err == nil && len(saved) > 0 {
			timeframes = saved
		}
	}

	app := ui.New(ctrl, timeframes, cfg.FetchTimeout, cfg.StreamURL != "")
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
