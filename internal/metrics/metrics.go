package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart engine.
type Metrics struct {
	// Market data fetching
	FetchesTotal  *prometheus.CounterVec // labels: source
	FetchErrors   *prometheus.CounterVec // labels: source
	FetchDur      prometheus.Histogram
	StaleFetches  prometheus.Counter // completed fetches discarded by the generation guard
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	ResampledBars prometheus.Counter

	// Live stream
	TicksTotal       prometheus.Counter
	StreamReconnects prometheus.Counter
	DroppedTicks     prometheus.Counter
	RingBufOverflow  prometheus.Counter

	// Rendering
	FramesTotal prometheus.Counter
	RenderDur   prometheus.Histogram
	VisibleBars prometheus.Gauge
	ZoomLevel   prometheus.Gauge

	// Gestures
	GestureEvents *prometheus.CounterVec // labels: kind
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chart_fetches_total",
			Help: "Total bar history fetches (by source)",
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chart_fetch_errors_total",
			Help: "Failed bar history fetches (by source)",
		}, []string{"source"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chart_fetch_duration_seconds",
			Help:    "Bar history fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		StaleFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_stale_fetches_total",
			Help: "Fetch results discarded because the symbol changed mid-flight",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_cache_hits_total",
			Help: "Bar history served from the Redis cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_cache_misses_total",
			Help: "Bar history cache misses",
		}),
		ResampledBars: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_resampled_bars_total",
			Help: "Bars produced by composite-timeframe resampling",
		}),

		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_ticks_total",
			Help: "Total ticks received from the live stream",
		}),
		StreamReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_stream_reconnects_total",
			Help: "Total live stream reconnection attempts",
		}),
		DroppedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_dropped_ticks_total",
			Help: "Ticks dropped (wrong symbol or buffer full)",
		}),
		RingBufOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_ringbuf_overflow_total",
			Help: "Ring buffer push overflows (dropped ticks)",
		}),

		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_frames_total",
			Help: "Total chart frames rendered",
		}),
		RenderDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chart_render_duration_seconds",
			Help:    "Frame render latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		VisibleBars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chart_visible_bars",
			Help: "Bars in the current viewport window",
		}),
		ZoomLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chart_zoom_level",
			Help: "Current viewport zoom factor",
		}),

		GestureEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chart_gesture_events_total",
			Help: "Resolved gesture events (by kind: drag, pan, zoom, wheel)",
		}, []string{"kind"}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchErrors,
		m.FetchDur,
		m.StaleFetches,
		m.CacheHits,
		m.CacheMisses,
		m.ResampledBars,
		m.TicksTotal,
		m.StreamReconnects,
		m.DroppedTicks,
		m.RingBufOverflow,
		m.FramesTotal,
		m.RenderDur,
		m.VisibleBars,
		m.ZoomLevel,
		m.GestureEvents,
	)

	return m
}

// HealthStatus represents the system health.
type HealthStatus struct {
	mu sync.RWMutex

	StreamConnected bool      `json:"stream_connected"`
	LastTickTime    time.Time `json:"last_tick_time"`
	LastFetchAt     time.Time `json:"last_fetch_at"`
	RedisConnected  bool      `json:"redis_connected"`
	SQLiteOK        bool      `json:"sqlite_ok"`
	Symbol          string    `json:"symbol"`
	Timeframe       string    `json:"timeframe"`

	// Liveness probe results
	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetStreamConnected(v bool) {
	h.mu.Lock()
	h.StreamConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastTickTime(t time.Time) {
	h.mu.Lock()
	h.LastTickTime = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastFetchAt(t time.Time) {
	h.mu.Lock()
	h.LastFetchAt = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	h.RedisConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetSQLiteOK(v bool) {
	h.mu.Lock()
	h.SQLiteOK = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetView(symbol, timeframe string) {
	h.mu.Lock()
	h.Symbol = symbol
	h.Timeframe = timeframe
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite runs a trivial query and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(probeCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// Determine overall status. The cache and preference store are
	// optional, so only a dead data path degrades the app.
	overallStatus := "healthy"
	httpCode := http.StatusOK

	if h.LastFetchAt.IsZero() {
		overallStatus = "starting"
	} else if time.Since(h.LastFetchAt) > time.Hour {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}

	// Tick age
	tickAge := ""
	if !h.LastTickTime.IsZero() {
		tickAge = time.Since(h.LastTickTime).Round(time.Millisecond).String()
	}

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		Symbol          string  `json:"symbol"`
		Timeframe       string  `json:"timeframe"`
		StreamConnected bool    `json:"stream_connected"`
		LastTickTime    string  `json:"last_tick_time"`
		TickAge         string  `json:"tick_age"`
		LastFetchAt     string  `json:"last_fetch_at"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		LastCheckAt     string  `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		Symbol:          h.Symbol,
		Timeframe:       h.Timeframe,
		StreamConnected: h.StreamConnected,
		LastTickTime:    h.LastTickTime.Format(time.RFC3339),
		TickAge:         tickAge,
		LastFetchAt:     h.LastFetchAt.Format(time.RFC3339),
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("metrics server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("metrics server error", "err", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
