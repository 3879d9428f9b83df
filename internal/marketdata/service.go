package marketdata

import (
	"context"
	"log/slog"
	"time"

	"github.com/jainsamta1990/TradingPro/internal/logger"
	"github.com/jainsamta1990/TradingPro/internal/metrics"
	"github.com/jainsamta1990/TradingPro/internal/model"
)

// Service composes the provider, the optional cache and the composite
// resampler behind one call the chart controller uses.
type Service struct {
	provider Provider
	cache    *BarCache // nil runs uncached
	metrics  *metrics.Metrics

	// OnFetch, when set, fires after every successful provider fetch.
	// The health endpoint uses it to track data-path freshness.
	OnFetch func()
}

// NewService wires a provider with an optional cache. metrics may be nil.
func NewService(provider Provider, cache *BarCache, m *metrics.Metrics) *Service {
	return &Service{provider: provider, cache: cache, metrics: m}
}

// GetBars returns ascending bars for the symbol at the requested timeframe,
// resampling composites from the provider's base resolution. Cache hits skip
// the provider entirely; the cache stores the final composite series so a
// hit also skips the resample.
func (s *Service) GetBars(ctx context.Context, symbol string, tf model.Timeframe) ([]model.Bar, error) {
	if s.cache != nil {
		if bars, ok := s.cache.Get(ctx, symbol, tf); ok {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return bars, nil
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
	}

	start := time.Now()
	bars, err := s.provider.FetchBars(ctx, symbol, tf)
	if s.metrics != nil {
		s.metrics.FetchDur.Observe(time.Since(start).Seconds())
		s.metrics.FetchesTotal.WithLabelValues(s.provider.Name()).Inc()
		if err != nil {
			s.metrics.FetchErrors.WithLabelValues(s.provider.Name()).Inc()
		}
	}
	if err != nil {
		return nil, err
	}
	if s.OnFetch != nil {
		s.OnFetch()
	}

	if factor := ResampleFactor(tf); factor > 1 {
		before := len(bars)
		bars = Resample(bars, factor)
		if s.metrics != nil {
			s.metrics.ResampledBars.Add(float64(len(bars)))
		}
		args := []any{"symbol", symbol, "tf", tf, "base_bars", before, "bars", len(bars)}
		slog.Debug("resampled composite timeframe", append(args, logger.LogWithTrace(ctx)...)...)
	}

	if s.cache != nil {
		s.cache.Put(ctx, symbol, tf, bars)
	}
	return bars, nil
}

// GetQuote returns the latest quote for the symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	return s.provider.FetchQuote(ctx, symbol)
}

// Search resolves a free-text query to candidate symbols.
func (s *Service) Search(ctx context.Context, query string) ([]model.Symbol, error) {
	return s.provider.Search(ctx, query)
}
