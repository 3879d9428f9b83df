package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// BarCache is a Redis read-through cache for fetched bar history. A chart
// app flips between symbols and timeframes constantly; caching keeps the
// upstream provider out of the hot path.
type BarCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewBarCache connects to Redis and pings it. A failed ping is an error so
// the caller can fall back to running uncached.
func NewBarCache(addr, password string, ttl time.Duration) (*BarCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("bar cache connected", "addr", addr, "ttl", ttl)
	return &BarCache{client: client, ttl: ttl}, nil
}

// Client exposes the underlying connection for health probes.
func (c *BarCache) Client() *goredis.Client { return c.client }

func cacheKey(symbol string, tf model.Timeframe) string {
	return fmt.Sprintf("bars:%s:%s", symbol, tf)
}

// Get returns the cached bars for a symbol/timeframe, or ok=false on a miss.
// Cache errors degrade to a miss; the provider is the source of truth.
func (c *BarCache) Get(ctx context.Context, symbol string, tf model.Timeframe) ([]model.Bar, bool) {
	data, err := c.client.Get(ctx, cacheKey(symbol, tf)).Result()
	if err != nil {
		if err != goredis.Nil {
			slog.Warn("bar cache get failed", "symbol", symbol, "err", err)
		}
		return nil, false
	}

	var bars []model.Bar
	if err := json.Unmarshal([]byte(data), &bars); err != nil {
		slog.Warn("bar cache decode failed", "symbol", symbol, "err", err)
		return nil, false
	}
	return bars, true
}

// Put stores fetched bars with the configured TTL. Best effort.
func (c *BarCache) Put(ctx context.Context, symbol string, tf model.Timeframe, bars []model.Bar) {
	data, err := json.Marshal(bars)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(symbol, tf), string(data), c.ttl).Err(); err != nil {
		slog.Warn("bar cache put failed", "symbol", symbol, "err", err)
	}
}

// Close closes the Redis client.
func (c *BarCache) Close() error {
	return c.client.Close()
}
