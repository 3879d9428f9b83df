// Package marketdata fetches bar history and quotes, caches them, and folds
// composite timeframes out of the provider's base resolutions.
package marketdata

import (
	"context"
	"errors"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// ErrNoData is returned when the provider has no bars for a symbol/timeframe.
var ErrNoData = errors.New("marketdata: no data for symbol")

// Provider fetches raw market data from an upstream source.
type Provider interface {
	// Name identifies the source for logs and metrics labels.
	Name() string

	// FetchBars returns ascending bars for the symbol at the timeframe's
	// base resolution. Composite timeframes are the caller's problem.
	FetchBars(ctx context.Context, symbol string, tf model.Timeframe) ([]model.Bar, error)

	// FetchQuote returns the latest price with change vs the prior close.
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)

	// Search resolves a free-text query to candidate symbols.
	Search(ctx context.Context, query string) ([]model.Symbol, error)
}
