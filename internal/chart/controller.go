// Package chart owns the state of one chart view: the loaded bar series, the
// extended timeline built from it, the indicator arrays, and the navigation
// state. The TUI layer feeds it events and asks it for frames; everything
// here is synchronous and runs on the update goroutine.
package chart

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jainsamta1990/TradingPro/internal/gesture"
	"github.com/jainsamta1990/TradingPro/internal/indicator"
	"github.com/jainsamta1990/TradingPro/internal/logger"
	"github.com/jainsamta1990/TradingPro/internal/marketdata"
	"github.com/jainsamta1990/TradingPro/internal/metrics"
	"github.com/jainsamta1990/TradingPro/internal/model"
	"github.com/jainsamta1990/TradingPro/internal/render"
	"github.com/jainsamta1990/TradingPro/internal/ringbuf"
	"github.com/jainsamta1990/TradingPro/internal/store/sqlite"
	"github.com/jainsamta1990/TradingPro/internal/timeline"
	"github.com/jainsamta1990/TradingPro/internal/viewport"
)

// LoadResult carries one completed fetch back to the controller. Generation
// ties the result to the view that requested it.
type LoadResult struct {
	Generation uint64
	Symbol     string
	Timeframe  model.Timeframe
	TraceID    string
	Bars       []model.Bar
	Quote      *model.Quote
	Err        error
}

// Controller holds one chart view's state.
type Controller struct {
	svc   *marketdata.Service
	prefs *sqlite.Store // nil disables persistence
	m     *metrics.Metrics
	ring  *ringbuf.Ring // nil disables live updates

	symbol string
	tf     model.Timeframe
	quote  *model.Quote

	tl       *timeline.Timeline
	ind      *indicator.ChartIndicators
	resolver *gesture.Resolver

	width  int
	height int

	hasPointer bool
	pointerX   int
	pointerY   int

	// generation increments on every view switch. A fetch completing with an
	// older generation is stale and must be discarded, or a slow response for
	// the previous symbol would overwrite the current one.
	generation uint64

	loading bool
	loadErr error
}

// New creates a controller. prefs, m and ring may be nil.
func New(svc *marketdata.Service, prefs *sqlite.Store, m *metrics.Metrics, ring *ringbuf.Ring) *Controller {
	c := &Controller{svc: svc, prefs: prefs, m: m, ring: ring}
	c.resolver = gesture.NewResolver(c.bounds)
	return c
}

// bounds supplies the gesture resolver's clamping context.
func (c *Controller) bounds() (extLen, lastRealIdx, surfaceWidth int) {
	if c.tl == nil {
		return 0, 0, c.width
	}
	return c.tl.Len(), c.tl.LastRealIndex(), c.width
}

// Resolver exposes the gesture state machine for the input layer.
func (c *Controller) Resolver() *gesture.Resolver { return c.resolver }

// Symbol returns the current symbol.
func (c *Controller) Symbol() string { return c.symbol }

// Timeframe returns the current timeframe.
func (c *Controller) Timeframe() model.Timeframe { return c.tf }

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Err returns the last load error, cleared by the next successful load.
func (c *Controller) Err() error { return c.loadErr }

// SetSize records the surface size. The next Frame call picks it up; nothing
// is recomputed eagerly because the window derives from size on every frame.
func (c *Controller) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// SetPointer records the pointer position for the crosshair.
func (c *Controller) SetPointer(x, y int) {
	c.hasPointer = true
	c.pointerX = x
	c.pointerY = y
}

// ClearPointer hides the crosshair (pointer left the surface).
func (c *Controller) ClearPointer() { c.hasPointer = false }

// BeginLoad switches the view to symbol/timeframe and returns the generation
// token the eventual LoadResult must carry. The old chart stays on screen
// until the fetch lands.
func (c *Controller) BeginLoad(symbol string, tf model.Timeframe) uint64 {
	c.symbol = strings.ToUpper(strings.TrimSpace(symbol))
	c.tf = tf
	c.generation++
	c.loading = true
	return c.generation
}

// Load performs the fetch for a BeginLoad call. Runs off the update
// goroutine; the result must come back through Apply. Every fetch carries a
// trace ID so its service logs correlate with the commit log in Apply.
func (c *Controller) Load(ctx context.Context, gen uint64, symbol string, tf model.Timeframe) LoadResult {
	ctx = logger.WithTraceID(ctx, logger.GenerateTraceID(symbol, time.Now()))
	res := LoadResult{Generation: gen, Symbol: symbol, Timeframe: tf, TraceID: logger.TraceID(ctx)}
	res.Bars, res.Err = c.svc.GetBars(ctx, symbol, tf)
	if res.Err != nil {
		return res
	}
	if q, err := c.svc.GetQuote(ctx, symbol); err == nil {
		res.Quote = q
	} else {
		args := []any{"symbol", symbol, "err", err}
		slog.Warn("quote fetch failed", append(args, logger.LogWithTrace(ctx)...)...)
	}
	return res
}

// Apply commits a completed fetch. Returns false when the result was stale:
// the view switched again while the fetch was in flight, so the data belongs
// to a chart the user is no longer looking at.
func (c *Controller) Apply(res LoadResult) bool {
	if res.Generation != c.generation {
		if c.m != nil {
			c.m.StaleFetches.Inc()
		}
		slog.Debug("discarding stale fetch",
			"symbol", res.Symbol, "generation", res.Generation, "current", c.generation)
		return false
	}
	c.loading = false

	if res.Err != nil {
		c.loadErr = res.Err
		slog.Error("chart load failed", "symbol", res.Symbol, "tf", res.Timeframe, "err", res.Err)
		return true
	}
	c.loadErr = nil

	c.tl = timeline.Extend(res.Bars, res.Timeframe)
	c.ind = indicator.Compute(c.tl.Bars, c.tl.RealStart, c.tl.RealEnd)
	c.quote = res.Quote
	c.resolver.SetState(viewport.DefaultState())
	c.hasPointer = false

	if c.prefs != nil {
		if err := c.prefs.SaveLastView(c.symbol, c.tf); err != nil {
			slog.Warn("save last view failed", "err", err)
		}
		c.rememberTimeframe()
	}
	slog.Info("chart loaded",
		"symbol", c.symbol, "tf", c.tf, "trace_id", res.TraceID,
		"real_bars", c.tl.RealEnd-c.tl.RealStart, "ext_bars", c.tl.Len())
	return true
}

// rememberTimeframe keeps the symbol's preferred-timeframe shortcuts as a
// most-recently-used list, newest first.
func (c *Controller) rememberTimeframe() {
	saved, err := c.prefs.PreferredTimeframes(c.symbol)
	if err != nil {
		slog.Warn("load preferred timeframes failed", "err", err)
		return
	}
	tfs := []model.Timeframe{c.tf}
	for _, tf := range saved {
		if tf != c.tf {
			tfs = append(tfs, tf)
		}
	}
	if err := c.prefs.SavePreferredTimeframes(c.symbol, tfs); err != nil {
		slog.Warn("save preferred timeframes failed", "err", err)
	}
}

// RecordGesture counts a resolved input gesture by kind.
func (c *Controller) RecordGesture(kind string) {
	if c.m != nil {
		c.m.GestureEvents.WithLabelValues(kind).Inc()
	}
}

// Search resolves a free-text query to candidate symbols.
func (c *Controller) Search(ctx context.Context, query string) ([]model.Symbol, error) {
	return c.svc.Search(ctx, query)
}

// DrainTicks folds buffered live ticks into the last real bar and reports
// whether anything changed. Ticks for other symbols are dropped, not queued.
func (c *Controller) DrainTicks() bool {
	if c.ring == nil || c.tl == nil || c.tl.RealEnd <= c.tl.RealStart {
		return false
	}

	want := strings.ToUpper(marketdata.FormatSymbol(c.symbol))
	applied := false
	for {
		tick, ok := c.ring.Pop()
		if !ok {
			break
		}
		if tick.Symbol != want && tick.Symbol != c.symbol {
			if c.m != nil {
				c.m.DroppedTicks.Inc()
			}
			continue
		}

		last := &c.tl.Bars[c.tl.RealEnd-1]
		last.Close = tick.Price
		if tick.Price > last.High {
			last.High = tick.Price
		}
		if tick.Price < last.Low || last.Low == 0 {
			last.Low = tick.Price
		}
		last.Volume += tick.Qty
		applied = true
	}

	if applied {
		c.ind = indicator.Compute(c.tl.Bars, c.tl.RealStart, c.tl.RealEnd)
		c.refreshQuote()
	}
	return applied
}

// refreshQuote rebuilds the header quote from the last two real closes after
// live ticks move the final bar.
func (c *Controller) refreshQuote() {
	last := c.tl.RealEnd - 1
	price := c.tl.Bars[last].Close
	prev := price
	if last > c.tl.RealStart {
		prev = c.tl.Bars[last-1].Close
	}
	q := &model.Quote{Symbol: c.symbol, Price: price, Change: price - prev}
	if c.quote != nil {
		q.Name = c.quote.Name
	}
	if prev != 0 {
		q.ChangePercent = q.Change / prev * 100
	}
	c.quote = q
}

// Window returns the currently visible timeline slice.
func (c *Controller) Window() viewport.Window {
	if c.tl == nil {
		return viewport.Window{}
	}
	return viewport.Visible(c.tl.Len(), c.tl.LastRealIndex(), c.resolver.State(), c.width)
}

// Frame renders the current state. Pure with respect to controller state:
// calling it twice without an intervening event produces the same frame.
func (c *Controller) Frame() render.Frame {
	start := time.Now()
	win := c.Window()
	frame := render.Render(render.Input{
		Timeline:   c.tl,
		Indicators: c.ind,
		Window:     win,
		Symbol:     c.symbol,
		Timeframe:  c.tf,
		Quote:      c.quote,
		Width:      c.width,
		Height:     c.height,
		HasPointer: c.hasPointer,
		PointerX:   c.pointerX,
		PointerY:   c.pointerY,
	})

	if c.m != nil {
		c.m.FramesTotal.Inc()
		c.m.RenderDur.Observe(time.Since(start).Seconds())
		c.m.VisibleBars.Set(float64(win.Count()))
		c.m.ZoomLevel.Set(c.resolver.State().Zoom)
	}
	return frame
}
