// Package render projects a visible timeline slice onto the cell grid:
// candles on a log price scale, indicator overlays, the RSI sub-panel, axis
// labels and the crosshair. It owns no state beyond the frame being drawn;
// rendering is a single synchronous pass from input to styled text.
package render

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/jainsamta1990/TradingPro/internal/indicator"
	"github.com/jainsamta1990/TradingPro/internal/model"
	"github.com/jainsamta1990/TradingPro/internal/timeline"
	"github.com/jainsamta1990/TradingPro/internal/viewport"
)

// Panel colors.
var (
	upColor     = lipgloss.Color("#26a69a")
	downColor   = lipgloss.Color("#ef5350")
	gridColor   = lipgloss.Color("#2a2e39")
	labelColor  = lipgloss.Color("#787b86")
	crossColor  = lipgloss.Color("#9598a1")
	badgeColor  = lipgloss.Color("#d1d4dc")
	futureBg    = lipgloss.Color("#131722")
	rsiBandBg   = lipgloss.Color("#1c1b2f")
	rsiColor    = lipgloss.Color("#7e57c2")
	rsiMAColor  = lipgloss.Color("#f5c542")
	bbColor     = lipgloss.Color("#5c6bc0")
	headerUp    = upColor
	headerDown  = downColor
	headerColor = lipgloss.Color("#ffffff")
)

// smaColors index-matches indicator.SMAPeriods.
var smaColors = [4]lipgloss.Color{
	"#f5c542", // SMA 9
	"#42a5f5", // SMA 50
	"#ab47bc", // SMA 100
	"#ef6c00", // SMA 200
}

// RSI panel value range and guide levels.
const (
	rsiMin      = 20.0
	rsiMax      = 85.0
	rsiGuideLo  = 40.0
	rsiGuideMid = 50.0
	rsiGuideHi  = 60.0
)

// Input is everything one frame depends on. Render never mutates it.
type Input struct {
	Timeline   *timeline.Timeline
	Indicators *indicator.ChartIndicators
	Window     viewport.Window

	Symbol    string
	Timeframe model.Timeframe
	Quote     *model.Quote

	Width  int
	Height int

	// Pointer position in surface cells; HasPointer is false after leave.
	HasPointer bool
	PointerX   int
	PointerY   int
}

// Crosshair is the resolved inspection state for the frame, recomputed on
// every pointer move and cleared on pointer leave.
type Crosshair struct {
	Visible   bool
	X, Y      int
	Index     int // extended-timeline index under the cursor
	Price     float64
	Timestamp int64
	RSI       float64
}

// Frame is one rendered chart frame.
type Frame struct {
	Text      string
	Crosshair Crosshair
}

// frameBuilder carries the per-frame geometry between draw passes.
type frameBuilder struct {
	in     Input
	canvas *Canvas
	layout Layout

	plotLeft  int // first plot column
	plotRight int // last plot column

	priceTop    int
	priceBottom int
	price       PriceScale

	rsiTop    int
	rsiBottom int
	rsi       LinearScale
	hasRSI    bool

	timeAxisY int

	boundarySlot int // first future-placeholder slot in the window, or window count
}

// Render draws one frame for the given input.
func Render(in Input) Frame {
	c := NewCanvas(in.Width, in.Height)
	if in.Timeline == nil || in.Window.Count() == 0 || in.Height < 6 {
		drawCentered(c, "no chart data")
		return Frame{Text: c.String()}
	}

	fb := &frameBuilder{in: in, canvas: c}
	fb.computeGeometry()

	slice := in.Timeline.Bars[in.Window.Start:in.Window.End]
	price, ok := NewPriceScale(slice, fb.priceTop, fb.priceBottom-fb.priceTop)
	if !ok {
		// Nothing plottable in the window: no real bar, or only
		// non-positive prices. Short-circuit before any log math.
		drawCentered(c, "no chart data")
		fb.drawHeader()
		return Frame{Text: c.String()}
	}
	fb.price = price

	fb.drawHeader()
	fb.drawFutureBackground()
	fb.drawPriceGrid()
	fb.drawOverlays()
	fb.drawCandles()
	if fb.hasRSI {
		fb.drawRSIPanel()
	}
	fb.drawTimeAxis()
	cross := fb.drawCrosshair()

	return Frame{Text: c.String(), Crosshair: cross}
}

// computeGeometry splits the surface into header, price panel, RSI panel and
// time axis, and sizes the candle layout for the visible count.
func (fb *frameBuilder) computeGeometry() {
	in := fb.in
	fb.plotLeft = viewport.MarginLeft
	fb.plotRight = in.Width - viewport.MarginRight - 1
	fb.timeAxisY = in.Height - 1

	rsiRows := in.Height / 4
	if rsiRows < 5 {
		rsiRows = 5
	}
	if in.Height < 16 {
		rsiRows = 0 // too short for a sub-panel; price panel takes it all
	}
	fb.hasRSI = rsiRows > 0

	if fb.hasRSI {
		fb.rsiBottom = fb.timeAxisY - 1
		fb.rsiTop = fb.rsiBottom - rsiRows + 1
		fb.priceBottom = fb.rsiTop - 2 // one separator row between panels
		fb.rsi = NewLinearScale(rsiMin, rsiMax, fb.rsiTop, fb.rsiBottom-fb.rsiTop)
	} else {
		fb.priceBottom = fb.timeAxisY - 1
	}
	fb.priceTop = 1 // row 0 is the header

	fb.layout = CandleLayout(viewport.UsableWidth(in.Width), in.Window.Count())

	// The real/future boundary slot bounds the background split and every
	// overlay line; computed once and used consistently.
	_, realEnd := fb.in.Indicators.RealRange()
	fb.boundarySlot = realEnd - in.Window.Start
	if fb.boundarySlot < 0 {
		fb.boundarySlot = 0
	}
	if fb.boundarySlot > in.Window.Count() {
		fb.boundarySlot = in.Window.Count()
	}
}

// slotX returns the absolute left column of a window slot.
func (fb *frameBuilder) slotX(slot int) int { return fb.plotLeft + fb.layout.X(slot) }

// slotCenter returns the absolute body-center column of a window slot.
func (fb *frameBuilder) slotCenter(slot int) int { return fb.plotLeft + fb.layout.CenterX(slot) }

func (fb *frameBuilder) drawHeader() {
	in := fb.in
	title := fmt.Sprintf("%s · %s", in.Symbol, in.Timeframe)
	fb.canvas.Text(fb.plotLeft, 0, title, headerColor)

	if in.Quote == nil {
		return
	}
	color := headerUp
	sign := "+"
	if in.Quote.Change < 0 {
		color = headerDown
		sign = ""
	}
	quote := fmt.Sprintf("%s  %s%.2f (%s%.2f%%)",
		FormatPrice(in.Quote.Price), sign, in.Quote.Change, sign, in.Quote.ChangePercent)
	fb.canvas.Text(fb.plotLeft+len(title)+2, 0, quote, color)
}

// drawFutureBackground tints every column at or past the real/future
// boundary so placeholder territory reads as distinct from history.
func (fb *frameBuilder) drawFutureBackground() {
	startX := fb.slotX(fb.boundarySlot)
	if fb.boundarySlot >= fb.in.Window.Count() {
		return
	}
	for x := startX; x <= fb.plotRight; x++ {
		for y := fb.priceTop; y <= fb.priceBottom; y++ {
			fb.canvas.SetBg(x, y, futureBg)
		}
		if fb.hasRSI {
			for y := fb.rsiTop; y <= fb.rsiBottom; y++ {
				fb.canvas.SetBg(x, y, futureBg)
			}
		}
	}
}

// drawPriceGrid draws horizontal guide lines with price labels in the right
// margin, evenly spaced in cell space (so evenly spaced in log-price).
func (fb *frameBuilder) drawPriceGrid() {
	const gridLines = 5
	for k := 0; k < gridLines; k++ {
		y := fb.priceTop + k*(fb.priceBottom-fb.priceTop)/(gridLines-1)
		fb.canvas.HLine(fb.plotLeft, fb.plotRight, y, '┄', gridColor)
		fb.canvas.Text(fb.plotRight+2, y, FormatPrice(fb.price.Price(y)), labelColor)
	}
}

// drawCandles draws the wick and body of every non-placeholder bar in the
// window. A zero-movement body still paints one row so the bar stays visible.
func (fb *frameBuilder) drawCandles() {
	in := fb.in
	for slot := 0; slot < in.Window.Count(); slot++ {
		b := &in.Timeline.Bars[in.Window.Start+slot]
		if b.IsPlaceholder() {
			continue // placeholder bars occupy slots but are never drawn
		}
		color := upColor
		if b.Close < b.Open {
			color = downColor
		}

		cx := fb.slotCenter(slot)
		yHigh := fb.clipPrice(fb.price.Y(b.High))
		yLow := fb.clipPrice(fb.price.Y(b.Low))
		fb.canvas.VLine(cx, yHigh, yLow, '│', color)

		yTop := fb.clipPrice(fb.price.Y(math.Max(b.Open, b.Close)))
		yBot := fb.clipPrice(fb.price.Y(math.Min(b.Open, b.Close)))
		x0 := fb.slotX(slot)
		x1 := x0 + fb.layout.BodyWidth - 1
		if x1 > fb.plotRight {
			x1 = fb.plotRight
		}
		for y := yTop; y <= yBot; y++ {
			fb.canvas.HLine(x0, x1, y, '█', color)
		}
	}
}

// drawOverlays draws the SMA and Bollinger Band polylines. Lines stop at the
// real/future boundary and break rather than bridge any undefined index.
func (fb *frameBuilder) drawOverlays() {
	ci := fb.in.Indicators
	fb.drawSeries(ci.BBUpper, bbColor)
	fb.drawSeries(ci.BBMiddle, bbColor)
	fb.drawSeries(ci.BBLower, bbColor)
	for s := range ci.SMA {
		fb.drawSeries(ci.SMA[s], smaColors[s])
	}
}

// drawSeries draws one indicator array (indexed by extended-timeline index)
// as a broken polyline over the price panel.
func (fb *frameBuilder) drawSeries(values []float64, color lipgloss.Color) {
	in := fb.in
	prevX, prevY := -1, -1
	for slot := 0; slot < in.Window.Count() && slot < fb.boundarySlot; slot++ {
		v := values[in.Window.Start+slot]
		if indicator.IsUndefined(v) || v <= 0 {
			prevX = -1 // gap: do not connect across it
			continue
		}
		x := fb.slotCenter(slot)
		y := fb.clipPrice(fb.price.Y(v))
		if prevX >= 0 {
			fb.connect(prevX, prevY, x, y, color, fb.priceTop, fb.priceBottom)
		} else {
			fb.canvas.Set(x, y, '·', color)
		}
		prevX, prevY = x, y
	}
}

// connect draws a column-interpolated segment between two polyline points,
// clipped to [yMin, yMax].
func (fb *frameBuilder) connect(x0, y0, x1, y1 int, color lipgloss.Color, yMin, yMax int) {
	dx := x1 - x0
	if dx <= 0 {
		fb.canvas.Set(x1, clampInt(y1, yMin, yMax), '·', color)
		return
	}
	prev := y0
	for x := x0 + 1; x <= x1; x++ {
		t := float64(x-x0) / float64(dx)
		y := y0 + int(math.Round(t*float64(y1-y0)))
		y = clampInt(y, yMin, yMax)
		// Fill vertical runs so steep segments stay connected.
		fb.canvas.VLine(x, clampInt(prev, yMin, yMax), y, '·', color)
		prev = y
	}
}

func (fb *frameBuilder) drawRSIPanel() {
	in := fb.in
	ci := in.Indicators
	sepY := fb.priceBottom + 1
	fb.canvas.HLine(fb.plotLeft, fb.plotRight, sepY, '─', gridColor)
	fb.canvas.Text(fb.plotRight+2, fb.rsiTop, "RSI 14", labelColor)

	// Shaded neutral band between the 40/60 guides, then the guide lines.
	yHi := fb.rsi.Y(rsiGuideHi)
	yLo := fb.rsi.Y(rsiGuideLo)
	for y := yHi; y <= yLo; y++ {
		for x := fb.plotLeft; x <= fb.plotRight; x++ {
			if fb.canvas.Rune(x, y) == ' ' {
				fb.canvas.SetBg(x, y, rsiBandBg)
			}
		}
	}
	for _, guide := range []float64{rsiGuideLo, rsiGuideMid, rsiGuideHi} {
		y := fb.rsi.Y(guide)
		fb.canvas.HLine(fb.plotLeft, fb.plotRight, y, '┄', gridColor)
		fb.canvas.Text(fb.plotRight+2, y, fmt.Sprintf("%.0f", guide), labelColor)
	}

	// RSI overlays are restricted to the real-data region exactly like the
	// price panel restricts its overlays.
	realStart, _ := ci.RealRange()
	fb.drawRSISeries(func(p model.RSIPoint) float64 { return p.UpperBB }, realStart, bbColor)
	fb.drawRSISeries(func(p model.RSIPoint) float64 { return p.LowerBB }, realStart, bbColor)
	fb.drawRSISeries(func(p model.RSIPoint) float64 { return p.MA }, realStart, rsiMAColor)
	fb.drawRSISeries(func(p model.RSIPoint) float64 { return p.Value }, realStart, rsiColor)
}

// drawRSISeries draws one RSI-panel series as a broken polyline over the
// real-bar slots of the window.
func (fb *frameBuilder) drawRSISeries(value func(model.RSIPoint) float64, realStart int, color lipgloss.Color) {
	in := fb.in
	ci := in.Indicators
	prevX, prevY := -1, -1
	for slot := 0; slot < in.Window.Count() && slot < fb.boundarySlot; slot++ {
		extIdx := in.Window.Start + slot
		if extIdx < realStart {
			continue
		}
		p := ci.RSI[extIdx-realStart]
		v := value(p)
		if indicator.IsUndefined(v) {
			prevX = -1
			continue
		}
		x := fb.slotCenter(slot)
		y := fb.rsi.Y(v)
		if prevX >= 0 {
			fb.connect(prevX, prevY, x, y, color, fb.rsiTop, fb.rsiBottom)
		} else {
			fb.canvas.Set(x, y, '·', color)
		}
		prevX, prevY = x, y
	}
}

// drawTimeAxis writes adaptive time labels under the plot, spaced so labels
// never collide.
func (fb *frameBuilder) drawTimeAxis() {
	in := fb.in
	lastEnd := -2
	step := fb.labelSlotStep()
	for slot := 0; slot < in.Window.Count(); slot += step {
		b := &in.Timeline.Bars[in.Window.Start+slot]
		label := in.Timeframe.FormatTime(b.Timestamp)
		x := fb.slotCenter(slot) - len(label)/2
		if x <= lastEnd+1 || x+len(label) > fb.plotRight {
			continue
		}
		fb.canvas.Text(x, fb.timeAxisY, label, labelColor)
		lastEnd = x + len(label)
	}
}

// labelSlotStep picks how many slots to skip between time labels so each
// label gets roughly 14 cells of room.
func (fb *frameBuilder) labelSlotStep() int {
	step := (14 + fb.layout.Footprint - 1) / fb.layout.Footprint
	if step < 1 {
		step = 1
	}
	return step
}

// drawCrosshair resolves the pointer into crosshair state and draws the
// guide lines and badges in both panels. The reported price comes from the
// cursor row through the inverse log mapping, not from any bar's close.
func (fb *frameBuilder) drawCrosshair() Crosshair {
	in := fb.in
	if !in.HasPointer || in.PointerX < fb.plotLeft || in.PointerX > fb.plotRight {
		return Crosshair{}
	}
	inPrice := fb.price.Contains(in.PointerY) && in.PointerY <= fb.priceBottom
	inRSI := fb.hasRSI && fb.rsi.Contains(in.PointerY)
	if !inPrice && !inRSI {
		return Crosshair{}
	}

	slot := fb.layout.SlotAt(in.PointerX - fb.plotLeft)
	extIdx := in.Window.Start + slot
	snapX := fb.slotCenter(slot)
	bar := &in.Timeline.Bars[extIdx]

	cross := Crosshair{
		Visible:   true,
		X:         snapX,
		Y:         in.PointerY,
		Index:     extIdx,
		Timestamp: bar.Timestamp,
	}
	// The price readout comes from the cursor row's inverse mapping. Over
	// the RSI panel no price row exists, so Price stays zero and no price
	// badge is drawn.
	if inPrice {
		cross.Price = fb.price.Price(in.PointerY)
	}
	if p, ok := in.Indicators.RSIAt(extIdx); ok {
		cross.RSI = p.Value
	}

	// Vertical guide spans both panels; the panels share one index mapping.
	fb.canvas.VLine(snapX, fb.priceTop, fb.priceBottom, '┊', crossColor)
	if fb.hasRSI {
		fb.canvas.VLine(snapX, fb.rsiTop, fb.rsiBottom, '┊', crossColor)
	}

	if inPrice {
		fb.canvas.HLine(fb.plotLeft, fb.plotRight, in.PointerY, '┈', crossColor)
		fb.canvas.Text(fb.plotRight+2, in.PointerY, FormatPrice(cross.Price), badgeColor)
	}
	if inRSI {
		fb.canvas.HLine(fb.plotLeft, fb.plotRight, in.PointerY, '┈', crossColor)
		fb.canvas.Text(fb.plotRight+2, in.PointerY, fmt.Sprintf("%.2f", fb.rsi.Value(in.PointerY)), badgeColor)
	}
	if fb.hasRSI {
		fb.canvas.Text(fb.plotRight+2, fb.rsiBottom, fmt.Sprintf("%.2f", cross.RSI), rsiColor)
	}

	// Time badge under the vertical guide.
	label := in.Timeframe.FormatTime(bar.Timestamp)
	fb.canvas.Text(clampInt(snapX-len(label)/2, 0, in.Width-len(label)), fb.timeAxisY, label, badgeColor)

	return cross
}

// clipPrice clamps a row into the price panel.
func (fb *frameBuilder) clipPrice(y int) int {
	return clampInt(y, fb.priceTop, fb.priceBottom)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// drawCentered writes a message in the middle of the canvas.
func drawCentered(c *Canvas, msg string) {
	x := (c.Width() - len(msg)) / 2
	if x < 0 {
		x = 0
	}
	c.Text(x, c.Height()/2, msg, labelColor)
}
