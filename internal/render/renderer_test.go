package render

import (
	"strings"
	"testing"

	"github.com/jainsamta1990/TradingPro/internal/indicator"
	"github.com/jainsamta1990/TradingPro/internal/model"
	"github.com/jainsamta1990/TradingPro/internal/timeline"
	"github.com/jainsamta1990/TradingPro/internal/viewport"
)

func testInput(t *testing.T) Input {
	t.Helper()
	real := make([]model.Bar, 60)
	ts := int64(1_700_000_000_000)
	for i := range real {
		p := 100 + float64(i%10)
		real[i] = model.Bar{Timestamp: ts, Open: p, High: p + 2, Low: p - 2, Close: p + 1, Volume: 100}
		ts += 86_400_000
	}
	tl := timeline.Extend(real, "1d")
	ind := indicator.Compute(tl.Bars, tl.RealStart, tl.RealEnd)
	st := viewport.DefaultState()
	win := viewport.Visible(tl.Len(), tl.LastRealIndex(), st, 120)

	return Input{
		Timeline:   tl,
		Indicators: ind,
		Window:     win,
		Symbol:     "AAPL",
		Timeframe:  "1d",
		Quote:      &model.Quote{Symbol: "AAPL", Price: 109, Change: 1.5, ChangePercent: 1.4},
		Width:      120,
		Height:     40,
	}
}

func TestRender_FrameShape(t *testing.T) {
	frame := Render(testInput(t))

	lines := strings.Split(frame.Text, "\n")
	if len(lines) != 40 {
		t.Fatalf("frame has %d rows, want 40", len(lines))
	}
	if !strings.Contains(frame.Text, "AAPL") {
		t.Fatal("header missing symbol")
	}
	if !strings.Contains(frame.Text, "RSI 14") {
		t.Fatal("RSI panel label missing")
	}
}

func TestRender_NoData(t *testing.T) {
	frame := Render(Input{Width: 80, Height: 24})
	if !strings.Contains(frame.Text, "no chart data") {
		t.Fatal("empty input must render the no-data state")
	}
	if frame.Crosshair.Visible {
		t.Fatal("no-data frame must not carry a crosshair")
	}

	// A window full of placeholders (panned fully into the future with no
	// real bar visible) also short-circuits.
	in := testInput(t)
	in.Window = viewport.Window{Start: in.Timeline.RealEnd + 5, End: in.Timeline.RealEnd + 45}
	frame = Render(in)
	if !strings.Contains(frame.Text, "no chart data") {
		t.Fatal("placeholder-only window must render the no-data state")
	}
}

func TestRender_CrosshairResolution(t *testing.T) {
	in := testInput(t)
	in.HasPointer = true
	in.PointerX = 40
	in.PointerY = 10
	frame := Render(in)

	ch := frame.Crosshair
	if !ch.Visible {
		t.Fatal("pointer inside the plot must resolve a crosshair")
	}
	if !in.Window.Contains(ch.Index) {
		t.Fatalf("crosshair index %d outside window [%d, %d)", ch.Index, in.Window.Start, in.Window.End)
	}
	if ch.Price <= 0 {
		t.Fatalf("crosshair price %v not positive", ch.Price)
	}
	if ch.Timestamp != in.Timeline.Bars[ch.Index].Timestamp {
		t.Fatal("crosshair timestamp does not match the bar under the cursor")
	}
}

func TestRender_CrosshairPriceFromRow(t *testing.T) {
	in := testInput(t)
	in.HasPointer = true
	in.PointerX = 40

	// Two different rows over the same bar read different prices: the
	// readout follows the cursor row, not the bar's close.
	in.PointerY = 5
	high := Render(in).Crosshair.Price
	in.PointerY = 12
	low := Render(in).Crosshair.Price
	if high <= low {
		t.Fatalf("higher row must read a higher price: %v vs %v", high, low)
	}
}

func TestRender_CrosshairHiddenOutsidePlot(t *testing.T) {
	in := testInput(t)
	in.HasPointer = true
	in.PointerX = in.Width - 2 // inside the right label margin
	in.PointerY = 10
	if Render(in).Crosshair.Visible {
		t.Fatal("crosshair must hide over the label margin")
	}

	in.PointerX = 40
	in.PointerY = in.Height - 1 // time axis row
	if Render(in).Crosshair.Visible {
		t.Fatal("crosshair must hide over the time axis")
	}
}

func TestDrawCandles_PlaceholderSlotsStayEmpty(t *testing.T) {
	in := testInput(t)

	fb := &frameBuilder{in: in, canvas: NewCanvas(in.Width, in.Height)}
	fb.computeGeometry()
	price, ok := NewPriceScale(in.Timeline.Bars[in.Window.Start:in.Window.End], fb.priceTop, fb.priceBottom-fb.priceTop)
	if !ok {
		t.Fatal("window with real bars must produce a price scale")
	}
	fb.price = price
	fb.drawFutureBackground()
	fb.drawCandles()

	// The default window ends past the last real bar, so the boundary slot
	// must fall strictly inside it.
	if fb.boundarySlot <= 0 || fb.boundarySlot >= in.Window.Count() {
		t.Fatalf("boundary slot %d not inside window of %d slots", fb.boundarySlot, in.Window.Count())
	}

	// No synthetic bar at or past the boundary gets a body or wick cell.
	for slot := fb.boundarySlot; slot < in.Window.Count(); slot++ {
		x0 := fb.slotX(slot)
		x1 := x0 + fb.layout.Footprint - 1
		for x := x0; x <= x1 && x <= fb.plotRight; x++ {
			for y := fb.priceTop; y <= fb.priceBottom; y++ {
				if r := fb.canvas.Rune(x, y); r == '█' || r == '│' {
					t.Fatalf("synthetic slot %d drew %q at (%d, %d)", slot, r, x, y)
				}
			}
		}
	}

	// Real bars before the boundary still render.
	drewBody := false
	for slot := 0; slot < fb.boundarySlot && !drewBody; slot++ {
		x := fb.slotCenter(slot)
		for y := fb.priceTop; y <= fb.priceBottom; y++ {
			if fb.canvas.Rune(x, y) == '█' {
				drewBody = true
				break
			}
		}
	}
	if !drewBody {
		t.Fatal("no candle body drawn in the real region")
	}

	// The background tint splits exactly at the boundary column.
	bx := fb.slotX(fb.boundarySlot)
	if got := fb.canvas.cells[fb.priceTop*in.Width+bx].bg; got != futureBg {
		t.Fatalf("boundary column %d background = %q, want future tint", bx, got)
	}
	if got := fb.canvas.cells[fb.priceTop*in.Width+(bx-1)].bg; got == futureBg {
		t.Fatalf("column %d before the boundary carries the future tint", bx-1)
	}
}

func TestRender_CrosshairOverRSIPanelOmitsPrice(t *testing.T) {
	in := testInput(t)
	in.HasPointer = true
	in.PointerX = 40
	in.PointerY = 32 // inside the RSI sub-panel at height 40

	ch := Render(in).Crosshair
	if !ch.Visible {
		t.Fatal("pointer over the RSI panel must still resolve a crosshair")
	}
	if ch.Price != 0 {
		t.Fatalf("crosshair over the RSI panel reported price %v, want none", ch.Price)
	}
}

func TestRender_ShortSurfaceDropsRSIPanel(t *testing.T) {
	in := testInput(t)
	in.Height = 12
	frame := Render(in)

	if strings.Contains(frame.Text, "RSI 14") {
		t.Fatal("short surface should drop the RSI sub-panel")
	}
	if len(strings.Split(frame.Text, "\n")) != 12 {
		t.Fatal("frame must still fill the surface height")
	}
}
