package timeline

import (
	"testing"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

func makeBars(n int, startTS, interval int64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = model.Bar{
			Timestamp: startTS + int64(i)*interval,
			Open:      p, High: p + 2, Low: p - 2, Close: p + 1, Volume: 1000,
		}
	}
	return bars
}

func TestExtend_BlockSizes(t *testing.T) {
	real := makeBars(80, 1_700_000_000_000, 60_000)
	tl := Extend(real, "1m")

	if tl.Len() != HistoricalCount+80+FutureCount {
		t.Fatalf("len=%d, want %d", tl.Len(), HistoricalCount+80+FutureCount)
	}
	if tl.RealStart != HistoricalCount {
		t.Fatalf("RealStart=%d, want %d", tl.RealStart, HistoricalCount)
	}
	if tl.RealEnd != HistoricalCount+80 {
		t.Fatalf("RealEnd=%d, want %d", tl.RealEnd, HistoricalCount+80)
	}
}

func TestExtend_RealBarsPreserved(t *testing.T) {
	real := makeBars(10, 1_700_000_000_000, 60_000)
	tl := Extend(real, "1m")

	for i, want := range real {
		got := tl.Bars[tl.RealStart+i]
		if got != want {
			t.Fatalf("real bar %d mutated: got %+v, want %+v", i, got, want)
		}
	}
}

func TestExtend_ConstantSpacing(t *testing.T) {
	real := makeBars(5, 1_700_000_000_000, 60_000)
	tl := Extend(real, "1m")

	if tl.Interval != 60_000 {
		t.Fatalf("interval=%d, want 60000 (derived from first two bars)", tl.Interval)
	}
	for i := 1; i < tl.Len(); i++ {
		gap := tl.Bars[i].Timestamp - tl.Bars[i-1].Timestamp
		if gap != tl.Interval {
			t.Fatalf("gap at %d is %d, want %d", i, gap, tl.Interval)
		}
	}
}

func TestExtend_FuturePlaceholders(t *testing.T) {
	real := makeBars(3, 1_700_000_000_000, 86_400_000)
	tl := Extend(real, "1d")

	for i := tl.RealEnd; i < tl.Len(); i++ {
		b := tl.Bars[i]
		if !b.IsPlaceholder() {
			t.Fatalf("bar %d should be a placeholder: %+v", i, b)
		}
		if b.Open != 0 || b.High != 0 || b.Low != 0 || b.Volume != 0 {
			t.Fatalf("placeholder %d has non-zero prices: %+v", i, b)
		}
		if b.Timestamp == 0 {
			t.Fatalf("placeholder %d missing timestamp", i)
		}
	}
}

func TestExtend_SyntheticBarsPlottable(t *testing.T) {
	real := makeBars(2, 1_700_000_000_000, 60_000)
	tl := Extend(real, "1m")

	for i := 0; i < tl.RealStart; i++ {
		b := tl.Bars[i]
		if b.Low < minSyntheticPrice {
			t.Fatalf("synthetic bar %d below the price floor: %+v", i, b)
		}
		if b.High < b.Low || b.High < b.Open || b.High < b.Close || b.Low > b.Open || b.Low > b.Close {
			t.Fatalf("synthetic bar %d violates OHLC ordering: %+v", i, b)
		}
	}
}

func TestExtend_Reproducible(t *testing.T) {
	real := makeBars(4, 1_700_000_000_000, 60_000)
	a := Extend(real, "1m")
	b := Extend(real, "1m")

	for i := 0; i < a.RealStart; i++ {
		if a.Bars[i] != b.Bars[i] {
			t.Fatalf("synthetic bar %d differs across rebuilds", i)
		}
	}
}

func TestExtend_SingleBarUsesTimeframeInterval(t *testing.T) {
	real := makeBars(1, 1_700_000_000_000, 0)
	tl := Extend(real, "1h")

	if tl.Interval != model.Timeframe("1h").DefaultInterval() {
		t.Fatalf("interval=%d, want the 1h default", tl.Interval)
	}
}

func TestExtend_EmptySeries(t *testing.T) {
	tl := Extend(nil, "1d")

	if tl.Len() != HistoricalCount+FutureCount {
		t.Fatalf("len=%d, want %d", tl.Len(), HistoricalCount+FutureCount)
	}
	if tl.RealStart != tl.RealEnd {
		t.Fatalf("empty series should have an empty real region: [%d, %d)", tl.RealStart, tl.RealEnd)
	}
	// Synthetic history still anchors at the fallback price.
	if tl.Bars[0].Close <= 0 {
		t.Fatal("synthetic history not generated for empty input")
	}
}
