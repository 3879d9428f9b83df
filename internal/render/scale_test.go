package render

import (
	"math"
	"testing"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

func sampleBars() []model.Bar {
	return []model.Bar{
		{Timestamp: 1, Open: 100, High: 110, Low: 95, Close: 105},
		{Timestamp: 2, Open: 105, High: 120, Low: 100, Close: 118},
		{Timestamp: 3, Open: 118, High: 125, Low: 112, Close: 115},
	}
}

func TestPriceScale_RowRoundTrip(t *testing.T) {
	s, ok := NewPriceScale(sampleBars(), 2, 40)
	if !ok {
		t.Fatal("expected a valid scale")
	}

	// Price is the exact inverse of Y on the row grid: projecting the price
	// under any row lands back on that row.
	for y := s.Top(); y <= s.Bottom(); y++ {
		p := s.Price(y)
		if got := s.Y(p); got != y {
			t.Fatalf("row %d: Price→Y round trip gave %d", y, got)
		}
	}
}

func TestPriceScale_LogSpacing(t *testing.T) {
	bars := []model.Bar{
		{Timestamp: 1, Open: 10, High: 1000, Low: 10, Close: 500},
	}
	s, ok := NewPriceScale(bars, 0, 100)
	if !ok {
		t.Fatal("expected a valid scale")
	}

	// Equal percentage moves occupy equal cell distance on a log scale.
	d1 := s.Y(100) - s.Y(200)
	d2 := s.Y(200) - s.Y(400)
	if int(math.Abs(float64(d1-d2))) > 1 {
		t.Fatalf("doubling spans differ: %d vs %d cells", d1, d2)
	}
}

func TestPriceScale_ExcludesPlaceholders(t *testing.T) {
	// A future placeholder and a corrupt negative-low bar join the slice.
	bars := append(sampleBars(),
		model.Bar{Timestamp: 4},
		model.Bar{Timestamp: 5, High: 1e6, Low: -50})
	s, ok := NewPriceScale(bars, 0, 40)
	if !ok {
		t.Fatal("expected a valid scale")
	}

	// Range derives from the three real bars only: 110 must sit inside,
	// nowhere near where a 1e6 high would push it.
	y := s.Y(110)
	if y < s.Top() || y > s.Bottom() {
		t.Fatalf("mid-range price projected to %d, outside [%d, %d]", y, s.Top(), s.Bottom())
	}
}

func TestPriceScale_NothingPlottable(t *testing.T) {
	onlyPlaceholders := []model.Bar{{Timestamp: 1}, {Timestamp: 2}}
	if _, ok := NewPriceScale(onlyPlaceholders, 0, 40); ok {
		t.Fatal("placeholder-only slice must not produce a scale")
	}
	if _, ok := NewPriceScale(nil, 0, 40); ok {
		t.Fatal("empty slice must not produce a scale")
	}
}

func TestPriceScale_FlatRange(t *testing.T) {
	flat := []model.Bar{{Timestamp: 1, Open: 50, High: 50, Low: 50, Close: 50}}
	s, ok := NewPriceScale(flat, 0, 40)
	if !ok {
		t.Fatal("flat slice must still produce a scale")
	}
	y := s.Y(50)
	if y < 0 || y > 40 {
		t.Fatalf("flat price projected off-panel: %d", y)
	}
}

func TestLinearScale_RSIPanel(t *testing.T) {
	s := NewLinearScale(20, 85, 10, 20)

	if got := s.Y(85); got != 10 {
		t.Fatalf("top value row=%d, want 10", got)
	}
	if got := s.Y(20); got != 30 {
		t.Fatalf("bottom value row=%d, want 30", got)
	}

	// Out-of-range values clamp into the panel instead of escaping it.
	if got := s.Y(100); got != 10 {
		t.Fatalf("overbought clamp row=%d, want 10", got)
	}
	if got := s.Y(0); got != 30 {
		t.Fatalf("oversold clamp row=%d, want 30", got)
	}

	// Inverse recovers the guide levels.
	if got := s.Value(s.Y(50)); math.Abs(got-50) > 2 {
		t.Fatalf("Value(Y(50)) = %v", got)
	}
}
