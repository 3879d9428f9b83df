package marketdata

import (
	"testing"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

func baseBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = model.Bar{
			Timestamp: int64(i) * 1000,
			Open:      p,
			High:      p + 5,
			Low:       p - 5,
			Close:     p + 1,
			Volume:    10,
		}
	}
	return bars
}

func TestResample_Merge(t *testing.T) {
	out := Resample(baseBars(6), 3)
	if len(out) != 2 {
		t.Fatalf("len=%d, want 2", len(out))
	}

	first := out[0]
	if first.Timestamp != 0 {
		t.Errorf("timestamp=%d, want the group's first", first.Timestamp)
	}
	if first.Open != 100 {
		t.Errorf("open=%v, want first open 100", first.Open)
	}
	if first.Close != 103 {
		t.Errorf("close=%v, want last close 103", first.Close)
	}
	if first.High != 107 {
		t.Errorf("high=%v, want group max 107", first.High)
	}
	if first.Low != 95 {
		t.Errorf("low=%v, want group min 95", first.Low)
	}
	if first.Volume != 30 {
		t.Errorf("volume=%v, want summed 30", first.Volume)
	}
}

func TestResample_RemainderAnchorsAtEnd(t *testing.T) {
	// 7 bars at factor 3: the newest composite must be built from the
	// newest 3 bars, leaving a partial 1-bar group at the front.
	out := Resample(baseBars(7), 3)
	if len(out) != 3 {
		t.Fatalf("len=%d, want 3", len(out))
	}
	if out[0].Open != 100 || out[0].Close != 101 {
		t.Errorf("partial lead group wrong: %+v", out[0])
	}
	last := out[len(out)-1]
	if last.Open != 104 || last.Close != 107 {
		t.Errorf("newest group must span the newest bars: %+v", last)
	}
}

func TestResample_Passthrough(t *testing.T) {
	bars := baseBars(5)
	if got := Resample(bars, 1); len(got) != 5 {
		t.Fatalf("factor 1 must pass through, got len=%d", len(got))
	}
	if got := Resample(nil, 3); len(got) != 0 {
		t.Fatalf("empty input must stay empty, got len=%d", len(got))
	}
}

func TestResampleFactor(t *testing.T) {
	cases := []struct {
		tf   model.Timeframe
		want int
	}{
		{"1m", 1}, {"1d", 1}, {"1w", 1}, {"1M", 1},
		{"4h", 4}, {"2d", 2}, {"3d", 3}, {"2w", 2}, {"3w", 3},
		{"2M", 2}, {"3M", 3}, {"6M", 6}, {"1Y", 12},
	}
	for _, tc := range cases {
		if got := ResampleFactor(tc.tf); got != tc.want {
			t.Errorf("ResampleFactor(%s) = %d, want %d", tc.tf, got, tc.want)
		}
	}
}

func TestFormatSymbol(t *testing.T) {
	cases := []struct{ in, want string }{
		{"AAPL", "AAPL"},
		{"TSLA", "TSLA"},
		{"RELIANCE.NS", "RELIANCE.NS"},
		{"TATAMOTORS.BO", "TATAMOTORS.BO"},
		{"RELIANCE", "RELIANCE.NS"},
		{"BRK.B", "BRK.B"},
		{"VERYLONGSYMBOL", "VERYLONGSYMBOL"},
	}
	for _, tc := range cases {
		if got := FormatSymbol(tc.in); got != tc.want {
			t.Errorf("FormatSymbol(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
