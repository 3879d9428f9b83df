// Package timeline extends a finite real price series into a padded virtual
// timeline: a fixed block of synthetic historical bars, the real bars, and a
// fixed block of all-zero future placeholders. The padding exists purely to
// give the viewport room to pan and the moving averages a warm-up region;
// synthetic bars are NOT indicative of true history.
package timeline

import (
	"math/rand"
	"time"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

const (
	// HistoricalCount and FutureCount are fixed for the lifetime of one
	// timeline build; every rebuild regenerates both blocks from scratch.
	HistoricalCount = 500
	FutureCount     = 200

	// minSyntheticPrice floors generated prices; the log-scale projection
	// is undefined at zero and below.
	minSyntheticPrice = 0.01

	// fallbackBasePrice anchors synthetic generation when no real bar exists.
	fallbackBasePrice = 100.0
)

// Timeline is one extended, gapless, evenly spaced virtual timeline.
// Bars holds [historical..., real..., future...]; RealStart/RealEnd delimit
// the real sub-sequence ([start, end)); Interval is the bar spacing in ms.
type Timeline struct {
	Bars      []model.Bar
	RealStart int
	RealEnd   int
	Interval  int64
}

// Len returns the extended timeline length.
func (t *Timeline) Len() int { return len(t.Bars) }

// LastRealIndex returns the index of the last real bar, or the end of the
// historical block when no real bars exist.
func (t *Timeline) LastRealIndex() int {
	if t.RealEnd > t.RealStart {
		return t.RealEnd - 1
	}
	return t.RealStart
}

// Extend builds a fresh extended timeline from the real bars. The bar spacing
// comes from the first two real bars, or from the timeframe's default when
// fewer than two exist. The previous timeline is never patched incrementally;
// rebuilding from scratch keeps the fixed block sizes exact.
func Extend(realBars []model.Bar, tf model.Timeframe) *Timeline {
	interval := tf.DefaultInterval()
	if len(realBars) >= 2 {
		interval = realBars[1].Timestamp - realBars[0].Timestamp
	}

	basePrice := fallbackBasePrice
	firstTS := nowAligned(interval)
	if len(realBars) > 0 {
		basePrice = realBars[0].Open
		firstTS = realBars[0].Timestamp
	}
	if basePrice < minSyntheticPrice {
		basePrice = fallbackBasePrice
	}

	bars := make([]model.Bar, 0, HistoricalCount+len(realBars)+FutureCount)

	// Synthetic history is seeded from the first real timestamp so a rebuild
	// of the same series reproduces the same filler.
	rng := rand.New(rand.NewSource(firstTS))
	for k := HistoricalCount; k >= 1; k-- {
		bars = append(bars, syntheticBar(firstTS-interval*int64(k), basePrice, rng))
	}

	bars = append(bars, realBars...)

	lastTS := firstTS - interval
	if len(realBars) > 0 {
		lastTS = realBars[len(realBars)-1].Timestamp
	}
	for k := 1; k <= FutureCount; k++ {
		bars = append(bars, model.Bar{Timestamp: lastTS + interval*int64(k)})
	}

	return &Timeline{
		Bars:      bars,
		RealStart: HistoricalCount,
		RealEnd:   HistoricalCount + len(realBars),
		Interval:  interval,
	}
}

// syntheticBar generates one historical filler bar around basePrice:
// a ±1% perturbation of the base, with high/low widened by up to 1% and a
// small close drift. All fields are floored above zero for the log scale.
func syntheticBar(ts int64, basePrice float64, rng *rand.Rand) model.Bar {
	u := rng.Float64() - 0.5 // symmetric in [-0.5, 0.5]
	price := basePrice + u*0.02*basePrice

	open := floorPrice(price)
	high := floorPrice(price * (1 + rng.Float64()*0.01))
	low := floorPrice(price * (1 - rng.Float64()*0.01))
	close_ := floorPrice(price * (1 + (rng.Float64()-0.5)*0.01))
	if high < open {
		high = open
	}
	if low > open {
		low = open
	}
	if close_ > high {
		high = close_
	}
	if close_ < low {
		low = close_
	}

	return model.Bar{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close_,
		Volume:    rng.Float64() * 1000,
	}
}

// nowAligned returns the current time in ms, aligned down to interval.
// Only used when the real series is empty and no timestamp anchors the grid.
func nowAligned(interval int64) int64 {
	ms := time.Now().UnixMilli()
	return ms - ms%interval
}

func floorPrice(p float64) float64 {
	if p < minSyntheticPrice {
		return minSyntheticPrice
	}
	return p
}
