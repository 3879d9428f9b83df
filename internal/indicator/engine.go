package indicator

import (
	"math"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// Overlay periods drawn on the price panel and the RSI sub-panel.
const (
	BBPeriod     = 20
	BBMultiplier = 2.0
	RSIPeriod    = 14
	RSIMAPeriod  = 9
)

// SMAPeriods are the simple moving averages overlaid on the price panel.
var SMAPeriods = [4]int{9, 50, 100, 200}

// ChartIndicators holds every overlay series for one extended timeline.
// All price-panel arrays are aligned 1:1 with the extended timeline; indices
// in future-placeholder territory hold the Undefined sentinel. The RSI series
// is aligned to the real-bar region only.
//
// Computed once per timeline rebuild, never per visible slice; the viewport
// slices these arrays with the same indices it slices the bars, which is what
// keeps the price panel, the overlays and the RSI panel in sync.
type ChartIndicators struct {
	SMA [4][]float64 // indexed like SMAPeriods

	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64

	RSI []model.RSIPoint // one point per real bar

	realStart int // index of the first real bar in the extended timeline
	realEnd   int // index one past the last real bar
}

// Compute builds all chart indicator series for an extended timeline.
// realStart/realEnd delimit the real-bar region inside ext ([start, end)).
func Compute(ext []model.Bar, realStart, realEnd int) *ChartIndicators {
	ci := &ChartIndicators{realStart: realStart, realEnd: realEnd}

	// Price overlays run over the historical+real prefix. Future placeholders
	// would poison the averages with zeros, so the closes stop at realEnd and
	// the remainder of each array is Undefined.
	prefix := make([]float64, realEnd)
	for i := 0; i < realEnd; i++ {
		prefix[i] = ext[i].Close
	}

	for s, period := range SMAPeriods {
		ci.SMA[s] = padToTimeline(MovingAverage(prefix, period), len(ext))
	}
	upper, middle, lower := BollingerBands(prefix, BBPeriod, BBMultiplier)
	ci.BBUpper = padToTimeline(upper, len(ext))
	ci.BBMiddle = padToTimeline(middle, len(ext))
	ci.BBLower = padToTimeline(lower, len(ext))

	// RSI runs over real closes only. Historical filler is random noise and
	// would manufacture momentum that never happened.
	realCloses := make([]float64, 0, realEnd-realStart)
	for i := realStart; i < realEnd; i++ {
		realCloses = append(realCloses, ext[i].Close)
	}
	rsiValues := RSI(realCloses, RSIPeriod)
	rsiMA := MovingAverage(rsiValues, RSIMAPeriod)
	rsiUpper, _, rsiLower := BollingerBands(rsiValues, BBPeriod, BBMultiplier)

	ci.RSI = make([]model.RSIPoint, len(rsiValues))
	for i := range rsiValues {
		ci.RSI[i] = model.RSIPoint{
			Timestamp: ext[realStart+i].Timestamp,
			Value:     rsiValues[i],
			MA:        rsiMA[i],
			UpperBB:   rsiUpper[i],
			LowerBB:   rsiLower[i],
		}
	}
	return ci
}

// RSIAt resolves an extended-timeline index to an RSI point. Inside the real
// region it returns the computed point. Outside it substitutes a synthetic
// neutral-band value so crosshair readouts stay continuous while panning.
// That filler is display-only, not analysis. The second return is false for future
// placeholder territory past the last real bar.
func (ci *ChartIndicators) RSIAt(extIndex int) (model.RSIPoint, bool) {
	if extIndex >= ci.realStart && extIndex < ci.realEnd {
		return ci.RSI[extIndex-ci.realStart], true
	}
	if extIndex >= ci.realEnd {
		return model.RSIPoint{}, false
	}
	// Historical filler zone: deterministic wobble around neutral.
	v := 50.0 + 6.0*math.Sin(float64(extIndex)*0.35)
	return model.RSIPoint{Value: v, MA: 50, UpperBB: 60, LowerBB: 40}, true
}

// RealRange returns the [start, end) real-bar region this set was built for.
func (ci *ChartIndicators) RealRange() (int, int) {
	return ci.realStart, ci.realEnd
}

// padToTimeline extends series to length n, filling the tail with Undefined.
func padToTimeline(series []float64, n int) []float64 {
	if len(series) >= n {
		return series[:n]
	}
	out := make([]float64, n)
	copy(out, series)
	for i := len(series); i < n; i++ {
		out[i] = Undefined
	}
	return out
}
