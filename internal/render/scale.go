package render

import (
	"math"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// logPad is the padding added to each side of the log price range, as a
// fraction of the range, so candles never touch the panel edges.
const logPad = 0.05

// PriceScale maps prices to vertical cells on a logarithmic axis and back.
// Equal percentage moves occupy equal cell distance regardless of level.
type PriceScale struct {
	logMin   float64 // adjusted (padded) lower bound, ln space
	logMax   float64 // adjusted (padded) upper bound, ln space
	logRange float64
	top      int
	height   int
}

// NewPriceScale builds a scale over the visible bars' highs and lows.
// Placeholder bars and non-positive price fields are excluded: a zero
// would poison the log range. Returns ok=false when nothing in the slice
// is plottable (the caller renders a no-data state instead).
func NewPriceScale(bars []model.Bar, top, height int) (PriceScale, bool) {
	minPrice := math.Inf(1)
	maxPrice := math.Inf(-1)
	for i := range bars {
		b := &bars[i]
		if b.IsPlaceholder() || b.Low <= 0 || b.High <= 0 {
			continue
		}
		if b.Low < minPrice {
			minPrice = b.Low
		}
		if b.High > maxPrice {
			maxPrice = b.High
		}
	}
	if math.IsInf(minPrice, 1) || height <= 0 {
		return PriceScale{}, false
	}

	logMin := math.Log(minPrice)
	logMax := math.Log(maxPrice)
	logRange := logMax - logMin
	if logRange < 1e-9 {
		// Flat slice: open a token range so the bar sits mid-panel.
		logRange = 0.01
		logMin -= logRange / 2
		logMax += logRange / 2
	}

	pad := logRange * logPad
	return PriceScale{
		logMin:   logMin - pad,
		logMax:   logMax + pad,
		logRange: logRange + 2*pad,
		top:      top,
		height:   height,
	}, true
}

// Y projects a price onto a vertical cell row.
func (s PriceScale) Y(price float64) int {
	if price <= 0 {
		return s.top + s.height
	}
	return s.top + int(math.Round((s.logMax-math.Log(price))/s.logRange*float64(s.height)))
}

// Price is the exact inverse of Y: the price under a vertical cell row.
// Used for the crosshair readout; the cursor's row determines the price,
// not any bar's close.
func (s PriceScale) Price(y int) float64 {
	return math.Exp(s.logMax - (float64(y-s.top)/float64(s.height))*s.logRange)
}

// Top returns the first row of the scaled area.
func (s PriceScale) Top() int { return s.top }

// Bottom returns the last row of the scaled area.
func (s PriceScale) Bottom() int { return s.top + s.height }

// Contains reports whether the row is inside the scaled area.
func (s PriceScale) Contains(y int) bool {
	return y >= s.top && y <= s.top+s.height
}

// LinearScale maps a fixed value range linearly onto panel rows. The RSI
// panel's 20–85 band uses this instead of the log scale.
type LinearScale struct {
	min    float64
	max    float64
	top    int
	height int
}

// NewLinearScale builds a linear scale over [min, max] rendered across
// [top, top+height].
func NewLinearScale(min, max float64, top, height int) LinearScale {
	return LinearScale{min: min, max: max, top: top, height: height}
}

// Y projects a value onto a row, clamping into the panel.
func (s LinearScale) Y(v float64) int {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	return s.top + int(math.Round((s.max-v)/(s.max-s.min)*float64(s.height)))
}

// Value is the inverse of Y.
func (s LinearScale) Value(y int) float64 {
	return s.max - float64(y-s.top)/float64(s.height)*(s.max-s.min)
}

// Contains reports whether the row is inside the panel.
func (s LinearScale) Contains(y int) bool {
	return y >= s.top && y <= s.top+s.height
}
