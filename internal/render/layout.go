package render

import "github.com/jainsamta1990/TradingPro/internal/viewport"

// MaxCandleWidth bounds the candle body under extreme zoom-in so a handful
// of bars cannot degenerate into oversized blocks.
const MaxCandleWidth = 9

// Layout holds the adaptive per-bar cell geometry for one visible slice.
type Layout struct {
	Footprint int // cells per bar (body + gap)
	BodyWidth int // candle body cells, [1, MaxCandleWidth]
	count     int // visible bars
}

// CandleLayout sizes candles for the visible count inside the usable width.
// Footprint never drops below the minimum so thousands of bars still render
// a visible sliver per candle.
func CandleLayout(usableWidth, visibleCount int) Layout {
	if visibleCount < 1 {
		visibleCount = 1
	}
	footprint := usableWidth / visibleCount
	if footprint < viewport.MinFootprint {
		footprint = viewport.MinFootprint
	}

	gap := footprint / 4
	if gap < 1 {
		gap = 1
	}
	body := footprint - gap
	if body < 1 {
		body = 1
	}
	if body > MaxCandleWidth {
		body = MaxCandleWidth
	}

	return Layout{Footprint: footprint, BodyWidth: body, count: visibleCount}
}

// X returns the left edge of a slice slot, relative to the plot origin.
func (l Layout) X(slot int) int { return slot * l.Footprint }

// CenterX returns the slot's body-center column, relative to the plot origin.
func (l Layout) CenterX(slot int) int { return slot*l.Footprint + l.BodyWidth/2 }

// SlotAt inverts X: the nearest slice slot for a plot-relative column.
// Clamped into the slice so crosshair lookups always land on a bar.
func (l Layout) SlotAt(x int) int {
	if l.Footprint <= 0 {
		return 0
	}
	slot := x / l.Footprint
	if slot < 0 {
		return 0
	}
	if slot >= l.count {
		return l.count - 1
	}
	return slot
}
