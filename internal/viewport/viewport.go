// Package viewport maps a zoom/pan state to the contiguous slice of the
// extended timeline that is currently visible. Everything here is pure:
// callers recompute the window on every zoom, pan or resize change instead
// of mutating cached geometry.
package viewport

import "math"

// Zoom and density tuning. Zoom scales the number of visible bars inversely:
// higher zoom means fewer, wider bars.
const (
	MinZoom = 0.05
	MaxZoom = 20.0

	// BaseMaxBars is the bar count shown at zoom level 1; HardCap bounds
	// pathological zoom-out so a slice can never exceed it.
	BaseMaxBars = 200
	HardCap     = 2000

	// MinFootprint is the minimum per-bar cell footprint (body + gap) below
	// which candles degenerate into invisible slivers.
	MinFootprint = 2

	// Fixed margins reserved for axis labels, in cells.
	MarginLeft  = 1
	MarginRight = 10

	// anchor places the real/future boundary at 70% of the usable width in
	// the default window, so most of the view shows history with headroom
	// to pan into placeholder territory.
	anchor = 0.70
)

// State is the viewport's navigation state: one immutable value per frame,
// threaded through the gesture resolver and the renderer.
type State struct {
	Zoom float64 // clamped to [MinZoom, MaxZoom]
	Pan  int     // bar-count shift applied to the default window
}

// DefaultState returns the initial navigation state.
func DefaultState() State { return State{Zoom: 1, Pan: 0} }

// WithZoom returns a copy of the state with the zoom level clamped.
func (s State) WithZoom(z float64) State {
	s.Zoom = ClampZoom(z)
	return s
}

// WithPan returns a copy of the state with the given pan offset.
func (s State) WithPan(p int) State {
	s.Pan = p
	return s
}

// ClampZoom bounds a zoom level to the supported range.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Window is the visible half-open index range [Start, End) of the timeline.
type Window struct {
	Start int
	End   int
}

// Count returns the number of visible bars.
func (w Window) Count() int { return w.End - w.Start }

// Contains reports whether the extended-timeline index is visible.
func (w Window) Contains(i int) bool { return i >= w.Start && i < w.End }

// UsableWidth returns the plot width in cells after the axis margins.
func UsableWidth(surfaceWidth int) int {
	u := surfaceWidth - MarginLeft - MarginRight
	if u < MinFootprint {
		return MinFootprint
	}
	return u
}

// MaxVisible computes how many bars fit the surface at the given zoom:
// the width-derived cap, the zoom-derived cap and the hard cap, whichever
// is smallest. Never less than 1.
func MaxVisible(surfaceWidth int, zoom float64) int {
	maxByWidth := UsableWidth(surfaceWidth) / MinFootprint
	maxByZoom := int(math.Floor(BaseMaxBars / math.Pow(ClampZoom(zoom), 0.7)))

	maxVisible := maxByWidth
	if maxByZoom < maxVisible {
		maxVisible = maxByZoom
	}
	if maxVisible > HardCap {
		maxVisible = HardCap
	}
	if maxVisible < 1 {
		maxVisible = 1
	}
	return maxVisible
}

// Visible computes the visible window for the current navigation state.
// lastRealIdx is the index of the last real bar in the extended timeline;
// the default (pan 0) window anchors it at ~70% of the usable width.
// The window is always inside [0, extLen], and End-Start == maxVisible
// unless the whole timeline is shorter than that.
func Visible(extLen, lastRealIdx int, st State, surfaceWidth int) Window {
	if extLen == 0 {
		return Window{}
	}
	maxVisible := MaxVisible(surfaceWidth, st.Zoom)
	if maxVisible > extLen {
		maxVisible = extLen
	}

	defaultStart := lastRealIdx - int(math.Floor(float64(maxVisible)*anchor))
	if defaultStart < 0 {
		defaultStart = 0
	}

	start := defaultStart + st.Pan
	if start > extLen-maxVisible {
		start = extLen - maxVisible
	}
	if start < 0 {
		start = 0
	}

	end := start + maxVisible
	if end > extLen {
		end = extLen
	}
	return Window{Start: start, End: end}
}

// PanBounds returns the valid [min, max] pan offsets for the current zoom
// and surface width. Gesture handlers clamp against these before committing
// a pan so the window can never exit the timeline.
func PanBounds(extLen, lastRealIdx int, st State, surfaceWidth int) (int, int) {
	if extLen == 0 {
		return 0, 0
	}
	maxVisible := MaxVisible(surfaceWidth, st.Zoom)
	if maxVisible > extLen {
		maxVisible = extLen
	}
	defaultStart := lastRealIdx - int(math.Floor(float64(maxVisible)*anchor))
	if defaultStart < 0 {
		defaultStart = 0
	}
	return -defaultStart, (extLen - maxVisible) - defaultStart
}

// ClampPan bounds a pan offset to PanBounds.
func ClampPan(pan, extLen, lastRealIdx int, st State, surfaceWidth int) int {
	lo, hi := PanBounds(extLen, lastRealIdx, st, surfaceWidth)
	if pan < lo {
		return lo
	}
	if pan > hi {
		return hi
	}
	return pan
}
