// Package gesture resolves pointer, touch and wheel input into viewport
// navigation state. The resolver is an explicit state machine
// (Idle | SingleDrag | TwoFinger{Undetermined|Panning|Zooming}) so illegal
// flag combinations are unrepresentable and every transition is unit-testable
// without a terminal or DOM.
package gesture

import (
	"math"

	"github.com/jainsamta1990/TradingPro/internal/viewport"
)

// Gesture tuning.
const (
	// zoomThreshold is the pinch distance-ratio deviation from 1 that
	// resolves an undetermined two-finger gesture into Zooming.
	zoomThreshold = 0.05

	// panThreshold is the center-point movement (cells) that resolves an
	// undetermined two-finger gesture into Panning.
	panThreshold = 5.0

	// minPinchDistance guards the distance ratio against a degenerate
	// zero-distance pinch (two contacts reported at the same cell).
	minPinchDistance = 1e-3

	// dragCellsPerBar converts horizontal drag distance into a bar-count
	// pan delta. Matches the minimum candle footprint so dragging tracks
	// the content 1:1 at maximum density.
	dragCellsPerBar = 2.0

	// Multiplicative wheel zoom steps: ctrl-wheel acts like a pinch,
	// a plain wheel zooms more gently.
	pinchWheelStep = 1.05
	plainWheelStep = 1.025
)

// Phase identifies the resolver's current state.
type Phase int

const (
	Idle Phase = iota
	SingleDrag
	TwoFinger
)

// TwoFingerMode disambiguates an active two-finger gesture.
type TwoFingerMode int

const (
	Undetermined TwoFingerMode = iota
	Panning
	Zooming
)

// Point is a pointer/touch position in surface cells.
type Point struct {
	X float64
	Y float64
}

// Bounds supplies the clamping context at event time: the extended timeline
// length, the last real bar index, and the surface width. The resolver calls
// it before every pan clamp because the valid pan range depends on the
// current visible-bar count, which changes with zoom.
type Bounds func() (extLen, lastRealIdx, surfaceWidth int)

// Resolver consumes input events and maintains the zoom/pan state.
type Resolver struct {
	state  viewport.State
	bounds Bounds

	phase Phase
	mode  TwoFingerMode

	// Single-contact drag tracking.
	anchorX float64

	// Two-finger gesture tracking, captured at gesture start.
	initialDistance float64
	initialZoom     float64
	initialPan      int
	initialCenter   Point
	lastCenter      Point
}

// NewResolver creates a resolver with the default navigation state.
func NewResolver(bounds Bounds) *Resolver {
	return &Resolver{
		state:  viewport.DefaultState(),
		bounds: bounds,
	}
}

// State returns the current navigation state.
func (r *Resolver) State() viewport.State { return r.state }

// SetState replaces the navigation state (e.g. reset on symbol switch) and
// aborts any in-flight gesture.
func (r *Resolver) SetState(st viewport.State) {
	r.state = st
	r.reset()
}

// Phase returns the current state-machine phase.
func (r *Resolver) Phase() Phase { return r.phase }

// Mode returns the two-finger mode; meaningful only while Phase() == TwoFinger.
func (r *Resolver) Mode() TwoFingerMode { return r.mode }

// ── Mouse ──

// MouseDown begins a single-contact drag at x.
func (r *Resolver) MouseDown(x, y float64) {
	r.phase = SingleDrag
	r.anchorX = x
}

// MouseMove pans while a drag is active. The anchor follows the pointer so
// each move applies only the incremental delta.
func (r *Resolver) MouseMove(x, y float64) {
	if r.phase != SingleDrag {
		return
	}
	deltaX := x - r.anchorX
	bars := int(math.Round(deltaX / dragCellsPerBar))
	if bars == 0 {
		return
	}
	r.anchorX = x
	r.applyPan(r.state.Pan - bars)
}

// MouseUp ends a drag.
func (r *Resolver) MouseUp() { r.reset() }

// MouseLeave aborts a drag when the pointer leaves the surface with no
// global listener to continue it.
func (r *Resolver) MouseLeave() { r.reset() }

// ── Touch ──

// Touch processes the full set of active contact points. The caller passes
// the current contacts on every touch start/move/end; the resolver derives
// transitions from the contact count, so a dropped finger re-seeds a
// single-contact drag without a position jump.
func (r *Resolver) Touch(points []Point) {
	switch len(points) {
	case 0:
		r.reset()
	case 1:
		r.touchSingle(points[0])
	default:
		r.touchPair(points[0], points[1])
	}
}

func (r *Resolver) touchSingle(p Point) {
	if r.phase != SingleDrag {
		// Fresh contact, or two-finger gesture dropping to one: seed the
		// anchor at the current position so the content does not jump.
		r.phase = SingleDrag
		r.mode = Undetermined
		r.anchorX = p.X
		return
	}
	r.MouseMove(p.X, p.Y)
}

func (r *Resolver) touchPair(a, b Point) {
	center := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	distance := math.Hypot(a.X-b.X, a.Y-b.Y)

	if r.phase != TwoFinger {
		r.phase = TwoFinger
		r.mode = Undetermined
		r.initialDistance = distance
		r.initialZoom = r.state.Zoom
		r.initialPan = r.state.Pan
		r.initialCenter = center
		r.lastCenter = center
		return
	}

	panDelta := center.X - r.lastCenter.X
	r.lastCenter = center

	if r.initialDistance < minPinchDistance {
		// Degenerate pinch: no meaningful ratio, treat as pan-only input.
		r.resolvePan(center)
		return
	}

	ratio := distance / r.initialDistance
	switch r.mode {
	case Zooming:
		r.applyZoom(r.initialZoom * ratio)
	case Panning:
		r.resolvePan(center)
	default: // Undetermined: first threshold crossed wins, then the mode locks
		if math.Abs(ratio-1) > zoomThreshold {
			r.mode = Zooming
			r.applyZoom(r.initialZoom * ratio)
		} else if math.Abs(panDelta) > panThreshold {
			r.mode = Panning
			r.resolvePan(center)
		}
	}
}

// resolvePan recomputes the pan from the gesture's initial pan plus the total
// center movement, so jitter never accumulates across moves.
func (r *Resolver) resolvePan(center Point) {
	bars := int(math.Round((center.X - r.initialCenter.X) / dragCellsPerBar))
	r.applyPan(r.initialPan - bars)
}

// ── Wheel ──

// Wheel handles wheel/trackpad input, which carries no contact state:
// ctrl-wheel is pinch-zoom, a dominant horizontal delta is scroll-pan,
// anything else is a gentle zoom.
func (r *Resolver) Wheel(deltaX, deltaY float64, ctrl bool) {
	switch {
	case ctrl:
		r.applyZoom(r.state.Zoom * wheelFactor(deltaY, pinchWheelStep))
	case math.Abs(deltaX) > math.Abs(deltaY):
		bars := int(math.Round(deltaX / dragCellsPerBar))
		if bars != 0 {
			r.applyPan(r.state.Pan + bars)
		}
	default:
		r.applyZoom(r.state.Zoom * wheelFactor(deltaY, plainWheelStep))
	}
}

// wheelFactor maps a wheel delta direction onto a multiplicative zoom step.
func wheelFactor(deltaY, step float64) float64 {
	if deltaY > 0 {
		return 1 / step
	}
	return step
}

// ── State application ──

// applyZoom clamps and commits a zoom level, then re-clamps the pan offset:
// the valid pan range depends on the visible-bar count, which just changed.
func (r *Resolver) applyZoom(z float64) {
	r.state = r.state.WithZoom(z)
	r.applyPan(r.state.Pan)
}

// applyPan clamps a pan offset against the current viewport bounds.
func (r *Resolver) applyPan(pan int) {
	extLen, lastRealIdx, width := r.bounds()
	r.state = r.state.WithPan(viewport.ClampPan(pan, extLen, lastRealIdx, r.state, width))
}

func (r *Resolver) reset() {
	r.phase = Idle
	r.mode = Undetermined
	r.anchorX = 0
	r.initialDistance = 0
	r.initialZoom = 0
	r.initialPan = 0
	r.initialCenter = Point{}
	r.lastCenter = Point{}
}
