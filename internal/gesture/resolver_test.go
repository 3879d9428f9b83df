package gesture

import (
	"math"
	"testing"

	"github.com/jainsamta1990/TradingPro/internal/viewport"
)

// wideBounds gives the resolver a roomy timeline so pan clamping does not
// interfere with the transition under test.
func wideBounds() (int, int, int) { return 1000, 699, 4000 }

func newTestResolver() *Resolver { return NewResolver(wideBounds) }

func TestDrag_PansByCells(t *testing.T) {
	r := newTestResolver()

	r.MouseDown(10, 5)
	if r.Phase() != SingleDrag {
		t.Fatalf("phase=%v, want SingleDrag", r.Phase())
	}

	// Dragging 4 cells left moves the view 2 bars forward.
	r.MouseMove(6, 5)
	if got := r.State().Pan; got != 2 {
		t.Fatalf("pan=%d, want 2", got)
	}

	// The anchor follows the pointer: a second identical position is a no-op.
	r.MouseMove(6, 5)
	if got := r.State().Pan; got != 2 {
		t.Fatalf("pan after no-op move=%d, want 2", got)
	}

	r.MouseUp()
	if r.Phase() != Idle {
		t.Fatalf("phase after release=%v, want Idle", r.Phase())
	}
}

func TestDrag_SubThresholdMoveKeepsAnchor(t *testing.T) {
	r := newTestResolver()
	r.MouseDown(10, 5)

	// Sub-bar moves accumulate instead of being swallowed one by one.
	r.MouseMove(10.6, 5)
	r.MouseMove(11.2, 5)
	if got := r.State().Pan; got != -1 {
		t.Fatalf("pan=%d, want -1 from accumulated sub-bar moves", got)
	}
}

func TestPinch_ResolvesToZooming(t *testing.T) {
	r := newTestResolver()

	r.Touch([]Point{{0, 0}, {10, 0}})
	if r.Phase() != TwoFinger || r.Mode() != Undetermined {
		t.Fatalf("phase=%v mode=%v, want TwoFinger/Undetermined", r.Phase(), r.Mode())
	}

	// Distance ratio 1.2 crosses the zoom threshold.
	r.Touch([]Point{{0, 0}, {12, 0}})
	if r.Mode() != Zooming {
		t.Fatalf("mode=%v, want Zooming", r.Mode())
	}
	if got := r.State().Zoom; math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("zoom=%v, want 1.2", got)
	}
}

func TestPinch_ResolvesToPanning(t *testing.T) {
	r := newTestResolver()

	r.Touch([]Point{{0, 0}, {10, 0}})
	// Same distance, center moved 8 cells: pan wins.
	r.Touch([]Point{{8, 0}, {18, 0}})
	if r.Mode() != Panning {
		t.Fatalf("mode=%v, want Panning", r.Mode())
	}
	if got := r.State().Pan; got != -4 {
		t.Fatalf("pan=%d, want -4", got)
	}
	if got := r.State().Zoom; got != 1 {
		t.Fatalf("zoom=%v, want unchanged 1", got)
	}
}

func TestPinch_ModeLocks(t *testing.T) {
	r := newTestResolver()

	// Resolve to Zooming first.
	r.Touch([]Point{{0, 0}, {10, 0}})
	r.Touch([]Point{{0, 0}, {12, 0}})
	if r.Mode() != Zooming {
		t.Fatalf("mode=%v, want Zooming", r.Mode())
	}

	// A later large center move must NOT flip the gesture into Panning.
	r.Touch([]Point{{30, 0}, {42, 0}})
	if r.Mode() != Zooming {
		t.Fatalf("mode flipped to %v mid-gesture", r.Mode())
	}
	if got := r.State().Pan; got != 0 {
		t.Fatalf("locked zoom gesture moved pan to %d", got)
	}

	// And the mirror case: Panning never becomes Zooming.
	r.Touch(nil)
	r.Touch([]Point{{0, 0}, {10, 0}})
	r.Touch([]Point{{8, 0}, {18, 0}})
	if r.Mode() != Panning {
		t.Fatalf("mode=%v, want Panning", r.Mode())
	}
	zoomBefore := r.State().Zoom
	r.Touch([]Point{{8, 0}, {28, 0}}) // distance doubled
	if r.Mode() != Panning {
		t.Fatalf("mode flipped to %v mid-gesture", r.Mode())
	}
	if r.State().Zoom != zoomBefore {
		t.Fatalf("locked pan gesture changed zoom to %v", r.State().Zoom)
	}
}

func TestPinch_DegenerateDistance(t *testing.T) {
	r := newTestResolver()

	// Both contacts on the same cell: distance 0. No ratio exists; the
	// gesture degrades to pan input and must not produce NaN anywhere.
	r.Touch([]Point{{5, 5}, {5, 5}})
	r.Touch([]Point{{15, 5}, {15, 5}})

	st := r.State()
	if math.IsNaN(st.Zoom) || math.IsInf(st.Zoom, 0) {
		t.Fatalf("zoom corrupted by zero-distance pinch: %v", st.Zoom)
	}
	if st.Zoom != 1 {
		t.Fatalf("zoom=%v, want unchanged 1", st.Zoom)
	}
}

func TestTouch_DropToSingleFinger(t *testing.T) {
	r := newTestResolver()

	r.Touch([]Point{{0, 0}, {10, 0}})
	r.Touch([]Point{{8, 0}, {18, 0}}) // Panning, pan = -4
	panBefore := r.State().Pan

	// One finger lifts: drag re-seeds at the remaining contact, no jump.
	r.Touch([]Point{{8, 0}})
	if r.Phase() != SingleDrag {
		t.Fatalf("phase=%v, want SingleDrag", r.Phase())
	}
	if r.State().Pan != panBefore {
		t.Fatalf("pan jumped on finger lift: %d → %d", panBefore, r.State().Pan)
	}

	// All fingers lift.
	r.Touch(nil)
	if r.Phase() != Idle {
		t.Fatalf("phase=%v, want Idle", r.Phase())
	}
}

func TestWheel_Routes(t *testing.T) {
	r := newTestResolver()

	// Ctrl-wheel up: pinch-strength zoom in.
	r.Wheel(0, -1, true)
	if got := r.State().Zoom; math.Abs(got-pinchWheelStep) > 1e-9 {
		t.Fatalf("ctrl wheel zoom=%v, want %v", got, pinchWheelStep)
	}

	// Plain vertical wheel: gentle zoom.
	r.SetState(viewport.DefaultState())
	r.Wheel(0, -1, false)
	if got := r.State().Zoom; math.Abs(got-plainWheelStep) > 1e-9 {
		t.Fatalf("plain wheel zoom=%v, want %v", got, plainWheelStep)
	}

	// Dominant horizontal delta: pan, zoom untouched.
	r.SetState(viewport.DefaultState())
	r.Wheel(8, 1, false)
	if got := r.State().Pan; got != 4 {
		t.Fatalf("wheel pan=%d, want 4", got)
	}
	if got := r.State().Zoom; got != 1 {
		t.Fatalf("wheel pan changed zoom to %v", got)
	}
}

func TestZoom_ClampsAndReclampsPan(t *testing.T) {
	r := newTestResolver()

	// Park the pan at the right edge of the zoom-1 range.
	extLen, lastReal, width := wideBounds()
	_, hi := viewport.PanBounds(extLen, lastReal, viewport.DefaultState(), width)
	r.SetState(viewport.DefaultState().WithPan(hi))

	// Zoom far in: fewer visible bars shrink the valid pan range, so the
	// resolver has to re-clamp the stale offset.
	for i := 0; i < 100; i++ {
		r.Wheel(0, -1, true)
	}
	st := r.State()
	if st.Zoom != viewport.MaxZoom {
		t.Fatalf("zoom=%v, want clamped to %v", st.Zoom, viewport.MaxZoom)
	}
	lo, hi := viewport.PanBounds(extLen, lastReal, st, width)
	if st.Pan < lo || st.Pan > hi {
		t.Fatalf("pan %d outside post-zoom bounds [%d, %d]", st.Pan, lo, hi)
	}
}
