package gesture

import (
	"math"
	"testing"

	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/viewport"
)

func newRouter() (*Router, *viewport.Controller) {
	vc := viewport.New()
	return NewRouter(vc), vc
}

func down(x, y float64) Event {
	return Event{Kind: PointerDown, Pos: geom.Pt(x, y), Target: TargetBackground}
}
func move(x, y float64) Event { return Event{Kind: PointerMove, Pos: geom.Pt(x, y)} }
func up() Event               { return Event{Kind: PointerUp} }

func touches(kind Kind, pts ...geom.Point) Event {
	return Event{Kind: kind, Touches: pts}
}

func TestPointerDragSequence(t *testing.T) {
	r, vc := newRouter()

	r.Handle(down(50, 50))
	if r.Mode() != Panning {
		t.Fatalf("mode = %v, want panning", r.Mode())
	}
	if got := vc.State().DragOrigin; got != geom.Pt(50, 50) {
		t.Errorf("dragOrigin = %v, want (50, 50)", got)
	}

	r.Handle(move(70, 80))
	if got := vc.State().Pan; got != geom.Pt(20, 30) {
		t.Errorf("pan = %v, want (20, 30)", got)
	}

	r.Handle(up())
	if r.Mode() != Idle {
		t.Errorf("mode = %v, want idle", r.Mode())
	}

	r.Handle(move(300, 300))
	if got := vc.State().Pan; got != geom.Pt(20, 30) {
		t.Errorf("stray move changed pan to %v", got)
	}
}

func TestPointerDownGatedToBackground(t *testing.T) {
	for _, target := range []Target{TargetSlot, TargetAnchor, TargetOverlay, TargetControl, TargetUnresolved} {
		t.Run(target.String(), func(t *testing.T) {
			r, vc := newRouter()
			r.Handle(Event{Kind: PointerDown, Pos: geom.Pt(10, 10), Target: target})
			r.Handle(move(40, 40))
			if r.Mode() != Idle || vc.State().Pan != (geom.Point{}) {
				t.Errorf("pointer-down on %v started a pan", target)
			}
		})
	}
}

func TestPinchSequence(t *testing.T) {
	r, vc := newRouter()

	r.Handle(touches(TouchStart, geom.Pt(0, 0), geom.Pt(100, 0)))
	if r.Mode() != Pinching {
		t.Fatalf("mode = %v, want pinching", r.Mode())
	}
	if vc.State().LastPinchDistance != 100 {
		t.Errorf("lastPinchDistance = %v", vc.State().LastPinchDistance)
	}

	r.Handle(touches(TouchMove, geom.Pt(0, 0), geom.Pt(150, 0)))
	if z := vc.State().Zoom; math.Abs(z-1.5) > 1e-9 {
		t.Errorf("zoom = %v, want 1.5", z)
	}

	r.Handle(touches(TouchEnd, geom.Pt(0, 0)))
	if r.Mode() != Idle || vc.State().LastPinchDistance != 0 {
		t.Errorf("after touchend: mode=%v last=%v", r.Mode(), vc.State().LastPinchDistance)
	}
}

func TestPinchClamps(t *testing.T) {
	r, vc := newRouter()
	r.Handle(touches(TouchStart, geom.Pt(0, 0), geom.Pt(10, 0)))
	r.Handle(touches(TouchMove, geom.Pt(0, 0), geom.Pt(2000, 0)))
	if vc.State().Zoom != viewport.MaxZoom {
		t.Errorf("zoom = %v, want clamp to %v", vc.State().Zoom, viewport.MaxZoom)
	}
}

func TestTwoTouchCancelsPan(t *testing.T) {
	r, vc := newRouter()
	r.Handle(touches(TouchStart, geom.Pt(10, 10)))
	r.Handle(touches(TouchMove, geom.Pt(30, 40)))
	if vc.State().Pan != geom.Pt(20, 30) {
		t.Fatalf("single-touch pan = %v", vc.State().Pan)
	}

	r.Handle(touches(TouchStart, geom.Pt(30, 40), geom.Pt(130, 40)))
	if r.Mode() != Pinching || vc.State().Dragging {
		t.Errorf("second touch should cancel the pan: mode=%v dragging=%v", r.Mode(), vc.State().Dragging)
	}

	// A one-finger move while pinching does not pan
	r.Handle(touches(TouchMove, geom.Pt(500, 500)))
	if vc.State().Pan != geom.Pt(20, 30) {
		t.Errorf("pan moved during pinch: %v", vc.State().Pan)
	}
}

func TestTouchEndWithTwoRemainingKeepsPinching(t *testing.T) {
	r, vc := newRouter()
	r.Handle(touches(TouchStart, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(0, 300)))
	r.Handle(touches(TouchEnd, geom.Pt(0, 0), geom.Pt(0, 300)))
	if r.Mode() != Pinching {
		t.Fatalf("mode = %v, want pinching", r.Mode())
	}
	if vc.State().LastPinchDistance != 300 {
		t.Errorf("pinch not re-seeded: %v", vc.State().LastPinchDistance)
	}
	zoom := vc.State().Zoom
	r.Handle(touches(TouchMove, geom.Pt(0, 0), geom.Pt(0, 310)))
	if got := vc.State().Zoom; math.Abs(got-(zoom+0.1)) > 1e-9 {
		t.Errorf("zoom = %v, want %v", got, zoom+0.1)
	}
}

func TestSingleTouchNotGated(t *testing.T) {
	r, _ := newRouter()
	r.Handle(Event{Kind: TouchStart, Touches: []geom.Point{geom.Pt(1, 1)}, Target: TargetSlot})
	if r.Mode() != Panning {
		t.Errorf("touch on slot should start a pan, mode = %v", r.Mode())
	}
}

func TestWheelIsStateless(t *testing.T) {
	tests := []struct {
		name  string
		setup []Event
		mode  Mode
	}{
		{"idle", nil, Idle},
		{"panning", []Event{down(0, 0)}, Panning},
		{"pinching", []Event{touches(TouchStart, geom.Pt(0, 0), geom.Pt(50, 0))}, Pinching},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, vc := newRouter()
			for _, e := range tt.setup {
				r.Handle(e)
			}
			r.Handle(Event{Kind: Wheel, DeltaY: -100})
			if z := vc.State().Zoom; math.Abs(z-1.1) > 1e-9 {
				t.Errorf("zoom = %v, want 1.1", z)
			}
			if r.Mode() != tt.mode {
				t.Errorf("wheel changed mode to %v", r.Mode())
			}
		})
	}
}

func TestWheelClamps(t *testing.T) {
	r, vc := newRouter()
	for range 100 {
		r.Handle(Event{Kind: Wheel, DeltaY: 500})
	}
	if vc.State().Zoom != viewport.MinZoom {
		t.Errorf("zoom = %v, want %v", vc.State().Zoom, viewport.MinZoom)
	}
}

func TestKindAndTargetNames(t *testing.T) {
	for k := PointerDown; k <= Wheel; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("click"); ok {
		t.Error("unknown kind parsed")
	}
	if tg, ok := ParseTarget("slot"); !ok || tg != TargetSlot {
		t.Errorf("ParseTarget(slot) = %v, %v", tg, ok)
	}
	if tg, ok := ParseTarget(""); !ok || tg != TargetUnresolved {
		t.Errorf("ParseTarget(\"\") = %v, %v", tg, ok)
	}
}
