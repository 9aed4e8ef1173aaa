package mapview

import (
	"context"
	"testing"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/gesture"
	"github.com/matzehuels/museummap/pkg/layout"
	"github.com/matzehuels/museummap/pkg/viewport"
)

var (
	ctx        = context.Background()
	background = geom.Pt(2000, 2000)
)

func testRecords() []artifact.Record {
	return []artifact.Record{
		{ID: "A", ParentID: 1, SlotNo: 1, Name: "Coronation Durbar Medal", Story: "Struck in 1911"},
		{ID: "B", ParentID: 1, SlotNo: 2, Name: "East India Company Rupee"},
	}
}

func slotPos(anchorIdx, slotIdx int) geom.Point {
	return layout.Slots(anchor.Defaults()[anchorIdx].Pos)[slotIdx]
}

func mounted(t *testing.T) *View {
	t.Helper()
	v, err := Open(testRecords(), binder.PolicyFirst)
	if err != nil {
		t.Fatal(err)
	}
	v.Mount()
	t.Cleanup(v.Unmount)
	return v
}

func TestDragSequence(t *testing.T) {
	v := mounted(t)

	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerDown, Pos: background})
	if v.Mode() != gesture.Panning {
		t.Fatalf("mode = %v, want panning", v.Mode())
	}
	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerMove, Pos: background.Add(geom.Pt(20, 30))})
	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerUp})
	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerMove, Pos: geom.Pt(0, 0)})

	if got := v.State().Pan; got != geom.Pt(20, 30) {
		t.Errorf("pan = %v, want (20, 30)", got)
	}
	if v.Mode() != gesture.Idle {
		t.Errorf("mode = %v, want idle", v.Mode())
	}
}

func TestPointerDownOnSlotDoesNotPan(t *testing.T) {
	v := mounted(t)

	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerDown, Pos: slotPos(0, 0)})
	if v.Mode() != gesture.Idle {
		t.Errorf("pointer-down on a slot started a pan")
	}

	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerDown, Pos: geom.Pt(250, 350)})
	if v.Mode() != gesture.Idle {
		t.Errorf("pointer-down on an anchor card started a pan")
	}
}

func TestOverlayCapturesPointerDown(t *testing.T) {
	v := mounted(t)
	v.Click(slotPos(0, 0))

	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerDown, Pos: background, Target: gesture.TargetBackground})
	if v.Mode() != gesture.Idle {
		t.Error("pointer-down while the overlay is open should not pan")
	}
}

func TestUnmountDropsEvents(t *testing.T) {
	v := New(nil)
	if v.Dispatch(ctx, gesture.Event{Kind: gesture.Wheel, DeltaY: -100}) {
		t.Error("dispatch before mount should report false")
	}

	v.Mount()
	v.Mount()
	if !v.Dispatch(ctx, gesture.Event{Kind: gesture.Wheel, DeltaY: -100}) {
		t.Fatal("dispatch while mounted should report true")
	}
	zoom := v.State().Zoom
	if zoom != 1.1 {
		t.Errorf("zoom = %v, want 1.1", zoom)
	}

	v.Dispatch(ctx, gesture.Event{Kind: gesture.PointerDown, Pos: background})
	v.Unmount()
	if v.Mounted() || v.State().Dragging || v.Mode() != gesture.Idle {
		t.Error("unmount should stop the drag and reset the router")
	}
	v.Dispatch(ctx, gesture.Event{Kind: gesture.Wheel, DeltaY: -100})
	if v.State().Zoom != zoom {
		t.Error("events after unmount must not reach the viewport")
	}
}

func TestSubscribeObserver(t *testing.T) {
	v := mounted(t)

	var seen []viewport.State
	unsub := v.Subscribe(func(gesture.Event) { seen = append(seen, v.State()) })
	v.Dispatch(ctx, gesture.Event{Kind: gesture.Wheel, DeltaY: -500})
	unsub()
	v.Dispatch(ctx, gesture.Event{Kind: gesture.Wheel, DeltaY: -500})

	if len(seen) != 1 || seen[0].Zoom != 1.5 {
		t.Errorf("observer saw %+v", seen)
	}
}

func TestClickToggle(t *testing.T) {
	v := mounted(t)
	a, b := slotPos(0, 0), slotPos(0, 1)

	if r := v.Click(a); r.Selected != "A" {
		t.Fatalf("click A = %+v", r)
	}
	if r := v.Click(a); r.Selected != "" || !r.Closed {
		t.Fatalf("second click A = %+v", r)
	}

	v.Click(a)
	if r := v.Click(b); r.Selected != "B" || r.Closed {
		t.Errorf("click B while A open = %+v", r)
	}

	if r := v.Click(background); !r.Closed {
		t.Errorf("backdrop click = %+v", r)
	}
	if _, ok := v.Selected(); ok {
		t.Error("backdrop click should close the overlay")
	}
}

func TestClickUnboundSlot(t *testing.T) {
	v := mounted(t)
	r := v.Click(slotPos(1, 5))
	if r.Hit.Target != gesture.TargetSlot || r.Hit.Bound || r.Selected != "" {
		t.Errorf("unbound click = %+v", r)
	}
}

func TestDetail(t *testing.T) {
	v := mounted(t)
	if _, ok := v.Detail(); ok {
		t.Fatal("no detail before selection")
	}

	v.Select("A")
	d, ok := v.Detail()
	if !ok || d.Heading != "Slot #1" || d.Icon != "🏰" {
		t.Fatalf("Detail = %+v, %v", d, ok)
	}
	if len(d.Sections) != 1 || d.Sections[0].Title != "Story" {
		t.Errorf("sections = %+v", d.Sections)
	}

	s := v.Scene(ctx)
	if sl, _ := s.Slot(1, 1); !sl.Selected {
		t.Error("scene should mark the selected slot")
	}

	v.CloseDetail()
	if _, ok := v.Detail(); ok {
		t.Error("CloseDetail should close the overlay")
	}

	v.Select("missing")
	if _, ok := v.Selected(); ok {
		t.Error("unknown ids should be ignored")
	}
}

func TestControls(t *testing.T) {
	v := New(nil, WithState(viewport.State{Zoom: 2.9, Pan: geom.Pt(5, 5)}))

	v.ZoomIn()
	if v.State().Zoom != viewport.MaxZoom {
		t.Errorf("zoom = %v, want clamp at %v", v.State().Zoom, viewport.MaxZoom)
	}
	v.ZoomOut()
	v.Reset()
	if s := v.State(); s.Zoom != 1 || s.Pan != (geom.Point{}) {
		t.Errorf("after reset: %+v", s)
	}
}

func TestPanByWithOverlayOpen(t *testing.T) {
	v, err := Open(testRecords(), binder.PolicyFirst, WithState(viewport.State{Zoom: 1, Pan: geom.Pt(10, 0)}))
	if err != nil {
		t.Fatal(err)
	}
	v.Mount()
	defer v.Unmount()

	v.PanBy(geom.Pt(-30, 20))
	if got := v.State().Pan; got != geom.Pt(-20, 20) {
		t.Errorf("pan = %v, want (-20, 20)", got)
	}

	v.Select("A")
	if _, open := v.Selected(); !open {
		t.Fatal("overlay should be open")
	}
	v.PanBy(geom.Pt(5, 5))
	if got := v.State().Pan; got != geom.Pt(-15, 25) {
		t.Errorf("pan with overlay open = %v, want (-15, 25)", got)
	}
	if v.Mode() != gesture.Idle {
		t.Error("PanBy must not enter the panning state")
	}
}

func TestOpenRejectsDuplicates(t *testing.T) {
	recs := append(testRecords(), artifact.Record{ID: "C", ParentID: 1, SlotNo: 1})
	if _, err := Open(recs, binder.PolicyReject); err == nil {
		t.Error("reject policy should fail on duplicate slots")
	}
	v, err := Open(recs, binder.PolicyFirst)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Binder().Conflicts(); len(got) != 1 {
		t.Errorf("conflicts = %v", got)
	}
}
