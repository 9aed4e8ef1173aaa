package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/museummap/pkg/geom"
)

func TestSlotsFirstPosition(t *testing.T) {
	slots := Slots(geom.Pt(200, 300))
	if len(slots) != SlotCount {
		t.Fatalf("got %d slots, want %d", len(slots), SlotCount)
	}

	want := geom.PointOnArc(geom.Pt(320, 370), 250, -math.Pi/2-math.Pi/3)
	if slots[0] != want {
		t.Errorf("slot 0 = %v, want %v", slots[0], want)
	}
}

func TestSlotsDistinct(t *testing.T) {
	slots := Slots(geom.Pt(200, 300))
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if geom.Distance(slots[i], slots[j]) < 1 {
				t.Errorf("slots %d and %d coincide: %v", i, j, slots[i])
			}
		}
	}
}

func TestSlotsDeterministic(t *testing.T) {
	a := Slots(geom.Pt(800, 500))
	b := Slots(geom.Pt(800, 500))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between calls: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSlotsOnArc(t *testing.T) {
	pos := geom.Pt(500, 900)
	center := Default().Center(pos)
	for i, s := range Slots(pos) {
		if d := geom.Distance(center, s); math.Abs(d-Radius) > 1e-9 {
			t.Errorf("slot %d at distance %v from center, want %v", i, d, Radius)
		}
	}
}

func TestSlotAngles(t *testing.T) {
	p := Default()
	pos := geom.Pt(0, 0)
	center := p.Center(pos)
	for i := 0; i < SlotCount; i++ {
		s := p.Slot(pos, i)
		got := math.Atan2(s.Y-center.Y, s.X-center.X)
		want := math.Remainder(StartAngle+float64(i)*AngleStep, 2*math.Pi)
		if math.Abs(math.Remainder(got-want, 2*math.Pi)) > 1e-9 {
			t.Errorf("slot %d angle = %v, want %v", i, got, want)
		}
	}
}

func TestConnectionOrigin(t *testing.T) {
	if got := ConnectionOrigin(geom.Pt(200, 300)); got != geom.Pt(320, 380) {
		t.Errorf("ConnectionOrigin = %v, want (320, 380)", got)
	}
}

func TestSlotNoIndex(t *testing.T) {
	tests := []struct {
		slotNo int
		idx    int
		ok     bool
	}{
		{1, 0, true},
		{9, 8, true},
		{0, 0, false},
		{10, 0, false},
		{-3, 0, false},
	}
	for _, tt := range tests {
		idx, ok := Index(tt.slotNo)
		if idx != tt.idx || ok != tt.ok {
			t.Errorf("Index(%d) = %d, %v; want %d, %v", tt.slotNo, idx, ok, tt.idx, tt.ok)
		}
		if ok && SlotNo(idx) != tt.slotNo {
			t.Errorf("SlotNo(Index(%d)) = %d", tt.slotNo, SlotNo(idx))
		}
	}
}
