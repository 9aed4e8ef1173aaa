package gesture

import (
	"testing"

	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/viewport"
)

func TestBusSubscribeOrder(t *testing.T) {
	bus := NewBus()
	var got []int
	bus.Subscribe(func(Event) { got = append(got, 1) })
	bus.Subscribe(func(Event) { got = append(got, 2) })

	bus.Publish(Event{Kind: Wheel})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("delivery order = %v", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe(func(Event) { calls++ })

	bus.Publish(Event{})
	unsub()
	unsub() // idempotent
	bus.Publish(Event{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if bus.Len() != 0 {
		t.Errorf("Len = %d after unsubscribe", bus.Len())
	}
}

func TestBusHandlerMayUnsubscribe(t *testing.T) {
	bus := NewBus()
	var unsub func()
	calls := 0
	unsub = bus.Subscribe(func(Event) {
		calls++
		unsub()
	})
	bus.Publish(Event{})
	bus.Publish(Event{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRouterMountUnmount(t *testing.T) {
	bus := NewBus()
	vc := viewport.New()
	r := NewRouter(vc)

	unmount := r.Mount(bus)
	bus.Publish(Event{Kind: PointerDown, Pos: geom.Pt(0, 0), Target: TargetBackground})
	bus.Publish(Event{Kind: PointerMove, Pos: geom.Pt(10, 10)})
	if vc.State().Pan != geom.Pt(10, 10) {
		t.Fatalf("mounted router did not pan: %v", vc.State().Pan)
	}

	unmount()
	bus.Publish(Event{Kind: PointerMove, Pos: geom.Pt(99, 99)})
	if vc.State().Pan != geom.Pt(10, 10) {
		t.Errorf("unmounted router still receives events: %v", vc.State().Pan)
	}
}
