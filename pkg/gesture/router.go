package gesture

import (
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// Mode is the router state.
type Mode int

const (
	Idle Mode = iota
	Panning
	Pinching
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	default:
		return "unknown"
	}
}

// Router applies events to a viewport controller.
type Router struct {
	vc   *viewport.Controller
	mode Mode
}

// NewRouter returns an idle router driving vc.
func NewRouter(vc *viewport.Controller) *Router {
	return &Router{vc: vc}
}

// Mode returns the current state.
func (r *Router) Mode() Mode { return r.mode }

// Reset returns the router to Idle without touching the viewport.
func (r *Router) Reset() { r.mode = Idle }

// Handle applies one event.
func (r *Router) Handle(e Event) {
	switch e.Kind {
	case Wheel:
		r.vc.ApplyZoomDelta(-e.DeltaY * viewport.WheelFactor)

	case PointerDown:
		if e.Target != TargetBackground || r.mode == Pinching {
			return
		}
		r.vc.BeginDrag(e.Pos)
		r.mode = Panning

	case PointerMove:
		if r.mode == Panning {
			r.vc.DragTo(e.Pos)
		}

	case PointerUp:
		if r.mode == Panning {
			r.vc.EndDrag()
			r.mode = Idle
		}

	case TouchStart:
		switch {
		case len(e.Touches) >= 2:
			r.vc.BeginPinch(geom.Distance(e.Touches[0], e.Touches[1]))
			r.mode = Pinching
		case len(e.Touches) == 1:
			r.vc.BeginDrag(e.Touches[0])
			r.mode = Panning
		}

	case TouchMove:
		switch {
		case r.mode == Pinching && len(e.Touches) >= 2:
			r.vc.PinchTo(geom.Distance(e.Touches[0], e.Touches[1]))
		case r.mode == Panning && len(e.Touches) == 1:
			r.vc.DragTo(e.Touches[0])
		}

	case TouchEnd:
		if r.mode == Pinching && len(e.Touches) >= 2 {
			r.vc.BeginPinch(geom.Distance(e.Touches[0], e.Touches[1]))
			return
		}
		r.vc.EndPinch()
		r.mode = Idle
	}
}

// Mount subscribes the router to bus. The returned function unsubscribes it
// and is safe to call more than once.
func (r *Router) Mount(bus *Bus) (unmount func()) {
	return bus.Subscribe(r.Handle)
}
