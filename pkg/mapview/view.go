// Package mapview is the top-level museum map view.
//
// A [View] owns everything one mounted map needs: the viewport controller,
// the gesture router, the selection and a per-view event bus, plus the
// artifact snapshot it was opened with. Nothing is shared between views.
//
// The lifecycle mirrors a browser page: [View.Mount] subscribes the router
// to the bus, [View.Unmount] removes it. Events dispatched to an unmounted
// view are dropped, so stale input never reaches a discarded viewport.
//
// Unlike the core packages a View is safe for concurrent use; the HTTP
// server drives one view from many requests. Events are still applied one
// at a time and each runs to completion.
package mapview

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/gesture"
	"github.com/matzehuels/museummap/pkg/observability"
	"github.com/matzehuels/museummap/pkg/scene"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// View is one mounted map.
type View struct {
	mu      sync.Mutex
	anchors []anchor.Anchor
	binder  *binder.Binder
	vc      *viewport.Controller
	router  *gesture.Router
	sel     scene.Selection
	bus     *gesture.Bus
	watch   *gesture.Bus
	unmount func()
	logger  *log.Logger
}

// Option configures a View.
type Option func(*View)

// WithAnchors replaces the built-in anchor list.
func WithAnchors(anchors []anchor.Anchor) Option {
	return func(v *View) { v.anchors = anchors }
}

// WithState starts the view from s instead of the initial viewport.
func WithState(s viewport.State) Option {
	return func(v *View) { v.vc = viewport.NewFrom(s) }
}

// WithLogger sets the logger for lifecycle and selection events.
func WithLogger(l *log.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// New opens a view over a binder snapshot. A nil binder is an empty
// collection: every slot renders unbound.
func New(b *binder.Binder, opts ...Option) *View {
	if b == nil {
		b, _ = binder.New(nil, binder.PolicyFirst)
	}
	v := &View{
		anchors: anchor.Defaults(),
		binder:  b,
		vc:      viewport.New(),
		bus:     gesture.NewBus(),
		watch:   gesture.NewBus(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.router = gesture.NewRouter(v.vc)
	return v
}

// Open ingests records under policy and opens a view over them.
func Open(records []artifact.Record, policy binder.Policy, opts ...Option) (*View, error) {
	b, err := binder.New(records, policy)
	if err != nil {
		return nil, err
	}
	return New(b, opts...), nil
}

// Mount subscribes the gesture router to the view's bus. Mounting twice is
// a no-op.
func (v *View) Mount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmount != nil {
		return
	}
	v.unmount = v.router.Mount(v.bus)
	v.logger.Debug("view mounted", "records", len(v.binder.Records()), "bound", len(v.binder.Keys()))
}

// Unmount removes the router from the bus and abandons any drag or pinch
// in progress. The viewport and selection are kept so a remount resumes
// where the user left off.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmount == nil {
		return
	}
	v.unmount()
	v.unmount = nil
	v.vc.EndPinch()
	v.router.Reset()
	v.logger.Debug("view unmounted")
}

// Mounted reports whether the view currently receives events.
func (v *View) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unmount != nil
}

// Subscribe adds an observer, for example a renderer that redraws after
// every event. Observers run after the router has applied the event and
// outside the view lock, so they may call back into the view.
func (v *View) Subscribe(h gesture.Handler) (unsubscribe func()) {
	return v.watch.Subscribe(h)
}

// Dispatch delivers one input event. Pointer-down events without a target
// are resolved by hit test; while the detail overlay is open every
// pointer-down lands on the overlay. It reports whether the view was
// mounted.
func (v *View) Dispatch(ctx context.Context, e gesture.Event) bool {
	v.mu.Lock()
	if v.unmount == nil {
		v.mu.Unlock()
		return false
	}
	if e.Kind == gesture.PointerDown {
		e.Target = v.resolveTarget(e)
	}
	v.bus.Publish(e)
	v.mu.Unlock()

	observability.Scene().OnGesture(ctx, e.Kind.String())
	v.watch.Publish(e)
	return true
}

func (v *View) resolveTarget(e gesture.Event) gesture.Target {
	if _, open := v.sel.Expanded(); open {
		return gesture.TargetOverlay
	}
	if e.Target != gesture.TargetUnresolved {
		return e.Target
	}
	return v.build().HitTest(e.Pos).Target
}

// ClickResult describes what a click did.
type ClickResult struct {
	Hit      scene.Hit `json:"hit"`
	Selected string    `json:"selected,omitempty"`
	Closed   bool      `json:"closed,omitempty"`
}

// Click handles a click at a screen point. A bound slot toggles its artifact
// in the overlay. Any other click while the overlay is open is a backdrop
// click and closes it. Clicks on unbound slots, cards and the background do
// nothing otherwise.
func (v *View) Click(screen geom.Point) ClickResult {
	v.mu.Lock()
	defer v.mu.Unlock()

	hit := v.build().HitTest(screen)
	before, open := v.sel.Expanded()

	switch {
	case hit.Target == gesture.TargetSlot && hit.Bound:
		v.sel.Toggle(hit.Record.ID)
	case open:
		v.sel.Close()
	}

	after, _ := v.sel.Expanded()
	if after != before {
		v.logger.Debug("selection changed", "from", before, "to", after)
	}
	return ClickResult{Hit: hit, Selected: after, Closed: open && after == ""}
}

// Select toggles id in the overlay, as a click on its slot would. Unknown
// ids are ignored.
func (v *View) Select(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.binder.Find(id); ok {
		v.sel.Toggle(id)
	}
}

// Selected returns the expanded artifact id.
func (v *View) Selected() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.Expanded()
}

// CloseDetail closes the overlay.
func (v *View) CloseDetail() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.Close()
}

// Detail returns the overlay content for the expanded artifact. The record
// is looked up by id in the whole snapshot, bound or not.
func (v *View) Detail() (scene.Detail, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id, ok := v.sel.Expanded()
	if !ok {
		return scene.Detail{}, false
	}
	r, ok := v.binder.Find(id)
	if !ok {
		return scene.Detail{}, false
	}
	return scene.NewDetail(r, v.anchors), true
}

// Scene composes the current scene.
func (v *View) Scene(ctx context.Context) *scene.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	start := time.Now()
	s := v.build()
	observability.Scene().OnBuild(ctx, s.BoundCount(), len(s.Slots), time.Since(start))
	return s
}

func (v *View) build() *scene.Scene {
	id, _ := v.sel.Expanded()
	return scene.Build(v.anchors, v.binder, v.vc.State(), scene.WithSelected(id))
}

// State returns the viewport state.
func (v *View) State() viewport.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vc.State()
}

// Mode returns the gesture router state.
func (v *View) Mode() gesture.Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.router.Mode()
}

// ZoomIn applies the zoom-in control.
func (v *View) ZoomIn() { v.control(v.vc.ZoomIn) }

// ZoomOut applies the zoom-out control.
func (v *View) ZoomOut() { v.control(v.vc.ZoomOut) }

// Reset restores zoom 1 and pan (0, 0).
func (v *View) Reset() { v.control(v.vc.Reset) }

// PanBy moves the map by d screen units. Keyboard panning uses it; unlike
// a pointer drag it is not captured by an open overlay.
func (v *View) PanBy(d geom.Point) {
	v.control(func() { v.vc.SetPan(v.vc.State().Pan.Add(d)) })
}

func (v *View) control(f func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f()
}

// Anchors returns the view's anchors.
func (v *View) Anchors() []anchor.Anchor {
	return append([]anchor.Anchor(nil), v.anchors...)
}

// Binder returns the snapshot the view was opened with.
func (v *View) Binder() *binder.Binder { return v.binder }
