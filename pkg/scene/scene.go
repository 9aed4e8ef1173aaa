package scene

import (
	"strconv"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/layout"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// SlotRadius is the radius of a slot marker in canvas units.
const SlotRadius = 25.0

// Binding resolves the record bound to a slot. *binder.Binder implements it.
type Binding interface {
	Bind(anchorID, slotNo int) (artifact.Record, bool)
}

// Records adapts a plain record list to a Binding using first-match lookup.
type Records []artifact.Record

// Bind implements Binding with [binder.Bind].
func (rs Records) Bind(anchorID, slotNo int) (artifact.Record, bool) {
	return binder.Bind(anchorID, slotNo, rs)
}

// Style is the stroke of a connection curve.
type Style struct {
	Dash    string  `json:"dash"`
	Opacity float64 `json:"opacity"`
	Width   float64 `json:"width"`
}

// Connection styles.
var (
	BoundStyle   = Style{Dash: "0", Opacity: 0.8, Width: 2.5}
	UnboundStyle = Style{Dash: "6,6", Opacity: 0.3, Width: 2.5}
)

// StyleFor returns the connection style for a bound or unbound slot.
func StyleFor(bound bool) Style {
	if bound {
		return BoundStyle
	}
	return UnboundStyle
}

// AnchorNode is an anchor card in the scene.
type AnchorNode struct {
	anchor.Anchor
	Palette anchor.Palette `json:"palette"`
	Bound   int            `json:"bound"`
}

// Slot is one slot marker.
type Slot struct {
	AnchorID int        `json:"anchorId"`
	Index    int        `json:"index"`
	SlotNo   int        `json:"slotNo"`
	Pos      geom.Point `json:"pos"`
	Bound    bool       `json:"bound"`
	Selected bool       `json:"selected,omitempty"`

	// Record is the bound artifact; the zero value when unbound.
	Record artifact.Record `json:"record"`
}

// Text is the label drawn inside the marker.
func (s Slot) Text() string {
	if s.Bound {
		return strconv.Itoa(s.Record.SlotNo)
	}
	return strconv.Itoa(s.SlotNo)
}

// Connection is the curve from an anchor card to one of its slots.
type Connection struct {
	AnchorID int        `json:"anchorId"`
	SlotNo   int        `json:"slotNo"`
	Curve    geom.Curve `json:"curve"`
	Path     string     `json:"path"`
	Bound    bool       `json:"bound"`
	Style    Style      `json:"style"`
}

// Scene is the composed map.
type Scene struct {
	Viewport    viewport.State     `json:"viewport"`
	Transform   viewport.Transform `json:"transform"`
	Canvas      float64            `json:"canvas"`
	Anchors     []AnchorNode       `json:"anchors"`
	Slots       []Slot             `json:"slots"`
	Connections []Connection       `json:"connections"`

	// Selected is the expanded artifact id, empty when the overlay is closed.
	Selected string `json:"selected,omitempty"`
}

// Option adjusts a scene while it is built.
type Option func(*Scene)

// WithSelected marks the slot bound to id as selected.
func WithSelected(id string) Option {
	return func(s *Scene) { s.Selected = id }
}

// Build composes a scene. A nil binding leaves every slot unbound.
func Build(anchors []anchor.Anchor, b Binding, state viewport.State, opts ...Option) *Scene {
	if b == nil {
		b = Records(nil)
	}
	s := &Scene{
		Viewport:    state,
		Transform:   state.Transform(),
		Canvas:      viewport.CanvasSize,
		Anchors:     make([]AnchorNode, 0, len(anchors)),
		Slots:       make([]Slot, 0, len(anchors)*layout.SlotCount),
		Connections: make([]Connection, 0, len(anchors)*layout.SlotCount),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, a := range anchors {
		node := AnchorNode{Anchor: a, Palette: a.Theme.Palette()}
		origin := layout.ConnectionOrigin(a.Pos)

		for i, pos := range layout.Slots(a.Pos) {
			slotNo := layout.SlotNo(i)
			rec, bound := b.Bind(a.ID, slotNo)
			if bound {
				node.Bound++
			}
			s.Slots = append(s.Slots, Slot{
				AnchorID: a.ID,
				Index:    i,
				SlotNo:   slotNo,
				Pos:      pos,
				Bound:    bound,
				Selected: bound && s.Selected != "" && rec.ID == s.Selected,
				Record:   rec,
			})

			curve := geom.QuadraticPath(origin, pos)
			s.Connections = append(s.Connections, Connection{
				AnchorID: a.ID,
				SlotNo:   slotNo,
				Curve:    curve,
				Path:     curve.D(),
				Bound:    bound,
				Style:    StyleFor(bound),
			})
		}
		s.Anchors = append(s.Anchors, node)
	}
	return s
}

// BoundCount returns the number of bound slots.
func (s *Scene) BoundCount() int {
	n := 0
	for _, sl := range s.Slots {
		if sl.Bound {
			n++
		}
	}
	return n
}

// Slot returns the slot for (anchorID, slotNo).
func (s *Scene) Slot(anchorID, slotNo int) (Slot, bool) {
	for _, sl := range s.Slots {
		if sl.AnchorID == anchorID && sl.SlotNo == slotNo {
			return sl, true
		}
	}
	return Slot{}, false
}

// Anchor returns the anchor node with the given id.
func (s *Scene) Anchor(id int) (AnchorNode, bool) {
	for _, a := range s.Anchors {
		if a.ID == id {
			return a, true
		}
	}
	return AnchorNode{}, false
}
