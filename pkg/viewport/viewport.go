// Package viewport owns the pan and zoom of the map.
//
// The visible transform is "translate by pan, then scale by zoom" with the
// origin at the top-left of the canvas: a canvas point c appears on screen
// at pan + c*zoom. Pan is expressed in unscaled screen units and is never
// clamped. Zoom is clamped to [MinZoom, MaxZoom] on every path that changes
// it.
//
// [Controller] is not safe for concurrent use; a mounted view mutates it from
// one event at a time.
package viewport

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/museummap/pkg/geom"
)

// Zoom limits and step sizes.
const (
	MinZoom     = 0.1
	MaxZoom     = 3.0
	DefaultZoom = 1.0

	// ButtonStep is the zoom change of the zoom-in and zoom-out controls.
	ButtonStep = 0.2

	// WheelFactor converts wheel deltaY into a zoom delta (negated).
	WheelFactor = 0.001

	// PinchFactor converts a change in pinch distance into a zoom delta.
	PinchFactor = 0.01
)

// CanvasSize is the extent of the virtual canvas in logical units.
const CanvasSize = 3000.0

// State is the full viewport state.
type State struct {
	Zoom              float64    `json:"zoom"`
	Pan               geom.Point `json:"pan"`
	Dragging          bool       `json:"dragging"`
	DragOrigin        geom.Point `json:"dragOrigin"`
	LastPinchDistance float64    `json:"lastPinchDistance"`
}

// Initial returns the state of a freshly mounted view.
func Initial() State {
	return State{Zoom: DefaultZoom}
}

// Percent returns the zoom as a rounded integer percentage.
func (s State) Percent() int {
	return int(math.Round(s.Zoom * 100))
}

// ToScreen maps a canvas point to screen coordinates.
func (s State) ToScreen(c geom.Point) geom.Point {
	return s.Pan.Add(c.Scale(s.Zoom))
}

// ToCanvas maps a screen point to canvas coordinates.
func (s State) ToCanvas(p geom.Point) geom.Point {
	return p.Sub(s.Pan).Scale(1 / s.Zoom)
}

// Transform is the viewport transform in the syntaxes renderers consume.
type Transform struct {
	CSS string `json:"css"`
	SVG string `json:"svg"`
}

// Transform returns the current transform.
func (s State) Transform() Transform {
	x, y, z := num(s.Pan.X), num(s.Pan.Y), num(s.Zoom)
	return Transform{
		CSS: fmt.Sprintf("translate(%spx, %spx) scale(%s)", x, y, z),
		SVG: fmt.Sprintf("translate(%s %s) scale(%s)", x, y, z),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Clamp limits z to [MinZoom, MaxZoom].
func Clamp(z float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// Controller owns and mutates a State.
type Controller struct {
	s State
}

// New returns a controller in the initial state.
func New() *Controller {
	return &Controller{s: Initial()}
}

// NewFrom returns a controller starting at s, with zoom clamped.
func NewFrom(s State) *Controller {
	if math.IsNaN(s.Zoom) || s.Zoom == 0 {
		s.Zoom = DefaultZoom
	}
	s.Zoom = Clamp(s.Zoom)
	return &Controller{s: s}
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.s }

// ApplyZoomDelta adds delta to the zoom and clamps the result. NaN and
// infinite deltas are ignored.
func (c *Controller) ApplyZoomDelta(delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	c.s.Zoom = Clamp(c.s.Zoom + delta)
}

// ZoomIn applies the button step.
func (c *Controller) ZoomIn() { c.ApplyZoomDelta(ButtonStep) }

// ZoomOut applies the negative button step.
func (c *Controller) ZoomOut() { c.ApplyZoomDelta(-ButtonStep) }

// SetPan sets the pan unconditionally.
func (c *Controller) SetPan(p geom.Point) { c.s.Pan = p }

// Reset restores zoom 1 and pan (0, 0) together and ends any gesture.
func (c *Controller) Reset() {
	c.s = Initial()
}

// BeginDrag starts panning from the screen point p. The drag origin is
// p - pan so that later moves re-derive the pan absolutely.
func (c *Controller) BeginDrag(p geom.Point) {
	c.s.Dragging = true
	c.s.DragOrigin = p.Sub(c.s.Pan)
}

// DragTo sets pan = p - dragOrigin while dragging and is a no-op otherwise.
func (c *Controller) DragTo(p geom.Point) {
	if !c.s.Dragging {
		return
	}
	c.s.Pan = p.Sub(c.s.DragOrigin)
}

// EndDrag stops panning. The pan is left where the last move put it.
func (c *Controller) EndDrag() {
	c.s.Dragging = false
}

// BeginPinch cancels any pan and records the initial pinch distance.
func (c *Controller) BeginPinch(dist float64) {
	c.s.Dragging = false
	c.s.LastPinchDistance = dist
}

// PinchTo zooms by (dist - last) * PinchFactor and records dist. Nothing is
// applied when no previous distance is recorded; the call only seeds it.
func (c *Controller) PinchTo(dist float64) {
	if c.s.LastPinchDistance > 0 {
		c.ApplyZoomDelta((dist - c.s.LastPinchDistance) * PinchFactor)
	}
	c.s.LastPinchDistance = dist
}

// EndPinch clears the pinch distance and any drag.
func (c *Controller) EndPinch() {
	c.s.Dragging = false
	c.s.LastPinchDistance = 0
}
