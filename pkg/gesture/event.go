// Package gesture turns raw pointer, touch and wheel input into viewport
// mutations.
//
// [Router] is a three-state machine (Idle, Panning, Pinching). Wheel input is
// handled outside the machine: every wheel event zooms regardless of mode.
// Pointer-down only starts a pan on the background so clicks on slots and
// cards stay clicks; single-touch start is not gated.
//
// Input is delivered through a [Bus] owned by the mounted view. Mounting a
// router subscribes it; the returned function unsubscribes it. Nothing is
// registered process-wide.
package gesture

import (
	"fmt"

	"github.com/matzehuels/museummap/pkg/geom"
)

// Kind is the type of an input event.
type Kind int

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
	TouchStart
	TouchMove
	TouchEnd
	Wheel
)

var kindNames = [...]string{
	PointerDown: "pointerdown",
	PointerMove: "pointermove",
	PointerUp:   "pointerup",
	TouchStart:  "touchstart",
	TouchMove:   "touchmove",
	TouchEnd:    "touchend",
	Wheel:       "wheel",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps an event name to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Target is what an event landed on.
type Target int

const (
	// TargetUnresolved asks the view to resolve the target by hit test.
	TargetUnresolved Target = iota
	TargetBackground
	TargetAnchor
	TargetSlot
	TargetOverlay
	TargetControl
)

var targetNames = [...]string{
	TargetUnresolved: "",
	TargetBackground: "background",
	TargetAnchor:     "anchor",
	TargetSlot:       "slot",
	TargetOverlay:    "overlay",
	TargetControl:    "control",
}

func (t Target) String() string {
	if t >= 0 && int(t) < len(targetNames) {
		return targetNames[t]
	}
	return "unknown"
}

// ParseTarget maps a target name to its Target. The empty string is
// TargetUnresolved.
func ParseTarget(s string) (Target, bool) {
	for t, name := range targetNames {
		if name == s {
			return Target(t), true
		}
	}
	return 0, false
}

// Event is one input event in screen coordinates.
type Event struct {
	Kind Kind `json:"kind"`

	// Pos is the pointer position for pointer events.
	Pos geom.Point `json:"pos"`

	// Touches holds the active touch points: all touches still down for
	// start and move, the remaining touches for end.
	Touches []geom.Point `json:"touches,omitempty"`

	// DeltaY is the wheel delta.
	DeltaY float64 `json:"deltaY,omitempty"`

	Target Target `json:"target,omitempty"`
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown event kind %q", b)
	}
	*k = v
	return nil
}

// MarshalText encodes the target by name.
func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a target name.
func (t *Target) UnmarshalText(b []byte) error {
	v, ok := ParseTarget(string(b))
	if !ok {
		return fmt.Errorf("unknown event target %q", b)
	}
	*t = v
	return nil
}
