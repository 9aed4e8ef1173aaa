// Package layout places the artifact slots around an anchor.
//
// Each anchor owns [SlotCount] slots on a semicircular arc. The arc is centered
// on the anchor card's visual center (the anchor position offset by
// [CenterOffset]) with radius [Radius]; slot i sits at
//
//	angle = StartAngle + i*AngleStep
//
// Slot index i is displayed and stored as the 1-based slot number i+1
// (see [SlotNo] and [Index]).
//
// All functions are pure: identical inputs always yield identical positions.
package layout

import (
	"math"

	"github.com/matzehuels/museummap/pkg/geom"
)

const (
	// SlotCount is the number of slots around every anchor.
	SlotCount = 9

	// Radius is the distance from the anchor center to each slot.
	Radius = 250.0

	// StartAngle is the angle of slot 0 (upper left of the card).
	StartAngle = -math.Pi/2 - math.Pi/3

	// AngleStep is the uniform angular spacing between slots.
	AngleStep = math.Pi / 8
)

// CenterOffset approximates the visual center of an anchor card relative to
// its top-left position.
var CenterOffset = geom.Pt(120, 70)

// ConnectionOffset is where connection curves leave the anchor card.
var ConnectionOffset = geom.Pt(120, 80)

// Params are the arc parameters. The zero value is not useful; start from [Default].
type Params struct {
	Radius     float64
	SlotCount  int
	StartAngle float64
	AngleStep  float64
	Offset     geom.Point
}

// Default returns the fixed museum-map arc parameters.
func Default() Params {
	return Params{
		Radius:     Radius,
		SlotCount:  SlotCount,
		StartAngle: StartAngle,
		AngleStep:  AngleStep,
		Offset:     CenterOffset,
	}
}

// Center returns the arc center for an anchor at pos.
func (p Params) Center(pos geom.Point) geom.Point {
	return pos.Add(p.Offset)
}

// Slot returns the position of slot index i for an anchor at pos.
func (p Params) Slot(pos geom.Point, i int) geom.Point {
	return geom.PointOnArc(p.Center(pos), p.Radius, p.StartAngle+float64(i)*p.AngleStep)
}

// Slots returns all slot positions for an anchor at pos, ordered by index.
func (p Params) Slots(pos geom.Point) []geom.Point {
	out := make([]geom.Point, p.SlotCount)
	for i := range out {
		out[i] = p.Slot(pos, i)
	}
	return out
}

// Slots returns the default slot positions for an anchor at pos.
func Slots(pos geom.Point) []geom.Point {
	return Default().Slots(pos)
}

// ConnectionOrigin returns where an anchor at pos starts its connection curves.
func ConnectionOrigin(pos geom.Point) geom.Point {
	return pos.Add(ConnectionOffset)
}

// SlotNo converts a 0-based slot index to its 1-based slot number.
func SlotNo(i int) int { return i + 1 }

// Index converts a 1-based slot number to its 0-based index. The boolean is
// false when slotNo is outside [1, SlotCount].
func Index(slotNo int) (int, bool) {
	if slotNo < 1 || slotNo > SlotCount {
		return 0, false
	}
	return slotNo - 1, true
}
