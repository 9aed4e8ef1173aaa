// Package geom provides the planar geometry used by the museum map.
//
// Everything here is a pure function over [Point] values: Euclidean distance
// (which drives the pinch gesture), points on a circular arc (which place the
// artifact slots around an anchor), and the quadratic connection curve drawn
// from an anchor card to each of its slots.
//
// # Connection curves
//
// [QuadraticPath] places the control point at the horizontal midpoint, at the
// height of the start point:
//
//	control = ((from.X+to.X)/2, from.Y)
//
// The result is an asymmetric "drop" from the anchor into the slot rather than
// a symmetric arc. Renderers must use [Curve.D] unchanged so that every output
// format draws the same curve.
package geom
