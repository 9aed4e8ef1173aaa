package geom

import (
	"fmt"
	"math"
	"strconv"
)

// Point is a position in logical canvas or screen units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// String formats the point as "(x, y)".
func (p Point) String() string {
	return "(" + fmtNum(p.X) + ", " + fmtNum(p.Y) + ")"
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// PointOnArc returns the point at angle (radians) on the circle of the given
// radius around center. Angles grow clockwise on screen because Y points down.
func PointOnArc(center Point, radius, angle float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// Curve is a quadratic Bézier segment.
type Curve struct {
	From    Point `json:"from"`
	Control Point `json:"control"`
	To      Point `json:"to"`
}

// QuadraticPath builds the connection curve from one point to another.
// The control point sits at the horizontal midpoint, at from's height.
func QuadraticPath(from, to Point) Curve {
	return Curve{
		From:    from,
		Control: Point{X: (from.X + to.X) / 2, Y: from.Y},
		To:      to,
	}
}

// D returns the SVG path data for the curve: "M x y Q cx cy, x y".
func (c Curve) D() string {
	return fmt.Sprintf("M %s %s Q %s %s, %s %s",
		fmtNum(c.From.X), fmtNum(c.From.Y),
		fmtNum(c.Control.X), fmtNum(c.Control.Y),
		fmtNum(c.To.X), fmtNum(c.To.Y))
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*c.From.X + 2*u*t*c.Control.X + t*t*c.To.X,
		Y: u*u*c.From.Y + 2*u*t*c.Control.Y + t*t*c.To.Y,
	}
}

// fmtNum prints the shortest representation that round-trips, so integral
// coordinates stay integral ("320" rather than "320.000000").
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
