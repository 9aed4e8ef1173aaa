package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   float64
	}{
		{"same point", Pt(3, 4), Pt(3, 4), 0},
		{"3-4-5", Pt(0, 0), Pt(3, 4), 5},
		{"negative coords", Pt(-1, -1), Pt(2, 3), 5},
		{"horizontal", Pt(10, 0), Pt(110, 0), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.p1, tt.p2); !near(got, tt.want) {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
			if got := Distance(tt.p2, tt.p1); !near(got, tt.want) {
				t.Errorf("Distance is not symmetric: got %v", got)
			}
		})
	}
}

func TestPointOnArc(t *testing.T) {
	c := Pt(320, 370)

	tests := []struct {
		name  string
		angle float64
		want  Point
	}{
		{"zero", 0, Pt(570, 370)},
		{"quarter", math.Pi / 2, Pt(320, 620)},
		{"half", math.Pi, Pt(70, 370)},
		{"up", -math.Pi / 2, Pt(320, 120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointOnArc(c, 250, tt.angle)
			if math.Abs(got.X-tt.want.X) > 1e-6 || math.Abs(got.Y-tt.want.Y) > 1e-6 {
				t.Errorf("PointOnArc(%v) = %v, want %v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestQuadraticPath(t *testing.T) {
	c := QuadraticPath(Pt(320, 380), Pt(100, 200))

	if c.Control != Pt(210, 380) {
		t.Errorf("control = %v, want (210, 380)", c.Control)
	}
	if got, want := c.D(), "M 320 380 Q 210 380, 100 200"; got != want {
		t.Errorf("D() = %q, want %q", got, want)
	}
	if c.At(0) != c.From {
		t.Errorf("At(0) = %v, want %v", c.At(0), c.From)
	}
	if end := c.At(1); !near(end.X, c.To.X) || !near(end.Y, c.To.Y) {
		t.Errorf("At(1) = %v, want %v", end, c.To)
	}
}

func TestCurveDFractional(t *testing.T) {
	c := QuadraticPath(Pt(0.5, 1), Pt(2, 3.25))
	if got, want := c.D(), "M 0.5 1 Q 1.25 1, 2 3.25"; got != want {
		t.Errorf("D() = %q, want %q", got, want)
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Pt(70, 80).Sub(Pt(50, 50))
	if p != Pt(20, 30) {
		t.Errorf("Sub = %v", p)
	}
	if q := p.Add(Pt(1, 1)).Scale(2); q != Pt(42, 62) {
		t.Errorf("Add/Scale = %v", q)
	}
	if s := Pt(1.5, -2).String(); s != "(1.5, -2)" {
		t.Errorf("String = %q", s)
	}
}
