// Package geom holds the small amount of planar vector math shared by the
// navigation graph and the unit AI.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Epsilon is the tolerance used for vector equality and degenerate lengths.
const Epsilon = 1e-6

// Vec2 is a 2D vector in screen space (x right, y down).
type Vec2 struct{ X, Y float64 }

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{x, y} }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Dist(b Vec2) float64  { return a.Sub(b).Len() }

// Norm returns the unit vector in the direction of a, or the zero vector
// when a has no length.
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// IsZero reports whether a is shorter than Epsilon.
func (a Vec2) IsZero() bool { return a.Len() < Epsilon }

// Approx reports whether a and b are within Epsilon on both axes.
func (a Vec2) Approx(b Vec2) bool {
	return math.Abs(a.X-b.X) <= Epsilon && math.Abs(a.Y-b.Y) <= Epsilon
}

// Lerp returns the point t of the way from a to b.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// RotateRight turns a by 90 degrees clockwise on screen.
func (a Vec2) RotateRight() Vec2 { return Vec2{-a.Y, a.X} }

// Heading returns the angle of a in radians, 0 = right, pi/2 = down.
func (a Vec2) Heading() float64 { return math.Atan2(a.Y, a.X) }

// Point converts a to an orb point.
func (a Vec2) Point() orb.Point { return orb.Point{a.X, a.Y} }

// FromPoint converts an orb point to a Vec2.
func FromPoint(p orb.Point) Vec2 { return Vec2{p[0], p[1]} }

// PerpendicularUnit returns a unit vector perpendicular to v. A vector with
// no vertical component maps to (0,1).
func PerpendicularUnit(v Vec2) Vec2 {
	if v.Y == 0 {
		return Vec2{0, 1}
	}
	return Vec2{1, -v.X / v.Y}.Norm()
}

// Project returns the projection of v onto the direction of onto.
func Project(v, onto Vec2) Vec2 {
	u := onto.Norm()
	return u.Scale(v.Dot(u))
}

// UnitProject is Project normalised. It is the zero vector when v is
// perpendicular to onto.
func UnitProject(v, onto Vec2) Vec2 {
	return Project(v, onto).Norm()
}

// FootOfPerpendicular returns the point on the infinite line through a and b
// closest to p.
func FootOfPerpendicular(p, a, b Vec2) Vec2 {
	if a.Approx(b) {
		return a
	}
	return a.Add(Project(p.Sub(a), b.Sub(a)))
}

// ClosestOnSegment returns the point of segment a-b nearest to p.
func ClosestOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Epsilon*Epsilon {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}
