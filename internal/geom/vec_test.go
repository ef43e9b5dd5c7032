package geom

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestNorm_ZeroVector(t *testing.T) {
	if n := (Vec2{}).Norm(); n != (Vec2{}) {
		t.Fatalf("expected zero vector, got %v", n)
	}
}

func TestPerpendicularUnit_HorizontalVelocity(t *testing.T) {
	if p := PerpendicularUnit(V(5, 0)); p != V(0, 1) {
		t.Fatalf("expected (0,1) for horizontal input, got %v", p)
	}
}

func TestPerpendicularUnit_IsPerpendicular(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := V(float64(rapid.IntRange(-500, 500).Draw(rt, "x")), float64(rapid.IntRange(-500, 500).Draw(rt, "y")))
		p := PerpendicularUnit(v)
		if math.Abs(p.Len()-1) > 1e-9 {
			rt.Fatalf("expected unit length, got %f", p.Len())
		}
		if math.Abs(p.Dot(v)) > 1e-6*math.Max(1, v.Len()) {
			rt.Fatalf("%v is not perpendicular to %v", p, v)
		}
	})
}

func TestRotateRight(t *testing.T) {
	// Screen space: right turns east into south.
	if r := V(1, 0).RotateRight(); r != V(0, 1) {
		t.Fatalf("expected (0,1), got %v", r)
	}
}

func TestUnitProject_Perpendicular(t *testing.T) {
	if p := UnitProject(V(0, 3), V(5, 0)); !p.IsZero() {
		t.Fatalf("perpendicular projection should be zero, got %v", p)
	}
	if p := UnitProject(V(-2, 3), V(5, 0)); !p.Approx(V(-1, 0)) {
		t.Fatalf("expected (-1,0), got %v", p)
	}
}

func TestFootOfPerpendicular(t *testing.T) {
	f := FootOfPerpendicular(V(5, 7), V(0, 0), V(10, 0))
	if !f.Approx(V(5, 0)) {
		t.Fatalf("expected (5,0), got %v", f)
	}
	// The foot may fall outside the segment.
	f = FootOfPerpendicular(V(-4, 2), V(0, 0), V(10, 0))
	if !f.Approx(V(-4, 0)) {
		t.Fatalf("expected (-4,0), got %v", f)
	}
}

func TestClosestOnSegment_ClampsToEnds(t *testing.T) {
	a, b := V(0, 0), V(10, 0)
	if got := ClosestOnSegment(V(5, 3), a, b); !got.Approx(V(5, 0)) {
		t.Fatalf("interior projection: got %+v", got)
	}
	if got := ClosestOnSegment(V(-4, 2), a, b); !got.Approx(a) {
		t.Fatalf("before start: got %+v", got)
	}
	if got := ClosestOnSegment(V(14, -2), a, b); !got.Approx(b) {
		t.Fatalf("past end: got %+v", got)
	}
	if got := ClosestOnSegment(V(1, 1), a, a); !got.Approx(a) {
		t.Fatalf("degenerate segment: got %+v", got)
	}
}
