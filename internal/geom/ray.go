package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// SegmentBoundHit returns the first segment parameter t in [0,1] where the
// segment a->b enters box. The bool is false when the segment misses it.
func SegmentBoundHit(a, b Vec2, box orb.Bound) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if a.X < box.Min[0] || a.X > box.Max[0] {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (box.Min[0] - a.X) * invD
		t2 := (box.Max[0] - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if a.Y < box.Min[1] || a.Y > box.Max[1] {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (box.Min[1] - a.Y) * invD
		t2 := (box.Max[1] - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

// SegmentHitsBound reports whether the segment a->b touches box.
func SegmentHitsBound(a, b Vec2, box orb.Bound) bool {
	_, hit := SegmentBoundHit(a, b, box)
	return hit
}

// SegmentBound returns the bounding box of the segment a->b grown by pad.
func SegmentBound(a, b Vec2, pad float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Min(a.X, b.X) - pad, math.Min(a.Y, b.Y) - pad},
		Max: orb.Point{math.Max(a.X, b.X) + pad, math.Max(a.Y, b.Y) + pad},
	}
}
