package game

import (
	"math"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Seek returns a full-speed velocity towards target, or the zero vector
// once e is within arriveRadius of it.
func Seek(e *Entity, target geom.Vec2, arriveRadius float64) geom.Vec2 {
	d := target.Sub(e.Pos)
	if d.Len() < arriveRadius || d.IsZero() {
		return geom.Vec2{}
	}
	return d.Norm().Scale(e.MaxSpeed)
}

// boundaryEdge is the boundary segment nearest a position.
type boundaryEdge struct {
	vec  geom.Vec2 // edge direction, following the ring
	foot geom.Vec2 // foot of the perpendicular on the edge's line
	dist float64
}

// closestEdge picks the nearest ring vertex and returns whichever of its
// two edges has the closer perpendicular foot.
func closestEdge(ring []geom.Vec2, pos geom.Vec2) (boundaryEdge, bool) {
	n := len(ring)
	if n < 2 {
		return boundaryEdge{}, false
	}
	ci := 0
	best := math.Inf(1)
	for i, v := range ring {
		if d := pos.Dist(v); d < best {
			ci, best = i, d
		}
	}
	cur := ring[ci]
	next := ring[(ci+1)%n]
	prev := ring[(ci-1+n)%n]

	foot1 := geom.FootOfPerpendicular(pos, next, cur)
	foot2 := geom.FootOfPerpendicular(pos, prev, cur)
	e1 := boundaryEdge{vec: next.Sub(cur), foot: foot1, dist: pos.Dist(foot1)}
	e2 := boundaryEdge{vec: cur.Sub(prev), foot: foot2, dist: pos.Dist(foot2)}
	if e1.dist < e2.dist {
		return e1, true
	}
	return e2, true
}

// avoidObstacle steers an entity that has strayed inside o's avoidance
// boundary back onto it, gliding along the edge in the direction bias
// agrees with. The zero vector means o has no say.
func avoidObstacle(o *Obstacle, pos, bias geom.Vec2, ignore, maxDist float64) geom.Vec2 {
	edge, ok := closestEdge(o.Boundary, pos)
	if !ok {
		return geom.Vec2{}
	}
	toFoot := edge.foot.Sub(pos)
	if toFoot.IsZero() {
		return geom.Vec2{}
	}
	// Boundaries wind clockwise on screen, so the edge's right normal
	// points inwards; heading that way means we are outside the ring.
	if toFoot.Norm().Approx(edge.vec.RotateRight().Norm()) {
		return geom.Vec2{}
	}
	if edge.dist > ignore {
		return geom.Vec2{}
	}

	along := geom.UnitProject(bias, edge.vec)
	if along.IsZero() {
		return edge.vec
	}
	r := math.Min(edge.dist, maxDist) / maxDist
	return toFoot.Norm().Scale(r).Add(along.Scale(1 - r))
}

// AvoidObstacles sums the avoidance of every nearby obstacle. When none
// has anything to say, bias comes back unchanged.
func (w *World) AvoidObstacles(e *Entity, bias geom.Vec2) geom.Vec2 {
	ignore := w.rules.ObstacleIgnore
	maxDist := w.rules.ObstacleMaxDistance
	if maxDist <= 0 {
		maxDist = 1
	}
	var sum geom.Vec2
	for _, o := range w.index.Near(e.Pos, ignore) {
		sum = sum.Add(avoidObstacle(o, e.Pos, bias, ignore, maxDist))
	}
	if sum.IsZero() {
		return bias
	}
	return sum
}

// AvoidEdges keeps a heading off the arena border: within EdgeTolerance
// of a side, the heading is projected onto that side. A heading straight
// at the wall picks a random way along it. The result is a unit vector,
// or zero.
func (w *World) AvoidEdges(pos, bias geom.Vec2) geom.Vec2 {
	tol := w.rules.EdgeTolerance
	dir := bias

	if pos.X > w.bounds.X-tol || pos.X < tol {
		dir = geom.UnitProject(dir, geom.V(0, 1))
		if dir.IsZero() {
			dir = geom.V(0, w.randomSign())
		}
	}
	if pos.Y > w.bounds.Y-tol || pos.Y < tol {
		dir = geom.UnitProject(dir, geom.V(1, 0))
		if dir.IsZero() {
			dir = geom.V(w.randomSign(), 0)
		}
	}
	return dir.Norm()
}

func (w *World) randomSign() float64 {
	if w.rng.Intn(2) == 0 {
		return 1
	}
	return -1
}

// DodgeVector is the unit direction e should move to get away from
// threat: sideways from anything flying straight, directly away from
// everything else.
func DodgeVector(threat, e *Entity) geom.Vec2 {
	if threat.Kind == KindProjectile {
		return geom.PerpendicularUnit(threat.Vel)
	}
	return e.Pos.Sub(threat.Pos).Norm()
}

// AvoidEntities sums the dodge vectors of threats.
func AvoidEntities(e *Entity, threats []*Entity) geom.Vec2 {
	var sum geom.Vec2
	for _, t := range threats {
		sum = sum.Add(DodgeVector(t, e))
	}
	return sum
}
