package game

import (
	"fmt"
	"math"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Obstacle is an impassable polygon plus the ring units glide along when
// they stray close to it. Both rings wind clockwise on screen.
type Obstacle struct {
	Name     string
	Body     orb.Polygon
	Boundary []geom.Vec2

	bound orb.Bound
	rect  rtreego.Rect
}

// NewObstacle builds an obstacle from its body outline. A nil boundary is
// derived by pushing every body vertex margin pixels away from the centroid.
func NewObstacle(name string, body, boundary []geom.Vec2, margin float64) (*Obstacle, error) {
	if len(body) < 3 {
		return nil, fmt.Errorf("obstacle %q: body needs 3 vertices", name)
	}
	if len(boundary) == 0 {
		c := centroid(body)
		boundary = make([]geom.Vec2, len(body))
		for i, v := range body {
			boundary[i] = v.Add(v.Sub(c).Norm().Scale(margin))
		}
	}

	ring := closedRing(body)
	// Clockwise on a y-down screen is counter-clockwise in orb's y-up sense.
	if ring.Orientation() == orb.CW {
		ring.Reverse()
	}
	outline := closedRing(boundary)
	if outline.Orientation() == orb.CW {
		outline.Reverse()
	}
	o := &Obstacle{
		Name:     name,
		Body:     orb.Polygon{ring},
		Boundary: openRing(outline),
	}
	o.bound = ring.Bound().Union(outline.Bound())
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{o.bound.Min[0], o.bound.Min[1]},
		rtreego.Point{math.Max(o.bound.Max[0], o.bound.Min[0]+1), math.Max(o.bound.Max[1], o.bound.Min[1]+1)},
	)
	if err != nil {
		return nil, fmt.Errorf("obstacle %q: %w", name, err)
	}
	o.rect = r
	return o, nil
}

func obstacleFromConfig(c config.Obstacle) (*Obstacle, error) {
	body := make([]geom.Vec2, len(c.Body))
	for i, p := range c.Body {
		body[i] = p.Vec()
	}
	var boundary []geom.Vec2
	for _, p := range c.Boundary {
		boundary = append(boundary, p.Vec())
	}
	return NewObstacle(c.Name, body, boundary, c.Margin)
}

// Bounds implements rtreego.Spatial.
func (o *Obstacle) Bounds() rtreego.Rect { return o.rect }

// Bound is the box covering body and boundary.
func (o *Obstacle) Bound() orb.Bound { return o.bound }

// Contains reports whether p lies inside the body.
func (o *Obstacle) Contains(p geom.Vec2) bool {
	return planar.PolygonContains(o.Body, p.Point())
}

// Distance is the distance from p to the body outline, 0 inside it.
func (o *Obstacle) Distance(p geom.Vec2) float64 {
	if o.Contains(p) {
		return 0
	}
	ring := o.Body[0]
	best := math.Inf(1)
	for i := 0; i+1 < len(ring); i++ {
		best = math.Min(best, planar.DistanceFromSegment(ring[i], ring[i+1], p.Point()))
	}
	return best
}

// ClosestPoint returns the point of the body outline nearest to p.
func (o *Obstacle) ClosestPoint(p geom.Vec2) geom.Vec2 {
	ring := o.Body[0]
	var best geom.Vec2
	bestD := math.Inf(1)
	for i := 0; i+1 < len(ring); i++ {
		c := geom.ClosestOnSegment(p, geom.FromPoint(ring[i]), geom.FromPoint(ring[i+1]))
		if d := c.Dist(p); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// Vertices returns the body outline without the closing point.
func (o *Obstacle) Vertices() []geom.Vec2 {
	return openRing(o.Body[0])
}

func closedRing(pts []geom.Vec2) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, p.Point())
	}
	if !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

func openRing(r orb.Ring) []geom.Vec2 {
	n := len(r)
	if n > 1 && r[0].Equal(r[n-1]) {
		n--
	}
	out := make([]geom.Vec2, n)
	for i := 0; i < n; i++ {
		out[i] = geom.FromPoint(r[i])
	}
	return out
}

func centroid(pts []geom.Vec2) geom.Vec2 {
	var c geom.Vec2
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// obstacleIndex answers box queries over the arena's obstacles.
type obstacleIndex struct {
	tree *rtreego.Rtree
	all  []*Obstacle
}

func newObstacleIndex(obs []*Obstacle) *obstacleIndex {
	idx := &obstacleIndex{tree: rtreego.NewTree(2, 2, 8), all: obs}
	for _, o := range obs {
		idx.tree.Insert(o)
	}
	return idx
}

// Query returns the obstacles whose box meets b, in arena order.
func (idx *obstacleIndex) Query(b orb.Bound) []*Obstacle {
	if len(idx.all) == 0 {
		return nil
	}
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{b.Min[0], b.Min[1]},
		rtreego.Point{math.Max(b.Max[0], b.Min[0]+1e-9), math.Max(b.Max[1], b.Min[1]+1e-9)},
	)
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(r)
	if len(hits) == 0 {
		return nil
	}
	found := make(map[*Obstacle]bool, len(hits))
	for _, h := range hits {
		found[h.(*Obstacle)] = true
	}
	out := make([]*Obstacle, 0, len(hits))
	for _, o := range idx.all {
		if found[o] {
			out = append(out, o)
		}
	}
	return out
}

// Near returns obstacles whose box lies within pad of p.
func (idx *obstacleIndex) Near(p geom.Vec2, pad float64) []*Obstacle {
	return idx.Query(geom.SegmentBound(p, p, pad))
}
