package game

import (
	"math"
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// squareObstacle is a 100px body at (400,400) with an explicit boundary
// 20px out, both wound clockwise on screen.
func squareObstacle() SimOption {
	return WithConfig(func(c *config.Config) {
		c.Arena.Obstacles = []config.Obstacle{{
			Name:     "block",
			Body:     []config.Point{{400, 400}, {500, 400}, {500, 500}, {400, 500}},
			Boundary: []config.Point{{380, 380}, {520, 380}, {520, 520}, {380, 520}},
		}}
	})
}

func TestSeek_DistanceTenRadiusEight(t *testing.T) {
	e := &Entity{Pos: geom.V(0, 0), MaxSpeed: 50}
	v := Seek(e, geom.V(10, 0), 8)
	require.InDelta(t, 50, v.X, 1e-9)
	require.InDelta(t, 0, v.Y, 1e-9)
}

func TestSeek_InsideArriveRadius(t *testing.T) {
	e := &Entity{Pos: geom.V(0, 0), MaxSpeed: 50}
	if v := Seek(e, geom.V(5, 5), 8); !v.IsZero() {
		t.Fatalf("seek inside radius = %v, want zero", v)
	}
}

func TestSeek_ZeroIffInside(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := &Entity{
			Pos:      geom.V(rapid.Float64Range(-500, 500).Draw(rt, "px"), rapid.Float64Range(-500, 500).Draw(rt, "py")),
			MaxSpeed: rapid.Float64Range(1, 200).Draw(rt, "speed"),
		}
		target := geom.V(rapid.Float64Range(-500, 500).Draw(rt, "tx"), rapid.Float64Range(-500, 500).Draw(rt, "ty"))
		r := rapid.Float64Range(0.1, 100).Draw(rt, "r")

		v := Seek(e, target, r)
		d := e.Pos.Dist(target)
		if d < r {
			if !v.IsZero() {
				rt.Fatalf("d=%v < r=%v but seek=%v", d, r, v)
			}
			return
		}
		if math.Abs(v.Len()-e.MaxSpeed) > 1e-6 {
			rt.Fatalf("|seek| = %v, want %v", v.Len(), e.MaxSpeed)
		}
		if !v.Norm().Approx(target.Sub(e.Pos).Norm()) {
			rt.Fatalf("seek heading %v, want %v", v.Norm(), target.Sub(e.Pos).Norm())
		}
	})
}

func TestAvoidObstacles_FarAwayKeepsBias(t *testing.T) {
	ts := NewTestSim(squareObstacle())
	e := &Entity{Pos: geom.V(100, 100)}
	bias := geom.V(3, -2)
	if got := ts.World.AvoidObstacles(e, bias); got != bias {
		t.Fatalf("AvoidObstacles far away = %v, want bias %v", got, bias)
	}
}

func TestAvoidObstacles_OutsideBoundaryIgnored(t *testing.T) {
	ts := NewTestSim(squareObstacle())
	e := &Entity{Pos: geom.V(450, 370)}
	bias := geom.V(0, 1)
	if got := ts.World.AvoidObstacles(e, bias); got != bias {
		t.Fatalf("outside the ring: got %v, want bias %v", got, bias)
	}
}

func TestAvoidObstacles_PullsBackOntoBoundary(t *testing.T) {
	ts := NewTestSim(squareObstacle())

	// 10px inside the top edge: beyond MaxDistance, all pull.
	deep := ts.World.AvoidObstacles(&Entity{Pos: geom.V(450, 390)}, geom.V(1, 0))
	require.InDelta(t, 0, deep.X, 1e-9)
	require.InDelta(t, -1, deep.Y, 1e-9)

	// 4px inside: half pull, half glide in the bias direction.
	near := ts.World.AvoidObstacles(&Entity{Pos: geom.V(450, 384)}, geom.V(1, 0.2))
	require.InDelta(t, 0.5, near.X, 1e-9)
	require.InDelta(t, -0.5, near.Y, 1e-9)

	// Same spot, bias the other way: glide reverses.
	back := ts.World.AvoidObstacles(&Entity{Pos: geom.V(450, 384)}, geom.V(-1, 0))
	require.InDelta(t, -0.5, back.X, 1e-9)
}

func TestAvoidObstacles_PerpendicularBiasFollowsEdge(t *testing.T) {
	ts := NewTestSim(squareObstacle())
	got := ts.World.AvoidObstacles(&Entity{Pos: geom.V(450, 384)}, geom.V(0, 1))
	// Bias has no component along the edge, so the edge vector itself comes back.
	require.InDelta(t, 140, got.X, 1e-9)
	require.InDelta(t, 0, got.Y, 1e-9)
}

func TestClosestEdge_PicksNearerFoot(t *testing.T) {
	ring := []geom.Vec2{{X: 380, Y: 380}, {X: 520, Y: 380}, {X: 520, Y: 520}, {X: 380, Y: 520}}
	edge, ok := closestEdge(ring, geom.V(450, 390))
	if !ok {
		t.Fatal("closestEdge failed")
	}
	if !edge.foot.Approx(geom.V(450, 380)) || math.Abs(edge.dist-10) > 1e-9 {
		t.Fatalf("foot=%v dist=%v, want (450,380) 10", edge.foot, edge.dist)
	}
	if !edge.vec.Approx(geom.V(140, 0)) {
		t.Fatalf("edge vec = %v, want (140,0)", edge.vec)
	}
}

func TestAvoidEdges(t *testing.T) {
	ts := NewTestSim()
	w := ts.World

	t.Run("interior normalises", func(t *testing.T) {
		got := w.AvoidEdges(geom.V(500, 400), geom.V(3, 4))
		require.InDelta(t, 0.6, got.X, 1e-9)
		require.InDelta(t, 0.8, got.Y, 1e-9)
	})
	t.Run("left wall glides", func(t *testing.T) {
		got := w.AvoidEdges(geom.V(5, 300), geom.V(-1, 1))
		require.InDelta(t, 0, got.X, 1e-9)
		require.InDelta(t, 1, got.Y, 1e-9)
	})
	t.Run("bottom wall glides", func(t *testing.T) {
		got := w.AvoidEdges(geom.V(300, w.Bounds().Y-2), geom.V(-2, 5))
		require.InDelta(t, -1, got.X, 1e-9)
		require.InDelta(t, 0, got.Y, 1e-9)
	})
	t.Run("straight at the wall picks a side", func(t *testing.T) {
		got := w.AvoidEdges(geom.V(5, 300), geom.V(-1, 0))
		require.InDelta(t, 0, got.X, 1e-9)
		require.InDelta(t, 1, math.Abs(got.Y), 1e-9)
	})
	t.Run("zero stays zero", func(t *testing.T) {
		got := w.AvoidEdges(geom.V(500, 400), geom.Vec2{})
		require.True(t, got.IsZero())
	})
}

func TestDodgeVector(t *testing.T) {
	e := &Entity{Pos: geom.V(100, 100)}

	arrow := &Entity{Kind: KindProjectile, Pos: geom.V(50, 100), Vel: geom.V(300, 0)}
	if got := DodgeVector(arrow, e); !got.Approx(geom.V(0, 1)) {
		t.Fatalf("horizontal projectile dodge = %v, want (0,1)", got)
	}
	diag := &Entity{Kind: KindProjectile, Vel: geom.V(1, 1)}
	if got := DodgeVector(diag, e); math.Abs(got.Dot(diag.Vel)) > 1e-9 || math.Abs(got.Len()-1) > 1e-9 {
		t.Fatalf("projectile dodge %v not a unit perpendicular", got)
	}

	orc := &Entity{Kind: KindOrc, Pos: geom.V(100, 40)}
	if got := DodgeVector(orc, e); !got.Approx(geom.V(0, 1)) {
		t.Fatalf("melee dodge = %v, want straight away (0,1)", got)
	}
	if got := DodgeVector(&Entity{Kind: KindOrc, Pos: e.Pos}, e); !got.IsZero() {
		t.Fatalf("coincident dodge = %v, want zero", got)
	}
}

func TestAvoidEntities_Sums(t *testing.T) {
	e := &Entity{Pos: geom.V(0, 0)}
	got := AvoidEntities(e, []*Entity{
		{Kind: KindKnight, Pos: geom.V(-10, 0)},
		{Kind: KindOrc, Pos: geom.V(0, -10)},
	})
	require.InDelta(t, 1, got.X, 1e-9)
	require.InDelta(t, 1, got.Y, 1e-9)
}
