package nav

import (
	"math"
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/geom"
	"pgregory.net/rapid"
)

func twoNodeGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	g.AddNode(0, geom.V(0, 0))
	g.AddNode(1, geom.V(100, 0))
	if err := g.Connect(0, 1); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return g
}

func TestShortestPath_TwoNodes(t *testing.T) {
	g := twoNodeGraph(t)
	path := ShortestPath(g, g.Node(0), g.Node(1))
	if len(path) != 1 {
		t.Fatalf("expected exactly one connection, got %d", len(path))
	}
	if path[0].From.ID != 0 || path[0].To.ID != 1 || path[0].Cost != 100 {
		t.Fatalf("unexpected connection %+v", path[0])
	}
}

func TestShortestPath_StartEqualsGoal(t *testing.T) {
	g := twoNodeGraph(t)
	if path := ShortestPath(g, g.Node(0), g.Node(0)); len(path) != 0 {
		t.Fatalf("expected empty path, got %d connections", len(path))
	}
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := twoNodeGraph(t)
	// Only 0->1 exists.
	if path := ShortestPath(g, g.Node(1), g.Node(0)); len(path) != 0 {
		t.Fatal("expected empty path against a one-way connection")
	}
}

func TestShortestPath_MissingNode(t *testing.T) {
	g := twoNodeGraph(t)
	if path := ShortestPath(g, g.Node(0), &Node{ID: 42}); path != nil {
		t.Fatal("expected nil path for a node outside the graph")
	}
}

func TestShortestPath_PrefersCheaperDetour(t *testing.T) {
	// 0 -> 2 directly costs 500; 0 -> 1 -> 2 is the geometric detour.
	g := NewGraph()
	g.AddNode(0, geom.V(0, 0))
	g.AddNode(1, geom.V(50, 50))
	g.AddNode(2, geom.V(100, 0))
	_ = g.ConnectCost(0, 2, 500)
	_ = g.ConnectBoth(0, 1)
	_ = g.ConnectBoth(1, 2)

	path := ShortestPath(g, g.Node(0), g.Node(2))
	if len(path) != 2 || path[0].To.ID != 1 {
		t.Fatalf("expected detour through node 1, got %d connections", len(path))
	}
}

func TestShortestPath_TieBrokenByDiscoveryOrder(t *testing.T) {
	// Two mirror-image routes of equal cost; the one connected first wins.
	g := NewGraph()
	g.AddNode(0, geom.V(0, 0))
	g.AddNode(1, geom.V(50, -50))
	g.AddNode(2, geom.V(50, 50))
	g.AddNode(3, geom.V(100, 0))
	_ = g.Connect(0, 2)
	_ = g.Connect(0, 1)
	_ = g.Connect(1, 3)
	_ = g.Connect(2, 3)

	for i := 0; i < 10; i++ {
		path := ShortestPath(g, g.Node(0), g.Node(3))
		if len(path) != 2 || path[0].To.ID != 2 {
			t.Fatalf("run %d: expected the first-connected branch through node 2", i)
		}
	}
}

func TestShortestPath_AcceptsNodesFromOtherGraph(t *testing.T) {
	full := twoNodeGraph(t)
	route, err := full.Route(0, 1)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	path := ShortestPath(route, full.Node(0), full.Node(1))
	if len(path) != 1 || path[0].From != route.Node(0) {
		t.Fatal("expected the path to use the route's own nodes")
	}
}

// randomGraph draws a small connected-ish graph with Euclidean costs.
func randomGraph(rt *rapid.T) *Graph {
	g := NewGraph()
	n := rapid.IntRange(2, 12).Draw(rt, "nodes")
	for i := 0; i < n; i++ {
		x := float64(rapid.IntRange(0, 1000).Draw(rt, "x"))
		y := float64(rapid.IntRange(0, 1000).Draw(rt, "y"))
		g.AddNode(i, geom.V(x, y))
	}
	edges := rapid.IntRange(1, n*3).Draw(rt, "edges")
	for i := 0; i < edges; i++ {
		a := rapid.IntRange(0, n-1).Draw(rt, "a")
		b := rapid.IntRange(0, n-1).Draw(rt, "b")
		if a != b {
			_ = g.ConnectBoth(a, b)
		}
	}
	return g
}

func TestShortestPath_AdmissibleAndConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := randomGraph(rt)
		n := g.Len()
		s := g.Node(rapid.IntRange(0, n-1).Draw(rt, "start"))
		e := g.Node(rapid.IntRange(0, n-1).Draw(rt, "goal"))

		astar := ShortestPath(g, s, e)
		dijkstra := ShortestPathWith(g, s, e, ZeroHeuristic)
		if (len(astar) == 0) != (len(dijkstra) == 0) {
			rt.Fatalf("A* and Dijkstra disagree on reachability")
		}
		if len(astar) == 0 {
			return
		}
		cost := PathCost(astar)
		if cost+1e-9 < s.Pos.Dist(e.Pos) {
			rt.Fatalf("path cost %.3f below straight-line %.3f", cost, s.Pos.Dist(e.Pos))
		}
		if PathCost(dijkstra)+1e-9 < cost {
			rt.Fatalf("zero heuristic found cheaper path: %.3f < %.3f", PathCost(dijkstra), cost)
		}
		if math.Abs(PathCost(dijkstra)-cost) > 1e-6 {
			rt.Fatalf("A* cost %.6f differs from optimum %.6f", cost, PathCost(dijkstra))
		}
		if astar[0].From.ID != s.ID || astar[len(astar)-1].To.ID != e.ID {
			rt.Fatalf("path does not run from start to goal")
		}
		for i := 1; i < len(astar); i++ {
			if astar[i].From != astar[i-1].To {
				rt.Fatalf("path broken at step %d", i)
			}
		}
	})
}
