package nav

import (
	"math"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

var gridDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// GridGraph lays an 8-connected lattice over a w x h area with one node at
// the centre of every spacing-sized cell that blocked rejects. Node ids are
// row-major cell indices. Diagonal links are dropped when either adjacent
// orthogonal cell is blocked, so paths never cut corners.
func GridGraph(w, h, spacing float64, blocked func(geom.Vec2) bool) *Graph {
	g := NewGraph()
	if spacing <= 0 {
		return g
	}
	cols := int(math.Floor(w / spacing))
	rows := int(math.Floor(h / spacing))

	center := func(cx, cy int) geom.Vec2 {
		return geom.V(float64(cx)*spacing+spacing/2, float64(cy)*spacing+spacing/2)
	}
	open := func(cx, cy int) bool {
		if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
			return false
		}
		return blocked == nil || !blocked(center(cx, cy))
	}

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if open(cx, cy) {
				g.AddNode(cy*cols+cx, center(cx, cy))
			}
		}
	}
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if !open(cx, cy) {
				continue
			}
			for _, d := range gridDirs {
				nx, ny := cx+d[0], cy+d[1]
				if !open(nx, ny) {
					continue
				}
				if d[0] != 0 && d[1] != 0 && (!open(cx+d[0], cy) || !open(cx, cy+d[1])) {
					continue
				}
				a, b := g.Node(cy*cols+cx), g.Node(ny*cols+nx)
				g.link(a, b, a.Pos.Dist(b.Pos))
			}
		}
	}
	return g
}
