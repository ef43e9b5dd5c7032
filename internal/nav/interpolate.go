package nav

import "math"

type pairKey struct{ a, b int }

// Interpolate returns a finer copy of g: every connection is split into a
// chain of segments roughly spacing long. Original nodes keep their ids and
// positions; inserted nodes get fresh ids above g.MaxID(). Each segment
// carries its share of the original cost, so a chain costs exactly what the
// connection it replaces did. Opposite connections between the same pair of
// nodes share one chain. A non-positive spacing returns a plain copy.
func Interpolate(g *Graph, spacing float64) *Graph {
	out := NewGraph()
	for _, n := range g.Nodes() {
		out.AddNode(n.ID, n.Pos)
	}

	nextID := g.MaxID() + 1
	chains := make(map[pairKey][]*Node)

	for _, c := range g.Edges() {
		from := out.AddNode(c.From.ID, c.From.Pos)
		to := out.AddNode(c.To.ID, c.To.Pos)
		length := from.Pos.Dist(to.Pos)
		segments := 1
		if spacing > 0 && length > spacing {
			segments = int(math.Round(length / spacing))
		}
		if segments <= 1 {
			out.link(from, to, c.Cost)
			continue
		}

		chain, ok := chains[pairKey{from.ID, to.ID}]
		if !ok {
			if rev, found := chains[pairKey{to.ID, from.ID}]; found {
				chain = make([]*Node, len(rev))
				for i, n := range rev {
					chain[len(rev)-1-i] = n
				}
			} else {
				chain = make([]*Node, 0, segments-1)
				for i := 1; i < segments; i++ {
					p := from.Pos.Lerp(to.Pos, float64(i)/float64(segments))
					chain = append(chain, out.AddNode(nextID, p))
					nextID++
				}
			}
			chains[pairKey{from.ID, to.ID}] = chain
		}

		step := c.Cost / float64(len(chain)+1)
		prev := from
		for _, n := range chain {
			out.link(prev, n, step)
			prev = n
		}
		out.link(prev, to, step)
	}
	return out
}

// Collapse folds chains of non-kept nodes back into single connections
// between kept nodes, summing the segment costs. It inverts Interpolate when
// keep accepts exactly the original ids.
func Collapse(g *Graph, keep func(id int) bool) *Graph {
	out := NewGraph()
	for _, n := range g.Nodes() {
		if keep(n.ID) {
			out.AddNode(n.ID, n.Pos)
		}
	}
	for _, n := range out.Nodes() {
		for _, c := range g.Connections(n.ID) {
			cost := c.Cost
			prev, cur := n, c.To
			for steps := 0; !keep(cur.ID) && steps <= g.Len(); steps++ {
				next, ok := forwardStep(g, cur.ID, prev.ID)
				if !ok {
					break
				}
				cost += next.Cost
				prev, cur = cur, next.To
			}
			if keep(cur.ID) {
				out.link(n, out.AddNode(cur.ID, cur.Pos), cost)
			}
		}
	}
	return out
}

// forwardStep picks the connection out of id that does not lead back to prev.
func forwardStep(g *Graph, id, prev int) (Connection, bool) {
	for _, c := range g.Connections(id) {
		if c.To.ID != prev {
			return c, true
		}
	}
	return Connection{}, false
}
