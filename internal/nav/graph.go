// Package nav is the navigation graph: nodes on walkable space, weighted
// directed connections between them, named patrol routes and A* search.
package nav

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

var (
	// ErrDanglingConnection marks a connection whose endpoint is not a node
	// of the graph holding it.
	ErrDanglingConnection = errors.New("nav: connection references missing node")
	// ErrUnknownNode is returned when an id does not name a node.
	ErrUnknownNode = errors.New("nav: unknown node")
)

// Node is a graph vertex.
type Node struct {
	ID  int
	Pos geom.Vec2
}

// Connection is a directed weighted edge.
type Connection struct {
	From *Node
	To   *Node
	Cost float64
}

// Graph maps node ids to nodes and stores outgoing connections keyed by
// origin id, in insertion order.
type Graph struct {
	nodes map[int]*Node
	conns map[int][]Connection
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[int]*Node),
		conns: make(map[int][]Connection),
	}
}

// AddNode inserts a node, or moves an existing one.
func (g *Graph) AddNode(id int, pos geom.Vec2) *Node {
	if n, ok := g.nodes[id]; ok {
		n.Pos = pos
		return n
	}
	n := &Node{ID: id, Pos: pos}
	g.nodes[id] = n
	return n
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int) *Node {
	return g.nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MaxID returns the largest node id, or -1 for an empty graph.
func (g *Graph) MaxID() int {
	maxID := -1
	for id := range g.nodes {
		if id > maxID {
			maxID = id
		}
	}
	return maxID
}

// Connections returns the outgoing connections of a node.
func (g *Graph) Connections(id int) []Connection {
	return g.conns[id]
}

// Edges returns every connection, grouped by origin id in ascending order.
func (g *Graph) Edges() []Connection {
	var out []Connection
	for _, n := range g.Nodes() {
		out = append(out, g.conns[n.ID]...)
	}
	return out
}

// Connect adds a directed connection costed by Euclidean distance.
func (g *Graph) Connect(from, to int) error {
	a, b := g.nodes[from], g.nodes[to]
	if a == nil || b == nil {
		return fmt.Errorf("connect %d->%d: %w", from, to, ErrUnknownNode)
	}
	return g.ConnectCost(from, to, a.Pos.Dist(b.Pos))
}

// ConnectCost adds a directed connection with an explicit cost.
func (g *Graph) ConnectCost(from, to int, cost float64) error {
	a, b := g.nodes[from], g.nodes[to]
	if a == nil || b == nil {
		return fmt.Errorf("connect %d->%d: %w", from, to, ErrUnknownNode)
	}
	g.link(a, b, cost)
	return nil
}

// link appends a connection between two nodes the caller got from g.
func (g *Graph) link(from, to *Node, cost float64) {
	g.conns[from.ID] = append(g.conns[from.ID], Connection{From: from, To: to, Cost: cost})
}

// ConnectBoth adds connections in both directions.
func (g *Graph) ConnectBoth(a, b int) error {
	if err := g.Connect(a, b); err != nil {
		return err
	}
	return g.Connect(b, a)
}

// Connected reports whether a direct connection from -> to exists.
func (g *Graph) Connected(from, to int) bool {
	for _, c := range g.conns[from] {
		if c.To.ID == to {
			return true
		}
	}
	return false
}

// Validate checks that every connection joins nodes owned by this graph.
func (g *Graph) Validate() error {
	for from, cs := range g.conns {
		for _, c := range cs {
			if c.From == nil || c.To == nil {
				return fmt.Errorf("origin %d: nil endpoint: %w", from, ErrDanglingConnection)
			}
			if g.nodes[c.From.ID] != c.From || g.nodes[c.To.ID] != c.To {
				return fmt.Errorf("%d->%d: %w", c.From.ID, c.To.ID, ErrDanglingConnection)
			}
		}
	}
	return nil
}

// NearestNode returns the node closest to p that satisfies pred (nil pred
// accepts every node). Equal distances resolve to the lowest id. Returns
// nil when no node qualifies.
func (g *Graph) NearestNode(p geom.Vec2, pred func(*Node) bool) *Node {
	var best *Node
	bestDist := 0.0
	for _, n := range g.nodes {
		if pred != nil && !pred(n) {
			continue
		}
		d := n.Pos.Dist(p)
		if best == nil || d < bestDist || (d == bestDist && n.ID < best.ID) {
			best = n
			bestDist = d
		}
	}
	return best
}

// Route builds a linear patrol route over the given node ids. Consecutive
// ids are joined in both directions, costed by Euclidean distance.
func (g *Graph) Route(ids ...int) (*Graph, error) {
	r := NewGraph()
	for _, id := range ids {
		n := g.nodes[id]
		if n == nil {
			return nil, fmt.Errorf("route node %d: %w", id, ErrUnknownNode)
		}
		r.AddNode(id, n.Pos)
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := r.ConnectBoth(ids[i], ids[i+1]); err != nil {
			return nil, err
		}
	}
	return r, nil
}
