package nav

import "container/heap"

// Heuristic estimates the remaining cost between two nodes.
type Heuristic func(a, b *Node) float64

// Euclidean is the straight-line distance heuristic.
func Euclidean(a, b *Node) float64 { return a.Pos.Dist(b.Pos) }

// ZeroHeuristic turns A* into Dijkstra's algorithm.
func ZeroHeuristic(_, _ *Node) float64 { return 0 }

type pathNode struct {
	node   *Node
	g, h   float64
	via    Connection
	parent *pathNode
	seq    int // discovery order, breaks f ties
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// ShortestPath runs A* with the Euclidean heuristic. Nodes are resolved by id
// in g, so nodes taken from another graph sharing ids may be passed.
// The result is empty when start == goal, when either node is not in g, or
// when the goal is unreachable.
func ShortestPath(g *Graph, start, goal *Node) []Connection {
	return ShortestPathWith(g, start, goal, Euclidean)
}

// ShortestPathWith is ShortestPath with a caller-supplied heuristic.
func ShortestPathWith(g *Graph, start, goal *Node, h Heuristic) []Connection {
	if start == nil || goal == nil || start.ID == goal.ID {
		return nil
	}
	s, t := g.Node(start.ID), g.Node(goal.ID)
	if s == nil || t == nil {
		return nil
	}

	seq := 0
	first := &pathNode{node: s, h: h(s, t), seq: seq}
	ol := &openList{first}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*pathNode{s.ID: first}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.node.ID == t.ID {
			return buildPath(cur)
		}
		if closed[cur.node.ID] {
			continue
		}
		closed[cur.node.ID] = true

		for _, c := range g.Connections(cur.node.ID) {
			nid := c.To.ID
			if closed[nid] {
				continue
			}
			ng := cur.g + c.Cost
			if prev, ok := best[nid]; ok && ng >= prev.g {
				continue
			}
			seq++
			pn := &pathNode{node: c.To, g: ng, h: h(c.To, t), via: c, parent: cur, seq: seq}
			best[nid] = pn
			heap.Push(ol, pn)
		}
	}
	return nil
}

func buildPath(end *pathNode) []Connection {
	var path []Connection
	for n := end; n.parent != nil; n = n.parent {
		path = append(path, n.via)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums the connection costs of a path.
func PathCost(path []Connection) float64 {
	total := 0.0
	for _, c := range path {
		total += c.Cost
	}
	return total
}
