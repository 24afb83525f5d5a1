package difflogic

import (
	"container/heap"
	"math"
)

const undefinedPotential = math.MinInt64

// graphNode is the per-node state of a Graph. potential is the node's
// distance label; outgoing lists the active edges leaving the node in
// insertion order. lastEdge, gamma, and changed are scratch owned by
// AddEdge and clean between calls.
type graphNode struct {
	outgoing  []int
	potential int64
	lastEdge  int
	gamma     int64
	changed   bool
}

type nodeUpdate struct {
	node  int
	gamma int64
}

// updateQueue is a min-heap of tentative potential decrements, most
// negative gamma first.
type updateQueue []nodeUpdate

func (q updateQueue) Len() int            { return len(q) }
func (q updateQueue) Less(i, j int) bool  { return q[i].gamma < q[j].gamma }
func (q updateQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *updateQueue) Push(x interface{}) { *q = append(*q, x.(nodeUpdate)) }
func (q *updateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Graph is the per-thread incremental difference logic consistency
// engine. It maintains node potentials such that every active edge
// (u -> v, w) has non-negative reduced weight
// potential(u) + w - potential(v), which holds iff the active
// constraints are satisfiable over the integers. Graph is not safe for
// concurrent use; each solver thread owns its own instance over the
// shared edge table.
type Graph struct {
	queue   updateQueue
	changed []nodeUpdate
	edges   *EdgeTable
	nodes   []graphNode
}

func NewGraph(edges *EdgeTable) *Graph {
	return &Graph{edges: edges}
}

// Empty reports whether no node has been touched since construction or
// the last Reset.
func (g *Graph) Empty() bool {
	return len(g.nodes) == 0
}

// ValueDefined reports whether the node has participated in an active
// edge in the current branch.
func (g *Graph) ValueDefined(idx int) bool {
	return idx < len(g.nodes) && g.nodes[idx].potential != undefinedPotential
}

// Value returns the integer assigned to the node. The negation turns
// the internal shortest-path label into an assignment satisfying every
// active constraint. Only meaningful when ValueDefined(idx) holds.
func (g *Graph) Value(idx int) int64 {
	return -g.nodes[idx].potential
}

// AddEdge tentatively activates the edge with the given index. If the
// edge closes a negative cycle, the cycle's edge indices are returned
// in order and the graph is rolled back to its pre-call state;
// otherwise the returned slice is empty, the edge is active, and
// potentials have been decreased as needed to keep all reduced weights
// non-negative.
//
// Relaxation is Dijkstra over the reduced weights: affected nodes are
// popped most-negative gamma first, their potential decrement is
// committed, and their outgoing edges are examined. The loop stops as
// soon as the new edge's source u becomes improvable (gamma < 0): at
// that point the lastEdge links from u back to v spell out, together
// with the new edge, a negative cycle.
func (g *Graph) AddEdge(uvIdx int) []int {
	uv := g.edges.Edge(uvIdx)

	// initialize the nodes of the edge to add
	prevLen := len(g.nodes)
	g.ensureNodes(maxInt(uv.From, uv.To) + 1)
	u := &g.nodes[uv.From]
	v := &g.nodes[uv.To]
	uWasUndefined := u.potential == undefinedPotential
	vWasUndefined := v.potential == undefinedPotential
	if uWasUndefined {
		u.potential = 0
	}
	if vWasUndefined {
		v.potential = 0
	}
	v.gamma = u.potential + uv.Weight - v.potential
	if v.gamma < 0 {
		heap.Push(&g.queue, nodeUpdate{node: uv.To, gamma: v.gamma})
		v.lastEdge = uvIdx
	}

	// relax until u becomes improvable or nothing is left to relax
	for len(g.queue) > 0 && u.gamma == 0 {
		sIdx := g.queue[0].node
		s := &g.nodes[sIdx]
		if !s.changed {
			s.potential += s.gamma
			s.changed = true
			g.changed = append(g.changed, nodeUpdate{node: sIdx, gamma: s.gamma})
			s.gamma = 0
			for _, stIdx := range s.outgoing {
				st := g.edges.Edge(stIdx)
				t := &g.nodes[st.To]
				if !t.changed {
					gamma := s.potential + st.Weight - t.potential
					if gamma < t.gamma {
						t.gamma = gamma
						heap.Push(&g.queue, nodeUpdate{node: st.To, gamma: gamma})
						t.lastEdge = stIdx
					}
				}
			}
		}
		heap.Pop(&g.queue)
	}

	var negCycle []int
	if u.gamma < 0 {
		// walk the lastEdge links once around the cycle
		negCycle = append(negCycle, v.lastEdge)
		nextIdx := g.edges.Edge(v.lastEdge).From
		for uv.To != nextIdx {
			next := &g.nodes[nextIdx]
			negCycle = append(negCycle, next.lastEdge)
			nextIdx = g.edges.Edge(next.lastEdge).From
		}
		// the edge is rejected: undo the tentative potential commits
		// and drop nodes materialized by this call
		for _, upd := range g.changed {
			g.nodes[upd.node].potential -= upd.gamma
		}
		if uWasUndefined {
			u.potential = undefinedPotential
		}
		if vWasUndefined {
			v.potential = undefinedPotential
		}
	} else {
		u.outgoing = append(u.outgoing, uvIdx)
	}

	// reset gamma and changed flags
	v.gamma = 0
	for len(g.queue) > 0 {
		g.nodes[g.queue[0].node].gamma = 0
		heap.Pop(&g.queue)
	}
	for _, upd := range g.changed {
		g.nodes[upd.node].changed = false
	}
	g.changed = g.changed[:0]
	if negCycle != nil {
		g.nodes = g.nodes[:prevLen]
	}

	return negCycle
}

// Reset drops every node record, leaving the graph indistinguishable
// from a freshly constructed one. Capacity is retained.
func (g *Graph) Reset() {
	g.nodes = g.nodes[:0]
}

func (g *Graph) ensureNodes(n int) {
	for len(g.nodes) < n {
		g.nodes = append(g.nodes, graphNode{potential: undefinedPotential})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
