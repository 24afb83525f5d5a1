package difflogic

import (
	"github.com/go-air/gini/z"
)

// Edge is a directed weighted edge of the constraint graph. Asserting
// Lit activates the constraint value(From) - value(To) <= Weight.
type Edge struct {
	From   int
	To     int
	Weight int64
	Lit    z.Lit
}

// EdgeTable is the process-wide registry of difference constraint
// edges. It interns node names into dense ids, assigns edge indices in
// registration order, and maps each controlling literal to the edges
// it activates. The table is append-only during initialization and
// read-only afterwards, so solver threads share it without locking.
type EdgeTable struct {
	edges      []Edge
	litToEdges map[z.Lit][]int
	names      []string
	ids        map[string]int
}

func NewEdgeTable() *EdgeTable {
	return &EdgeTable{
		litToEdges: map[z.Lit][]int{},
		ids:        map[string]int{},
	}
}

// Register interns the endpoint names, appends a new edge record, and
// records the literal mapping. It returns the new edge's index. A
// single literal may control multiple edges. Call only during
// initialization.
func (t *EdgeTable) Register(from, to string, weight int64, m z.Lit) int {
	idx := len(t.edges)
	t.edges = append(t.edges, Edge{
		From:   t.intern(from),
		To:     t.intern(to),
		Weight: weight,
		Lit:    m,
	})
	t.litToEdges[m] = append(t.litToEdges[m], idx)
	return idx
}

func (t *EdgeTable) intern(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := len(t.names)
	t.names = append(t.names, name)
	t.ids[name] = id
	return id
}

// EdgesFor returns the indices of every edge controlled by m, in
// registration order.
func (t *EdgeTable) EdgesFor(m z.Lit) []int {
	return t.litToEdges[m]
}

// Edge returns the edge with the given index.
func (t *EdgeTable) Edge(i int) Edge {
	return t.edges[i]
}

// Len returns the number of registered edges.
func (t *EdgeTable) Len() int {
	return len(t.edges)
}

// NumNodes returns the number of distinct node names seen so far.
func (t *EdgeTable) NumNodes() int {
	return len(t.names)
}

// NodeName returns the name interned for the given node id.
func (t *EdgeTable) NodeName(id int) string {
	return t.names[id]
}
