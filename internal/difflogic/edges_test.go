package difflogic

import (
	"testing"

	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeTableRegister(t *testing.T) {
	table := NewEdgeTable()

	idx := table.Register("a", "b", 3, z.Var(1).Pos())
	assert.Equal(t, 0, idx)
	idx = table.Register("b", "c", -1, z.Var(2).Pos())
	assert.Equal(t, 1, idx)
	idx = table.Register("a", "c", 0, z.Var(3).Pos())
	assert.Equal(t, 2, idx)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, Edge{From: 0, To: 1, Weight: 3, Lit: z.Var(1).Pos()}, table.Edge(0))
	assert.Equal(t, Edge{From: 1, To: 2, Weight: -1, Lit: z.Var(2).Pos()}, table.Edge(1))
	assert.Equal(t, Edge{From: 0, To: 2, Weight: 0, Lit: z.Var(3).Pos()}, table.Edge(2))
}

func TestEdgeTableInterning(t *testing.T) {
	table := NewEdgeTable()
	table.Register("x", "y", 0, z.Var(1).Pos())
	table.Register("y", "z", 0, z.Var(2).Pos())
	table.Register("x", "z", 0, z.Var(3).Pos())

	// node ids are dense, in first-seen order
	require.Equal(t, 3, table.NumNodes())
	assert.Equal(t, "x", table.NodeName(0))
	assert.Equal(t, "y", table.NodeName(1))
	assert.Equal(t, "z", table.NodeName(2))
}

func TestEdgeTableEdgesFor(t *testing.T) {
	table := NewEdgeTable()
	shared := z.Var(7).Pos()
	table.Register("a", "b", 1, shared)
	table.Register("c", "d", 2, z.Var(8).Pos())
	table.Register("b", "a", -1, shared)

	// one literal may control several edges, in registration order
	assert.Equal(t, []int{0, 2}, table.EdgesFor(shared))
	assert.Equal(t, []int{1}, table.EdgesFor(z.Var(8).Pos()))
	assert.Empty(t, table.EdgesFor(z.Var(9).Pos()))
}
