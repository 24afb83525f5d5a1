package solver

import (
	"testing"

	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constraint-framework/difflogic/pkg/theory"
)

type recordingAdder struct {
	lits []z.Lit
}

func (r *recordingAdder) Add(m z.Lit) {
	r.lits = append(r.lits, m)
}

func TestLitMappingAllocatesInOrder(t *testing.T) {
	d, err := newLitMapping([]theory.Atom{
		atom("d1", "a", "b", 1),
		atom("d2", "b", "c", 2),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, z.Var(1).Pos(), d.LitOf("d1"))
	assert.Equal(t, z.Var(2).Pos(), d.LitOf("d2"))
	// lookups are stable
	assert.Equal(t, z.Var(1).Pos(), d.LitOf("d1"))
}

func TestLitMappingAddClauses(t *testing.T) {
	d, err := newLitMapping([]theory.Atom{
		atom("d1", "a", "b", 1),
		atom("d2", "b", "c", 2),
	}, [][]int{{1, -2}, {2}})
	require.NoError(t, err)

	g := &recordingAdder{}
	d.AddClauses(g)

	assert.Equal(t, []z.Lit{
		z.Var(1).Pos(), z.Var(2).Pos().Not(), z.LitNull,
		z.Var(2).Pos(), z.LitNull,
	}, g.lits)
}

func TestLitMappingRejectsBadClauses(t *testing.T) {
	for _, clause := range [][]int{{0}, {3}, {-3}} {
		_, err := newLitMapping([]theory.Atom{
			atom("d1", "a", "b", 1),
			atom("d2", "b", "c", 2),
		}, [][]int{clause})
		assert.Error(t, err, "clause %v", clause)
	}
}

func TestLitMappingSolverLitOf(t *testing.T) {
	d, err := newLitMapping([]theory.Atom{atom("d1", "a", "b", 1)}, nil)
	require.NoError(t, err)

	assert.Equal(t, z.Var(1).Pos(), d.SolverLitOf("d1"))
	require.NoError(t, d.Error())

	// unknown identifiers are internal failures, not allocations
	assert.Equal(t, z.LitNull, d.SolverLitOf("nope"))
	assert.Error(t, d.Error())
}
