package solve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constraint-framework/difflogic/pkg/theory"
)

func TestNewProblem(t *testing.T) {
	problem, err := NewProblem(strings.NewReader(`c a small problem
p dl 3 2
a x y 5
a y x -6
c constants may be negative
a x z -1
1 2 0
-1 3 0
`))
	require.NoError(t, err)

	assert.Equal(t, []theory.Atom{
		{ID: "d1", Term: theory.DiffTerm, U: "x", V: "y", K: 5},
		{ID: "d2", Term: theory.DiffTerm, U: "y", V: "x", K: -6},
		{ID: "d3", Term: theory.DiffTerm, U: "x", V: "z", K: -1},
	}, problem.Atoms())
	assert.Equal(t, [][]int{{1, 2}, {-1, 3}}, problem.Clauses())
}

func TestNewProblemNoClauses(t *testing.T) {
	problem, err := NewProblem(strings.NewReader("p dl 1 0\na a b 2"))
	require.NoError(t, err)
	require.Len(t, problem.Atoms(), 1)
	assert.Empty(t, problem.Clauses())
}

func TestNewProblemExtraWhitespace(t *testing.T) {
	problem, err := NewProblem(strings.NewReader("p dl  1  1\na  u   v   -3\n 1   0\n"))
	require.NoError(t, err)
	require.Len(t, problem.Atoms(), 1)
	assert.Equal(t, int64(-3), problem.Atoms()[0].K)
	assert.Equal(t, [][]int{{1}}, problem.Clauses())
}

func TestNewProblemErrors(t *testing.T) {
	type tc struct {
		Name  string
		Input string
	}

	for _, tt := range []tc{
		{
			Name:  "empty input",
			Input: "",
		},
		{
			Name:  "missing header",
			Input: "a x y 1\n",
		},
		{
			Name:  "duplicate header",
			Input: "p dl 1 0\np dl 1 0\na x y 1\n",
		},
		{
			Name:  "atom count mismatch",
			Input: "p dl 2 0\na x y 1\n",
		},
		{
			Name:  "clause count mismatch",
			Input: "p dl 1 2\na x y 1\n1 0\n",
		},
		{
			Name:  "clause ordinal out of range",
			Input: "p dl 1 1\na x y 1\n2 0\n",
		},
		{
			Name:  "clause before header",
			Input: "1 0\np dl 1 1\na x y 1\n",
		},
		{
			Name:  "unknown statement",
			Input: "p dl 1 0\nb x y 1\n",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := NewProblem(strings.NewReader(tt.Input))
			assert.Error(t, err)
		})
	}
}
