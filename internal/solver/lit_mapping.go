package solver

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/constraint-framework/difflogic/pkg/theory"
)

type inconsistentLitMapping []error

func (inconsistentLitMapping) Error() string {
	return "internal solver failure"
}

// litMapping performs translation between the problem's atoms and the
// literals that appear in the SAT formula handed to the underlying
// solver.
type litMapping struct {
	inorder []theory.Atom
	lits    map[theory.Identifier]z.Lit
	clauses [][]int
	nextVar z.Var
	errs    inconsistentLitMapping
}

// newLitMapping returns a litMapping with one solver variable
// allocated per atom, in input order, and the problem clauses checked
// against the atom count. Clause literals are nonzero +/- 1-based atom
// ordinals.
func newLitMapping(atoms []theory.Atom, clauses [][]int) (*litMapping, error) {
	d := &litMapping{
		inorder: atoms,
		lits:    make(map[theory.Identifier]z.Lit, len(atoms)),
		clauses: clauses,
		nextVar: 1,
	}
	for _, a := range atoms {
		if _, ok := d.lits[a.ID]; ok {
			return nil, fmt.Errorf("duplicate atom identifier %q in input", a.ID)
		}
		d.LitOf(a.ID)
	}
	for _, clause := range clauses {
		for _, l := range clause {
			if l == 0 || l > len(atoms) || -l > len(atoms) {
				return nil, fmt.Errorf("clause literal %d out of range for %d atoms", l, len(atoms))
			}
		}
	}
	return d, nil
}

// LitOf returns the positive literal corresponding to the atom with
// the given Identifier.
func (d *litMapping) LitOf(id theory.Identifier) z.Lit {
	m, ok := d.lits[id]
	if ok {
		return m
	}
	m = d.nextVar.Pos()
	d.nextVar++
	d.lits[id] = m
	return m
}

// SolverLitOf is like LitOf for lookups on behalf of a propagator: an
// identifier with no allocated literal is recorded as an internal
// failure instead of being allocated one.
func (d *litMapping) SolverLitOf(id theory.Identifier) z.Lit {
	if m, ok := d.lits[id]; ok {
		return m
	}
	d.errs = append(d.errs, fmt.Errorf("no literal corresponding to atom %q", id))
	return z.LitNull
}

// AddClauses teaches the problem clauses to the solver g.
func (d *litMapping) AddClauses(g inter.Adder) {
	for _, clause := range d.clauses {
		for _, l := range clause {
			m := d.LitOf(d.inorder[abs(l)-1].ID)
			if l < 0 {
				m = m.Not()
			}
			g.Add(m)
		}
		g.Add(z.LitNull)
	}
}

// Error returns a single error value that is an aggregation of all
// errors encountered during a litMapping's lifetime, or nil if there
// have been no errors. A non-nil return value likely indicates a
// problem with the solver or propagator implementations.
func (d *litMapping) Error() error {
	if len(d.errs) == 0 {
		return nil
	}
	s := make([]string, len(d.errs))
	for i, err := range d.errs {
		s[i] = err.Error()
	}
	return fmt.Errorf("%d errors encountered: %s", len(s), strings.Join(s, ", "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
