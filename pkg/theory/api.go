package theory

import (
	"fmt"

	"github.com/go-air/gini/z"
)

// DiffTerm is the theory term name of difference constraint atoms.
const DiffTerm = "diff"

// Identifier values uniquely identify the propositional atoms that
// control theory constraints within a single problem.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// IdentifierFromString returns an Identifier based on a provided
// string.
func IdentifierFromString(s string) Identifier {
	return Identifier(s)
}

// Atom is a grounded theory atom. For the difference logic theory,
// asserting the atom's controlling literal imposes the constraint
// U - V <= K over the integers. Endpoint names are opaque strings.
//
// Guards are non-strict. Over the integers a strict guard u - v < k
// can be expressed as u - v <= k-1 by the producer of the atom.
type Atom struct {
	ID   Identifier
	Term string
	U    string
	V    string
	K    int64
}

// String implements fmt.Stringer and renders the constraint the atom
// stands for.
func (a Atom) String() string {
	return fmt.Sprintf("%s: %s - %s <= %d", a.ID, a.U, a.V, a.K)
}

// PropagateInit is the view of the host solver a Propagator receives
// exactly once, before search starts. It enumerates the grounded
// theory atoms, translates atom identifiers into solver literals, and
// accepts watch registrations for literals the propagator wants to be
// notified about.
type PropagateInit interface {
	// NumThreads returns the number of independent solver threads the
	// host will run. Thread ids passed to later callbacks are in
	// [0, NumThreads()).
	NumThreads() int
	// TheoryAtoms enumerates the problem's theory atoms in input order.
	TheoryAtoms() []Atom
	// SolverLiteral returns the solver literal controlling the atom
	// with the given identifier.
	SolverLiteral(id Identifier) z.Lit
	// AddWatch asks the host to deliver future assignments of m
	// through Propagator.Propagate.
	AddWatch(m z.Lit)
}

// PropagateControl is the per-callback handle a Propagator uses to
// talk back to the host during propagation.
type PropagateControl interface {
	// ThreadID identifies the solver thread this callback belongs to.
	ThreadID() int
	// AddClause hands a clause to the host. It reports false if the
	// clause conflicts with the host's current assignment, in which
	// case the host will backtrack and propagation must halt.
	AddClause(clause []z.Lit) bool
	// Propagate asks the host to propagate any clauses added since the
	// callback started. It reports false if propagation must halt.
	Propagate() bool
}

// Propagator extends the host solver with theory reasoning. The host
// calls Init once per problem, then any interleaving of Propagate and
// Undo per thread, with the guarantee that for a given thread the
// literals retracted by Undo are exactly the most recently propagated
// ones (LIFO).
type Propagator interface {
	Init(init PropagateInit)
	Propagate(ctl PropagateControl, changes []z.Lit) bool
	Undo(thread int, changes []z.Lit)
}

// AssignmentReader is implemented by propagators that can report a
// concrete theory model for a satisfying assignment.
type AssignmentReader interface {
	Assignment(thread int) []Assignment
}

// Assignment is one node of a theory model: the node's name and the
// integer value assigned to it.
type Assignment struct {
	Name  string
	Value int64
}

// String implements fmt.Stringer.
func (a Assignment) String() string {
	return fmt.Sprintf("%s:%d", a.Name, a.Value)
}
