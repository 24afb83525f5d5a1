package solver

import (
	"context"
	"errors"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/constraint-framework/difflogic/pkg/theory"
)

var (
	// ErrIncomplete is returned when the context is done before the
	// search space is exhausted.
	ErrIncomplete = errors.New("cancelled before a solution could be found")
	// ErrUnsatisfiable is returned when no answer exists.
	ErrUnsatisfiable = errors.New("constraints not satisfiable")
)

const (
	satisfiable   = 1
	unsatisfiable = -1
	unknown       = 0
)

// Model is one answer: the theory atoms that are true in it and, when
// the propagator can report one, an integer assignment for every node
// constrained by those atoms.
type Model struct {
	Number     int
	Facts      []theory.Identifier
	Assignment []theory.Assignment
}

type Solver interface {
	Solve(context.Context) ([]Model, error)
}

// solver enumerates answers of a Boolean formula over theory atoms,
// checking each candidate against the registered theory propagator.
// It plays the host side of the propagator protocol: it implements
// PropagateInit toward Init and PropagateControl toward Propagate.
//
// The check is model level: once the SAT core produces a total
// assignment, the watched literals that are true in it are replayed
// through the propagator in watch order as a single batch. A theory
// conflict adds the propagator's clause to the formula, the batch is
// retracted, and the search resumes; the clause rules the candidate
// out. A consistent batch yields an answer, which is then blocked and
// likewise retracted before the search continues.
type solver struct {
	g         inter.S
	litMap    *litMapping
	prop      theory.Propagator
	atoms     []theory.Atom
	threads   int
	maxModels int
	watched   map[z.Lit]bool
	watches   []z.Lit
}

// Solve runs the search until maxModels answers are found, the
// formula is exhausted, or ctx is done.
func (s *solver) Solve(ctx context.Context) ([]Model, error) {
	result, err := s.solve(ctx)

	// This likely indicates a bug, so discard whatever
	// return values were produced.
	if derr := s.litMap.Error(); derr != nil {
		return nil, derr
	}

	return result, err
}

func (s *solver) solve(ctx context.Context) ([]Model, error) {
	// teach the problem clauses to the solver and let the propagator
	// register its edges and watches
	s.litMap.AddClauses(s.g)
	s.prop.Init(s)

	var models []Model
	for s.maxModels == 0 || len(models) < s.maxModels {
		if ctx.Err() != nil {
			return models, ErrIncomplete
		}
		switch s.g.Solve() {
		case unsatisfiable:
			if len(models) == 0 {
				return nil, ErrUnsatisfiable
			}
			return models, nil
		case satisfiable:
			changes := s.changes()
			if s.prop.Propagate(&control{solver: s, thread: 0}, changes) {
				models = append(models, s.model(len(models)+1))
				if !s.block() {
					s.prop.Undo(0, changes)
					return models, nil
				}
			}
			// the propagator's trail is rebuilt from the next model
			s.prop.Undo(0, changes)
		default:
			return models, ErrIncomplete
		}
	}
	return models, nil
}

// changes returns the watched literals that are true in the current
// model, in watch registration order.
func (s *solver) changes() []z.Lit {
	var ms []z.Lit
	for _, m := range s.watches {
		if s.value(m) {
			ms = append(ms, m)
		}
	}
	return ms
}

// value reads m's model value. Variables no clause has mentioned yet
// are unknown to the SAT core and read as false; the blocking clause
// of the first answer introduces them.
func (s *solver) value(m z.Lit) bool {
	if m.Var() > s.g.MaxVar() {
		return false
	}
	return s.g.Value(m)
}

// model reads the current answer out of the SAT core and the
// propagator.
func (s *solver) model(number int) Model {
	m := Model{Number: number}
	for _, a := range s.atoms {
		if s.value(s.litMap.LitOf(a.ID)) {
			m.Facts = append(m.Facts, a.ID)
		}
	}
	if r, ok := s.prop.(theory.AssignmentReader); ok {
		m.Assignment = r.Assignment(0)
	}
	return m
}

// block adds a clause ruling out the current answer's atom assignment.
// It reports false when there is nothing to block on, in which case
// the answer just found is the only one.
func (s *solver) block() bool {
	if len(s.atoms) == 0 {
		return false
	}
	for _, a := range s.atoms {
		m := s.litMap.LitOf(a.ID)
		if s.value(m) {
			m = m.Not()
		}
		s.g.Add(m)
	}
	s.g.Add(z.LitNull)
	return true
}

// PropagateInit

func (s *solver) NumThreads() int {
	return s.threads
}

func (s *solver) TheoryAtoms() []theory.Atom {
	return s.atoms
}

func (s *solver) SolverLiteral(id theory.Identifier) z.Lit {
	return s.litMap.SolverLitOf(id)
}

func (s *solver) AddWatch(m z.Lit) {
	if !s.watched[m] {
		s.watched[m] = true
		s.watches = append(s.watches, m)
	}
}

// control is the per-propagation PropagateControl handle.
type control struct {
	solver *solver
	thread int
}

func (c *control) ThreadID() int {
	return c.thread
}

// AddClause adds the clause to the formula. It reports false when the
// clause is falsified by the current model, which is the signal for
// the propagator to halt so the search can move past the candidate.
func (c *control) AddClause(clause []z.Lit) bool {
	falsified := true
	for _, m := range clause {
		if c.solver.value(m) {
			falsified = false
		}
	}
	for _, m := range clause {
		c.solver.g.Add(m)
	}
	c.solver.g.Add(z.LitNull)
	return !falsified
}

// Propagate has nothing to do at the model level: clauses added
// during the callback take effect on the next Solve call.
func (c *control) Propagate() bool {
	return true
}

func NewSolver(options ...Option) (Solver, error) {
	s := solver{g: gini.New(), threads: 1, watched: map[z.Lit]bool{}}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

type Option func(s *solver) error

// WithInput sets the problem: the theory atoms and the clauses over
// them. Clause literals are +/- 1-based atom ordinals.
func WithInput(atoms []theory.Atom, clauses [][]int) Option {
	return func(s *solver) error {
		var err error
		s.atoms = atoms
		s.litMap, err = newLitMapping(atoms, clauses)
		return err
	}
}

// WithPropagator sets the theory propagator consulted for every
// candidate answer.
func WithPropagator(p theory.Propagator) Option {
	return func(s *solver) error {
		s.prop = p
		return nil
	}
}

// WithMaxModels bounds the number of answers enumerated; 0 means all.
func WithMaxModels(n int) Option {
	return func(s *solver) error {
		s.maxModels = n
		return nil
	}
}

// WithThreads sets the thread count announced to the propagator
// through PropagateInit. The solver itself searches on thread 0;
// embedders running portfolio searches drive the other states through
// the propagator interface directly.
func WithThreads(n int) Option {
	return func(s *solver) error {
		s.threads = n
		return nil
	}
}

var defaults = []Option{
	func(s *solver) error {
		if s.litMap == nil {
			var err error
			s.litMap, err = newLitMapping(nil, nil)
			return err
		}
		return nil
	},
	func(s *solver) error {
		if s.prop == nil {
			return errors.New("no theory propagator configured")
		}
		return nil
	},
}
