package difflogic

import (
	"fmt"

	"github.com/go-air/gini/z"

	"github.com/constraint-framework/difflogic/pkg/theory"
)

// state is the mutable per-thread half of the propagator: the trail of
// asserted edge indices, the cursor up to which the trail has been fed
// into the graph, and the thread's consistency graph.
type state struct {
	trail      []int
	propagated int
	graph      *Graph
	stats      *ThreadStats
}

// Propagator is the difference logic theory propagator. It owns the
// shared edge table and one state per solver thread; threads drive
// their callbacks independently and never touch each other's state.
type Propagator struct {
	table  *EdgeTable
	states []*state
	stats  *Stats
	tracer theory.Tracer
}

var _ theory.Propagator = &Propagator{}

func NewPropagator(options ...Option) *Propagator {
	p := &Propagator{
		table:  NewEdgeTable(),
		tracer: theory.DefaultTracer{},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

type Option func(p *Propagator)

// WithStats makes the propagator accrue init and per-thread callback
// times into s.
func WithStats(s *Stats) Option {
	return func(p *Propagator) {
		p.stats = s
	}
}

// WithTracer makes the propagator report every theory conflict to t.
func WithTracer(t theory.Tracer) Option {
	return func(p *Propagator) {
		p.tracer = t
	}
}

// Init registers one edge per diff theory atom, watches the atoms'
// controlling literals, and sets up one state per solver thread.
func (p *Propagator) Init(init theory.PropagateInit) {
	if p.stats != nil {
		defer startTimer(&p.stats.TimeInit)()
	}
	for _, atom := range init.TheoryAtoms() {
		if atom.Term != theory.DiffTerm {
			continue
		}
		m := init.SolverLiteral(atom.ID)
		p.table.Register(atom.U, atom.V, atom.K, m)
		init.AddWatch(m)
	}
	p.initializeStates(init.NumThreads())
}

func (p *Propagator) initializeStates(threads int) {
	if p.stats != nil {
		p.stats.Threads = make([]ThreadStats, threads)
	}
	p.states = make([]*state, threads)
	for i := range p.states {
		p.states[i] = &state{graph: NewGraph(p.table)}
		if p.stats != nil {
			p.states[i].stats = &p.stats.Threads[i]
		}
	}
}

// Propagate appends the edges controlled by the newly assigned
// literals to the thread's trail and feeds the unpropagated suffix
// into the consistency graph. On a negative cycle it hands the host a
// conflict clause built from the negated controlling literals of the
// cycle's edges; it reports false when the host wants propagation to
// halt.
func (p *Propagator) Propagate(ctl theory.PropagateControl, changes []z.Lit) bool {
	st := p.states[ctl.ThreadID()]
	if st.stats != nil {
		defer startTimer(&st.stats.TimePropagate)()
	}
	for _, m := range changes {
		edges := p.table.EdgesFor(m)
		if len(edges) == 0 {
			panic(fmt.Sprintf("difflogic: propagated literal %s controls no edges", m))
		}
		st.trail = append(st.trail, edges...)
	}
	return p.checkConsistency(ctl, st)
}

func (p *Propagator) checkConsistency(ctl theory.PropagateControl, st *state) bool {
	for ; st.propagated < len(st.trail); st.propagated++ {
		negCycle := st.graph.AddEdge(st.trail[st.propagated])
		if len(negCycle) == 0 {
			continue
		}
		clause := make([]z.Lit, 0, len(negCycle))
		for _, eid := range negCycle {
			clause = append(clause, p.table.Edge(eid).Lit.Not())
		}
		p.tracer.Trace(&position{thread: ctl.ThreadID(), trail: len(st.trail), clause: clause})
		if !ctl.AddClause(clause) || !ctl.Propagate() {
			return false
		}
	}
	return true
}

// Undo retracts the most recently propagated literals and resets the
// thread's graph. The graph is rebuilt from the whole remaining trail on
// the next Propagate, which is cheaper than logging every potential update.
func (p *Propagator) Undo(thread int, changes []z.Lit) {
	st := p.states[thread]
	if st.stats != nil {
		defer startTimer(&st.stats.TimeUndo)()
	}
	n := 0
	for _, m := range changes {
		n += len(p.table.EdgesFor(m))
	}
	if n > len(st.trail) {
		panic(fmt.Sprintf("difflogic: undo of %d edges with only %d trailed", n, len(st.trail)))
	}
	st.trail = st.trail[:len(st.trail)-n]
	st.propagated = 0
	st.graph.Reset()
}

// Assignment returns the thread's current theory model: one entry per
// node with a defined value, in node interning order.
func (p *Propagator) Assignment(thread int) []theory.Assignment {
	st := p.states[thread]
	var values []theory.Assignment
	for id := 0; id < p.table.NumNodes(); id++ {
		if st.graph.ValueDefined(id) {
			values = append(values, theory.Assignment{Name: p.table.NodeName(id), Value: st.graph.Value(id)})
		}
	}
	return values
}

type position struct {
	thread int
	trail  int
	clause []z.Lit
}

func (p *position) ThreadID() int     { return p.thread }
func (p *position) TrailSize() int    { return p.trail }
func (p *position) Conflict() []z.Lit { return p.clause }
