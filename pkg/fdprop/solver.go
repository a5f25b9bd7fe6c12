package fdprop

import (
	"errors"
	"fmt"
)

// ErrFail is the sentinel propagation-failure error. Solver.Fail returns
// it; every propagator that detects infeasibility returns it (possibly
// wrapped). The search driver recognizes it with errors.Is and recovers by
// bumping the fail-stamp and restoring the trail — propagators themselves
// never catch it, they just let it unwind through ordinary Go error
// returns.
var ErrFail = errors.New("fdprop: propagation failure")

// PreconditionError reports a precondition violation at constraint
// construction/Post time: a variable from another solver, an array-size
// mismatch, an out-of-range index. These are fatal aborts, distinct from
// ErrFail, and are never expected to be recovered from by search.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("fdprop: %s: %s", e.Op, e.Msg)
}

func preconditionErrorf(op, format string, args ...any) error {
	return &PreconditionError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Constraint is the base interface every propagator implements: Post
// installs the constraint's demons and validates preconditions;
// InitialPropagate performs the first propagation round; Accept exposes
// the constraint's variables and arguments through a ModelVisitor, the
// sole serialization surface.
type Constraint interface {
	Post(s *Solver) error
	InitialPropagate(s *Solver) error
	Accept(v ModelVisitor)
}

// ModelVisitor is implemented by callers that want to walk a constraint's
// variables and arguments — for printing, export, or statistics. It is the
// only serialization surface the core exposes; no wire format is defined
// here.
type ModelVisitor interface {
	VisitIntVarArgument(name string, v *IntVar)
	VisitIntVarArrayArgument(name string, vs []*IntVar)
	VisitIntegerArgument(name string, val int)
	VisitIntegerArrayArgument(name string, vals []int)
	VisitConstraint(typeName string)
}

// Solver owns the trail, the demon queue, every variable, and every
// constraint. It is strictly single-threaded and cooperative:
// there is no shared mutable state across Solver instances, and every
// public operation runs to completion or returns an error that the caller
// (typically a search driver) recovers from at a checkpoint.
type Solver struct {
	trail       *Trail
	queue       *Queue
	vars        []*IntVar
	constraints []Constraint
	posted      bool
	monitor     *SolverMonitor
}

// NewSolver creates an empty solver.
func NewSolver() *Solver {
	s := &Solver{trail: NewTrail()}
	s.queue = newQueue(s)
	s.monitor = NewSolverMonitor()
	return s
}

// Trail exposes the solver's trail, e.g. for a search driver's
// checkpoint/restore decisions.
func (s *Solver) Trail() *Trail { return s.trail }

// Monitor exposes the solver's lock-free statistics collector.
func (s *Solver) Monitor() *SolverMonitor { return s.monitor }

// Vars returns every variable created on this solver, in creation order.
func (s *Solver) Vars() []*IntVar { return s.vars }

// NewIntVar creates a variable with domain [min, max].
func (s *Solver) NewIntVar(min, max int) (*IntVar, error) {
	if min > max {
		return nil, preconditionErrorf("NewIntVar", "empty range [%d,%d]", min, max)
	}
	v := newIntVar(s, len(s.vars), min, max)
	s.vars = append(s.vars, v)
	return v, nil
}

// NewBoolVar creates a 0/1 variable.
func (s *Solver) NewBoolVar() (*IntVar, error) {
	return s.NewIntVar(0, 1)
}

// NewIntVarFromDomain creates a variable whose domain is exactly the given
// (deduplicated) set of values.
func (s *Solver) NewIntVarFromDomain(values []int) (*IntVar, error) {
	if len(values) == 0 {
		return nil, preconditionErrorf("NewIntVarFromDomain", "empty value set")
	}
	lo, hi := values[0], values[0]
	set := make(map[int]bool, len(values))
	for _, val := range values {
		if val < lo {
			lo = val
		}
		if val > hi {
			hi = val
		}
		set[val] = true
	}
	v := newIntVar(s, len(s.vars), lo, hi)
	for val := lo; val <= hi; val++ {
		if !set[val] {
			v.ensureHoles().SetToOne(val - v.origMin)
		}
	}
	s.vars = append(s.vars, v)
	return v, nil
}

// ownsVar reports whether v belongs to this solver — the precondition
// check every constraint factory runs before accepting a variable.
func (s *Solver) ownsVar(v *IntVar) bool {
	return v != nil && v.solver == s
}

func (s *Solver) checkOwned(op string, vs ...*IntVar) error {
	for i, v := range vs {
		if !s.ownsVar(v) {
			return preconditionErrorf(op, "variable at index %d does not belong to this solver", i)
		}
	}
	return nil
}

// AddConstraint registers c with the solver. Constraints are posted and
// initially propagated together by InitialPropagate, in the order they
// were added; a constraint is never removed once added.
func (s *Solver) AddConstraint(c Constraint) error {
	if s.posted {
		return preconditionErrorf("AddConstraint", "cannot add a constraint after InitialPropagate has run")
	}
	s.constraints = append(s.constraints, c)
	s.monitor.incConstraintsAdded()
	return nil
}

// Fail signals a propagation failure: the current
// partial assignment has been proven infeasible. Propagators return its
// result directly; they never catch it.
func (s *Solver) Fail() error {
	return ErrFail
}

// Failed reports whether err is (or wraps) ErrFail.
func Failed(err error) bool {
	return errors.Is(err, ErrFail)
}

// InitialPropagate posts every constraint, then runs each one's
// InitialPropagate followed by a queue fixed-point, in post-order (spec
// §4.3). Returns ErrFail if any constraint proves infeasibility.
func (s *Solver) InitialPropagate() error {
	s.posted = true
	for _, c := range s.constraints {
		if err := c.Post(s); err != nil {
			return err
		}
	}
	s.refreshOldBounds()
	for _, c := range s.constraints {
		if err := c.InitialPropagate(s); err != nil {
			return err
		}
		if err := s.queue.RunToFixpoint(); err != nil {
			return err
		}
		s.monitor.observeQueueLen(s.queue.Len())
		s.monitor.observeTrailDepth(s.trail.Depth())
		s.refreshOldBounds()
	}
	return nil
}

// Propagate drains the demon queue to a fixed point. Call this after
// manually tightening a variable (e.g. from a search decision) to let
// watching constraints react.
func (s *Solver) Propagate() error {
	err := s.queue.RunToFixpoint()
	s.monitor.observeQueueLen(s.queue.Len())
	s.monitor.observeTrailDepth(s.trail.Depth())
	s.refreshOldBounds()
	return err
}

func (s *Solver) refreshOldBounds() {
	for _, v := range s.vars {
		v.oldMin = v.Min()
		v.oldMax = v.Max()
	}
}

// Checkpoint snapshots the trail for a later Restore.
func (s *Solver) Checkpoint() Marker {
	return s.trail.Checkpoint()
}

// Restore unwinds the trail to m. Call this after a failure, having first
// called IncrementFailStamp and Queue.Clear — RestoreAfterFail does all
// three in the correct order and is what search drivers should use.
func (s *Solver) Restore(m Marker) {
	s.trail.Restore(m)
}

// RestoreAfterFail performs the standard failure-recovery sequence (spec
// §4.1): clear the demon queue, bump the fail-stamp, then restore the
// trail to m.
func (s *Solver) RestoreAfterFail(m Marker) {
	s.monitor.observeTrailDepth(s.trail.Depth())
	s.queue.Clear()
	s.trail.IncrementFailStamp()
	s.trail.Restore(m)
	s.refreshOldBounds()
	s.monitor.incBacktracks()
}
