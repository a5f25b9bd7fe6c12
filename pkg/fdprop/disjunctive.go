package fdprop

import "sort"

// djTask is one task of a Disjunctive constraint: it occupies the unary
// resource for exactly duration time units starting at start, if
// performed is nil (mandatory) or bound to 1.
type djTask struct {
	start     *IntVar
	duration  int
	performed *IntVar // nil means mandatory
}

// Disjunctive constrains a set of tasks so that no two performed tasks
// overlap in time. It runs four classical unary-resource
// propagators — overload checking, detectable precedences, not-first (and
// its mirror, not-last), and edge-finding — to a fixed point every round.
//
// Each propagator but overload checking is expressed once, in terms of a
// taskView abstraction (est/lct/dur/setEst), and is run against both the
// straight view and a mirrored view where time runs backward. Running an
// est-tightening rule against the mirror view is exactly the dual
// lct-tightening rule against the real tasks, so the mirror image gives
// every propagator its "other direction" for free instead of needing a
// second hand-written implementation.
type Disjunctive struct {
	tasks []djTask
}

// NewDisjunctive creates a Disjunctive constraint over mandatory tasks:
// starts[i] occupies the resource for durations[i] time units.
func NewDisjunctive(starts []*IntVar, durations []int) (*Disjunctive, error) {
	return NewDisjunctiveOptional(starts, durations, nil)
}

// NewDisjunctiveOptional creates a Disjunctive constraint where performed
// (if non-nil) gives each task an optional/forced 0-1 IntVar; a nil or
// all-nil performed behaves like NewDisjunctive.
func NewDisjunctiveOptional(starts []*IntVar, durations []int, performed []*IntVar) (*Disjunctive, error) {
	if len(durations) != len(starts) {
		return nil, preconditionErrorf("NewDisjunctive", "len(durations)=%d != len(starts)=%d", len(durations), len(starts))
	}
	if performed != nil && len(performed) != len(starts) {
		return nil, preconditionErrorf("NewDisjunctive", "len(performed)=%d != len(starts)=%d", len(performed), len(starts))
	}
	tasks := make([]djTask, len(starts))
	for i := range starts {
		if durations[i] < 0 {
			return nil, preconditionErrorf("NewDisjunctive", "task %d has negative duration %d", i, durations[i])
		}
		tasks[i].start = starts[i]
		tasks[i].duration = durations[i]
		if performed != nil {
			tasks[i].performed = performed[i]
		}
	}
	return &Disjunctive{tasks: tasks}, nil
}

func (c *Disjunctive) Post(s *Solver) error {
	vs := make([]*IntVar, 0, 2*len(c.tasks))
	for _, t := range c.tasks {
		vs = append(vs, t.start)
		if t.performed != nil {
			vs = append(vs, t.performed)
		}
	}
	if err := s.checkOwned("Disjunctive", vs...); err != nil {
		return err
	}
	d := newDemon("Disjunctive", Delayed, c.propagate)
	for _, t := range c.tasks {
		t.start.WhenDomainDo(d)
		if t.performed != nil {
			t.performed.WhenBoundDo(d)
		}
	}
	return nil
}

func (c *Disjunctive) InitialPropagate(s *Solver) error {
	return c.propagate(s)
}

func (c *Disjunctive) splitTasks() (required, optional []int) {
	for i, t := range c.tasks {
		switch {
		case t.performed == nil:
			required = append(required, i)
		case t.performed.Bound() && t.performed.Value() == 1:
			required = append(required, i)
		case !t.performed.Bound():
			optional = append(optional, i)
		}
	}
	return required, optional
}

func (c *Disjunctive) snapshot() []int {
	b := make([]int, 2*len(c.tasks))
	for i, t := range c.tasks {
		b[2*i] = t.start.Min()
		b[2*i+1] = t.start.Max()
	}
	return b
}

func boundsEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// propagate is the constraint's single delayed demon body: it runs every
// propagator, in both directions, to a fixed point.
func (c *Disjunctive) propagate(s *Solver) error {
	for {
		before := c.snapshot()
		required, optional := c.splitTasks()

		if err := overloadChecking(s, straightView{c.tasks}, required); err != nil {
			return err
		}
		if err := detectablePrecedences(s, straightView{c.tasks}, required); err != nil {
			return err
		}
		if err := detectablePrecedences(s, mirrorView{c.tasks}, required); err != nil {
			return err
		}
		if err := notFirst(s, straightView{c.tasks}, required); err != nil {
			return err
		}
		if err := notFirst(s, mirrorView{c.tasks}, required); err != nil {
			return err
		}
		if err := edgeFinder(s, straightView{c.tasks}, required); err != nil {
			return err
		}
		if err := edgeFinder(s, mirrorView{c.tasks}, required); err != nil {
			return err
		}
		if err := pruneImpossibleOptionals(s, c.tasks, required, optional); err != nil {
			return err
		}

		if boundsEqual(before, c.snapshot()) {
			return nil
		}
	}
}

func (c *Disjunctive) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Disjunctive")
	starts := make([]*IntVar, len(c.tasks))
	durations := make([]int, len(c.tasks))
	for i, t := range c.tasks {
		starts[i] = t.start
		durations[i] = t.duration
	}
	mv.VisitIntVarArrayArgument("start", starts)
	mv.VisitIntegerArrayArgument("duration", durations)
}

// taskView lets every propagator below be written once against an
// est/lct/dur/setEst interface and reused, unchanged, for the mirrored
// (time-reversed) direction.
type taskView interface {
	est(i int) int
	lct(i int) int
	dur(i int) int
	setEst(i int, v int) error
}

type straightView struct{ tasks []djTask }

func (v straightView) est(i int) int { return v.tasks[i].start.Min() }
func (v straightView) lct(i int) int { return v.tasks[i].start.Max() + v.tasks[i].duration }
func (v straightView) dur(i int) int { return v.tasks[i].duration }
func (v straightView) setEst(i int, val int) error {
	return v.tasks[i].start.SetMin(val)
}

// mirrorView runs time backward: est' = -lct, lct' = -est. Tightening
// mirrorView's est (pushing it up) is exactly tightening the real task's
// lct (pushing it down), via start.SetMax.
type mirrorView struct{ tasks []djTask }

func (v mirrorView) est(i int) int { return -(v.tasks[i].start.Max() + v.tasks[i].duration) }
func (v mirrorView) lct(i int) int { return -v.tasks[i].start.Min() }
func (v mirrorView) dur(i int) int { return v.tasks[i].duration }
func (v mirrorView) setEst(i int, val int) error {
	return v.tasks[i].start.SetMax(-val - v.tasks[i].duration)
}

func sortByKey(order []int, key func(i int) int) {
	sort.SliceStable(order, func(a, b int) bool { return key(order[a]) < key(order[b]) })
}

func leafPositions(order []int) map[int]int {
	pos := make(map[int]int, len(order))
	for p, idx := range order {
		pos[idx] = p
	}
	return pos
}

// overloadChecking fails as soon as the tasks with the k smallest
// deadlines (sorted by lct) can provably not all finish in time — the
// classical O(n log n) theta-tree formulation (Vilim), with ties among
// equal lct broken by task index for determinism.
func overloadChecking(s *Solver, tv taskView, required []int) error {
	if len(required) == 0 {
		return nil
	}
	byLct := append([]int{}, required...)
	sortByKey(byLct, tv.lct)
	byEst := append([]int{}, required...)
	sortByKey(byEst, tv.est)
	leaf := leafPositions(byEst)

	tree := NewThetaTree(len(required))
	for _, i := range byLct {
		tree.Insert(leaf[i], tv.est(i)+tv.dur(i), tv.dur(i))
		if tree.Ect() > tv.lct(i) {
			return s.Fail()
		}
	}
	return nil
}

// detectablePrecedences tightens est_i to ect_j for every j that provably
// precedes i because i cannot finish before j's latest start (ect_i > lst_j),
// so j must run first — the simplified,
// pairwise statement of the rule the theta-tree evaluates incrementally.
// Bounds are snapshotted up front so the pass is order-independent; the
// surrounding fixed-point loop picks up anything a single pass misses.
func detectablePrecedences(s *Solver, tv taskView, required []int) error {
	est := make(map[int]int, len(required))
	lst := make(map[int]int, len(required))
	ect := make(map[int]int, len(required))
	for _, i := range required {
		est[i] = tv.est(i)
		lst[i] = tv.lct(i) - tv.dur(i)
		ect[i] = tv.est(i) + tv.dur(i)
	}
	for _, i := range required {
		newEst := est[i]
		for _, j := range required {
			if i == j {
				continue
			}
			if ect[i] > lst[j] && ect[j] > newEst {
				newEst = ect[j]
			}
		}
		if newEst > tv.est(i) {
			if err := tv.setEst(i, newEst); err != nil {
				return err
			}
		}
	}
	return nil
}

// notFirst tightens est_i to ect_j whenever i and j cannot both fit between
// est_i and j's latest completion time — i.e. i is detectably not first among the pair, so
// it must come after j. Running this against the mirror view yields the
// dual rule, not-last, tightening lct instead.
func notFirst(s *Solver, tv taskView, required []int) error {
	for _, i := range required {
		esti, duri := tv.est(i), tv.dur(i)
		for _, j := range required {
			if i == j {
				continue
			}
			estj, durj := tv.est(j), tv.dur(j)
			lstj := tv.lct(j) - durj
			if esti <= lstj && duri+durj > tv.lct(j)-esti {
				newEst := estj + durj
				if newEst > tv.est(i) {
					if err := tv.setEst(i, newEst); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// edgeFinder tests, for every required task i, whether adding i to the set
// of tasks with an earlier deadline would force an overload — if so, i
// cannot run concurrently with any of them and must start only once they
// have all finished. The "what if i joined this set" question is answered
// with a LambdaThetaTree: the set is inserted into theta, i alone into
// lambda, and EctOpt gives the earliest completion with i optionally
// included.
func edgeFinder(s *Solver, tv taskView, required []int) error {
	if len(required) < 2 {
		return nil
	}
	byLct := append([]int{}, required...)
	sortByKey(byLct, tv.lct)

	for k, i := range byLct {
		omega := byLct[:k]
		if len(omega) == 0 {
			continue
		}
		byEst := append(append([]int{}, omega...), i)
		sortByKey(byEst, tv.est)
		leaf := leafPositions(byEst)

		tree := NewLambdaThetaTree(len(byEst))
		for _, j := range omega {
			tree.InsertInTheta(leaf[j], tv.est(j)+tv.dur(j), tv.dur(j))
		}
		ectOmega := tree.Ect()
		tree.InsertInLambda(leaf[i], tv.est(i)+tv.dur(i), tv.dur(i))

		if tree.EctOpt() > tv.lct(i) {
			if ectOmega > tv.est(i) {
				if err := tv.setEst(i, ectOmega); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// pruneImpossibleOptionals forces performed=0 on any optional task that
// cannot be scheduled at all without overloading the resource, given every
// required task's current bounds. This check is direction-invariant (an
// overload is an overload from either end of time), so it runs once,
// against real start/lct rather than a taskView.
func pruneImpossibleOptionals(s *Solver, tasks []djTask, required, optional []int) error {
	if len(required) == 0 || len(optional) == 0 {
		return nil
	}
	est := func(i int) int { return tasks[i].start.Min() }
	lct := func(i int) int { return tasks[i].start.Max() + tasks[i].duration }
	dur := func(i int) int { return tasks[i].duration }

	byLct := append([]int{}, required...)
	sortByKey(byLct, lct)

	for _, i := range optional {
		byEst := append(append([]int{}, byLct...), i)
		sortByKey(byEst, est)
		leaf := leafPositions(byEst)

		tree := NewLambdaThetaTree(len(byEst))
		tree.InsertInLambda(leaf[i], est(i)+dur(i), dur(i))
		for _, j := range byLct {
			tree.InsertInTheta(leaf[j], est(j)+dur(j), dur(j))
			if tree.EctOpt() > max(lct(j), lct(i)) {
				if err := tasks[i].performed.SetValue(0); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}
