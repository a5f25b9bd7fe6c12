package fdprop

import "fmt"

// Event identifies which class of domain change a watcher list fires on.
type Event int

const (
	// WhenBound fires once a variable becomes bound (min == max).
	WhenBound Event = iota
	// WhenRange fires on any bound (min or max) change.
	WhenRange
	// WhenDomain fires on any change, including an interior hole.
	WhenDomain
)

// IntVar is a finite-domain integer variable: a current [min, max]
// interval plus an optional set of interior holes. Storage is owned by
// the Solver and trailed through Rev[int]/RevBitSet so mutations undo on
// backtrack. IntVar is never constructed directly; use Solver.NewIntVar
// and friends.
type IntVar struct {
	solver  *Solver
	id      int
	name    string
	min     *Rev[int]
	max     *Rev[int]
	holes   *RevBitSet // lazily created; bit i means value (origMin+i) is removed
	origMin int
	origMax int
	oldMin  int
	oldMax  int

	whenBound  []*demon
	whenRange  []*demon
	whenDomain []*demon
}

func newIntVar(s *Solver, id, min, max int) *IntVar {
	v := &IntVar{
		solver:  s,
		id:      id,
		name:    fmt.Sprintf("x%d", id),
		min:     NewRev(s.trail, min),
		max:     NewRev(s.trail, max),
		origMin: min,
		origMax: max,
		oldMin:  min,
		oldMax:  max,
	}
	return v
}

// ID returns the variable's index within its solver.
func (v *IntVar) ID() int { return v.id }

// Name returns the variable's debug name. Set via SetName.
func (v *IntVar) Name() string { return v.name }

// SetName sets the variable's debug name.
func (v *IntVar) SetName(name string) { v.name = name }

// Min returns the current minimum.
func (v *IntVar) Min() int { return v.min.Value() }

// Max returns the current maximum.
func (v *IntVar) Max() int { return v.max.Value() }

// OldMin returns the minimum as of the start of the current propagation round.
func (v *IntVar) OldMin() int { return v.oldMin }

// OldMax returns the maximum as of the start of the current propagation round.
func (v *IntVar) OldMax() int { return v.oldMax }

// Bound reports whether the variable is fixed to a single value.
func (v *IntVar) Bound() bool { return v.Min() == v.Max() }

// Value returns the variable's single value. Panics if the variable is not
// bound; callers must check Bound() first — an internal precondition no
// well-behaved propagator should ever violate.
func (v *IntVar) Value() int {
	if !v.Bound() {
		panic(fmt.Sprintf("fdprop: Value() called on unbound variable %s", v.name))
	}
	return v.Min()
}

func (v *IntVar) isHole(val int) bool {
	if v.holes == nil {
		return false
	}
	if val < v.origMin || val > v.origMax {
		return false
	}
	return v.holes.IsSet(val - v.origMin)
}

func (v *IntVar) ensureHoles() *RevBitSet {
	if v.holes == nil {
		v.holes = NewRevBitSet(v.solver.trail, v.origMax-v.origMin+1)
	}
	return v.holes
}

// Contains reports whether val is currently in the domain.
func (v *IntVar) Contains(val int) bool {
	if val < v.Min() || val > v.Max() {
		return false
	}
	return !v.isHole(val)
}

// Size returns the number of values currently in the domain.
func (v *IntVar) Size() int {
	n := v.Max() - v.Min() + 1
	if v.holes == nil {
		return n
	}
	holes := 0
	for val := v.Min(); val <= v.Max(); val++ {
		if v.isHole(val) {
			holes++
		}
	}
	return n - holes
}

// WhenBoundDo registers d to run when the variable becomes bound.
func (v *IntVar) WhenBoundDo(d *demon) { v.whenBound = append(v.whenBound, d) }

// WhenRangeDo registers d to run on any bound change.
func (v *IntVar) WhenRangeDo(d *demon) { v.whenRange = append(v.whenRange, d) }

// WhenDomainDo registers d to run on any domain change.
func (v *IntVar) WhenDomainDo(d *demon) { v.whenDomain = append(v.whenDomain, d) }

func (v *IntVar) fireRange() error {
	wasBound := v.Bound()
	for _, d := range v.whenRange {
		v.solver.queue.Enqueue(d)
	}
	for _, d := range v.whenDomain {
		v.solver.queue.Enqueue(d)
	}
	if wasBound {
		for _, d := range v.whenBound {
			v.solver.queue.Enqueue(d)
		}
	}
	return nil
}

func (v *IntVar) fireDomain() {
	for _, d := range v.whenDomain {
		v.solver.queue.Enqueue(d)
	}
}

// SetMin tightens the domain's minimum to at least newMin, skipping over
// any existing holes. Fails if the resulting domain would be empty.
func (v *IntVar) SetMin(newMin int) error {
	if newMin <= v.Min() {
		return nil
	}
	if newMin > v.Max() {
		return v.solver.Fail()
	}
	for newMin <= v.Max() && v.isHole(newMin) {
		newMin++
	}
	if newMin > v.Max() {
		return v.solver.Fail()
	}
	if newMin == v.Min() {
		return nil
	}
	v.min.SetValue(newMin)
	return v.fireRange()
}

// SetMax tightens the domain's maximum to at most newMax, skipping over
// any existing holes. Fails if the resulting domain would be empty.
func (v *IntVar) SetMax(newMax int) error {
	if newMax >= v.Max() {
		return nil
	}
	if newMax < v.Min() {
		return v.solver.Fail()
	}
	for newMax >= v.Min() && v.isHole(newMax) {
		newMax--
	}
	if newMax < v.Min() {
		return v.solver.Fail()
	}
	if newMax == v.Max() {
		return nil
	}
	v.max.SetValue(newMax)
	return v.fireRange()
}

// SetRange tightens the domain to [lo, hi].
func (v *IntVar) SetRange(lo, hi int) error {
	if lo > hi {
		return v.solver.Fail()
	}
	if err := v.SetMin(lo); err != nil {
		return err
	}
	return v.SetMax(hi)
}

// SetValue pins the domain to exactly val. Fails if val is not currently
// in the domain.
func (v *IntVar) SetValue(val int) error {
	if !v.Contains(val) {
		return v.solver.Fail()
	}
	if v.Min() == val && v.Max() == val {
		return nil
	}
	v.min.SetValue(val)
	v.max.SetValue(val)
	return v.fireRange()
}

// RemoveValue removes a single value from the domain. A no-op if the value
// is already absent. Fails if the domain would become empty.
func (v *IntVar) RemoveValue(val int) error {
	if val < v.Min() || val > v.Max() {
		return nil
	}
	if val == v.Min() {
		return v.SetMin(val + 1)
	}
	if val == v.Max() {
		return v.SetMax(val - 1)
	}
	if v.isHole(val) {
		return nil
	}
	v.ensureHoles().SetToOne(val - v.origMin)
	v.fireDomain()
	return nil
}

// RemoveValues removes every value in vals. Fails as soon as the domain
// would become empty.
func (v *IntVar) RemoveValues(vals []int) error {
	for _, val := range vals {
		if err := v.RemoveValue(val); err != nil {
			return err
		}
	}
	return nil
}

// RemoveInterval removes every value in [lo, hi]. Fails if the domain
// would become empty.
func (v *IntVar) RemoveInterval(lo, hi int) error {
	if lo > hi {
		return nil
	}
	if lo <= v.Min() && hi >= v.Max() {
		return v.solver.Fail()
	}
	if lo <= v.Min() {
		return v.SetMin(hi + 1)
	}
	if hi >= v.Max() {
		return v.SetMax(lo - 1)
	}
	lo = max(lo, v.Min())
	hi = min(hi, v.Max())
	for val := lo; val <= hi; val++ {
		if err := v.RemoveValue(val); err != nil {
			return err
		}
	}
	return nil
}

// IterateDomain calls f for every value currently in the domain, in
// increasing order.
func (v *IntVar) IterateDomain(f func(val int)) {
	for val := v.Min(); val <= v.Max(); val++ {
		if !v.isHole(val) {
			f(val)
		}
	}
}

// IterateHoles calls f for every interior hole that lies within both the
// bounds at the start of the current propagation round (OldMin/OldMax) and
// the current bounds. Holes carved out in earlier rounds are reported too;
// values cut off by a bound change are not.
func (v *IntVar) IterateHoles(f func(val int)) {
	lo, hi := v.oldMin, v.oldMax
	if lo < v.Min() {
		lo = v.Min()
	}
	if hi > v.Max() {
		hi = v.Max()
	}
	for val := lo; val <= hi; val++ {
		if v.isHole(val) {
			f(val)
		}
	}
}

// String renders the variable for debugging.
func (v *IntVar) String() string {
	if v.Bound() {
		return fmt.Sprintf("%s=%d", v.name, v.Min())
	}
	return fmt.Sprintf("%s∈[%d,%d]", v.name, v.Min(), v.Max())
}
