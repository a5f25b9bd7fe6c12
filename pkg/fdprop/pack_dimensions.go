package fdprop

import "golang.org/x/exp/slices"

// WeightedSumLE is a Pack dimension enforcing, for every bin b, that the
// sum of weights of items assigned to b stays at or under bounds[b].Max().
// Items are pre-sorted once by descending weight; each bin keeps a
// reversible cursor into that order so a round only re-examines items at
// or past the first one it could not yet rule out — once an item's weight
// fits the bin's remaining capacity, every later (lighter) item fits too.
type WeightedSumLE struct {
	weights []int
	bounds  []*IntVar

	sortedIdx []int
	loaded    []*Rev[int]
	cursor    []*Rev[int]
}

// NewWeightedSumLE creates a capacity dimension. weights must have one
// entry per Pack item; bounds must have one entry per real bin.
func NewWeightedSumLE(weights []int, bounds []*IntVar) *WeightedSumLE {
	return &WeightedSumLE{weights: weights, bounds: bounds}
}

func (w *WeightedSumLE) Post(p *Pack) error {
	if len(w.weights) != len(p.vars) {
		return preconditionErrorf("WeightedSumLE", "len(weights)=%d != len(vars)=%d", len(w.weights), len(p.vars))
	}
	if len(w.bounds) != p.numBins {
		return preconditionErrorf("WeightedSumLE", "len(bounds)=%d != num_bins=%d", len(w.bounds), p.numBins)
	}
	w.sortedIdx = make([]int, len(w.weights))
	for i := range w.sortedIdx {
		w.sortedIdx[i] = i
	}
	slices.SortFunc(w.sortedIdx, func(a, b int) int { return w.weights[b] - w.weights[a] })
	return nil
}

func (w *WeightedSumLE) InitialPropagate(s *Solver, p *Pack) error {
	w.loaded = make([]*Rev[int], p.numBins)
	w.cursor = make([]*Rev[int], p.numBins)
	for b := 0; b < p.numBins; b++ {
		w.loaded[b] = NewRev(s.trail, 0)
		w.cursor[b] = NewRev(s.trail, 0)
		if err := w.tightenBin(s, p, b); err != nil {
			return err
		}
	}
	return nil
}

func (w *WeightedSumLE) Propagate(s *Solver, p *Pack, forced, removed [][]int) error {
	for b := 0; b < p.numBins; b++ {
		for _, i := range forced[b] {
			w.loaded[b].SetValue(w.loaded[b].Value() + w.weights[i])
		}
		if len(forced[b]) == 0 && len(removed[b]) == 0 {
			continue
		}
		if err := w.tightenBin(s, p, b); err != nil {
			return err
		}
	}
	return nil
}

func (w *WeightedSumLE) tightenBin(s *Solver, p *Pack, b int) error {
	remaining := w.bounds[b].Max() - w.loaded[b].Value()
	if remaining < 0 {
		return s.Fail()
	}
	cur := w.cursor[b].Value()
	for cur < len(w.sortedIdx) {
		i := w.sortedIdx[cur]
		if !p.Unprocessed(b, i) {
			cur++
			continue
		}
		if w.weights[i] > remaining {
			if err := p.SetImpossible(i, b); err != nil {
				return err
			}
			cur++
			continue
		}
		break
	}
	if cur != w.cursor[b].Value() {
		w.cursor[b].SetValue(cur)
	}
	return nil
}

func (w *WeightedSumLE) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Pack.WeightedSumLE")
	mv.VisitIntegerArrayArgument("weights", w.weights)
	mv.VisitIntVarArrayArgument("bounds", w.bounds)
}

// WeightedSumEQ is a Pack dimension that ties each bin's load variable to
// the exact sum of weights of items assigned to it — unlike WeightedSumLE,
// it also forces every still-undecided item into a bin once the bin's
// minimum load can only be reached by using all of them.
type WeightedSumEQ struct {
	weights []int
	loads   []*IntVar

	committed []*Rev[int]
}

// NewWeightedSumEQ creates a load-equality dimension: loads[b] is
// constrained to equal the total weight of items packed into bin b.
func NewWeightedSumEQ(weights []int, loads []*IntVar) *WeightedSumEQ {
	return &WeightedSumEQ{weights: weights, loads: loads}
}

func (w *WeightedSumEQ) Post(p *Pack) error {
	if len(w.weights) != len(p.vars) {
		return preconditionErrorf("WeightedSumEQ", "len(weights)=%d != len(vars)=%d", len(w.weights), len(p.vars))
	}
	if len(w.loads) != p.numBins {
		return preconditionErrorf("WeightedSumEQ", "len(loads)=%d != num_bins=%d", len(w.loads), p.numBins)
	}
	return nil
}

func (w *WeightedSumEQ) InitialPropagate(s *Solver, p *Pack) error {
	w.committed = make([]*Rev[int], p.numBins)
	for b := 0; b < p.numBins; b++ {
		w.committed[b] = NewRev(s.trail, 0)
		if err := w.tighten(p, b); err != nil {
			return err
		}
	}
	return nil
}

func (w *WeightedSumEQ) Propagate(s *Solver, p *Pack, forced, removed [][]int) error {
	for b := 0; b < p.numBins; b++ {
		for _, i := range forced[b] {
			w.committed[b].SetValue(w.committed[b].Value() + w.weights[i])
		}
		if len(forced[b]) == 0 && len(removed[b]) == 0 {
			continue
		}
		if err := w.tighten(p, b); err != nil {
			return err
		}
	}
	return nil
}

func (w *WeightedSumEQ) tighten(p *Pack, b int) error {
	committed := w.committed[b].Value()
	potential := committed
	p.ForEachUnprocessed(b, func(i int) { potential += w.weights[i] })
	if err := w.loads[b].SetRange(committed, potential); err != nil {
		return err
	}
	if w.loads[b].Max() == committed {
		var err error
		p.ForEachUnprocessed(b, func(i int) {
			if err == nil {
				err = p.SetImpossible(i, b)
			}
		})
		return err
	}
	if w.loads[b].Min() == potential {
		var err error
		p.ForEachUnprocessed(b, func(i int) {
			if err == nil {
				err = p.Assign(i, b)
			}
		})
		return err
	}
	return nil
}

func (w *WeightedSumEQ) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Pack.WeightedSumEQ")
	mv.VisitIntegerArrayArgument("weights", w.weights)
	mv.VisitIntVarArrayArgument("loads", w.loads)
}

// WeightedSumAssignedEQ is a Pack dimension tying a single cost variable
// to the total weight of items actually packed (excluding items left at
// the unassigned sentinel, for an optional pack). It tracks per-item
// resolution rather than per-(bin,item), since the cost does not care
// which real bin an item lands in.
type WeightedSumAssignedEQ struct {
	weights       []int
	cost          *IntVar
	unassignedBin int

	committed      *Rev[int]
	undecidedItems *RevBitSet
}

// NewWeightedSumAssignedEQ creates a cost dimension: cost is constrained
// to equal Σ weights[i] over every item i assigned to a real bin.
func NewWeightedSumAssignedEQ(weights []int, cost *IntVar) *WeightedSumAssignedEQ {
	return &WeightedSumAssignedEQ{weights: weights, cost: cost}
}

// NewCountAssigned creates a cost dimension counting how many of numItems
// items are assigned to a real bin — WeightedSumAssignedEQ specialized to
// unit weights.
func NewCountAssigned(numItems int, cost *IntVar) *WeightedSumAssignedEQ {
	weights := make([]int, numItems)
	for i := range weights {
		weights[i] = 1
	}
	return &WeightedSumAssignedEQ{weights: weights, cost: cost}
}

func (w *WeightedSumAssignedEQ) Post(p *Pack) error {
	if len(w.weights) != len(p.vars) {
		return preconditionErrorf("WeightedSumAssignedEQ", "len(weights)=%d != len(vars)=%d", len(w.weights), len(p.vars))
	}
	w.unassignedBin = p.unassignedBin
	return nil
}

func (w *WeightedSumAssignedEQ) InitialPropagate(s *Solver, p *Pack) error {
	w.committed = NewRev(s.trail, 0)
	w.undecidedItems = NewRevBitSetAllOnes(s.trail, len(p.vars))
	for i := range p.vars {
		if err := w.resolveItem(p, i); err != nil {
			return err
		}
	}
	return w.tightenCost()
}

func (w *WeightedSumAssignedEQ) Propagate(s *Solver, p *Pack, forced, removed [][]int) error {
	touched := false
	for b := range forced {
		for _, i := range forced[b] {
			if err := w.resolveItem(p, i); err != nil {
				return err
			}
			touched = true
		}
		for _, i := range removed[b] {
			if err := w.resolveItem(p, i); err != nil {
				return err
			}
			touched = true
		}
	}
	if !touched {
		return nil
	}
	return w.tightenCost()
}

func (w *WeightedSumAssignedEQ) resolveItem(p *Pack, i int) error {
	if !w.undecidedItems.IsSet(i) {
		return nil
	}
	v := p.vars[i]
	if !v.Bound() {
		return nil
	}
	w.undecidedItems.SetToZero(i)
	if v.Value() != w.unassignedBin {
		w.committed.SetValue(w.committed.Value() + w.weights[i])
	}
	return nil
}

func (w *WeightedSumAssignedEQ) tightenCost() error {
	lo := w.committed.Value()
	hi := lo
	w.undecidedItems.ForEachSet(func(i int) { hi += w.weights[i] })
	return w.cost.SetRange(lo, hi)
}

func (w *WeightedSumAssignedEQ) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Pack.WeightedSumAssignedEQ")
	mv.VisitIntegerArrayArgument("weights", w.weights)
	mv.VisitIntVarArgument("cost", w.cost)
}

// CountUsedBins is a Pack dimension tying a cost variable to the number of
// bins with at least one item assigned.
type CountUsedBins struct {
	cost *IntVar

	used []*Rev[bool]
}

// NewCountUsedBins creates a bin-usage-count dimension.
func NewCountUsedBins(cost *IntVar) *CountUsedBins {
	return &CountUsedBins{cost: cost}
}

func (c *CountUsedBins) Post(p *Pack) error { return nil }

func (c *CountUsedBins) InitialPropagate(s *Solver, p *Pack) error {
	c.used = make([]*Rev[bool], p.numBins)
	for b := 0; b < p.numBins; b++ {
		c.used[b] = NewRev(s.trail, false)
	}
	return c.tighten(p)
}

func (c *CountUsedBins) Propagate(s *Solver, p *Pack, forced, removed [][]int) error {
	for b := 0; b < p.numBins; b++ {
		if len(forced[b]) > 0 {
			c.used[b].SetValue(true)
		}
	}
	return c.tighten(p)
}

func (c *CountUsedBins) tighten(p *Pack) error {
	lo, hi := 0, 0
	for b := 0; b < p.numBins; b++ {
		if c.used[b].Value() {
			lo++
			hi++
			continue
		}
		if p.unprocessed.RowCardinality(b) > 0 {
			hi++
		}
	}
	return c.cost.SetRange(lo, hi)
}

func (c *CountUsedBins) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Pack.CountUsedBins")
	mv.VisitIntVarArgument("cost", c.cost)
}
