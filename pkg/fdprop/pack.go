package fdprop

// Dimension is a pluggable facet of a Pack constraint: a resource
// consumption rule (weight capacity, load equality, assignment cost,
// bin-usage count, ...) that reacts to the same forced/removed item deltas
// every round. Pack owns the shared bookkeeping (which (bin, item) pairs
// are still undecided); dimensions only see the deltas and the bookkeeping
// helpers (SetImpossible, Assign) needed to prune or force further.
type Dimension interface {
	// Post validates the dimension's arguments against p (size checks) and
	// allocates any reversible state it owns. Called once, from Pack.Post,
	// after Pack has sized its own bookkeeping.
	Post(p *Pack) error
	// InitialPropagate runs the dimension's first full pass, before any
	// item has been forced or removed by a search decision.
	InitialPropagate(s *Solver, p *Pack) error
	// Propagate reacts to this round's forced/removed item lists, indexed
	// by bin: forced[b] are items newly fixed into bin b, removed[b] are
	// items newly excluded from bin b. Both may be nil for an untouched
	// bin.
	Propagate(s *Solver, p *Pack, forced, removed [][]int) error
}

// Pack is a bin-packing constraint: each item i has an assignment variable
// vars[i] ranging over bin indices 0..numBins-1 (and, if the pack allows
// unassigned items, the extra sentinel value numBins meaning "not
// packed"). Dimensions attach resource rules on top of this shared
// assignment bookkeeping — a pluggable-dimension design.
type Pack struct {
	vars            []*IntVar
	numBins         int
	unassignedBin   int // numBins if allowUnassigned, else -1
	allowUnassigned bool
	dims            []Dimension

	rows        int // numBins, or numBins+1 if allowUnassigned
	unprocessed *RevBitMatrix
	forced      [][]int
	removed     [][]int
}

// NewPack creates a Pack where every item must be assigned to one of
// numBins real bins.
func NewPack(vars []*IntVar, numBins int) *Pack {
	return &Pack{vars: vars, numBins: numBins, unassignedBin: -1, rows: numBins}
}

// NewPackOptional creates a Pack where an item may additionally take the
// value numBins, meaning it is not packed into any bin.
func NewPackOptional(vars []*IntVar, numBins int) *Pack {
	return &Pack{vars: vars, numBins: numBins, unassignedBin: numBins, allowUnassigned: true, rows: numBins + 1}
}

// AddDimension attaches d to the pack. Dimensions must be added before Post.
func (p *Pack) AddDimension(d Dimension) {
	p.dims = append(p.dims, d)
}

// NumBins returns the number of real bins (excluding the unassigned sentinel).
func (p *Pack) NumBins() int { return p.numBins }

// UnassignedBin returns the sentinel value meaning "not packed", or -1 if
// this pack requires every item to be assigned.
func (p *Pack) UnassignedBin() int { return p.unassignedBin }

// Vars returns the item-to-bin assignment variables.
func (p *Pack) Vars() []*IntVar { return p.vars }

func (p *Pack) Post(s *Solver) error {
	if err := s.checkOwned("Pack", p.vars...); err != nil {
		return err
	}
	hi := p.numBins - 1
	if p.allowUnassigned {
		hi = p.numBins
	}
	for _, v := range p.vars {
		if err := v.SetRange(0, hi); err != nil {
			return err
		}
	}
	p.unprocessed = NewRevBitMatrix(s.trail, p.rows, len(p.vars), true)
	p.forced = make([][]int, p.rows)
	p.removed = make([][]int, p.rows)
	for _, d := range p.dims {
		if err := d.Post(p); err != nil {
			return err
		}
	}
	pd := newDemon("Pack", Delayed, p.propagate)
	for _, v := range p.vars {
		v.WhenDomainDo(pd)
	}
	return nil
}

func (p *Pack) InitialPropagate(s *Solver) error {
	for i, v := range p.vars {
		for b := 0; b < p.rows; b++ {
			if !v.Contains(b) {
				p.unprocessed.SetToZero(b, i)
			}
		}
	}
	for _, d := range p.dims {
		if err := d.InitialPropagate(s, p); err != nil {
			return err
		}
	}
	return p.propagate(s)
}

// propagate is the pack's delayed demon body: it turns this round's
// variable changes into per-bin forced/removed item lists, then lets every
// dimension react once to the combined deltas.
func (p *Pack) propagate(s *Solver) error {
	for b := range p.forced {
		p.forced[b] = p.forced[b][:0]
		p.removed[b] = p.removed[b][:0]
	}
	for i, v := range p.vars {
		for b := 0; b < p.rows; b++ {
			if !p.unprocessed.IsSet(b, i) {
				continue
			}
			switch {
			case v.Bound() && v.Value() == b:
				p.unprocessed.SetToZero(b, i)
				p.forced[b] = append(p.forced[b], i)
			case !v.Contains(b):
				p.unprocessed.SetToZero(b, i)
				p.removed[b] = append(p.removed[b], i)
			}
		}
	}
	for _, d := range p.dims {
		if err := d.Propagate(s, p, p.forced, p.removed); err != nil {
			return err
		}
	}
	return nil
}

// SetImpossible excludes bin b as a destination for item i. A dimension
// calls this when its resource rule proves item i cannot fit in bin b.
func (p *Pack) SetImpossible(i, b int) error {
	return p.vars[i].RemoveValue(b)
}

// Assign forces item i into bin b. A dimension calls this when its
// resource rule proves item i must go to bin b (e.g. it is the only bin
// left with enough remaining capacity for every still-undecided item).
func (p *Pack) Assign(i, b int) error {
	return p.vars[i].SetValue(b)
}

// Unprocessed reports whether (bin b, item i) is still undecided — item i
// has not been forced into or excluded from bin b this round or any
// earlier one.
func (p *Pack) Unprocessed(b, i int) bool {
	return p.unprocessed.IsSet(b, i)
}

// ForEachUnprocessed calls f for every item still undecided about bin b.
func (p *Pack) ForEachUnprocessed(b int, f func(i int)) {
	p.unprocessed.ForEachSetInRow(b, f)
}

func (p *Pack) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Pack")
	mv.VisitIntVarArrayArgument("vars", p.vars)
	mv.VisitIntegerArgument("num_bins", p.numBins)
}
