package fdprop

import "fmt"

// Count constrains count to the number of variables in vars currently
// bound (or forced) to value. It is the single-value specialization of
// Distribute, kept separate because it needs neither a bit-matrix nor a
// per-value counter array — just one reversible counter and one reversible
// bitset of variables still undecided about value.
type Count struct {
	vars      []*IntVar
	value     int
	count     *IntVar
	undecided *RevBitSet
	minCount  *Rev[int]
}

// NewCount creates a Count constraint. count's domain is tightened to
// [0, len(vars)] by Post; callers that already know a tighter range should
// constrain count themselves before adding the constraint.
func NewCount(vars []*IntVar, value int, count *IntVar) *Count {
	return &Count{vars: vars, value: value, count: count}
}

func (c *Count) Post(s *Solver) error {
	if err := s.checkOwned("Count", append(append([]*IntVar{}, c.vars...), c.count)...); err != nil {
		return err
	}
	c.undecided = NewRevBitSetAllOnes(s.trail, len(c.vars))
	c.minCount = NewRev(s.trail, 0)
	if err := c.count.SetRange(0, len(c.vars)); err != nil {
		return err
	}
	for i := range c.vars {
		idx := i
		d := newDemon(fmt.Sprintf("Count.var[%d]", idx), Normal, func(s *Solver) error {
			return c.propagateVar(s, idx)
		})
		c.vars[idx].WhenDomainDo(d)
	}
	cd := newDemon("Count.count", Normal, c.propagateCount)
	c.count.WhenRangeDo(cd)
	return nil
}

func (c *Count) InitialPropagate(s *Solver) error {
	for i := range c.vars {
		if err := c.propagateVar(s, i); err != nil {
			return err
		}
	}
	return c.propagateCount(s)
}

func (c *Count) propagateVar(s *Solver, i int) error {
	if !c.undecided.IsSet(i) {
		return nil
	}
	v := c.vars[i]
	switch {
	case v.Bound():
		c.undecided.SetToZero(i)
		if v.Value() == c.value {
			c.minCount.SetValue(c.minCount.Value() + 1)
		}
	case !v.Contains(c.value):
		c.undecided.SetToZero(i)
	default:
		return nil
	}
	return c.propagateCount(s)
}

func (c *Count) propagateCount(s *Solver) error {
	lo := c.minCount.Value()
	hi := lo + c.undecided.Cardinality()
	if err := c.count.SetRange(lo, hi); err != nil {
		return err
	}
	if c.count.Max() == lo {
		var err error
		c.undecided.ForEachSet(func(i int) {
			if err == nil {
				err = c.vars[i].RemoveValue(c.value)
			}
		})
		return err
	}
	if c.count.Min() == hi {
		var err error
		c.undecided.ForEachSet(func(i int) {
			if err == nil {
				err = c.vars[i].SetValue(c.value)
			}
		})
		return err
	}
	return nil
}

func (c *Count) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Count")
	mv.VisitIntVarArrayArgument("vars", c.vars)
	mv.VisitIntegerArgument("value", c.value)
	mv.VisitIntVarArgument("count", c.count)
}

// Distribute is the cardinality family's general form: cards[j] counts how
// many variables in vars are bound (or forced) to values[j], for every j.
// values must be pairwise distinct.
//
// The undecided matrix is stored values-major (rows = values, cols = vars)
// rather than vars-major: RevBitMatrix.ForEachSetInRow then directly yields
// "every variable still undecided about values[j]" — exactly what forcing a
// resolved value needs — without a column-scan helper.
type Distribute struct {
	vars      []*IntVar
	values    []int
	cards     []*IntVar
	undecided *RevBitMatrix
	minCard   []*Rev[int]
	fast      bool // values[j] == j for every j: enables the all-or-nothing total check
}

// NewDistribute creates a general Distribute constraint.
func NewDistribute(vars []*IntVar, values []int, cards []*IntVar) (*Distribute, error) {
	if len(values) != len(cards) {
		return nil, preconditionErrorf("NewDistribute", "len(values)=%d != len(cards)=%d", len(values), len(cards))
	}
	seen := make(map[int]bool, len(values))
	for _, val := range values {
		if seen[val] {
			return nil, preconditionErrorf("NewDistribute", "duplicate value %d", val)
		}
		seen[val] = true
	}
	return &Distribute{vars: vars, values: values, cards: cards}, nil
}

// NewDistributeFast creates the specialization where values[j] == j for
// every j — cards partition the variables' shared value range exactly, so
// Σ cards[j] == len(vars) always. This enables an extra total-sum check
// beyond what general Distribute performs.
func NewDistributeFast(vars []*IntVar, cards []*IntVar) (*Distribute, error) {
	values := make([]int, len(cards))
	for j := range values {
		values[j] = j
	}
	d, err := NewDistribute(vars, values, cards)
	if err != nil {
		return nil, err
	}
	d.fast = true
	return d, nil
}

// NewDistributeBounded creates numBins fresh cardinality variables, each
// ranging over [cardMin, cardMax], bound to values 0..numBins-1, and
// returns the resulting Distribute along with the cardinality variables —
// the "bounded" specialization (a shared range rather than a
// per-bin IntVar supplied by the caller).
func NewDistributeBounded(s *Solver, vars []*IntVar, numBins, cardMin, cardMax int) (*Distribute, []*IntVar, error) {
	cards := make([]*IntVar, numBins)
	for j := range cards {
		v, err := s.NewIntVar(cardMin, cardMax)
		if err != nil {
			return nil, nil, err
		}
		v.SetName(fmt.Sprintf("card%d", j))
		cards[j] = v
	}
	d, err := NewDistributeFast(vars, cards)
	if err != nil {
		return nil, nil, err
	}
	return d, cards, nil
}

func (d *Distribute) Post(s *Solver) error {
	owned := append(append([]*IntVar{}, d.vars...), d.cards...)
	if err := s.checkOwned("Distribute", owned...); err != nil {
		return err
	}
	d.undecided = NewRevBitMatrix(s.trail, len(d.values), len(d.vars), true)
	d.minCard = make([]*Rev[int], len(d.values))
	for j := range d.values {
		d.minCard[j] = NewRev(s.trail, 0)
		if err := d.cards[j].SetRange(0, len(d.vars)); err != nil {
			return err
		}
		jj := j
		cd := newDemon(fmt.Sprintf("Distribute.card[%d]", jj), Normal, func(s *Solver) error {
			return d.propagateCard(s, jj)
		})
		d.cards[jj].WhenRangeDo(cd)
	}
	for i := range d.vars {
		ii := i
		vd := newDemon(fmt.Sprintf("Distribute.var[%d]", ii), Normal, func(s *Solver) error {
			return d.propagateVar(s, ii)
		})
		d.vars[ii].WhenDomainDo(vd)
	}
	return nil
}

func (d *Distribute) InitialPropagate(s *Solver) error {
	for i := range d.vars {
		if err := d.propagateVar(s, i); err != nil {
			return err
		}
	}
	for j := range d.values {
		if err := d.propagateCard(s, j); err != nil {
			return err
		}
	}
	return nil
}

func (d *Distribute) propagateVar(s *Solver, i int) error {
	v := d.vars[i]
	var touched []int
	for j, val := range d.values {
		if !d.undecided.IsSet(j, i) {
			continue
		}
		resolved := false
		switch {
		case v.Bound():
			if v.Value() == val {
				d.minCard[j].SetValue(d.minCard[j].Value() + 1)
			}
			resolved = true
		case !v.Contains(val):
			resolved = true
		}
		if resolved {
			d.undecided.SetToZero(j, i)
			touched = append(touched, j)
		}
	}
	for _, j := range touched {
		if err := d.propagateCard(s, j); err != nil {
			return err
		}
	}
	return nil
}

func (d *Distribute) propagateCard(s *Solver, j int) error {
	lo := d.minCard[j].Value()
	hi := lo + d.undecided.RowCardinality(j)
	if err := d.cards[j].SetRange(lo, hi); err != nil {
		return err
	}
	val := d.values[j]
	if d.cards[j].Max() == lo {
		var err error
		d.undecided.ForEachSetInRow(j, func(i int) {
			if err == nil {
				err = d.vars[i].RemoveValue(val)
			}
		})
		if err != nil {
			return err
		}
	} else if d.cards[j].Min() == hi {
		var err error
		d.undecided.ForEachSetInRow(j, func(i int) {
			if err == nil {
				err = d.vars[i].SetValue(val)
			}
		})
		if err != nil {
			return err
		}
	}
	if d.fast {
		return d.checkTotal(s)
	}
	return nil
}

// checkTotal enforces Σ cards[j] == len(vars) for the fast specialization:
// fails as soon as the sum of minimums exceeds or the sum of maximums falls
// short of len(vars), and forces every card to its bound the moment the
// opposite bound has already reached the total (spec_full §3's
// all-or-nothing fast path).
func (d *Distribute) checkTotal(s *Solver) error {
	n := len(d.vars)
	sumMin, sumMax := 0, 0
	for j := range d.cards {
		sumMin += d.cards[j].Min()
		sumMax += d.cards[j].Max()
	}
	if sumMin > n || sumMax < n {
		return s.Fail()
	}
	if sumMin == n {
		for j := range d.cards {
			if err := d.cards[j].SetMax(d.cards[j].Min()); err != nil {
				return err
			}
		}
	}
	if sumMax == n {
		for j := range d.cards {
			if err := d.cards[j].SetMin(d.cards[j].Max()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Distribute) Accept(mv ModelVisitor) {
	mv.VisitConstraint("Distribute")
	mv.VisitIntVarArrayArgument("vars", d.vars)
	mv.VisitIntegerArrayArgument("values", d.values)
	mv.VisitIntVarArrayArgument("cards", d.cards)
}
