package fdprop

import "fmt"

// supportTable maps one variable's values to the bitmask of tuple indices
// that value appears in. Dense values (a contiguous-ish range that's well
// covered by the table) are stored in a plain slice indexed from base;
// sparse value domains fall back to a map, avoiding a huge, mostly-nil
// slice — the "hash-map form" alongside the bitset/long-bitset forms that
// actives itself (a RevBitSet, already multi-word beyond 64 tuples)
// covers without needing a separate representation.
type supportTable struct {
	dense    [][]uint64
	sparse   map[int][]uint64
	base     int
	isSparse bool
}

func (st *supportTable) get(value int) []uint64 {
	if st.isSparse {
		return st.sparse[value]
	}
	idx := value - st.base
	if idx < 0 || idx >= len(st.dense) {
		return nil
	}
	return st.dense[idx]
}

// sparseThreshold bounds how much wider a value's range may be than its
// distinct-value count before PositiveTable switches that variable to the
// hash-map support form.
const sparseThreshold = 4

// PositiveTable constrains vars to the rows of an explicit allowed-tuple
// table: (vars[0], ..., vars[k-1]) must match one of tuples.
// Propagation maintains a reversible active-tuple set — a bitset sized to
// the table's row count, so it is word-sized for small tables and
// multi-word for large ones without any code-level distinction — and
// intersects it against every variable's current domain; any value no
// longer supported by a remaining active tuple is removed.
type PositiveTable struct {
	vars   []*IntVar
	tuples [][]int

	nw       int
	actives  *RevBitSet
	supports []*supportTable
}

// NewPositiveTable creates a PositiveTable constraint. tuples must be
// non-empty and every row must have exactly len(vars) entries; an empty
// table can never be satisfied, so construction fails fast rather than
// waiting for a doomed InitialPropagate.
func NewPositiveTable(vars []*IntVar, tuples [][]int) (*PositiveTable, error) {
	if len(tuples) == 0 {
		return nil, preconditionErrorf("NewPositiveTable", "empty tuple table can never be satisfied")
	}
	for r, t := range tuples {
		if len(t) != len(vars) {
			return nil, preconditionErrorf("NewPositiveTable", "tuple %d has %d entries, want %d", r, len(t), len(vars))
		}
	}
	return &PositiveTable{vars: vars, tuples: tuples}, nil
}

func (pt *PositiveTable) Post(s *Solver) error {
	if err := s.checkOwned("PositiveTable", pt.vars...); err != nil {
		return err
	}
	pt.nw = (len(pt.tuples) + 63) / 64
	pt.actives = NewRevBitSetAllOnes(s.trail, len(pt.tuples))
	pt.supports = make([]*supportTable, len(pt.vars))
	for i := range pt.vars {
		pt.supports[i] = pt.buildSupport(i)
	}
	for i, v := range pt.vars {
		ii := i
		d := newDemon(fmt.Sprintf("PositiveTable.var[%d]", ii), Normal, func(s *Solver) error {
			return pt.propagateVar(s, ii)
		})
		v.WhenDomainDo(d)
	}
	return nil
}

func (pt *PositiveTable) buildSupport(i int) *supportTable {
	distinct := make(map[int]bool)
	lo, hi := pt.tuples[0][i], pt.tuples[0][i]
	for _, t := range pt.tuples {
		val := t[i]
		distinct[val] = true
		if val < lo {
			lo = val
		}
		if val > hi {
			hi = val
		}
	}
	span := hi - lo + 1
	st := &supportTable{base: lo, isSparse: span > sparseThreshold*len(distinct)}
	if st.isSparse {
		st.sparse = make(map[int][]uint64, len(distinct))
	} else {
		st.dense = make([][]uint64, span)
	}
	for t, tuple := range pt.tuples {
		val := tuple[i]
		var mask []uint64
		if st.isSparse {
			mask = st.sparse[val]
			if mask == nil {
				mask = make([]uint64, pt.nw)
				st.sparse[val] = mask
			}
		} else {
			idx := val - lo
			mask = st.dense[idx]
			if mask == nil {
				mask = make([]uint64, pt.nw)
				st.dense[idx] = mask
			}
		}
		mask[t/64] |= uint64(1) << uint(t%64)
	}
	return st
}

func (pt *PositiveTable) InitialPropagate(s *Solver) error {
	if pt.actives.Empty() {
		return s.Fail()
	}
	for i := range pt.vars {
		if err := pt.propagateVar(s, i); err != nil {
			return err
		}
	}
	return nil
}

// propagateVar shrinks the active-tuple set to whatever var i's current
// domain still supports, then re-checks every variable's domain against
// the (possibly smaller) active set, pruning any value no active tuple
// supports anymore.
func (pt *PositiveTable) propagateVar(s *Solver, i int) error {
	v := pt.vars[i]
	st := pt.supports[i]
	sum := make([]uint64, pt.nw)
	v.IterateDomain(func(val int) {
		if mask := st.get(val); mask != nil {
			for w := range sum {
				sum[w] |= mask[w]
			}
		}
	})
	pt.actives.AndMask(sum)
	if pt.actives.Empty() {
		return s.Fail()
	}
	for j, vj := range pt.vars {
		stj := pt.supports[j]
		var toRemove []int
		vj.IterateDomain(func(val int) {
			mask := stj.get(val)
			if mask == nil || !pt.actives.IntersectsMask(mask) {
				toRemove = append(toRemove, val)
			}
		})
		for _, val := range toRemove {
			if err := vj.RemoveValue(val); err != nil {
				return err
			}
		}
	}
	return nil
}

func (pt *PositiveTable) Accept(mv ModelVisitor) {
	mv.VisitConstraint("PositiveTable")
	mv.VisitIntVarArrayArgument("vars", pt.vars)
	mv.VisitIntegerArgument("num_tuples", len(pt.tuples))
}
