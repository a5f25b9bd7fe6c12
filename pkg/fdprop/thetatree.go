package fdprop

// negInf stands in for an unbounded-early completion time — the "absent"
// leaf's earliest completion time, low enough that max() never picks it
// over a real value but high enough to never overflow under addition with
// any realistic duration.
const negInf = -(1 << 30)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// ThetaTree is a complete binary tree over a fixed set of leaf slots, one
// per task, maintaining the earliest completion time (ect) of whichever
// subset of tasks is currently "in theta" (inserted). Absent leaves
// contribute zero energy and -∞ ect, so they vanish from the combine
// without special-casing. Used by overload checking and as the base of
// LambdaThetaTree.
//
// combine(left, right) = (energy: left.energy+right.energy,
//
//	ect: max(right.ect, left.ect+right.energy))
//
// is the textbook Vilim monoid: a task set's completion is either driven
// entirely by the right half, or by the left half finishing and the right
// half's energy running afterward.
type ThetaTree struct {
	size   int
	energy []int
	ect    []int
}

// NewThetaTree creates a tree with n leaf slots (0..n-1), all initially absent.
func NewThetaTree(n int) *ThetaTree {
	size := nextPow2(max(n, 1))
	t := &ThetaTree{size: size, energy: make([]int, 2*size-1), ect: make([]int, 2*size-1)}
	for i := range t.ect {
		t.ect[i] = negInf
	}
	return t
}

func (t *ThetaTree) leafIndex(leaf int) int { return t.size - 1 + leaf }

// Insert puts leaf into theta with earliest-completion ect and energy p.
func (t *ThetaTree) Insert(leaf, ect, p int) {
	idx := t.leafIndex(leaf)
	t.energy[idx] = p
	t.ect[idx] = ect
	t.bubble(idx)
}

// Remove returns leaf to the absent state.
func (t *ThetaTree) Remove(leaf int) {
	idx := t.leafIndex(leaf)
	t.energy[idx] = 0
	t.ect[idx] = negInf
	t.bubble(idx)
}

func (t *ThetaTree) bubble(idx int) {
	for idx > 0 {
		idx = (idx - 1) / 2
		l, r := 2*idx+1, 2*idx+2
		t.energy[idx] = t.energy[l] + t.energy[r]
		t.ect[idx] = max(t.ect[r], t.ect[l]+t.energy[r])
	}
}

// Ect returns the earliest completion time of every task currently in theta.
func (t *ThetaTree) Ect() int {
	if len(t.ect) == 0 {
		return negInf
	}
	return t.ect[0]
}

// LambdaThetaTree extends ThetaTree with a second class of leaf, "lambda":
// an optional task that does not count toward theta's energy/ect but may
// contribute to an "opt" variant that assumes at most one lambda leaf also
// participates. This is exactly what edge-finding needs: "what would the
// earliest completion be if this one extra (optional, or not-yet-ordered)
// task were added?" without committing it to theta.
//
// A leaf is in exactly one of three states: absent, theta, or lambda.
// ectOpt/energyOpt are the theta quantities augmented by optionally
// including the single best lambda leaf beneath each node; responsible
// records which lambda leaf (if any) achieves that node's ectOpt.
type LambdaThetaTree struct {
	size        int
	energy      []int
	ect         []int
	energyOpt   []int
	ectOpt      []int
	responsible []int
}

// NewLambdaThetaTree creates a tree with n leaf slots, all initially absent.
func NewLambdaThetaTree(n int) *LambdaThetaTree {
	size := nextPow2(max(n, 1))
	total := 2*size - 1
	t := &LambdaThetaTree{
		size: size,
		energy: make([]int, total), ect: make([]int, total),
		energyOpt: make([]int, total), ectOpt: make([]int, total),
		responsible: make([]int, total),
	}
	for i := 0; i < total; i++ {
		t.ect[i] = negInf
		t.ectOpt[i] = negInf
		t.responsible[i] = -1
	}
	return t
}

func (t *LambdaThetaTree) leafIndex(leaf int) int { return t.size - 1 + leaf }

// InsertInTheta puts leaf into theta (required, energy-contributing).
func (t *LambdaThetaTree) InsertInTheta(leaf, ect, p int) {
	idx := t.leafIndex(leaf)
	t.energy[idx], t.ect[idx] = p, ect
	t.energyOpt[idx], t.ectOpt[idx] = p, ect
	t.responsible[idx] = -1
	t.bubble(idx)
}

// InsertInLambda puts leaf into lambda (optional: contributes only to the
// opt variant, and only if it is the single lambda leaf chosen).
func (t *LambdaThetaTree) InsertInLambda(leaf, ect, p int) {
	idx := t.leafIndex(leaf)
	t.energy[idx], t.ect[idx] = 0, negInf
	t.energyOpt[idx], t.ectOpt[idx] = p, ect
	t.responsible[idx] = leaf
	t.bubble(idx)
}

// Remove returns leaf to the absent state.
func (t *LambdaThetaTree) Remove(leaf int) {
	idx := t.leafIndex(leaf)
	t.energy[idx], t.ect[idx] = 0, negInf
	t.energyOpt[idx], t.ectOpt[idx] = 0, negInf
	t.responsible[idx] = -1
	t.bubble(idx)
}

func (t *LambdaThetaTree) bubble(idx int) {
	for idx > 0 {
		idx = (idx - 1) / 2
		l, r := 2*idx+1, 2*idx+2
		t.energy[idx] = t.energy[l] + t.energy[r]
		t.ect[idx] = max(t.ect[r], t.ect[l]+t.energy[r])
		t.energyOpt[idx] = max(t.energyOpt[l]+t.energy[r], t.energy[l]+t.energyOpt[r])

		best, resp := t.ect[idx], -1
		if t.ect[r] > best {
			best, resp = t.ect[r], -1
		}
		if v := t.ectOpt[r]; v > best {
			best, resp = v, t.responsible[r]
		}
		if v := t.ectOpt[l] + t.energy[r]; v > best {
			best, resp = v, t.responsible[l]
		}
		if v := t.ect[l] + t.energyOpt[r]; v > best {
			best, resp = v, t.responsible[r]
		}
		t.ectOpt[idx] = best
		t.responsible[idx] = resp
	}
}

// Ect returns the earliest completion time of theta alone (ignoring lambda).
func (t *LambdaThetaTree) Ect() int {
	if len(t.ect) == 0 {
		return negInf
	}
	return t.ect[0]
}

// EctOpt returns the earliest completion time of theta plus, optionally,
// whichever single lambda leaf pushes it out furthest.
func (t *LambdaThetaTree) EctOpt() int {
	if len(t.ectOpt) == 0 {
		return negInf
	}
	return t.ectOpt[0]
}

// ResponsibleOpt returns the lambda leaf responsible for EctOpt, or -1 if
// EctOpt is achieved by theta alone (or there is no lambda leaf at all).
func (t *LambdaThetaTree) ResponsibleOpt() int {
	if len(t.responsible) == 0 {
		return -1
	}
	return t.responsible[0]
}
