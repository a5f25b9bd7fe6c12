package fdprop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevSetValueAndRestore(t *testing.T) {
	tr := NewTrail()
	r := NewRev(tr, 10)
	ck := tr.Checkpoint()
	r.SetValue(20)
	require.Equal(t, 20, r.Value())
	tr.IncrementFailStamp()
	tr.Restore(ck)
	require.Equal(t, 10, r.Value())
}

func TestRevSingleTrailEntryPerStamp(t *testing.T) {
	tr := NewTrail()
	r := NewRev(tr, 0)
	ck := tr.Checkpoint()
	r.SetValue(1)
	r.SetValue(2)
	r.SetValue(3)
	require.Equal(t, int(ck)+1, tr.Depth(), "repeated writes in one generation should cost one trail entry")
}

func TestRevBitSetBasic(t *testing.T) {
	tr := NewTrail()
	b := NewRevBitSet(tr, 10)
	require.True(t, b.Empty())
	b.SetToOne(3)
	b.SetToOne(7)
	require.True(t, b.IsSet(3))
	require.False(t, b.IsSet(4))
	require.Equal(t, 2, b.Cardinality())
	require.Equal(t, 3, b.GetFirstBit(0))

	var seen []int
	b.ForEachSet(func(i int) { seen = append(seen, i) })
	require.Equal(t, []int{3, 7}, seen)
}

func TestRevBitSetAllOnesAndRestore(t *testing.T) {
	tr := NewTrail()
	b := NewRevBitSetAllOnes(tr, 5)
	require.Equal(t, 5, b.Cardinality())
	ck := tr.Checkpoint()
	b.SetToZero(2)
	require.Equal(t, 4, b.Cardinality())
	tr.IncrementFailStamp()
	tr.Restore(ck)
	require.Equal(t, 5, b.Cardinality())
}

func TestRevBitMatrix(t *testing.T) {
	tr := NewTrail()
	m := NewRevBitMatrix(tr, 3, 5, true)
	require.Equal(t, 5, m.RowCardinality(0))
	ck := tr.Checkpoint()
	m.SetToZero(0, 2)
	m.SetToZero(0, 4)
	require.Equal(t, 3, m.RowCardinality(0))

	var cols []int
	m.ForEachSetInRow(0, func(c int) { cols = append(cols, c) })
	require.Equal(t, []int{0, 1, 3}, cols)

	tr.IncrementFailStamp()
	tr.Restore(ck)
	require.Equal(t, 5, m.RowCardinality(0))
}

func TestRevBitSetAndMaskAndIntersects(t *testing.T) {
	tr := NewTrail()
	b := NewRevBitSetAllOnes(tr, 130) // spans 3 words
	require.True(t, b.IntersectsMask([]uint64{1, 0, 0}))
	b.AndMask([]uint64{0x3, 0, 0})
	require.Equal(t, 2, b.Cardinality())
	require.False(t, b.IntersectsMask([]uint64{0, 1, 0}))
}
