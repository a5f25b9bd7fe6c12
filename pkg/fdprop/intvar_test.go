package fdprop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntVarRangeBasics(t *testing.T) {
	s := NewSolver()
	v, err := s.NewIntVar(1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, v.Min())
	require.Equal(t, 10, v.Max())
	require.Equal(t, 10, v.Size())
	require.False(t, v.Bound())
}

func TestIntVarSetValueBinds(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 5)
	require.NoError(t, v.SetValue(3))
	require.True(t, v.Bound())
	require.Equal(t, 3, v.Value())
}

func TestIntVarSetValueOutOfRangeFails(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 5)
	err := v.SetValue(9)
	require.True(t, Failed(err))
}

func TestIntVarRemoveValueInterior(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 5)
	require.NoError(t, v.RemoveValue(3))
	require.False(t, v.Contains(3))
	require.Equal(t, 5, v.Size())
	require.Equal(t, 0, v.Min())
	require.Equal(t, 5, v.Max())
}

func TestIntVarRemoveValueAtBoundTightens(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 5)
	require.NoError(t, v.RemoveValue(0))
	require.Equal(t, 1, v.Min())
}

func TestIntVarRemoveAllFails(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 0)
	err := v.RemoveValue(0)
	require.True(t, Failed(err))
}

func TestIntVarFromDomain(t *testing.T) {
	s := NewSolver()
	v, err := s.NewIntVarFromDomain([]int{2, 4, 6})
	require.NoError(t, err)
	require.Equal(t, 2, v.Min())
	require.Equal(t, 6, v.Max())
	require.True(t, v.Contains(4))
	require.False(t, v.Contains(3))
	require.Equal(t, 3, v.Size())
}

func TestIntVarIterateDomainSkipsHoles(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 4)
	require.NoError(t, v.RemoveValue(2))
	var seen []int
	v.IterateDomain(func(val int) { seen = append(seen, val) })
	require.Equal(t, []int{0, 1, 3, 4}, seen)
}

func TestIntVarWatchersFireOnDemand(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 5)
	fired := 0
	d := newDemon("watch", Normal, func(s *Solver) error { fired++; return nil })
	v.WhenRangeDo(d)
	require.NoError(t, v.SetMin(2))
	require.NoError(t, s.queue.RunToFixpoint())
	require.Equal(t, 1, fired)
}
