package fdprop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositiveTableRejectsEmptyTuples(t *testing.T) {
	s := NewSolver()
	v, _ := s.NewIntVar(0, 1)
	_, err := NewPositiveTable([]*IntVar{v}, nil)
	require.Error(t, err)
}

func TestPositiveTableRejectsRaggedRows(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 1)
	v1, _ := s.NewIntVar(0, 1)
	_, err := NewPositiveTable([]*IntVar{v0, v1}, [][]int{{0}})
	require.Error(t, err)
}

func TestPositiveTablePrunesUnsupportedValues(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 2)
	v1, _ := s.NewIntVar(0, 2)
	tuples := [][]int{
		{0, 0},
		{1, 1},
	}
	pt, err := NewPositiveTable([]*IntVar{v0, v1}, tuples)
	require.NoError(t, err)
	require.NoError(t, s.AddConstraint(pt))
	require.NoError(t, s.InitialPropagate())
	require.False(t, v0.Contains(2))
	require.False(t, v1.Contains(2))
}

func TestPositiveTableForcesMatchingTuple(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 1)
	v1, _ := s.NewIntVar(0, 1)
	tuples := [][]int{
		{0, 1},
		{1, 0},
	}
	pt, err := NewPositiveTable([]*IntVar{v0, v1}, tuples)
	require.NoError(t, err)
	require.NoError(t, s.AddConstraint(pt))
	require.NoError(t, s.InitialPropagate())

	require.NoError(t, v0.SetValue(0))
	require.NoError(t, s.Propagate())
	require.True(t, v1.Bound())
	require.Equal(t, 1, v1.Value())
}

func TestPositiveTableFailsWhenNoTupleSurvives(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 1)
	v1, _ := s.NewIntVar(0, 1)
	tuples := [][]int{
		{0, 1},
		{1, 0},
	}
	pt, err := NewPositiveTable([]*IntVar{v0, v1}, tuples)
	require.NoError(t, err)
	require.NoError(t, s.AddConstraint(pt))
	require.NoError(t, s.InitialPropagate())

	require.NoError(t, v0.SetValue(0))
	require.NoError(t, s.Propagate())
	err = v1.SetValue(0)
	require.True(t, Failed(err))
}

func TestPositiveTableHandlesSparseValueDomain(t *testing.T) {
	s := NewSolver()
	v0, err := s.NewIntVarFromDomain([]int{0, 100, 200, 300, 400, 500})
	require.NoError(t, err)
	v1, _ := s.NewIntVar(0, 1)
	tuples := [][]int{
		{0, 0},
		{500, 1},
	}
	pt, err := NewPositiveTable([]*IntVar{v0, v1}, tuples)
	require.NoError(t, err)
	require.NoError(t, s.AddConstraint(pt))
	require.NoError(t, s.InitialPropagate())
	require.True(t, v0.Contains(0))
	require.True(t, v0.Contains(500))
	require.False(t, v0.Contains(100))
}
