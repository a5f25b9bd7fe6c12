package fdprop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchEnumeratesAllSolutionsInStaticOrder(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 1)
	v1, _ := s.NewIntVar(0, 1)
	require.NoError(t, s.InitialPropagate())

	sr := NewSearch(s, []*IntVar{v0, v1})
	var got [][2]int
	for {
		ok, err := sr.NextSolution()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, [2]int{v0.Value(), v1.Value()})
	}
	require.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, got)
}

func TestSearchRespectsConstraintPruning(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 1)
	v1, _ := s.NewIntVar(0, 1)
	cards := make([]*IntVar, 2)
	cards[0], _ = s.NewIntVar(1, 1)
	cards[1], _ = s.NewIntVar(1, 1)
	d, err := NewDistributeFast([]*IntVar{v0, v1}, cards)
	require.NoError(t, err)
	require.NoError(t, s.AddConstraint(d))
	require.NoError(t, s.InitialPropagate())

	sr := NewSearch(s, []*IntVar{v0, v1})
	var got [][2]int
	for {
		ok, err := sr.NextSolution()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, [2]int{v0.Value(), v1.Value()})
	}
	// exactly one of each value per variable: only the two "all-different" assignments survive.
	require.Equal(t, [][2]int{{0, 1}, {1, 0}}, got)
}

func TestSearchEndSearchStopsEarlyWithoutLeakingGoroutine(t *testing.T) {
	s := NewSolver()
	v0, _ := s.NewIntVar(0, 1)
	v1, _ := s.NewIntVar(0, 1)
	require.NoError(t, s.InitialPropagate())

	sr := NewSearch(s, []*IntVar{v0, v1})
	ok, err := sr.NextSolution()
	require.NoError(t, err)
	require.True(t, ok)

	sr.EndSearch()
	ok, err = sr.NextSolution()
	require.NoError(t, err)
	require.False(t, ok)
}
