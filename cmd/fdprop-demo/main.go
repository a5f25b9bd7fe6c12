// Package main demonstrates the fdprop constraint-propagation kernel on a
// handful of small scheduling and packing problems.
package main

import (
	"fmt"

	"github.com/gocp-solver/fdprop/pkg/fdprop"
)

func main() {
	fmt.Println("=== fdprop Examples ===")
	fmt.Println()

	sendMoreMoney()
	binPacking()
	jobShop()
}

// sendMoreMoney assigns distinct digits to the letters of SEND+MORE=MONEY
// using Distribute's fast (partition) specialization as an all-different
// constraint. It does not encode the arithmetic sum itself — only the
// distinctness half of the classic puzzle.
func sendMoreMoney() {
	fmt.Println("1. SEND MORE MONEY letters, all distinct (Distribute fast form):")

	s := fdprop.NewSolver()
	letters := make([]*fdprop.IntVar, 8)
	names := []string{"S", "E", "N", "D", "M", "O", "R", "Y"}
	for i, name := range names {
		lo := 0
		if name == "S" || name == "M" {
			lo = 1
		}
		v, _ := s.NewIntVar(lo, 9)
		v.SetName(name)
		letters[i] = v
	}

	cards := make([]*fdprop.IntVar, 10)
	for v := 0; v < 10; v++ {
		c, _ := s.NewBoolVar()
		cards[v] = c
	}
	dist, err := fdprop.NewDistributeFast(letters, cards)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	if err := s.AddConstraint(dist); err != nil {
		fmt.Println("   error:", err)
		return
	}

	if err := s.InitialPropagate(); err != nil && !fdprop.Failed(err) {
		fmt.Println("   error:", err)
		return
	}

	search := fdprop.NewSearch(s, letters)
	defer search.EndSearch()
	found, err := search.NextSolution()
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	if !found {
		fmt.Println("   no solution found under this simplified all-different encoding")
		return
	}
	for i, name := range names {
		fmt.Printf("   %s=%d ", name, letters[i].Value())
	}
	fmt.Println()
	fmt.Println()
}

// binPacking packs six weighted items into three bins of capacity 10.
func binPacking() {
	fmt.Println("2. Bin packing:")

	s := fdprop.NewSolver()
	weights := []int{6, 5, 4, 3, 2, 2}
	vars := make([]*fdprop.IntVar, len(weights))
	for i := range vars {
		v, _ := s.NewIntVar(0, 2)
		v.SetName(fmt.Sprintf("item%d", i))
		vars[i] = v
	}

	pack := fdprop.NewPack(vars, 3)
	bounds := make([]*fdprop.IntVar, 3)
	for b := range bounds {
		bv, _ := s.NewIntVar(0, 10)
		bounds[b] = bv
	}
	pack.AddDimension(fdprop.NewWeightedSumLE(weights, bounds))
	if err := s.AddConstraint(pack); err != nil {
		fmt.Println("   error:", err)
		return
	}

	if err := s.InitialPropagate(); err != nil && !fdprop.Failed(err) {
		fmt.Println("   error:", err)
		return
	}

	search := fdprop.NewSearch(s, vars)
	defer search.EndSearch()
	found, err := search.NextSolution()
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	if !found {
		fmt.Println("   infeasible")
		return
	}
	for i, v := range vars {
		fmt.Printf("   item%d(w=%d) -> bin %d\n", i, weights[i], v.Value())
	}
	fmt.Println()
}

// jobShop schedules four unit-resource tasks with a Disjunctive constraint.
func jobShop() {
	fmt.Println("3. Job shop (Disjunctive):")

	s := fdprop.NewSolver()
	durations := []int{3, 2, 4, 1}
	starts := make([]*fdprop.IntVar, len(durations))
	for i := range starts {
		v, _ := s.NewIntVar(0, 20)
		v.SetName(fmt.Sprintf("task%d", i))
		starts[i] = v
	}

	disj, err := fdprop.NewDisjunctive(starts, durations)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	if err := s.AddConstraint(disj); err != nil {
		fmt.Println("   error:", err)
		return
	}

	if err := s.InitialPropagate(); err != nil && !fdprop.Failed(err) {
		fmt.Println("   error:", err)
		return
	}

	search := fdprop.NewSearch(s, starts)
	defer search.EndSearch()
	found, err := search.NextSolution()
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	if !found {
		fmt.Println("   infeasible")
		return
	}
	for i, v := range starts {
		fmt.Printf("   task%d: start=%d duration=%d\n", i, v.Value(), durations[i])
	}

	stats := s.Monitor().Stats()
	fmt.Printf("   nodes=%d backtracks=%d solutions=%d\n", stats.NodesExplored, stats.Backtracks, stats.SolutionsFound)
}
