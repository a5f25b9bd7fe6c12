package fdprop

import "fmt"

// ExampleCount enumerates every assignment of three 0/1 variables with
// exactly two of them equal to 1, the minimal scenario spec.md's testable
// properties use to pin down Count's forcing rules.
func ExampleCount() {
	s := NewSolver()
	vars := make([]*IntVar, 3)
	for i := range vars {
		vars[i], _ = s.NewIntVar(0, 1)
	}
	count, _ := s.NewIntVar(2, 2)

	c := NewCount(vars, 1, count)
	if err := s.AddConstraint(c); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := s.InitialPropagate(); err != nil {
		fmt.Println("error:", err)
		return
	}

	search := NewSearch(s, vars)
	defer search.EndSearch()
	for {
		found, err := search.NextSolution()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if !found {
			return
		}
		fmt.Printf("x0=%d x1=%d x2=%d\n", vars[0].Value(), vars[1].Value(), vars[2].Value())
	}
	// Output:
	// x0=0 x1=1 x2=1
	// x0=1 x1=0 x2=1
	// x0=1 x1=1 x2=0
}

// ExampleDistribute shows the fast (partition) specialization tightening
// every cardinality's bounds as soon as two of three variables are pinned.
func ExampleDistribute() {
	s := NewSolver()
	vars := make([]*IntVar, 3)
	for i := range vars {
		vars[i], _ = s.NewIntVar(0, 2)
	}
	cards := make([]*IntVar, 3)
	for j := range cards {
		cards[j], _ = s.NewIntVar(0, 3)
	}

	d, err := NewDistributeFast(vars, cards)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := s.AddConstraint(d); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := s.InitialPropagate(); err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := vars[0].SetValue(0); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := vars[1].SetValue(0); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := s.Propagate(); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("card0 in [%d,%d]\n", cards[0].Min(), cards[0].Max())
	fmt.Printf("card1 in [%d,%d]\n", cards[1].Min(), cards[1].Max())
	fmt.Printf("card2 in [%d,%d]\n", cards[2].Min(), cards[2].Max())
	// Output:
	// card0 in [2,3]
	// card1 in [0,1]
	// card2 in [0,1]
}
