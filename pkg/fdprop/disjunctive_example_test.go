package fdprop

import "fmt"

// ExampleDisjunctive shows detectable precedences forcing a later start the
// moment one task's domain is pinned ahead of another: task0 is fixed to
// start at 0 and occupies the resource for 5 units, so task1 (duration 5,
// otherwise free in [0,10]) cannot begin before time 5.
func ExampleDisjunctive() {
	s := NewSolver()
	start0, _ := s.NewIntVar(0, 0)
	start1, _ := s.NewIntVar(0, 10)

	disj, err := NewDisjunctive([]*IntVar{start0, start1}, []int{5, 5})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := s.AddConstraint(disj); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := s.InitialPropagate(); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("task1 start in [%d,%d]\n", start1.Min(), start1.Max())
	// Output:
	// task1 start in [5,10]
}
