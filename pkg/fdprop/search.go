package fdprop

import "time"

// Search is a minimal depth-first labeling driver built on the core's
// checkpoint/restore hooks. The full phase-strategy / limits / log search
// monitor stack is out of scope; this exists only to exercise
// the propagators end-to-end and to satisfy the external-interface shape
// (NewSearch, NextSolution, EndSearch).
//
// Branching is static: variables are tried in the order given, each
// instantiated to its smallest remaining value first, values retried in
// ascending order on backtrack. This is sufficient to enumerate every
// solution; it says nothing about search efficiency on hard instances.
type Search struct {
	solver   *Solver
	vars     []*IntVar
	started  bool
	eof      bool
	sigNext  chan bool
	sigEvent chan searchEvent
}

type searchEvent struct {
	solution bool
	err      error
}

// NewSearch creates a search over vars (the decision variables, in
// branching order). Call Solver.InitialPropagate before NewSearch.
func NewSearch(s *Solver, vars []*IntVar) *Search {
	return &Search{
		solver:   s,
		vars:     vars,
		sigNext:  make(chan bool, 1),
		sigEvent: make(chan searchEvent, 1),
	}
}

// NextSolution advances the search to the next solution. Returns
// (true, nil) with every variable in vars bound on success, (false, nil)
// once the search space is exhausted, or (false, err) if propagation
// raised a non-failure error.
func (sr *Search) NextSolution() (bool, error) {
	if sr.eof {
		return false, nil
	}
	if !sr.started {
		sr.started = true
		go sr.run()
	} else {
		sr.sigNext <- false
	}
	ev := <-sr.sigEvent
	if ev.solution {
		return true, nil
	}
	sr.eof = true
	return false, ev.err
}

// EndSearch stops the search, releasing its goroutine. Safe to call
// multiple times and safe to call without ever having found a solution.
func (sr *Search) EndSearch() {
	if sr.eof {
		return
	}
	if sr.started {
		select {
		case sr.sigNext <- true:
		default:
		}
	}
	sr.eof = true
}

func (sr *Search) run() {
	start := time.Now()
	err := runDFS(sr.solver, sr.vars, func() bool {
		sr.solver.monitor.incSolutionsFound()
		sr.sigEvent <- searchEvent{solution: true}
		return <-sr.sigNext
	})
	sr.solver.monitor.recordSearchTime(time.Since(start))
	sr.sigEvent <- searchEvent{solution: false, err: err}
}

// runDFS performs static-order depth-first labeling over vars, calling
// emit() once every variable is bound. emit returns true to stop the
// search early. runDFS returns a non-nil error only for a non-ErrFail
// error surfacing from propagation; ErrFail outcomes are backtracked
// silently.
func runDFS(s *Solver, vars []*IntVar, emit func() bool) error {
	var rec func(idx int) (bool, error)
	rec = func(idx int) (bool, error) {
		for idx < len(vars) && vars[idx].Bound() {
			idx++
		}
		if idx == len(vars) {
			s.monitor.incNodesExplored()
			return emit(), nil
		}
		v := vars[idx]
		var values []int
		v.IterateDomain(func(val int) { values = append(values, val) })
		for _, val := range values {
			if !v.Contains(val) {
				continue
			}
			ck := s.Checkpoint()
			s.monitor.incNodesExplored()
			err := v.SetValue(val)
			if err == nil {
				err = s.Propagate()
			}
			if err == nil {
				stop, rerr := rec(idx + 1)
				if rerr != nil {
					return false, rerr
				}
				if stop {
					return true, nil
				}
				s.RestoreAfterFail(ck)
				continue
			}
			if !Failed(err) {
				return false, err
			}
			s.RestoreAfterFail(ck)
		}
		return false, nil
	}
	_, err := rec(0)
	return err
}
