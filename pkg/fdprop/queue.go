package fdprop

// Priority is a demon's scheduling class in the two-priority demon queue.
type Priority int

const (
	// Normal demons run before any Delayed demon in the same fixed-point
	// iteration. Most propagators (bounds tightening in response to a
	// single variable event) use Normal priority.
	Normal Priority = iota
	// Delayed demons accumulate several variable events before running a
	// single, more expensive sweep (Pack, Disjunctive).
	Delayed
)

// demon is a pending unit of propagation work: a closure bound to its
// owning constraint plus a small payload, and a stamp used to deduplicate
// enqueues while the demon is waiting in the queue. State lives in the
// constraint, not in the demon itself.
type demon struct {
	name     string
	priority Priority
	stamp    uint64
	run      func(s *Solver) error
}

// newDemon creates a demon that will invoke run when popped from the queue.
func newDemon(name string, priority Priority, run func(s *Solver) error) *demon {
	return &demon{name: name, priority: priority, run: run}
}

// Queue is the two-priority demon queue: a FIFO
// for Normal demons and a FIFO for Delayed demons, with stamp-based
// deduplication keyed to the solver's trail fail-stamp.
type Queue struct {
	solver  *Solver
	normal  []*demon
	delayed []*demon
}

func newQueue(s *Solver) *Queue {
	return &Queue{solver: s}
}

// Enqueue appends d to its priority's sub-queue, unless d was already
// enqueued during the current fail-stamp generation and has not run yet.
func (q *Queue) Enqueue(d *demon) {
	fs := q.solver.trail.FailStamp()
	if d.stamp == fs {
		return
	}
	d.stamp = fs
	switch d.priority {
	case Normal:
		q.normal = append(q.normal, d)
	default:
		q.delayed = append(q.delayed, d)
	}
}

// ProcessOne pops one demon (Normal first, then Delayed) and runs it.
// Popping clears the demon's stamp, so a later event can enqueue it again.
// Reports false if both sub-queues were empty.
func (q *Queue) ProcessOne() (bool, error) {
	var d *demon
	if len(q.normal) > 0 {
		d, q.normal = q.normal[0], q.normal[1:]
	} else if len(q.delayed) > 0 {
		d, q.delayed = q.delayed[0], q.delayed[1:]
	} else {
		return false, nil
	}
	d.stamp = 0
	return true, d.run(q.solver)
}

// RunToFixpoint drains both sub-queues, running demons until both are
// empty or a failure propagates out.
func (q *Queue) RunToFixpoint() error {
	for {
		more, err := q.ProcessOne()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Clear empties both sub-queues. Called whenever a failure unwinds, so a
// half-processed fixed-point iteration never leaks stale work into the
// next one.
func (q *Queue) Clear() {
	q.normal = q.normal[:0]
	q.delayed = q.delayed[:0]
}

// Len reports the total number of demons currently queued, used for
// SolverMonitor.PeakQueueSize.
func (q *Queue) Len() int {
	return len(q.normal) + len(q.delayed)
}
