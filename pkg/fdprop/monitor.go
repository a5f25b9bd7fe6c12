package fdprop

import (
	"sync/atomic"
	"time"
)

// SolverStats is a point-in-time snapshot of solver activity. All fields
// are updated with atomic operations so a monitoring goroutine can read a
// consistent snapshot without locking the (otherwise strictly
// single-threaded) solver, even though the engine itself never runs two
// goroutines at once.
type SolverStats struct {
	NodesExplored    int64
	Backtracks       int64
	SolutionsFound   int64
	ConstraintsAdded int64
	PeakTrailSize    int64
	PeakQueueSize    int64
	SearchTime       time.Duration
}

// SolverMonitor is a lock-free statistics collector owned by a Solver.
type SolverMonitor struct {
	nodesExplored    atomic.Int64
	backtracks       atomic.Int64
	solutionsFound   atomic.Int64
	constraintsAdded atomic.Int64
	peakTrailSize    atomic.Int64
	peakQueueSize    atomic.Int64
	startTime        time.Time
	searchTime       atomic.Int64
}

// NewSolverMonitor creates a monitor with its clock started.
func NewSolverMonitor() *SolverMonitor {
	return &SolverMonitor{startTime: time.Now()}
}

// Stats returns a consistent snapshot of the current statistics.
func (m *SolverMonitor) Stats() SolverStats {
	return SolverStats{
		NodesExplored:    m.nodesExplored.Load(),
		Backtracks:       m.backtracks.Load(),
		SolutionsFound:   m.solutionsFound.Load(),
		ConstraintsAdded: m.constraintsAdded.Load(),
		PeakTrailSize:    m.peakTrailSize.Load(),
		PeakQueueSize:    m.peakQueueSize.Load(),
		SearchTime:       time.Duration(m.searchTime.Load()),
	}
}

func (m *SolverMonitor) incConstraintsAdded() { m.constraintsAdded.Add(1) }
func (m *SolverMonitor) incBacktracks()       { m.backtracks.Add(1) }
func (m *SolverMonitor) incNodesExplored()    { m.nodesExplored.Add(1) }
func (m *SolverMonitor) incSolutionsFound()   { m.solutionsFound.Add(1) }

func (m *SolverMonitor) observeQueueLen(n int) {
	for {
		cur := m.peakQueueSize.Load()
		if int64(n) <= cur || m.peakQueueSize.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

func (m *SolverMonitor) observeTrailDepth(n int) {
	for {
		cur := m.peakTrailSize.Load()
		if int64(n) <= cur || m.peakTrailSize.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

func (m *SolverMonitor) recordSearchTime(d time.Duration) {
	m.searchTime.Store(int64(d))
}
