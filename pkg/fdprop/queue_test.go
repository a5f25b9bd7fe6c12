package fdprop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueDedupesWithinGeneration(t *testing.T) {
	s := NewSolver()
	runs := 0
	d := newDemon("d", Normal, func(s *Solver) error { runs++; return nil })
	s.queue.Enqueue(d)
	s.queue.Enqueue(d)
	s.queue.Enqueue(d)
	require.Equal(t, 1, s.queue.Len())
	require.NoError(t, s.queue.RunToFixpoint())
	require.Equal(t, 1, runs)
}

func TestQueueNormalBeforeDelayed(t *testing.T) {
	s := NewSolver()
	var order []string
	nd := newDemon("normal", Normal, func(s *Solver) error { order = append(order, "normal"); return nil })
	dd := newDemon("delayed", Delayed, func(s *Solver) error { order = append(order, "delayed"); return nil })
	s.queue.Enqueue(dd)
	s.queue.Enqueue(nd)
	require.NoError(t, s.queue.RunToFixpoint())
	require.Equal(t, []string{"normal", "delayed"}, order)
}

func TestQueueClear(t *testing.T) {
	s := NewSolver()
	d := newDemon("d", Normal, func(s *Solver) error { return nil })
	s.queue.Enqueue(d)
	s.queue.Clear()
	require.Equal(t, 0, s.queue.Len())
}

func TestQueueReenqueueAfterFailStampBump(t *testing.T) {
	s := NewSolver()
	runs := 0
	d := newDemon("d", Normal, func(s *Solver) error { runs++; return nil })
	s.queue.Enqueue(d)
	require.NoError(t, s.queue.RunToFixpoint())
	s.trail.IncrementFailStamp()
	s.queue.Enqueue(d)
	require.NoError(t, s.queue.RunToFixpoint())
	require.Equal(t, 2, runs)
}
