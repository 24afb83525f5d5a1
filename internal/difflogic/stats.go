package difflogic

import (
	"time"
)

// ThreadStats accumulates the time one solver thread spent inside the
// propagator's callbacks.
type ThreadStats struct {
	TimePropagate time.Duration
	TimeUndo      time.Duration
}

// Stats accumulates timing statistics across a solve run. Threads is
// sized by Propagator.Init to the host's thread count.
type Stats struct {
	TimeTotal time.Duration
	TimeInit  time.Duration
	Threads   []ThreadStats
}

// startTimer returns a stop function that adds the elapsed time to d.
// Use as: defer startTimer(&stats.TimeInit)().
func startTimer(d *time.Duration) func() {
	start := time.Now()
	return func() {
		*d += time.Since(start)
	}
}
