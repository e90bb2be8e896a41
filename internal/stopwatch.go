package internal

import "time"

// Stopwatch accumulates time across several start/stop intervals.
type Stopwatch struct {
	now     func() time.Time
	started time.Time
	running bool
	elapsed time.Duration
}

// NewStopwatch creates a stopped stopwatch. A nil clock uses time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start begins an interval. Starting a running stopwatch does nothing.
func (watch *Stopwatch) Start() {
	if watch.running {
		return
	}
	watch.started = watch.now()
	watch.running = true
}

// Stop ends the current interval and adds it to the total.
func (watch *Stopwatch) Stop() {
	if !watch.running {
		return
	}
	watch.elapsed += watch.now().Sub(watch.started)
	watch.running = false
}

// Elapsed returns the accumulated time, including a running interval.
func (watch *Stopwatch) Elapsed() time.Duration {
	if watch.running {
		return watch.elapsed + watch.now().Sub(watch.started)
	}
	return watch.elapsed
}
