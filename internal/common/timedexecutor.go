package common

import (
	"time"
)

// TimedExecutor runs a task at most once per interval. Call Execute
// from whatever cadence is convenient; calls landing before the
// interval has passed do nothing. The first call always runs
type TimedExecutor struct {
	interval time.Duration
	lastRun  time.Time
	task     func()
}

func NewTimedExecutor(interval time.Duration, task func()) TimedExecutor {
	return TimedExecutor{interval: interval, task: task}
}

// Execute the task if the interval has passed, else do nothing
func (te *TimedExecutor) Execute() {
	if !te.lastRun.IsZero() && time.Since(te.lastRun) < te.interval {
		return
	}
	te.lastRun = time.Now()
	te.task()
}
