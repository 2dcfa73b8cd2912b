package wizard

import "time"

// DefaultAutoAdvanceDelay is how long the navigator waits after a
// single-choice answer before advancing on its own.
const DefaultAutoAdvanceDelay = 300 * time.Millisecond

// Timer is a cancellable scheduled task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. The navigator owns at most one pending
// timer at a time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
