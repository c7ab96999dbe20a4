package reconcile

import "time"

// Clock abstracts wall time so staleness checks can be driven by a fake
// clock in tests instead of real sleeps.
type Clock interface {
    Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock.
func SystemClock() Clock { return systemClock{} }
