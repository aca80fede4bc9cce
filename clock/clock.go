// Package clock provides the monotonic time sources that drive the
// scheduler: the local system clock, and a clock published by another
// process through a named shared-memory region.
package clock

import "time"

// Source supplies monotonic time in seconds. The scheduler reads one
// sample per advance; implementations must be side-effect-free besides
// the read itself.
type Source interface {
	Now() float64
}

// System reads the local monotonic clock.
type System struct {
	epoch time.Time
}

// NewSystem creates a System source anchored at the current instant.
func NewSystem() *System {
	return &System{epoch: time.Now()}
}

// Now returns seconds elapsed since the source was created.
func (s *System) Now() float64 {
	return time.Since(s.epoch).Seconds()
}
