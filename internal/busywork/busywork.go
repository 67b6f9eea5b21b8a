// Package busywork emulates an expensive synchronous computation.
//
// The Simulator waits by polling the clock in a tight loop. It never sleeps
// and never yields, so whatever execution context calls it stays occupied
// for the whole duration.
package busywork

import (
	"time"

	"github.com/loopblock/loopblock/internal/logging"
)

// Result is the message returned once the simulated work is finished.
const Result = "Long operation finished!"

// Clock reports the current time.
type Clock func() time.Time

// Simulator occupies its caller for a fixed duration.
type Simulator struct {
	duration time.Duration
	log      *logging.Logger
	now      Clock
}

// New creates a Simulator that spins for d.
func New(d time.Duration, log *logging.Logger) *Simulator {
	return &Simulator{duration: d, log: log, now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *Simulator) WithClock(now Clock) *Simulator {
	c := *s
	c.now = now
	return &c
}

// Duration returns how long Run keeps the caller busy.
func (s *Simulator) Duration() time.Duration {
	return s.duration
}

// Run performs the blocking work and returns Result. It cannot be cancelled.
func (s *Simulator) Run() string {
	s.log.Log(logging.Clock, "Started processing slow request")

	Spin(s.duration, s.now)

	s.log.Log(logging.Slow, "Finished processing slow request")
	return Result
}

// Spin returns once at least d has elapsed according to now, checking the
// clock continuously.
func Spin(d time.Duration, now Clock) {
	start := now()
	for now().Sub(start) < d {
	}
}
