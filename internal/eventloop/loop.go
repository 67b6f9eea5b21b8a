// Package eventloop provides a single execution context: one goroutine that
// runs submitted jobs one after another, in submission order.
//
// A job that does not return keeps the loop busy, and every job submitted
// behind it waits. Nothing in this package preempts or cancels a running job.
package eventloop

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("event loop stopped")

// Loop runs jobs on a single goroutine.
type Loop struct {
	jobs     chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	start    sync.Once
}

// New creates a Loop. It does not run jobs until Start is called.
func New() *Loop {
	return &Loop{
		jobs: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the loop goroutine. Calling it more than once has no effect.
func (l *Loop) Start() {
	l.start.Do(func() {
		go l.run()
	})
}

// Submit hands job to the loop and returns a channel that is closed once the
// job has returned. Submit blocks while the loop is busy with another job.
func (l *Loop) Submit(job func()) (<-chan struct{}, error) {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		job()
	}

	select {
	case <-l.quit:
		return nil, ErrStopped
	default:
	}

	select {
	case l.jobs <- wrapped:
		return finished, nil
	case <-l.quit:
		return nil, ErrStopped
	}
}

// Do submits job and waits for it to return.
func (l *Loop) Do(job func()) error {
	finished, err := l.Submit(job)
	if err != nil {
		return err
	}
	<-finished
	return nil
}

// Stop prevents the loop from accepting new jobs. A job already running
// finishes first.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
}

// Done returns a channel that is closed when the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case j := <-l.jobs:
			j()
		case <-l.quit:
			return
		}
	}
}
