package session

import (
	"sync"
	"time"

	"github.com/LISSConsulting/mainloop/mainloop"
)

// Countdown continues until Remaining reaches zero. Starting from 3 it yields
// Continue, Continue, Terminate. A zero or negative start terminates on the
// first step.
type Countdown struct {
	Remaining int
}

// Step decrements the counter.
func (c *Countdown) Step() mainloop.Event {
	if c.Remaining > 0 {
		c.Remaining--
	}
	if c.Remaining <= 0 {
		return mainloop.Terminate
	}
	return mainloop.Continue
}

// Paced delays every step after the first by Interval. It blocks the calling
// goroutine, so it is only suitable for native runs.
type Paced struct {
	Inner    mainloop.Stepper
	Interval time.Duration
	Sleep    func(time.Duration) // defaults to time.Sleep

	stepped bool
}

// Step sleeps, then delegates to Inner.
func (p *Paced) Step() mainloop.Event {
	if p.stepped && p.Interval > 0 {
		sleep := p.Sleep
		if sleep == nil {
			sleep = time.Sleep
		}
		sleep(p.Interval)
	}
	p.stepped = true
	return p.Inner.Step()
}

// StopRequest is a one-shot stop signal that can be raised from any
// goroutine (signal handler, TUI key). Wrapped steppers observe it at their
// next step and terminate instead of stepping.
type StopRequest struct {
	ch   chan struct{}
	once sync.Once
}

// NewStopRequest returns an un-raised StopRequest.
func NewStopRequest() *StopRequest {
	return &StopRequest{ch: make(chan struct{})}
}

// Request raises the stop. Repeated calls are no-ops.
func (s *StopRequest) Request() {
	s.once.Do(func() { close(s.ch) })
}

// Requested reports whether Request has been called.
func (s *StopRequest) Requested() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done is closed once a stop has been requested.
func (s *StopRequest) Done() <-chan struct{} {
	return s.ch
}

// Wrap returns a Stepper that terminates without calling inner once a stop
// has been requested.
func (s *StopRequest) Wrap(inner mainloop.Stepper) mainloop.Stepper {
	return mainloop.StepperFunc(func() mainloop.Event {
		if s.Requested() {
			return mainloop.Terminate
		}
		return inner.Step()
	})
}
