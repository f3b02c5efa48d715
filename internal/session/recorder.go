// Package session wraps a mainloop.Stepper with numbering, structured logging
// and cooperative stop handling for the spin demo.
package session

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LISSConsulting/mainloop/mainloop"
)

// Sink persists log entries. *store.JSONL satisfies this interface.
type Sink interface {
	Append(entry LogEntry) error
}

// Recorder is a mainloop.Stepper that numbers each step of Inner and reports
// it as a LogEntry. Steps are numbered 1..N without gaps.
type Recorder struct {
	Inner    mainloop.Stepper
	Project  string
	MaxSteps int // informational; 0 = unlimited

	Events chan<- LogEntry // TUI consumer; when nil entries go to Log
	Log    io.Writer       // defaults to os.Stdout
	Store  Sink            // optional durable log
	Hook   func(LogEntry)  // optional notification hook
	Stop   *StopRequest    // optional; distinguishes requested stops

	step    int
	started bool
	now     func() time.Time
}

// Step runs one step of Inner and emits the corresponding entries.
func (r *Recorder) Step() mainloop.Event {
	if !r.started {
		r.started = true
		r.emit(LogEntry{
			Kind:    LogRunStart,
			Message: fmt.Sprintf("Starting %s (max: %s)", r.projectLabel(), maxLabel(r.MaxSteps)),
		})
	}

	r.step++
	start := r.clock()
	ev := r.Inner.Step()
	r.emit(LogEntry{
		Kind:     LogStep,
		Step:     r.step,
		Event:    ev.String(),
		Duration: r.clock().Sub(start).Seconds(),
	})

	if ev == mainloop.Terminate {
		if r.Stop != nil && r.Stop.Requested() {
			r.emit(LogEntry{Kind: LogStopped, Step: r.step, Message: fmt.Sprintf("Stopped by request after %d steps", r.step)})
		} else {
			r.emit(LogEntry{Kind: LogTerminate, Step: r.step, Message: fmt.Sprintf("Terminated after %d steps", r.step)})
		}
	}
	return ev
}

// Steps reports how many steps have been dispatched so far.
func (r *Recorder) Steps() int {
	return r.step
}

// Done emits the final LogDone entry. Native callers invoke it after
// mainloop.Run returns; under js/wasm that point is never reached.
func (r *Recorder) Done() {
	r.emit(LogEntry{Kind: LogDone, Step: r.step, Message: fmt.Sprintf("Run complete: %d steps", r.step)})
}

// Errorf emits a LogError entry. Steppers use it to report the failure they
// are about to fold into Terminate.
func (r *Recorder) Errorf(format string, args ...any) {
	r.emit(LogEntry{Kind: LogError, Step: r.step, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) emit(entry LogEntry) {
	entry.Timestamp = r.clock()
	entry.MaxSteps = r.MaxSteps
	entry.Project = r.Project

	if r.Store != nil {
		if err := r.Store.Append(entry); err != nil {
			// A broken store must not stop the run; report once and detach it.
			r.Store = nil
			r.emit(LogEntry{Kind: LogError, Step: r.step, Message: fmt.Sprintf("store: %v (session log disabled)", err)})
		}
	}
	if r.Hook != nil {
		r.Hook(entry)
	}
	if r.Events != nil {
		r.Events <- entry
		return
	}
	w := r.Log
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, FormatLine(entry))
}

func (r *Recorder) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *Recorder) projectLabel() string {
	if r.Project == "" {
		return "run"
	}
	return r.Project
}

func maxLabel(max int) string {
	if max == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", max)
}
