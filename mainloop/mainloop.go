// Package mainloop drives a "run this step until told to stop" loop on both
// native targets and js/wasm.
//
// On native builds Run is an ordinary blocking loop and returns once the
// Stepper terminates. Under js/wasm a blocking loop would freeze the page, so
// Run hands the step to the browser's requestAnimationFrame and never returns:
// code after the Run call is unreachable there, even after termination.
package mainloop

// Stepper is implemented by the state that should be advanced once per loop
// iteration. Step is the loop body; its result decides whether another
// iteration happens. Failures must be reported as Terminate.
type Stepper interface {
	Step() Event
}

// StepperFunc adapts a plain function to the Stepper interface.
type StepperFunc func() Event

// Step calls f.
func (f StepperFunc) Step() Event { return f() }

// quitFlag is the termination cell shared by the iteration wrapper and the
// loop check. Only the goroutine (or host callback) driving iterations touches
// it, so it needs no synchronization.
type quitFlag struct {
	set bool
}

func (q *quitFlag) quit()         { q.set = true }
func (q *quitFlag) stopped() bool { return q.set }

// iterate runs one loop iteration. Once the flag is set nothing is dispatched
// to s again.
func iterate(s Stepper, q *quitFlag) Event {
	if q.stopped() {
		return Terminate
	}
	switch s.Step() {
	case Terminate:
		q.quit()
		return Terminate
	default:
		return Continue
	}
}
