package mainloop

// Limit returns a Stepper that forwards at most n steps to s. It reports
// Terminate on the nth forwarded step, or earlier if s terminates. With
// n <= 0 it terminates without calling s.
func Limit(s Stepper, n int) Stepper {
	return &limited{inner: s, remaining: n}
}

type limited struct {
	inner     Stepper
	remaining int
}

func (l *limited) Step() Event {
	if l.remaining <= 0 {
		return Terminate
	}
	l.remaining--
	ev := l.inner.Step()
	if l.remaining == 0 {
		return Terminate
	}
	return ev
}

// Fallible adapts a step that can fail. A non-nil error is passed to onErr
// (when set) and turns into Terminate regardless of the returned Event.
func Fallible(fn func() (Event, error), onErr func(error)) Stepper {
	return StepperFunc(func() Event {
		ev, err := fn()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return Terminate
		}
		return ev
	})
}

// Chain runs each stepper in turn until it terminates, then moves on to the
// next one. The chain terminates together with its last stepper. An empty
// chain terminates immediately.
func Chain(steppers ...Stepper) Stepper {
	return &chain{steppers: steppers}
}

type chain struct {
	steppers []Stepper
}

func (c *chain) Step() Event {
	if len(c.steppers) == 0 {
		return Terminate
	}
	if c.steppers[0].Step() == Terminate {
		c.steppers = c.steppers[1:]
		if len(c.steppers) == 0 {
			return Terminate
		}
	}
	return Continue
}
