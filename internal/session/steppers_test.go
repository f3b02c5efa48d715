//go:build !(js && wasm)

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LISSConsulting/mainloop/mainloop"
)

func TestCountdown(t *testing.T) {
	tests := []struct {
		name  string
		start int
		want  []mainloop.Event
	}{
		{"from three", 3, []mainloop.Event{mainloop.Continue, mainloop.Continue, mainloop.Terminate}},
		{"from one", 1, []mainloop.Event{mainloop.Terminate}},
		{"from zero", 0, []mainloop.Event{mainloop.Terminate}},
		{"negative", -2, []mainloop.Event{mainloop.Terminate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Countdown{Remaining: tt.start}
			var got []mainloop.Event
			for i := 0; i < len(tt.want); i++ {
				got = append(got, c.Step())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaced(t *testing.T) {
	var slept []time.Duration
	p := &Paced{
		Inner:    &Countdown{Remaining: 3},
		Interval: 50 * time.Millisecond,
		Sleep:    func(d time.Duration) { slept = append(slept, d) },
	}

	mainloop.Run(p)

	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, slept, "no delay before the first step")
}

func TestStopRequest(t *testing.T) {
	s := NewStopRequest()
	assert.False(t, s.Requested())

	s.Request()
	s.Request() // idempotent

	assert.True(t, s.Requested())
	select {
	case <-s.Done():
	default:
		t.Fatal("Done channel should be closed")
	}

	called := false
	ev := s.Wrap(mainloop.StepperFunc(func() mainloop.Event { called = true; return mainloop.Continue })).Step()
	assert.Equal(t, mainloop.Terminate, ev)
	assert.False(t, called)
}
