package mainloop

import "fmt"

// Event is the outcome of one Step: keep going or stop.
type Event int

const (
	Continue  Event = iota // Run the next iteration
	Terminate              // Stop iterating; no further Step calls
)

func (e Event) String() string {
	switch e {
	case Continue:
		return "continue"
	case Terminate:
		return "terminate"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}
