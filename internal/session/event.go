package session

import (
	"fmt"
	"time"
)

// LogKind identifies the type of a session log event.
type LogKind int

const (
	LogInfo      LogKind = iota // General informational message
	LogRunStart                 // First step about to be dispatched
	LogStep                     // One step finished
	LogTerminate                // Stepper returned Terminate
	LogError                    // Failure folded into Terminate, or a sink error
	LogDone                     // Driver returned to the caller (native only)
	LogStopped                  // Terminated because a stop was requested
)

func (k LogKind) String() string {
	switch k {
	case LogInfo:
		return "info"
	case LogRunStart:
		return "start"
	case LogStep:
		return "step"
	case LogTerminate:
		return "terminate"
	case LogError:
		return "error"
	case LogDone:
		return "done"
	case LogStopped:
		return "stopped"
	default:
		return fmt.Sprintf("LogKind(%d)", int(k))
	}
}

// LogEntry is a structured event emitted while a session runs.
// When Recorder.Events is set, entries are sent there for TUI consumption.
// Otherwise, they fall back to the Recorder.Log io.Writer.
type LogEntry struct {
	Kind      LogKind
	Timestamp time.Time
	Message   string

	// Step state
	Step     int    // 1-based step number; 0 for run-level entries
	MaxSteps int    // 0 = unlimited
	Event    string // "continue" or "terminate" for LogStep entries
	Duration float64 // seconds spent inside Step

	Project string
}

// FormatLine renders entry as a single plain-text log line.
func FormatLine(entry LogEntry) string {
	ts := entry.Timestamp.Format("15:04:05")
	switch entry.Kind {
	case LogStep:
		return fmt.Sprintf("[%s]  step %s  %s  (%.3fs)", ts, stepLabel(entry.Step, entry.MaxSteps), entry.Event, entry.Duration)
	case LogError:
		return fmt.Sprintf("[%s]  error: %s", ts, entry.Message)
	default:
		return fmt.Sprintf("[%s]  %s", ts, entry.Message)
	}
}

func stepLabel(n, max int) string {
	if max == 0 {
		return fmt.Sprintf("%d/∞", n)
	}
	return fmt.Sprintf("%d/%d", n, max)
}
