package tui

import "github.com/LISSConsulting/mainloop/internal/session"

// logEntryMsg wraps a LogEntry as a bubbletea message.
type logEntryMsg session.LogEntry

// runDoneMsg signals the event channel has closed.
type runDoneMsg struct{}
