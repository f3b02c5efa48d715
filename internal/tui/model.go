package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/mainloop/internal/session"
	"github.com/LISSConsulting/mainloop/internal/tui/components"
)

// Model is the bubbletea model for a spin run.
type Model struct {
	events      <-chan session.LogEntry
	requestStop func()
	theme       Theme

	log      components.LogView
	progress progress.Model
	width    int
	height   int

	project   string
	step      int
	maxSteps  int
	lastEvent string
	outcome   string
	stopping  bool
	done      bool
}

// New creates a TUI Model that consumes events from the given channel.
// requestStop is called once when the user asks to stop; the run ends when
// the stepper observes it and the channel closes.
func New(events <-chan session.LogEntry, accentColor, project string, requestStop func()) Model {
	theme := NewTheme(accentColor)
	return Model{
		events:      events,
		requestStop: requestStop,
		theme:       theme,
		log:         components.NewLogView(80, 21),
		progress:    progress.New(progress.WithSolidFill(string(theme.accent)), progress.WithoutPercentage()),
		width:       80,
		height:      24,
		project:     project,
	}
}

// Init returns the initial command: start listening for events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Done reports whether the event channel has closed.
func (m Model) Done() bool {
	return m.done
}

// Outcome returns the kind of the run's final entry ("terminate",
// "stopped") or "" if the run has not finished.
func (m Model) Outcome() string {
	return m.outcome
}

// waitForEvent returns a command that blocks on the event channel.
func waitForEvent(ch <-chan session.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return runDoneMsg{}
		}
		return logEntryMsg(entry)
	}
}
