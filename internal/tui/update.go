package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/mainloop/internal/session"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log = m.log.SetSize(msg.Width, m.logHeight())
		m.progress.Width = msg.Width - 4
		return m, nil

	case logEntryMsg:
		return m.handleLogEntry(session.LogEntry(msg))

	case runDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Stop):
		if m.stopping || m.done {
			// Second request: leave without waiting for the stepper.
			return m, tea.Quit
		}
		m.stopping = true
		if m.requestStop != nil {
			m.requestStop()
		}
		return m, nil
	case key.Matches(msg, keys.Follow):
		m.log = m.log.ToggleFollow()
		return m, nil
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) handleLogEntry(entry session.LogEntry) (tea.Model, tea.Cmd) {
	if entry.Project != "" {
		m.project = entry.Project
	}
	if entry.MaxSteps > 0 {
		m.maxSteps = entry.MaxSteps
	}
	if entry.Step > m.step {
		m.step = entry.Step
	}
	switch entry.Kind {
	case session.LogStep:
		m.lastEvent = entry.Event
	case session.LogTerminate:
		m.outcome = "terminate"
	case session.LogStopped:
		m.outcome = "stopped"
	}

	m.log = m.log.AppendLine(m.theme.RenderLogLine(entry))
	return m, waitForEvent(m.events)
}

// logHeight is the number of rows left for the log between the header,
// progress bar and footer.
func (m Model) logHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}
