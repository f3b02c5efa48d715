// Package tui provides a bubbletea + lipgloss terminal UI for a spin run.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/mainloop/internal/session"
)

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorOrange = lipgloss.Color("#FFA54F")
)

var (
	footerStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	continueStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	terminateStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	stoppedStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// Theme holds accent-color-derived styles.
type Theme struct {
	accent      lipgloss.Color
	headerStyle lipgloss.Style
	startStyle  lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: c,
		headerStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		startStyle: lipgloss.NewStyle().
			Foreground(c),
	}
}

// RenderLogLine formats entry as a single styled line.
func (t Theme) RenderLogLine(entry session.LogEntry) string {
	ts := timestampStyle.Render(entry.Timestamp.Format("15:04:05"))
	msg := singleLine(entry.Message)

	switch entry.Kind {
	case session.LogRunStart:
		return fmt.Sprintf("%s  %s", ts, t.startStyle.Render("▶ "+msg))
	case session.LogStep:
		style := continueStyle
		if entry.Event == "terminate" {
			style = terminateStyle
		}
		return fmt.Sprintf("%s  %s", ts, style.Render(fmt.Sprintf("step %-6d %-9s %.3fs", entry.Step, entry.Event, entry.Duration)))
	case session.LogTerminate, session.LogDone:
		return fmt.Sprintf("%s  %s", ts, terminateStyle.Render("✅ "+msg))
	case session.LogStopped:
		return fmt.Sprintf("%s  %s", ts, stoppedStyle.Render("⏹ "+msg))
	case session.LogError:
		return fmt.Sprintf("%s  %s", ts, errorStyle.Render("❌ "+msg))
	default:
		return fmt.Sprintf("%s  %s", ts, infoStyle.Render(msg))
	}
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
