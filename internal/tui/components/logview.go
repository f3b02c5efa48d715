// Package components holds reusable bubbletea widgets for the spin TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds the scrollback of a LogView. A run with no step
// limit would otherwise grow the buffer without end.
const DefaultMaxLines = 2000

// LogView is a scrollable log panel that wraps bubbles/viewport.
// In follow mode (default), new lines cause the view to auto-scroll to the bottom.
type LogView struct {
	vp       viewport.Model
	lines    []string // rendered (pre-styled) lines, oldest first
	maxLines int
	follow   bool
	width    int
	height   int
}

// NewLogView creates a LogView with the given dimensions, initially in follow mode.
func NewLogView(w, h int) LogView {
	return LogView{
		vp:       viewport.New(w, h),
		maxLines: DefaultMaxLines,
		follow:   true,
		width:    w,
		height:   h,
	}
}

// WithMaxLines returns a copy that keeps at most n lines; n <= 0 keeps all.
func (v LogView) WithMaxLines(n int) LogView {
	v.maxLines = n
	v.trim()
	v.refresh()
	return v
}

// AppendLine appends a pre-rendered line, dropping the oldest lines past the
// scrollback limit.
func (v LogView) AppendLine(rendered string) LogView {
	v.lines = append(v.lines, rendered)
	v.trim()
	v.refresh()
	return v
}

// Len returns the number of retained lines.
func (v LogView) Len() int {
	return len(v.lines)
}

// ToggleFollow switches follow mode on or off.
// When turned on, scrolls immediately to the bottom.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// SetSize resizes the log view to the given dimensions.
func (v LogView) SetSize(w, h int) LogView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether follow mode is currently active.
func (v LogView) Following() bool {
	return v.follow
}

// Update handles scroll keys and mouse events.
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	// Scrolling away from the bottom leaves follow mode; resizes do not.
	if v.follow && !v.vp.AtBottom() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the log view content.
func (v LogView) View() string {
	return v.vp.View()
}

func (v *LogView) trim() {
	if v.maxLines > 0 && len(v.lines) > v.maxLines {
		drop := len(v.lines) - v.maxLines
		v.lines = append(v.lines[:0:0], v.lines[drop:]...)
	}
}

func (v *LogView) refresh() {
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
}
