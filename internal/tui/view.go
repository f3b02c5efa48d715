package tui

import (
	"fmt"
	"strings"
)

// View renders the TUI: header bar, progress bar, scrollable log, footer bar.
func (m Model) View() string {
	return strings.Join([]string{
		m.renderHeader(),
		m.renderProgress(),
		m.log.View(),
		m.renderFooter(),
	}, "\n")
}

func (m Model) renderHeader() string {
	project := m.project
	if project == "" {
		project = "spin"
	}
	last := m.lastEvent
	if last == "" {
		last = "—"
	}

	parts := []string{
		"⟳ " + project,
		fmt.Sprintf("step: %s", stepLabel(m.step, m.maxSteps)),
		fmt.Sprintf("last: %s", last),
	}
	if m.outcome != "" {
		parts = append(parts, m.outcome)
	}

	return m.theme.headerStyle.Width(m.width).Render(strings.Join(parts, "  │  "))
}

func (m Model) renderProgress() string {
	if m.maxSteps <= 0 {
		return ""
	}
	pct := float64(m.step) / float64(m.maxSteps)
	if pct > 1 {
		pct = 1
	}
	return "  " + m.progress.ViewAs(pct)
}

func (m Model) renderFooter() string {
	left := "running"
	switch {
	case m.done:
		left = "finished"
	case m.stopping:
		left = "stop requested — waiting for the current step"
	}
	follow := "follow: on"
	if !m.log.Following() {
		follow = "follow: off"
	}
	right := fmt.Sprintf("%s  f toggle  q stop", follow)

	gap := m.width - len([]rune(left)) - len([]rune(right))
	if gap < 2 {
		gap = 2
	}
	return footerStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func stepLabel(n, max int) string {
	if max == 0 {
		return fmt.Sprintf("%d/∞", n)
	}
	return fmt.Sprintf("%d/%d", n, max)
}
