package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Stop   key.Binding
	Follow key.Binding
}

var keys = keyMap{
	Stop: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "stop"),
	),
	Follow: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "follow"),
	),
}
