package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap implements [help.KeyMap] for the dashboard screens.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	tab     key.Binding
	refresh key.Binding
	help    key.Binding
	quit    key.Binding
}

func binding(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func newKeyMap() keyMap {
	return keyMap{
		up:      binding("↑/k", "previous row", "up", "k"),
		down:    binding("↓/j", "next row", "down", "j"),
		tab:     binding("tab", "features/recommendations", "tab", "shift+tab"),
		refresh: binding("r", "fetch again", "r"),
		help:    binding("?", "more keys", "?"),
		quit:    binding("q", "quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.refresh, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down}, {k.tab, k.refresh}, {k.help, k.quit}}
}
