package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Digit   key.Binding
	Hint    key.Binding
	Restart key.Binding
	Back    key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Quit    key.Binding
	ForceQ  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digit"),
		),
		Hint:    key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "hint")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// bindings adapts a slice of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding { return b }

func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k keyMap) homeHelp() bindings {
	return bindings{k.Up, k.Down, k.Select, k.Quit}
}

func (k keyMap) playHelp() bindings {
	return bindings{k.Digit, k.Hint, k.Back}
}

func (k keyMap) overHelp() bindings {
	return bindings{k.Restart, k.Back}
}
