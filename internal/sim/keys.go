package sim

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds the keyboard to the clock's buttons.
type KeyMap struct {
	Minus key.Binding
	OK    key.Binding
	Plus  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Minus, k.OK, k.Plus, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Minus, k.OK, k.Plus},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Minus: key.NewBinding(
			key.WithKeys("-", "left", "h"),
			key.WithHelp("-", "minus"),
		),
		OK: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "ok"),
		),
		Plus: key.NewBinding(
			key.WithKeys("+", "=", "right", "l"),
			key.WithHelp("+", "plus"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
