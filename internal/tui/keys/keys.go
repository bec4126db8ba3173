package keys

import "github.com/charmbracelet/bubbles/key"

// WatchKeys are the bindings of the watch screen. Console keys only apply
// while the console has focus.
type WatchKeys struct {
	Quit         key.Binding
	Help         key.Binding
	ToggleOutput key.Binding
	Refresh      key.Binding
	Clear        key.Binding
	Console      key.Binding
	Escape       key.Binding
	Enter        key.Binding
	HistoryUp    key.Binding
	HistoryDown  key.Binding
	ConsoleQuit  key.Binding
}

func NewWatchKeys() WatchKeys {
	return WatchKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		ToggleOutput: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle output"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "poll now"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
		Console: key.NewBinding(
			key.WithKeys("i", ":"),
			key.WithHelp("i", "command console"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave console"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send command"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		HistoryDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		ConsoleQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k WatchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleOutput, k.Refresh, k.Console, k.Quit}
}

func (k WatchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleOutput, k.Refresh, k.Clear},
		{k.Console, k.Escape, k.Enter, k.HistoryUp, k.HistoryDown},
		{k.Help, k.Quit},
	}
}
