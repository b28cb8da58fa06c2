package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	New          key.Binding
	Edit         key.Binding
	Comment      key.Binding
	Delete       key.Binding
	Copy         key.Binding
	ToggleSolved key.Binding
	Search       key.Binding
	ClearSearch  key.Binding
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "new idea"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy as markdown"),
		),
		ToggleSolved: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s", "toggle solved"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("J", "ctrl+d", "pgdown"),
			key.WithHelp("J", "scroll detail"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("K", "ctrl+u", "pgup"),
			key.WithHelp("K", "scroll back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Comment, k.Delete, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ScrollDown, k.ScrollUp},
		{k.New, k.Edit, k.Comment, k.ToggleSolved, k.Delete, k.Copy},
		{k.Search, k.ClearSearch, k.Reload, k.Help, k.Quit},
	}
}
