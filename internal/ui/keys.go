package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding

	// Navigation between views
	Boards   key.Binding
	MyPosts  key.Binding
	Profile  key.Binding
	SignIn   key.Binding
	SignOut  key.Binding
	Register key.Binding
	Write    key.Binding

	// List movement
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	Search    key.Binding
	Reset     key.Binding
	Refresh   key.Binding

	// Detail / comments
	NewComment    key.Binding
	EditComment   key.Binding
	DeleteComment key.Binding
	EditPost      key.Binding
	DeletePost    key.Binding

	// Forms
	Save      key.Binding
	NextField key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Boards, k.Write, k.Open, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Refresh},
		{k.PrevPage, k.NextPage, k.FirstPage, k.LastPage, k.Search, k.Reset},
		{k.Boards, k.MyPosts, k.Profile, k.SignIn, k.SignOut, k.Register},
		{k.Write, k.NewComment, k.EditComment, k.DeleteComment, k.EditPost, k.DeletePost},
		{k.Save, k.NextField, k.CycleTheme, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Boards: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "boards"),
		),
		MyPosts: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "my posts"),
		),
		Profile: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "profile"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "sign in"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sign out"),
		),
		Register: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "register"),
		),
		Write: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "["),
			key.WithHelp("h/←", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "]"),
			key.WithHelp("l/→", "next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "last page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "clear search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),

		NewComment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		EditComment: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit comment"),
		),
		DeleteComment: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete comment"),
		),
		EditPost: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit post"),
		),
		DeletePost: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete post"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
	}
}
