package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Logout    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Back      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Guest     key.Binding
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	Toggle    key.Binding
	Focus     key.Binding
	NextPage  key.Binding
	Add       key.Binding
	Remove    key.Binding
	Refresh   key.Binding
	Genre     key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Logout:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Guest:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "continue as guest")),
	Tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "discover")),
	Tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "search")),
	Tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "watchlist")),
	Toggle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "movies/tv")),
	Focus:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	NextPage:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to watchlist")),
	Remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Genre:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "sections/genres")),
}
