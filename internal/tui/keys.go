package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Pause   key.Binding
	Field   key.Binding
	Pick    key.Binding
	Paste   key.Binding
	Attrs   key.Binding
	Inspect key.Binding
	Sidebar key.Binding
	Open    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Reset   key.Binding
	Help    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Field, k.ZoomIn, k.Sidebar, k.Paste, k.Attrs, k.Inspect, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Field, k.Pick},
		{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Sidebar, k.Open, k.Paste, k.Attrs, k.Inspect},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	Field:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next field")),
	Pick:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "field")),
	Paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste")),
	Attrs:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "values")),
	Inspect: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
	Sidebar: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "files")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "pan up")),
	Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "pan down")),
	Left:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "pan left")),
	Right:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "pan right")),
	Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
	Help:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
}
