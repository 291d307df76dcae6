package tui

import "github.com/charmbracelet/bubbles/key"

// viewKeys holds the bindings of the full-screen views. Help text doubles as
// the footer label.
type viewKeys struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Edit   key.Binding
	Clear  key.Binding
	Quit   key.Binding

	Next   key.Binding
	Prev   key.Binding
	Save   key.Binding
	Cancel key.Binding
}

var keys = viewKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/k", "navigate")),
	Top:    key.NewBinding(key.WithKeys("home", "g")),
	Bottom: key.NewBinding(key.WithKeys("end", "G")),
	Edit:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
	Clear:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "clear")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),

	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// abort is the binding that leaves a form without saving.
var abort = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
