package session

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/procctl/procctl/internal/proc"
)

// KeyMap holds every binding the browser understands.
type KeyMap struct {
	Help     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Filter   key.Binding
	Pause    key.Binding
	Stop     key.Binding
	Kill     key.Binding
	Restart  key.Binding
	Continue key.Binding
	Quit     key.Binding

	// Prompt keys
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap mirrors the function-key layout, with letter aliases for
// terminals that swallow F-keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help:     key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("F1", "help")),
		Next:     key.NewBinding(key.WithKeys("f2", "tab", "right"), key.WithHelp("F2", "next host")),
		Prev:     key.NewBinding(key.WithKeys("f3", "shift+tab", "left"), key.WithHelp("F3", "prev host")),
		Filter:   key.NewBinding(key.WithKeys("f4", "/"), key.WithHelp("F4", "filter")),
		Pause:    key.NewBinding(key.WithKeys("f5", "p"), key.WithHelp("F5", "pause")),
		Stop:     key.NewBinding(key.WithKeys("f6", "s"), key.WithHelp("F6", "stop")),
		Kill:     key.NewBinding(key.WithKeys("f7", "k"), key.WithHelp("F7", "kill")),
		Restart:  key.NewBinding(key.WithKeys("f8", "r"), key.WithHelp("F8", "restart")),
		Continue: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
		Quit:     key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp is the hint line under the header.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Next, k.Prev, k.Filter, k.Pause, k.Stop, k.Kill, k.Restart, k.Quit}
}

// FullHelp groups bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Next, k.Prev, k.Filter, k.Quit},
		{k.Pause, k.Stop, k.Kill, k.Restart, k.Continue},
	}
}

// actionFor returns the pending action a key starts, if any.
func (k KeyMap) actionFor(msg tea.KeyMsg) (PendingAction, bool) {
	switch {
	case key.Matches(msg, k.Pause):
		return PendingAction{Signal: proc.Pause}, true
	case key.Matches(msg, k.Stop):
		return PendingAction{Signal: proc.Stop}, true
	case key.Matches(msg, k.Kill):
		return PendingAction{Signal: proc.Kill}, true
	case key.Matches(msg, k.Continue):
		return PendingAction{Signal: proc.Continue}, true
	case key.Matches(msg, k.Restart):
		return PendingAction{Restart: true}, true
	}
	return PendingAction{}, false
}
