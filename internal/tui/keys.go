package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/glabrego/devwebfeed/internal/tui/view"
)

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Open         key.Binding
	Copy         key.Binding
	FilterDomain key.Binding
	FilterAuthor key.Binding
	Clear        key.Binding
	Tweets       key.Binding
	Delete       key.Binding
	Help         key.Binding
	Close        key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Top:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "jump to top")),
		Bottom:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "jump to bottom")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdown", "page down")),
		Open:         key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter/o", "open post, fold month")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy post URL")),
		FilterDomain: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter by domain")),
		FilterAuthor: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "filter by author")),
		Clear:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Tweets:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "include tweets")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete post")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Close:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) helpEntries(editMode bool) []view.HelpEntry {
	bindings := []key.Binding{
		k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown,
		k.Open, k.Copy, k.FilterDomain, k.FilterAuthor, k.Clear, k.Tweets,
	}
	if editMode {
		bindings = append(bindings, k.Delete)
	}
	bindings = append(bindings, k.Help, k.Close, k.Quit)

	entries := make([]view.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		entries = append(entries, view.HelpEntry{Keys: h.Key, Desc: h.Desc})
	}
	return entries
}
