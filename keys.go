package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit         key.Binding
	actions      key.Binding
	newUser      key.Binding
	roleFilter   key.Binding
	statusFilter key.Binding
	search       key.Binding
	sortName     key.Binding
	sortEmail    key.Binding
	clear        key.Binding
	copyEmail    key.Binding
	reload       key.Binding
	toggleTheme  key.Binding
	toggleHelp   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		actions: key.NewBinding(
			key.WithKeys("enter", "."),
			key.WithHelp("enter", "row actions"),
		),
		newUser: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add user"),
		),
		roleFilter: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "cycle role filter"),
		),
		statusFilter: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status filter"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		sortName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "sort by name"),
		),
		sortEmail: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "sort by email"),
		),
		clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		copyEmail: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy email"),
		),
		reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		toggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.actions,
		k.roleFilter,
		k.statusFilter,
		k.search,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.actions, k.newUser, k.copyEmail},
		{k.roleFilter, k.statusFilter, k.search, k.clear},
		{k.sortName, k.sortEmail, k.reload},
		{k.toggleTheme, k.toggleHelp, k.quit},
	}
}
