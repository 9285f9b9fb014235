package datatable

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuKeyMap holds the bindings a Menu reacts to while open.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next item"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),
	}
}

// Menu is a dropdown attached to a row. It owns its own open/closed state;
// items are supplied by the cell that triggered it.
type Menu struct {
	Keys   MenuKeyMap
	items  []MenuItem
	cursor int
	open   bool
}

func NewMenu() *Menu {
	return &Menu{Keys: DefaultMenuKeyMap()}
}

// Open shows items with the first one highlighted. An empty item list
// leaves the menu closed.
func (m *Menu) Open(items []MenuItem) {
	m.items = items
	m.cursor = 0
	m.open = len(items) > 0
}

func (m *Menu) Close() {
	m.open = false
	m.items = nil
	m.cursor = 0
}

func (m *Menu) IsOpen() bool {
	return m.open
}

func (m *Menu) Items() []MenuItem {
	return m.items
}

func (m *Menu) Cursor() int {
	return m.cursor
}

// Move shifts the highlight, wrapping at both ends.
func (m *Menu) Move(delta int) {
	if len(m.items) == 0 {
		return
	}
	n := len(m.items)
	m.cursor = ((m.cursor+delta)%n + n) % n
}

// Selected returns the highlighted item.
func (m *Menu) Selected() (MenuItem, bool) {
	if !m.open || m.cursor < 0 || m.cursor >= len(m.items) {
		return MenuItem{}, false
	}
	return m.items[m.cursor], true
}

// Activate closes the menu and runs the highlighted item's Select.
func (m *Menu) Activate() bool {
	item, ok := m.Selected()
	if !ok {
		return false
	}
	m.Close()
	if item.Select != nil {
		item.Select()
	}
	return true
}

// Update handles navigation keys while the menu is open. It reports
// whether the message was consumed.
func (m *Menu) Update(msg tea.Msg) bool {
	if !m.open {
		return false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		m.Move(-1)
	case key.Matches(keyMsg, m.Keys.Down):
		m.Move(1)
	case key.Matches(keyMsg, m.Keys.Select):
		m.Activate()
	case key.Matches(keyMsg, m.Keys.Close):
		m.Close()
	default:
		return false
	}
	return true
}

func (m *Menu) View(s Styles) string {
	if !m.open {
		return ""
	}
	lines := make([]string, len(m.items))
	for i, item := range m.items {
		label := item.Label
		if item.Icon != "" {
			label = item.Icon + " " + label
		}
		style := s.MenuItem
		if i == m.cursor {
			style = s.MenuItemSelected
		}
		lines[i] = style.Copy().Foreground(s.toneForeground(item.Tone)).Render(label)
	}
	return s.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
