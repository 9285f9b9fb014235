package datatable

import "strings"

// Tone selects the colour family a badge or menu item is drawn with.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneInfo
	ToneSuccess
	ToneDanger
)

func (t Tone) String() string {
	switch t {
	case ToneInfo:
		return "info"
	case ToneSuccess:
		return "success"
	case ToneDanger:
		return "danger"
	default:
		return "neutral"
	}
}

// Badge is a small styled inline label.
type Badge struct {
	Label string
	Tone  Tone
}

// MenuItem is one entry of a row dropdown. Select runs when the entry is
// activated.
type MenuItem struct {
	Label  string
	Icon   string
	Tone   Tone
	Select func()
}

// Cell is the rendered content of one table cell. Exactly one of Text,
// Badges or Menu is normally set.
type Cell struct {
	Text   string
	Badges []Badge
	Menu   []MenuItem
}

// HasMenu reports whether the cell is a dropdown trigger.
func (c Cell) HasMenu() bool {
	return len(c.Menu) > 0
}

// Plain flattens the cell into unstyled text suitable for grid widgets and
// exports.
func (c Cell) Plain() string {
	switch {
	case len(c.Badges) > 0:
		labels := make([]string, len(c.Badges))
		for i, b := range c.Badges {
			labels[i] = b.Label
		}
		return strings.Join(labels, ", ")
	case len(c.Menu) > 0:
		return menuTrigger
	default:
		return c.Text
	}
}

// BadgeLabels returns the badge labels in display order.
func (c Cell) BadgeLabels() []string {
	out := make([]string, 0, len(c.Badges))
	for _, b := range c.Badges {
		out = append(out, b.Label)
	}
	return out
}

// MenuLabels returns the menu item labels in display order.
func (c Cell) MenuLabels() []string {
	out := make([]string, 0, len(c.Menu))
	for _, item := range c.Menu {
		out = append(out, item.Label)
	}
	return out
}

const menuTrigger = "⋯"
