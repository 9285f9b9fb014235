package datatable

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type toneColors struct {
	fg, bg lipgloss.TerminalColor
}

// Styles groups the lipgloss styles used for rich cell output and the
// dropdown menu.
type Styles struct {
	Badge            lipgloss.Style
	BadgeGap         string
	Menu             lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style
	Trigger          lipgloss.Style

	tones     map[Tone]toneColors
	menuTones map[Tone]lipgloss.TerminalColor
}

func DefaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Badge:            base.Copy().Padding(0, 1).Bold(true),
		BadgeGap:         " ",
		Menu:             base.Copy().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(20),
		MenuItem:         base.Copy(),
		MenuItemSelected: base.Copy().Bold(true).Reverse(true),
		Trigger:          base.Copy().Faint(true),
		tones: map[Tone]toneColors{
			ToneInfo:    {fg: lipgloss.Color("#1e40af"), bg: lipgloss.Color("#dbeafe")},
			ToneSuccess: {fg: lipgloss.Color("#166534"), bg: lipgloss.Color("#dcfce7")},
			ToneDanger:  {fg: lipgloss.Color("#991b1b"), bg: lipgloss.Color("#fee2e2")},
		},
		menuTones: map[Tone]lipgloss.TerminalColor{
			ToneSuccess: lipgloss.Color("#16a34a"),
			ToneDanger:  lipgloss.Color("#dc2626"),
		},
	}
}

func (s Styles) toneForeground(t Tone) lipgloss.TerminalColor {
	if c, ok := s.menuTones[t]; ok {
		return c
	}
	return lipgloss.NoColor{}
}

// RenderBadge draws a single badge.
func (s Styles) RenderBadge(b Badge) string {
	style := s.Badge
	if c, ok := s.tones[b.Tone]; ok {
		style = style.Copy().Foreground(c.fg).Background(c.bg)
	}
	return style.Render(b.Label)
}

// RenderCell draws a cell with badges and the menu trigger styled.
func RenderCell(cell Cell, s Styles) string {
	switch {
	case len(cell.Badges) > 0:
		parts := make([]string, len(cell.Badges))
		for i, b := range cell.Badges {
			parts[i] = s.RenderBadge(b)
		}
		return strings.Join(parts, s.BadgeGap)
	case cell.HasMenu():
		return s.Trigger.Render(menuTrigger)
	default:
		return cell.Text
	}
}

// BubbleColumns converts the column headers for a bubbles table. widths is
// matched by position; missing widths fall back to the header length.
func (t *Table[T]) BubbleColumns(widths []int) []table.Column {
	out := make([]table.Column, len(t.columns))
	for i, col := range t.columns {
		width := len(col.Header) + 2
		if i < len(widths) && widths[i] > 0 {
			width = widths[i]
		}
		title := col.Header
		if sortMark := t.sortMarker(col.Key()); sortMark != "" {
			title = strings.TrimSpace(title + " " + sortMark)
		}
		out[i] = table.Column{Title: title, Width: width}
	}
	return out
}

// BubbleRows renders rows as plain text, since the bubbles table truncates
// cells without regard for ANSI sequences.
func (t *Table[T]) BubbleRows(rows []T) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		cells := make(table.Row, len(t.columns))
		for j, col := range t.columns {
			cells[j] = col.Render(row).Plain()
		}
		out[i] = cells
	}
	return out
}

func (t *Table[T]) sortMarker(key string) string {
	if t.sort.Column != key {
		return ""
	}
	if t.sort.Desc {
		return "▼"
	}
	return "▲"
}
