package main

import "github.com/charmbracelet/lipgloss"

var palette = struct {
	text, textMuted, border, selection, accent, danger lipgloss.AdaptiveColor
}{
	text:      lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"},
	textMuted: lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"},
	border:    lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#4b5563"},
	selection: lipgloss.AdaptiveColor{Light: "#e0e7ff", Dark: "#3730a3"},
	accent:    lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"},
	danger:    lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"},
}

type styles struct {
	app, topBar, topTitle, topFilters lipgloss.Style
	panel, panelFocused, panelTitle   lipgloss.Style
	detail                            lipgloss.Style
	form, formLabel, formHint         lipgloss.Style
	statusBar, statusErr, statusJob   lipgloss.Style
	searchPrompt                      lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Copy().Padding(0, 1),
		topTitle:     base.Copy().Bold(true).Foreground(palette.accent),
		topFilters:   base.Copy().Foreground(palette.textMuted).PaddingLeft(2),
		panel:        base.Copy().BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.Copy().BorderStyle(focusedBorder).BorderForeground(palette.accent),
		panelTitle:   base.Copy().Bold(true).Padding(0, 1),
		detail:       base.Copy().Padding(0, 1),
		form:         base.Copy().Border(lipgloss.RoundedBorder()).Padding(1, 2),
		formLabel:    base.Copy().Bold(true).Width(8),
		formHint:     base.Copy().Faint(true),
		statusBar:    base.Copy().Padding(0, 1).Foreground(palette.textMuted),
		statusErr:    base.Copy().Padding(0, 1).Foreground(palette.danger),
		statusJob:    base.Copy().Padding(0, 1).Faint(true),
		searchPrompt: base.Copy().Bold(true),
	}
}
