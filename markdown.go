package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/usersadmin/console/internal/usertable"
)

type markdownTheme string

const (
	markdownThemeAuto  markdownTheme = "auto"
	markdownThemeDark  markdownTheme = "dark"
	markdownThemeLight markdownTheme = "light"
)

func markdownThemeFromString(value string) markdownTheme {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return markdownThemeDark
	case "light":
		return markdownThemeLight
	default:
		return markdownThemeAuto
	}
}

func nextMarkdownTheme(theme markdownTheme) markdownTheme {
	switch theme {
	case markdownThemeAuto:
		return markdownThemeDark
	case markdownThemeDark:
		return markdownThemeLight
	default:
		return markdownThemeAuto
	}
}

// detailRenderer renders the selected-user pane through Glamour. The
// underlying renderer is rebuilt lazily whenever theme or width change.
type detailRenderer struct {
	theme    markdownTheme
	width    int
	renderer *glamour.TermRenderer
}

func newDetailRenderer(theme markdownTheme) *detailRenderer {
	return &detailRenderer{theme: theme, width: 40}
}

func (r *detailRenderer) SetTheme(theme markdownTheme) {
	if r.theme != theme {
		r.theme = theme
		r.renderer = nil
	}
}

func (r *detailRenderer) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	if r.width != width {
		r.width = width
		r.renderer = nil
	}
}

// Render returns Glamour output, or the raw Markdown when rendering fails.
func (r *detailRenderer) Render(content string) string {
	if r.renderer == nil {
		options := []glamour.TermRendererOption{glamour.WithWordWrap(r.width)}
		switch r.theme {
		case markdownThemeLight:
			options = append(options, glamour.WithStandardStyle("light"))
		case markdownThemeDark:
			options = append(options, glamour.WithStandardStyle("dark"))
		default:
			options = append(options, glamour.WithAutoStyle())
		}
		renderer, err := glamour.NewTermRenderer(options...)
		if err != nil {
			return content
		}
		r.renderer = renderer
	}
	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// userDetailMarkdown describes u for the detail pane.
func userDetailMarkdown(u usertable.User) string {
	var b strings.Builder
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "## %s\n\n", name)
	fmt.Fprintf(&b, "- **Email:** %s\n", orDash(u.Email))
	fmt.Fprintf(&b, "- **Status:** %s\n", usertable.StatusLabel(u.Archived))
	fmt.Fprintf(&b, "- **ID:** `%s`\n", u.ID)
	b.WriteString("\n### Roles\n\n")
	if len(u.Roles) == 0 {
		b.WriteString("_No roles assigned._\n")
	}
	for _, role := range usertable.RoleNames(u) {
		fmt.Fprintf(&b, "- %s\n", role)
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
