package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/usersadmin/console/internal/usertable"
)

const (
	fieldName = iota
	fieldEmail
	fieldRoles
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Email", "Roles"}

type formResult int

const (
	formPending formResult = iota
	formSubmitted
	formCancelled
)

// editForm edits one user. Roles are typed as a comma separated list.
type editForm struct {
	user   usertable.User
	inputs [fieldCount]textinput.Model
	focus  int
}

func newEditForm(u usertable.User) *editForm {
	f := &editForm{user: u}
	values := [fieldCount]string{u.Name, u.Email, strings.Join(usertable.RoleNames(u), ", ")}
	placeholders := [fieldCount]string{"Full name", "name@example.com", "admin, editor"}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 256
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *editForm) setFocus(idx int) {
	f.inputs[f.focus].Blur()
	f.focus = (idx%fieldCount + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// Update routes keys to the focused input. Enter on the last field submits,
// esc cancels.
func (f *editForm) Update(msg tea.Msg) (formResult, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return formCancelled, nil
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return formPending, nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return formPending, nil
		case "enter":
			if f.focus == fieldCount-1 {
				return formSubmitted, nil
			}
			f.setFocus(f.focus + 1)
			return formPending, nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formPending, cmd
}

// Value returns the edited user. The archived flag and ID are kept.
func (f *editForm) Value() usertable.User {
	u := f.user
	u.Name = strings.TrimSpace(f.inputs[fieldName].Value())
	u.Email = strings.TrimSpace(f.inputs[fieldEmail].Value())
	u.Roles = parseRoles(f.inputs[fieldRoles].Value())
	return u
}

func (f *editForm) View(s styles) string {
	rows := make([]string, 0, fieldCount+2)
	title := "Edit user"
	if f.user.ID == "" {
		title = "New user"
	}
	rows = append(rows, s.panelTitle.Render(title))
	for i := range f.inputs {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, s.formLabel.Render(fieldLabels[i]), f.inputs[i].View()))
	}
	rows = append(rows, s.formHint.Render("tab next field • enter on roles saves • esc cancels"))
	return s.form.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// parseRoles splits a comma separated list, keeping first-seen order and
// dropping blanks and duplicates.
func parseRoles(raw string) []usertable.Role {
	roles := []usertable.Role{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		roles = append(roles, usertable.Role{Name: name})
	}
	return roles
}
