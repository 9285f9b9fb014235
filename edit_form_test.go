package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/usersadmin/console/internal/usertable"
)

func TestParseRoles(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"admin", []string{"admin"}},
		{" editor , admin ,, editor", []string{"editor", "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := usertable.RoleNames(usertable.User{Roles: parseRoles(tt.raw)})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditForm_ValueKeepsIdentity(t *testing.T) {
	u := usertable.User{ID: "7", Name: "Ann", Email: "a@x.com", Archived: true, Roles: []usertable.Role{{Name: "admin"}}}
	f := newEditForm(u)
	assert.Equal(t, "admin", f.inputs[fieldRoles].Value())

	f.inputs[fieldEmail].SetValue("  ann@x.com ")
	got := f.Value()
	assert.Equal(t, "7", got.ID)
	assert.True(t, got.Archived)
	assert.Equal(t, "ann@x.com", got.Email)
}

func TestEditForm_FocusWraps(t *testing.T) {
	f := newEditForm(usertable.User{})
	res, _ := f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, formPending, res)
	assert.Equal(t, fieldRoles, f.focus)

	res, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, formSubmitted, res)
}
