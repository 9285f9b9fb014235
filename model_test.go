package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersadmin/console/internal/userstore"
	"github.com/usersadmin/console/internal/usertable"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and flattens batches into the messages they produce.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds the messages of cmd back into m until no command is left.
func settle(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	for depth := 0; cmd != nil; depth++ {
		require.Less(t, depth, 10, "command chain did not settle")
		var next []tea.Cmd
		for _, msg := range runCmd(cmd) {
			_, c := m.Update(msg)
			if c != nil {
				next = append(next, c)
			}
		}
		if len(next) == 0 {
			return
		}
		cmd = tea.Batch(next...)
	}
}

type consoleFixture struct {
	m         *model
	store     *userstore.Store
	dir       string
	actionLog string
}

func newConsoleFixture(t *testing.T) consoleFixture {
	t.Helper()
	store, err := userstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	for _, u := range []usertable.User{
		{ID: "1", Name: "Ann", Email: "a@x.com", Roles: []usertable.Role{{Name: "admin"}, {Name: "editor"}}},
		{ID: "2", Name: "Bo", Email: "b@x.com", Archived: true, Roles: []usertable.Role{{Name: "viewer"}}},
	} {
		_, err := store.Save(ctx, u)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	actionLog := filepath.Join(dir, "actions.jsonl")
	m := newModel(modelOptions{
		cfg:       &uiConfig{Theme: "dark"},
		cfgPath:   filepath.Join(dir, "ui.yaml"),
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		actions:   newActionLog(actionLog, "tester"),
	})
	t.Cleanup(func() { _ = m.actions.Close() })
	settle(t, m, m.Init())
	return consoleFixture{m: m, store: store, dir: dir, actionLog: actionLog}
}

func readEvents(t *testing.T, path string) []actionEvent {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var events []actionEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev actionEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	return events
}

func TestConsole_LoadsUsers(t *testing.T) {
	fx := newConsoleFixture(t)
	require.Len(t, fx.m.visible, 2)
	u, ok := fx.m.selectedUser()
	require.True(t, ok)
	assert.Equal(t, "Ann", u.Name)
}

func TestConsole_ArchiveFromMenu(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	_, cmd := m.Update(keyPress("enter"))
	assert.Nil(t, cmd)
	require.True(t, m.menu.IsOpen())
	var labels []string
	for _, item := range m.menu.Items() {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"Edit", "Archive"}, labels)

	m.Update(keyPress("down"))
	_, cmd = m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.False(t, m.menu.IsOpen())
	settle(t, m, cmd)

	stored, err := fx.store.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, stored.Archived)
	assert.True(t, m.visible[0].Archived)
	assert.False(t, m.statusErr)

	events := readEvents(t, fx.actionLog)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "user_archived", last.Event)
	assert.Equal(t, "1", last.TargetID)
	assert.Equal(t, "tester", last.Actor)
	assert.Equal(t, usertable.StatusArchived, last.TargetStatus)
}

func TestConsole_UnarchiveFromMenu(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	m.Update(keyPress("down"))
	u, ok := m.selectedUser()
	require.True(t, ok)
	require.Equal(t, "Bo", u.Name)

	m.Update(keyPress("enter"))
	var labels []string
	for _, item := range m.menu.Items() {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"Edit", "Unarchive"}, labels)

	m.Update(keyPress("down"))
	_, cmd := m.Update(keyPress("enter"))
	settle(t, m, cmd)

	stored, err := fx.store.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.False(t, stored.Archived)
}

func TestConsole_EditFromMenu(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	m.Update(keyPress("enter"))
	_, cmd := m.Update(keyPress("enter"))
	assert.Nil(t, cmd)
	require.NotNil(t, m.form)
	assert.Equal(t, "1", m.form.user.ID)

	m.form.inputs[fieldName].SetValue("Ann B")
	m.form.inputs[fieldRoles].SetValue("editor, owner")
	m.Update(keyPress("enter"))
	m.Update(keyPress("enter"))
	_, cmd = m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.Nil(t, m.form)
	settle(t, m, cmd)

	stored, err := fx.store.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Ann B", stored.Name)
	assert.Equal(t, []string{"editor", "owner"}, usertable.RoleNames(stored))
	assert.False(t, stored.Archived)
}

func TestConsole_EditCancel(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	m.Update(keyPress("enter"))
	m.Update(keyPress("enter"))
	require.NotNil(t, m.form)
	_, cmd := m.Update(keyPress("esc"))
	assert.Nil(t, cmd)
	assert.Nil(t, m.form)
}

func TestConsole_StatusFilterCycle(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	m.Update(keyPress("s"))
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Ann", m.visible[0].Name)

	m.Update(keyPress("s"))
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Bo", m.visible[0].Name)

	m.Update(keyPress("s"))
	assert.Len(t, m.visible, 2)
}

func TestConsole_SearchMatchesNameAndEmail(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	typeQuery := func(q string) {
		m.Update(keyPress("/"))
		require.True(t, m.searching)
		for _, r := range q {
			m.Update(keyPress(string(r)))
		}
	}

	typeQuery("e")
	assert.Empty(t, m.visible)

	m.Update(keyPress("esc"))
	assert.False(t, m.searching)
	assert.Len(t, m.visible, 2)

	typeQuery("b@")
	m.Update(keyPress("enter"))
	assert.False(t, m.searching)
	assert.Equal(t, "b@", m.users.GlobalFilter())
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Bo", m.visible[0].Name)
}

func TestConsole_RoleFilterCycle(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	m.Update(keyPress("r"))
	assert.Equal(t, "admin", m.users.Filter(usertable.ColumnRoles))
	require.Len(t, m.visible, 1)

	m.Update(keyPress("r"))
	assert.Equal(t, "editor", m.users.Filter(usertable.ColumnRoles))
	m.Update(keyPress("r"))
	assert.Equal(t, "viewer", m.users.Filter(usertable.ColumnRoles))
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Bo", m.visible[0].Name)

	m.Update(keyPress("c"))
	assert.Len(t, m.visible, 2)
}

func TestConsole_PersistsFiltersOnQuit(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m

	m.Update(keyPress("s"))
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cfg, _ := loadUIConfig(fx.dir)
	assert.Equal(t, usertable.StatusActive, cfg.Filters.Status)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestConsole_ViewShowsSelection(t *testing.T) {
	fx := newConsoleFixture(t)
	m := fx.m
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})

	out := m.View()
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "Actif")
}

func TestNextValue(t *testing.T) {
	values := []string{"", "a", "b"}
	assert.Equal(t, "a", nextValue(values, ""))
	assert.Equal(t, "", nextValue(values, "b"))
	assert.Equal(t, "", nextValue(values, "gone"))
	assert.Equal(t, "", nextValue(nil, "x"))
}
