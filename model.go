package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/usersadmin/console/internal/datatable"
	"github.com/usersadmin/console/internal/userstore"
	"github.com/usersadmin/console/internal/usertable"
)

type usersLoadedMsg struct {
	users []usertable.User
	err   error
}

type userArchivedMsg struct {
	user usertable.User
	err  error
}

type userSavedMsg struct {
	user    usertable.User
	created bool
	err     error
}

type clipboardMsg struct {
	text string
	err  error
}

type modelOptions struct {
	cfg       *uiConfig
	cfgPath   string
	store     *userstore.Store
	logger    *slog.Logger
	actions   *actionLog
}

type model struct {
	cfg       *uiConfig
	cfgPath   string
	store     *userstore.Store
	logger    *slog.Logger
	actions   *actionLog
	jobs      *jobManager

	keys       keyMap
	help       help.Model
	styles     styles
	cellStyles datatable.Styles

	users   *datatable.Table[usertable.User]
	grid    table.Model
	visible []usertable.User
	menu    *datatable.Menu
	form    *editForm

	search    textinput.Model
	searching bool

	detail *detailRenderer
	theme  markdownTheme

	width, height int
	status        string
	statusErr     bool
	jobLine       string

	// commands queued by row handlers while a menu item is activated
	pending []tea.Cmd
}

var defaultColumnWidths = []int{22, 28, 22, 9, 3}

func newModel(opts modelOptions) *model {
	cfg := opts.cfg
	if cfg == nil {
		cfg = &uiConfig{}
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := markdownThemeFromString(cfg.Theme)

	m := &model{
		cfg:        cfg,
		cfgPath:    opts.cfgPath,
		store:      opts.store,
		logger:     logger,
		actions:    opts.actions,
		jobs:       newJobManager(),
		keys:       newKeyMap(),
		help:       help.New(),
		styles:     newStyles(),
		cellStyles: datatable.DefaultStyles(),
		menu:       datatable.NewMenu(),
		detail:     newDetailRenderer(theme),
		theme:      theme,
	}

	m.users = datatable.New(usertable.Columns(usertable.Handlers{
		OnEdit:      m.editUser,
		OnArchive:   func(u usertable.User) { m.setArchived(u, true) },
		OnUnarchive: func(u usertable.User) { m.setArchived(u, false) },
	}))
	m.users.SetFilter(usertable.ColumnRoles, cfg.Filters.Role)
	m.users.SetFilter(usertable.ColumnStatus, cfg.Filters.Status)
	m.users.SetGlobalFilter(cfg.Filters.Search)

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "name or email"
	search.SetValue(cfg.Filters.Search)
	m.search = search

	grid := table.New(
		table.WithColumns(m.users.BubbleColumns(defaultColumnWidths)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.border).
		BorderBottom(true).
		Padding(0, 1)
	tStyles.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle().
		Foreground(palette.text).
		Background(palette.selection)
	grid.SetStyles(tStyles)
	m.grid = grid

	return m
}

func (m *model) Init() tea.Cmd {
	return m.loadUsers()
}

func (m *model) loadUsers() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		users, err := store.List(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

// editUser is the row handler for Edit; it opens the form in place.
func (m *model) editUser(u usertable.User) {
	m.form = newEditForm(u)
	m.emit("user_edit_opened", u, nil)
}

// setArchived is the row handler for Archive and Unarchive. The store call
// runs as a command once the menu has closed.
func (m *model) setArchived(u usertable.User, archived bool) {
	store := m.store
	m.pending = append(m.pending, func() tea.Msg {
		err := store.SetArchived(context.Background(), u.ID, archived)
		u.Archived = archived
		return userArchivedMsg{user: u, err: err}
	})
}

func (m *model) saveUser(u usertable.User) tea.Cmd {
	store := m.store
	created := u.ID == ""
	return func() tea.Msg {
		saved, err := store.Save(context.Background(), u)
		if err != nil {
			saved = u
		}
		return userSavedMsg{user: saved, created: created, err: err}
	}
}

func (m *model) flushPending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case usersLoadedMsg:
		if msg.err != nil {
			m.setError("load users", msg.err)
			return m, nil
		}
		m.users.SetRows(msg.users)
		m.refreshGrid()
		m.setStatus(fmt.Sprintf("%d users loaded", len(msg.users)))
		return m, nil

	case userArchivedMsg:
		action := "unarchive"
		if msg.user.Archived {
			action = "archive"
		}
		if msg.err != nil {
			m.setError(action+" "+msg.user.Email, msg.err)
			return m, nil
		}
		m.logger.Info("user status changed", "id", msg.user.ID, "archived", msg.user.Archived)
		m.emit("user_"+action+"d", msg.user, nil)
		m.setStatus(fmt.Sprintf("%s is now %s", displayName(msg.user), usertable.StatusLabel(msg.user.Archived)))
		return m, tea.Batch(m.loadUsers(), m.runHook(action, msg.user))

	case userSavedMsg:
		if msg.err != nil {
			m.setError("save "+displayName(msg.user), msg.err)
			return m, nil
		}
		event := "user_updated"
		if msg.created {
			event = "user_created"
		}
		m.logger.Info("user saved", "id", msg.user.ID, "created", msg.created)
		m.emit(event, msg.user, map[string]string{"roles": strings.Join(usertable.RoleNames(msg.user), ",")})
		m.setStatus("saved " + displayName(msg.user))
		return m, tea.Batch(m.loadUsers(), m.runHook("edit", msg.user))

	case clipboardMsg:
		if msg.err != nil {
			m.setError("copy email", msg.err)
			return m, nil
		}
		m.setStatus("copied " + msg.text)
		return m, nil

	case jobEnvelope:
		switch jm := msg.msg.(type) {
		case jobStartedMsg:
			m.jobLine = "running " + jm.Title
		case jobLogMsg:
			m.jobLine = jm.Title + ": " + jm.Line
		case jobFinishedMsg:
			if jm.Err != nil {
				m.setError(jm.Title, jm.Err)
			}
			m.jobLine = ""
		}
		return m, m.jobs.Handle(msg.msg, msg.ch)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.form != nil {
		result, cmd := m.form.Update(msg)
		switch result {
		case formSubmitted:
			u := m.form.Value()
			m.form = nil
			return m.saveUser(u)
		case formCancelled:
			m.form = nil
			m.setStatus("edit cancelled")
		}
		return cmd
	}

	if m.menu.IsOpen() {
		m.menu.Update(msg)
		return m.flushPending()
	}

	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.users.SetGlobalFilter(m.search.Value())
			m.refreshGrid()
			return cmd
		}
		m.users.SetGlobalFilter(m.search.Value())
		m.refreshGrid()
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.persistFilters()
		return tea.Quit
	case key.Matches(msg, m.keys.actions):
		m.openActions()
	case key.Matches(msg, m.keys.newUser):
		m.editUser(usertable.User{Roles: []usertable.Role{}})
	case key.Matches(msg, m.keys.roleFilter):
		values := append([]string{""}, m.users.FacetValues(usertable.ColumnRoles)...)
		m.users.SetFilter(usertable.ColumnRoles, nextValue(values, m.users.Filter(usertable.ColumnRoles)))
		m.refreshGrid()
	case key.Matches(msg, m.keys.statusFilter):
		values := []string{"", usertable.StatusActive, usertable.StatusArchived}
		m.users.SetFilter(usertable.ColumnStatus, nextValue(values, m.users.Filter(usertable.ColumnStatus)))
		m.refreshGrid()
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.sortName):
		m.users.ToggleSort(usertable.ColumnName)
		m.refreshGrid()
	case key.Matches(msg, m.keys.sortEmail):
		m.users.ToggleSort(usertable.ColumnEmail)
		m.refreshGrid()
	case key.Matches(msg, m.keys.clear):
		m.users.ClearFilters()
		m.search.SetValue("")
		m.refreshGrid()
		m.setStatus("filters cleared")
	case key.Matches(msg, m.keys.copyEmail):
		return m.copySelectedEmail()
	case key.Matches(msg, m.keys.reload):
		return m.loadUsers()
	case key.Matches(msg, m.keys.toggleTheme):
		m.theme = nextMarkdownTheme(m.theme)
		m.detail.SetTheme(m.theme)
		m.cfg.Theme = string(m.theme)
		m.setStatus("theme: " + string(m.theme))
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	default:
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return cmd
	}
	return nil
}

// openActions opens the dropdown of the selected row's actions cell.
func (m *model) openActions() {
	u, ok := m.selectedUser()
	if !ok {
		return
	}
	col, ok := m.users.Column(usertable.ColumnActions)
	if !ok {
		return
	}
	m.menu.Open(col.Render(u).Menu)
}

func (m *model) selectedUser() (usertable.User, bool) {
	idx := m.grid.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return usertable.User{}, false
	}
	return m.visible[idx], true
}

func (m *model) copySelectedEmail() tea.Cmd {
	u, ok := m.selectedUser()
	if !ok || strings.TrimSpace(u.Email) == "" {
		return nil
	}
	email := u.Email
	return func() tea.Msg {
		return clipboardMsg{text: email, err: clipboard.WriteAll(email)}
	}
}

func (m *model) runHook(action string, u usertable.User) tea.Cmd {
	req, ok := hookJob(m.cfg.Hooks, action, u)
	if !ok {
		return nil
	}
	logger := m.logger
	req.onFinish = func(err error) {
		if err != nil {
			logger.Warn("hook failed", "action", action, "id", u.ID, "err", err)
			return
		}
		logger.Debug("hook finished", "action", action, "id", u.ID)
	}
	return m.jobs.Enqueue(req)
}

func (m *model) emit(event string, u usertable.User, detail map[string]string) {
	if err := m.actions.Record(event, u, detail); err != nil {
		m.logger.Warn("action log", "event", event, "err", err)
	}
}

func (m *model) persistFilters() {
	m.cfg.Filters = savedFilters{
		Role:   m.users.Filter(usertable.ColumnRoles),
		Status: m.users.Filter(usertable.ColumnStatus),
		Search: m.users.GlobalFilter(),
	}
	if m.cfgPath == "" {
		return
	}
	if err := saveUIConfig(m.cfg, m.cfgPath); err != nil {
		m.logger.Error("save ui config", "path", m.cfgPath, "err", err)
	}
}

func (m *model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *model) setError(what string, err error) {
	m.logger.Error(what, "err", err)
	m.status = fmt.Sprintf("%s: %v", what, err)
	m.statusErr = true
}

func (m *model) refreshGrid() {
	m.visible = m.users.Visible()
	m.grid.SetColumns(m.users.BubbleColumns(m.columnWidths()))
	m.grid.SetRows(m.users.BubbleRows(m.visible))
	if n := len(m.visible); n > 0 && m.grid.Cursor() >= n {
		m.grid.SetCursor(n - 1)
	}
}

func (m *model) gridWidth() int {
	if m.width <= 0 {
		return 0
	}
	return m.width * 3 / 5
}

// columnWidths spreads the grid width over the text columns, keeping the
// status and actions columns fixed.
func (m *model) columnWidths() []int {
	total := m.gridWidth()
	fixed := defaultColumnWidths[3] + defaultColumnWidths[4]
	// two cells of padding per column plus the panel border
	flexible := total - fixed - 2*len(defaultColumnWidths) - 2
	if flexible < 36 {
		return defaultColumnWidths
	}
	name := flexible * 3 / 10
	email := flexible * 4 / 10
	roles := flexible - name - email
	return []int{name, email, roles, defaultColumnWidths[3], defaultColumnWidths[4]}
}

func (m *model) layout() {
	m.help.Width = m.width
	gridHeight := m.height - 7
	if gridHeight < 3 {
		gridHeight = 3
	}
	m.grid.SetHeight(gridHeight)
	if w := m.gridWidth(); w > 0 {
		m.grid.SetWidth(w)
		m.detail.SetWidth(m.width - w - 6)
	}
	m.refreshGrid()
}

func (m *model) View() string {
	top := m.styles.topBar.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.topTitle.Render("Users"),
		m.styles.topFilters.Render(m.filterSummary()),
	))

	gridView := m.styles.panelFocused.Render(m.grid.View())
	right := m.detailView()
	switch {
	case m.form != nil:
		right = m.form.View(m.styles)
	case m.menu.IsOpen():
		right = lipgloss.JoinVertical(lipgloss.Left, m.menu.View(m.cellStyles), right)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, gridView, right)

	rows := []string{top, body}
	if m.searching {
		rows = append(rows, m.styles.topBar.Render(m.styles.searchPrompt.Render("/ ")+m.search.View()))
	}
	if m.status != "" {
		style := m.styles.statusBar
		if m.statusErr {
			style = m.styles.statusErr
		}
		rows = append(rows, style.Render(m.status))
	}
	if m.jobLine != "" {
		rows = append(rows, m.styles.statusJob.Render(m.jobLine))
	}
	rows = append(rows, m.styles.statusBar.Render(m.help.View(m.keys)))
	return m.styles.app.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *model) detailView() string {
	u, ok := m.selectedUser()
	if !ok {
		return m.styles.panel.Render(m.styles.detail.Render("No user selected"))
	}
	var badges []string
	for _, colKey := range []string{usertable.ColumnStatus, usertable.ColumnRoles} {
		if col, ok := m.users.Column(colKey); ok {
			if rendered := datatable.RenderCell(col.Render(u), m.cellStyles); rendered != "" {
				badges = append(badges, rendered)
			}
		}
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.detail.Render(strings.Join(badges, "  ")),
		m.detail.Render(userDetailMarkdown(u)),
	)
	return m.styles.panel.Render(content)
}

func (m *model) filterSummary() string {
	var parts []string
	if v := m.users.Filter(usertable.ColumnRoles); v != "" {
		parts = append(parts, "role: "+v)
	}
	if v := m.users.Filter(usertable.ColumnStatus); v != "" {
		parts = append(parts, "status: "+v)
	}
	if v := m.users.GlobalFilter(); v != "" {
		parts = append(parts, fmt.Sprintf("search: %q", v))
	}
	if s := m.users.Sort(); s.Column != "" {
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		parts = append(parts, "sort: "+s.Column+" "+dir)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d of %d • no filters", len(m.visible), len(m.users.Rows()))
	}
	return fmt.Sprintf("%d of %d • %s", len(m.visible), len(m.users.Rows()), strings.Join(parts, " • "))
}

// nextValue returns the entry following current in values, wrapping
// around. An unknown current value restarts at the first entry.
func nextValue(values []string, current string) string {
	if len(values) == 0 {
		return ""
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func displayName(u usertable.User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return u.ID
}
