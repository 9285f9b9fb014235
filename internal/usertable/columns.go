package usertable

import "github.com/usersadmin/console/internal/datatable"

// Column keys, in display order.
const (
	ColumnName    = "name"
	ColumnEmail   = "email"
	ColumnRoles   = "roles"
	ColumnStatus  = "archived"
	ColumnActions = "actions"
)

// Handlers are the callbacks the actions menu delegates to. A nil handler
// makes its menu item a no-op.
type Handlers struct {
	OnEdit      func(User)
	OnArchive   func(User)
	OnUnarchive func(User)
}

// ActionKind names a row action.
type ActionKind string

const (
	ActionEdit      ActionKind = "edit"
	ActionArchive   ActionKind = "archive"
	ActionUnarchive ActionKind = "unarchive"
)

// Action is a menu entry before it is bound to a row.
type Action struct {
	Kind    ActionKind
	Label   string
	Icon    string
	Tone    datatable.Tone
	Handler func(User)
}

func (a Action) bind(u User) datatable.MenuItem {
	handler := a.Handler
	return datatable.MenuItem{
		Label: a.Label,
		Icon:  a.Icon,
		Tone:  a.Tone,
		Select: func() {
			if handler != nil {
				handler(u)
			}
		},
	}
}

// EditAction is always offered first.
func EditAction(h Handlers) Action {
	return Action{Kind: ActionEdit, Label: "Edit", Icon: "✎", Handler: h.OnEdit}
}

// ArchiveAction picks the second menu entry from the archived flag:
// archived rows offer Unarchive, active rows offer Archive.
func ArchiveAction(archived bool, h Handlers) Action {
	if archived {
		return Action{Kind: ActionUnarchive, Label: "Unarchive", Icon: "↶", Tone: datatable.ToneSuccess, Handler: h.OnUnarchive}
	}
	return Action{Kind: ActionArchive, Label: "Archive", Icon: "▣", Tone: datatable.ToneDanger, Handler: h.OnArchive}
}

// RowActions lists the actions offered for u, in menu order.
func RowActions(u User, h Handlers) []Action {
	return []Action{EditAction(h), ArchiveAction(u.Archived, h)}
}

// Columns returns the user table columns: Name, Email, Role, Status and the
// row actions menu. A new slice is built on every call.
func Columns(h Handlers) []datatable.Column[User] {
	return []datatable.Column[User]{
		{
			AccessorKey: ColumnName,
			Header:      "Name",
			Accessor:    func(u User) any { return u.Name },
		},
		{
			AccessorKey: ColumnEmail,
			Header:      "Email",
			Accessor:    func(u User) any { return u.Email },
		},
		{
			ID:           ColumnRoles,
			Header:       "Role",
			EnableFilter: true,
			Cell: func(u User) datatable.Cell {
				badges := make([]datatable.Badge, len(u.Roles))
				for i, r := range u.Roles {
					badges[i] = datatable.Badge{Label: r.Name, Tone: datatable.ToneInfo}
				}
				return datatable.Cell{Badges: badges}
			},
			Filter: func(u User, value string) bool {
				return HasRole(u, value)
			},
		},
		{
			AccessorKey:         ColumnStatus,
			Header:              "Status",
			EnableFilter:        true,
			DisableGlobalFilter: true,
			Accessor:            func(u User) any { return u.Archived },
			Cell: func(u User) datatable.Cell {
				tone := datatable.ToneSuccess
				if u.Archived {
					tone = datatable.ToneDanger
				}
				return datatable.Cell{Badges: []datatable.Badge{{Label: StatusLabel(u.Archived), Tone: tone}}}
			},
			Filter: StatusFilter,
		},
		{
			ID:     ColumnActions,
			Header: "",
			Cell: func(u User) datatable.Cell {
				actions := RowActions(u, h)
				items := make([]datatable.MenuItem, len(actions))
				for i, a := range actions {
					items[i] = a.bind(u)
				}
				return datatable.Cell{Menu: items}
			},
		},
	}
}

// StatusFilter matches rows against a status label. An empty or unknown
// value matches every row.
func StatusFilter(u User, value string) bool {
	switch value {
	case StatusActive:
		return !u.Archived
	case StatusArchived:
		return u.Archived
	default:
		return true
	}
}
