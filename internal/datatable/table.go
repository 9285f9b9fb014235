package datatable

import (
	"sort"
	"strings"
)

// SortState records the active sort column. An empty Column means rows
// keep their input order.
type SortState struct {
	Column string
	Desc   bool
}

// Table holds rows and the filter/sort state applied to them. It is not
// safe for concurrent use; the console mutates it from its update loop.
type Table[T any] struct {
	columns      []Column[T]
	rows         []T
	filters      map[string]string
	globalFilter string
	sort         SortState
}

// New builds a table over columns. The column slice is used as given.
func New[T any](columns []Column[T]) *Table[T] {
	return &Table[T]{
		columns: columns,
		filters: make(map[string]string),
	}
}

func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// Column looks a column up by key.
func (t *Table[T]) Column(key string) (Column[T], bool) {
	for _, col := range t.columns {
		if col.Key() == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
}

func (t *Table[T]) Rows() []T {
	return t.rows
}

// SetFilter sets the filter value of a filterable column. An empty value
// clears it. Unknown or non-filterable columns are ignored and reported.
func (t *Table[T]) SetFilter(key, value string) bool {
	col, ok := t.Column(key)
	if !ok || !col.Filterable() {
		return false
	}
	if value == "" {
		delete(t.filters, key)
		return true
	}
	t.filters[key] = value
	return true
}

// Filter returns the active filter value of a column.
func (t *Table[T]) Filter(key string) string {
	return t.filters[key]
}

// Filters returns a copy of the active column filters.
func (t *Table[T]) Filters() map[string]string {
	out := make(map[string]string, len(t.filters))
	for k, v := range t.filters {
		out[k] = v
	}
	return out
}

func (t *Table[T]) ClearFilters() {
	t.filters = make(map[string]string)
	t.globalFilter = ""
}

func (t *Table[T]) SetGlobalFilter(value string) {
	t.globalFilter = strings.TrimSpace(value)
}

func (t *Table[T]) GlobalFilter() string {
	return t.globalFilter
}

func (t *Table[T]) Sort() SortState {
	return t.sort
}

// ToggleSort cycles a column through ascending, descending and unsorted.
// Columns without an accessor cannot be sorted.
func (t *Table[T]) ToggleSort(key string) SortState {
	col, ok := t.Column(key)
	if !ok || col.Accessor == nil {
		return t.sort
	}
	switch {
	case t.sort.Column != key:
		t.sort = SortState{Column: key}
	case !t.sort.Desc:
		t.sort.Desc = true
	default:
		t.sort = SortState{}
	}
	return t.sort
}

// Visible returns the rows that pass every active filter, in sort order.
func (t *Table[T]) Visible() []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.matches(row) {
			out = append(out, row)
		}
	}
	if t.sort.Column == "" {
		return out
	}
	col, ok := t.Column(t.sort.Column)
	if !ok || col.Accessor == nil {
		return out
	}
	desc := t.sort.Desc
	sort.SliceStable(out, func(i, j int) bool {
		a := strings.ToLower(valueText(col.Accessor(out[i])))
		b := strings.ToLower(valueText(col.Accessor(out[j])))
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

func (t *Table[T]) matches(row T) bool {
	for key, value := range t.filters {
		col, ok := t.Column(key)
		if !ok {
			continue
		}
		if !col.Match(row, value) {
			return false
		}
	}
	if t.globalFilter == "" {
		return true
	}
	for _, col := range t.columns {
		if col.Search(row, t.globalFilter) {
			return true
		}
	}
	return false
}

// FacetValues lists the distinct badge labels (or plain texts) a column
// renders across all rows, in first-seen order. The console uses it to
// offer filter choices.
func (t *Table[T]) FacetValues(key string) []string {
	col, ok := t.Column(key)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, row := range t.rows {
		cell := col.Render(row)
		if len(cell.Badges) > 0 {
			for _, label := range cell.BadgeLabels() {
				add(label)
			}
			continue
		}
		add(cell.Text)
	}
	return out
}
