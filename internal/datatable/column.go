package datatable

import (
	"fmt"
	"strings"
)

// Column describes one column of a Table: how its header reads, how a row
// value is extracted and rendered, and whether the column can be filtered.
type Column[T any] struct {
	ID          string
	Header      string
	AccessorKey string
	// Accessor extracts the raw value used for display, sorting and the
	// default filter. Columns without one are display-only.
	Accessor func(row T) any
	// Cell overrides the default text rendering of the accessor value.
	Cell func(row T) Cell
	// Filter reports whether row matches value. When nil and EnableFilter
	// is set, a case-insensitive substring match on the accessor is used.
	Filter       func(row T, value string) bool
	EnableFilter bool
	// DisableGlobalFilter keeps the column out of the table-wide search.
	DisableGlobalFilter bool
}

// Key identifies the column; ID wins over AccessorKey.
func (c Column[T]) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.AccessorKey
}

// Render produces the cell for row.
func (c Column[T]) Render(row T) Cell {
	if c.Cell != nil {
		return c.Cell(row)
	}
	if c.Accessor == nil {
		return Cell{}
	}
	return Cell{Text: valueText(c.Accessor(row))}
}

// Filterable reports whether the column accepts a filter value.
func (c Column[T]) Filterable() bool {
	return c.EnableFilter || c.Filter != nil
}

// Match applies the column filter to row.
func (c Column[T]) Match(row T, value string) bool {
	if c.Filter != nil {
		return c.Filter(row, value)
	}
	if value == "" || c.Accessor == nil {
		return true
	}
	return containsFold(valueText(c.Accessor(row)), value)
}

// Search reports whether row's accessor value contains query. Only text
// and numeric values take part; flags and other raw values never match.
func (c Column[T]) Search(row T, query string) bool {
	if c.DisableGlobalFilter || c.Accessor == nil {
		return false
	}
	switch v := c.Accessor(row).(type) {
	case string, fmt.Stringer,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return containsFold(valueText(v), query)
	default:
		return false
	}
}

func valueText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
