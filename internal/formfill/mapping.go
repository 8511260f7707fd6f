package formfill

import (
	"fmt"
	"strconv"
	"strings"
)

// RowPlaceholder marks where the 1-based row index goes in a repeating-group
// field name, e.g. "hist_r{i}_year".
const RowPlaceholder = "{i}"

// binding is one resolved (field, format, value) triple ready for the driver.
type binding struct {
	field  string
	format Format
	value  Value
}

// FieldSpec is a widget name a table can write together with its format.
type FieldSpec struct {
	Field  string `json:"field"`
	Format Format `json:"format"`
}

// Rule is an element of a mapping table: either a single Entry or a
// repeating Group.
type Rule[R any] interface {
	bind(rec R, yield func(binding))
	specs() []FieldSpec
	validate() error
}

// Entry binds one widget name to one record attribute and its format.
type Entry[R any] struct {
	Field  string
	Format Format
	Get    func(R) Value
}

func (e Entry[R]) bind(rec R, yield func(binding)) {
	yield(binding{field: e.Field, format: e.Format, value: e.Get(rec)})
}

func (e Entry[R]) specs() []FieldSpec { return []FieldSpec{{Field: e.Field, Format: e.Format}} }

func (e Entry[R]) validate() error {
	if e.Field == "" {
		return fmt.Errorf("entry has an empty field name")
	}
	if e.Get == nil {
		return fmt.Errorf("entry %q has no accessor", e.Field)
	}
	return nil
}

// Text maps a free-text attribute.
func Text[R any](field string, get func(R) *string) Entry[R] {
	return Entry[R]{Field: field, Format: FormatText, Get: func(r R) Value { return StringOf(get(r)) }}
}

// Integer maps an integer attribute.
func Integer[R any](field string, get func(R) *int) Entry[R] {
	return Entry[R]{Field: field, Format: FormatInteger, Get: func(r R) Value { return IntOf(get(r)) }}
}

// Decimal maps a decimal attribute.
func Decimal[R any](field string, get func(R) *float64) Entry[R] {
	return Entry[R]{Field: field, Format: FormatDecimal, Get: func(r R) Value { return FloatOf(get(r)) }}
}

// Date maps a date attribute held as entered (ISO date, RFC 3339, ...).
func Date[R any](field string, get func(R) *string) Entry[R] {
	return Entry[R]{Field: field, Format: FormatDate, Get: func(r R) Value { return StringOf(get(r)) }}
}

// Mark maps a boolean attribute onto a check box, falling back to the mark
// character in a text widget of the same name.
func Mark[R any](field string, get func(R) *bool) Entry[R] {
	return Entry[R]{Field: field, Format: FormatMark, Get: func(r R) Value { return BoolOf(get(r)) }}
}

// Group expands a sequence attribute into one set of column entries per
// element. Elements beyond Capacity are dropped without warning.
type Group[R, Row any] struct {
	Name     string
	Capacity int
	Rows     func(R) []Row
	Columns  []Entry[Row]
}

// Repeat builds a Group. Column field names must contain RowPlaceholder.
func Repeat[R, Row any](name string, capacity int, rows func(R) []Row, columns ...Entry[Row]) Group[R, Row] {
	return Group[R, Row]{Name: name, Capacity: capacity, Rows: rows, Columns: columns}
}

// RowField substitutes the 1-based row index into a column field name.
func RowField(pattern string, row int) string {
	return strings.ReplaceAll(pattern, RowPlaceholder, strconv.Itoa(row))
}

func (g Group[R, Row]) bind(rec R, yield func(binding)) {
	rows := g.Rows(rec)
	if len(rows) > g.Capacity {
		rows = rows[:g.Capacity]
	}
	for i, row := range rows {
		for _, col := range g.Columns {
			yield(binding{field: RowField(col.Field, i+1), format: col.Format, value: col.Get(row)})
		}
	}
}

func (g Group[R, Row]) specs() []FieldSpec {
	out := make([]FieldSpec, 0, g.Capacity*len(g.Columns))
	for i := 1; i <= g.Capacity; i++ {
		for _, col := range g.Columns {
			out = append(out, FieldSpec{Field: RowField(col.Field, i), Format: col.Format})
		}
	}
	return out
}

func (g Group[R, Row]) validate() error {
	if g.Capacity < 1 {
		return fmt.Errorf("group %q has capacity %d", g.Name, g.Capacity)
	}
	if g.Rows == nil {
		return fmt.Errorf("group %q has no row accessor", g.Name)
	}
	for _, col := range g.Columns {
		if err := col.validate(); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		if !strings.Contains(col.Field, RowPlaceholder) {
			return fmt.Errorf("group %q: column %q lacks %s", g.Name, col.Field, RowPlaceholder)
		}
	}
	return nil
}

// Table is the static mapping for one document type.
type Table[R any] struct {
	Name  string
	Rules []Rule[R]
}

// Specs enumerates every widget the table can ever write, in table order,
// without consulting a record.
func (t Table[R]) Specs() []FieldSpec {
	var out []FieldSpec
	for _, r := range t.Rules {
		out = append(out, r.specs()...)
	}
	return out
}

// Fields is Specs reduced to widget names.
func (t Table[R]) Fields() []string {
	specs := t.Specs()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Field
	}
	return out
}

// Validate checks the table for empty names, missing accessors, malformed
// group columns and duplicate field names.
func (t Table[R]) Validate() error {
	seen := make(map[string]bool)
	for _, r := range t.Rules {
		if err := r.validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		for _, s := range r.specs() {
			if seen[s.Field] {
				return fmt.Errorf("table %s: duplicate field %q", t.Name, s.Field)
			}
			seen[s.Field] = true
		}
	}
	return nil
}
