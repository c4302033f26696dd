package gctoo

import (
	"fmt"
	"sort"
)

// Column is one metadata field.
type Column struct {
	Name   string
	Values []Value
}

// Kind reports whether every non-missing cell of the column is numeric.
func (c Column) Kind() ColumnKind { return classify(c.Values) }

// MetaTable is a metadata table: one row per id, one column per field. The
// column metadata table is held with samples as rows.
type MetaTable struct {
	ids        []string
	idIndex    map[string]int
	columns    []Column
	fieldIndex map[string]int
}

// NewMetaTable builds a table from columns. Every column must have one value
// per id.
func NewMetaTable(ids []string, columns []Column) (*MetaTable, error) {
	ids = copyStrings(ids)
	idIndex, dups := labelIndex(ids)
	if len(dups) > 0 {
		return nil, &DuplicateLabelError{Table: "metadata", Axis: "row", Labels: dups}
	}

	names := make([]string, len(columns))
	cols := make([]Column, len(columns))
	for j, c := range columns {
		if len(c.Values) != len(ids) {
			return nil, fmt.Errorf("NewMetaTable: field %q has %d values for %d ids", c.Name, len(c.Values), len(ids))
		}
		names[j] = c.Name
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		cols[j] = Column{Name: c.Name, Values: values}
	}
	fieldIndex, dups := labelIndex(names)
	if len(dups) > 0 {
		return nil, &DuplicateLabelError{Table: "metadata", Axis: "col", Labels: dups}
	}

	return &MetaTable{ids: ids, idIndex: idIndex, columns: cols, fieldIndex: fieldIndex}, nil
}

// NewMetaTableFromRows builds a table from row-major cells.
func NewMetaTableFromRows(ids, fields []string, cells [][]Value) (*MetaTable, error) {
	if len(cells) != len(ids) {
		return nil, fmt.Errorf("NewMetaTableFromRows: %d cell rows for %d ids", len(cells), len(ids))
	}
	cols := make([]Column, len(fields))
	for j, f := range fields {
		cols[j] = Column{Name: f, Values: make([]Value, len(ids))}
	}
	for i, row := range cells {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("NewMetaTableFromRows: id %q has %d cells for %d fields", ids[i], len(row), len(fields))
		}
		for j, v := range row {
			cols[j].Values[i] = v
		}
	}
	return NewMetaTable(ids, cols)
}

// EmptyMetaTable is a table of ids with no fields.
func EmptyMetaTable(ids []string) (*MetaTable, error) {
	return NewMetaTable(ids, nil)
}

// IDs returns a copy of the row labels.
func (t *MetaTable) IDs() []string { return copyStrings(t.ids) }

// Fields returns the field names in order.
func (t *MetaTable) Fields() []string {
	out := make([]string, len(t.columns))
	for j, c := range t.columns {
		out[j] = c.Name
	}
	return out
}

func (t *MetaTable) Shape() (int, int) { return len(t.ids), len(t.columns) }

// Column returns a copy of the named field.
func (t *MetaTable) Column(name string) (Column, bool) {
	j, ok := t.fieldIndex[name]
	if !ok {
		return Column{}, false
	}
	return t.ColumnAt(j), true
}

// ColumnAt returns a copy of field j.
func (t *MetaTable) ColumnAt(j int) Column {
	c := t.columns[j]
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Values: values}
}

func (t *MetaTable) At(i, j int) Value { return t.columns[j].Values[i] }

// Lookup returns the value of field for id.
func (t *MetaTable) Lookup(id, field string) (Value, bool) {
	i, ok := t.idIndex[id]
	if !ok {
		return Value{}, false
	}
	j, ok := t.fieldIndex[field]
	if !ok {
		return Value{}, false
	}
	return t.columns[j].Values[i], true
}

// Row returns the cells of row i across all fields.
func (t *MetaTable) Row(i int) []Value {
	out := make([]Value, len(t.columns))
	for j, c := range t.columns {
		out[j] = c.Values[i]
	}
	return out
}

// Position returns the row position of id.
func (t *MetaTable) Position(id string) (int, bool) {
	i, ok := t.idIndex[id]
	return i, ok
}

// Take returns the sub-table at the given row and field positions, in the
// given order. A nil slice keeps the whole axis.
func (t *MetaTable) Take(rowPos, colPos []int) (*MetaTable, error) {
	if rowPos == nil {
		rowPos = identity(len(t.ids))
	}
	if colPos == nil {
		colPos = identity(len(t.columns))
	}
	if err := checkPositions(len(t.ids), rowPos, "row"); err != nil {
		return nil, err
	}
	if err := checkPositions(len(t.columns), colPos, "field"); err != nil {
		return nil, err
	}
	cols := make([]Column, len(colPos))
	for k, j := range colPos {
		src := t.columns[j]
		values := make([]Value, len(rowPos))
		for n, i := range rowPos {
			values[n] = src.Values[i]
		}
		cols[k] = Column{Name: src.Name, Values: values}
	}
	return NewMetaTable(pick(t.ids, rowPos), cols)
}

// ByLabels selects rows by id or columns by field name, in the order given.
func (t *MetaTable) ByLabels(axis Axis, labels []string) (*MetaTable, error) {
	if axis == RowAxis {
		pos, err := positionsOf(t.idIndex, labels, "row")
		if err != nil {
			return nil, err
		}
		return t.Take(pos, nil)
	}
	pos, err := positionsOf(t.fieldIndex, labels, "field")
	if err != nil {
		return nil, err
	}
	return t.Take(nil, pos)
}

// ByPositions selects along axis by position, in the order given.
func (t *MetaTable) ByPositions(axis Axis, positions []int) (*MetaTable, error) {
	if axis == RowAxis {
		return t.Take(positions, nil)
	}
	return t.Take(nil, positions)
}

// ByMask keeps the entries of axis whose mask value is true.
func (t *MetaTable) ByMask(axis Axis, mask []bool) (*MetaTable, error) {
	n := len(t.ids)
	if axis == ColAxis {
		n = len(t.columns)
	}
	pos, err := maskPositions(n, mask, axis.String())
	if err != nil {
		return nil, err
	}
	return t.ByPositions(axis, pos)
}

// Reindex reorders the rows to match ids, which must be the same set.
func (t *MetaTable) Reindex(ids []string) (*MetaTable, error) {
	if err := sameLabelSet("metadata", ids, t.ids); err != nil {
		return nil, err
	}
	pos, err := positionsOf(t.idIndex, ids, "row")
	if err != nil {
		return nil, err
	}
	return t.Take(pos, nil)
}

// DropFields returns a copy without the named fields. Unknown names are
// ignored.
func (t *MetaTable) DropFields(names ...string) *MetaTable {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []Column
	for _, c := range t.columns {
		if !drop[c.Name] {
			keep = append(keep, c)
		}
	}
	out, _ := NewMetaTable(t.ids, keep)
	return out
}

// WithFirstColumn returns a copy with c inserted before the existing fields.
func (t *MetaTable) WithFirstColumn(c Column) (*MetaTable, error) {
	cols := append([]Column{c}, t.columns...)
	return NewMetaTable(t.ids, cols)
}

// WithIDs returns a copy with the row labels replaced positionally.
func (t *MetaTable) WithIDs(ids []string) (*MetaTable, error) {
	if len(ids) != len(t.ids) {
		return nil, &ShapeMismatchError{Axis: "metadata", Expected: len(t.ids), Actual: len(ids)}
	}
	return NewMetaTable(ids, t.columns)
}

// SortedFields returns a copy with the fields in name order.
func (t *MetaTable) SortedFields() *MetaTable {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	sort.SliceStable(cols, func(a, b int) bool { return cols[a].Name < cols[b].Name })
	out, _ := NewMetaTable(t.ids, cols)
	return out
}

// Equal reports whether both tables hold the same ids, fields and values in
// the same order.
func (t *MetaTable) Equal(o *MetaTable) bool {
	if len(t.ids) != len(o.ids) || len(t.columns) != len(o.columns) {
		return false
	}
	for i := range t.ids {
		if t.ids[i] != o.ids[i] {
			return false
		}
	}
	for j := range t.columns {
		if t.columns[j].Name != o.columns[j].Name {
			return false
		}
		for i := range t.ids {
			if !t.columns[j].Values[i].Equal(o.columns[j].Values[i]) {
				return false
			}
		}
	}
	return true
}
