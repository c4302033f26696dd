package gctoo

import "fmt"

// IndexKey is one composite label of the joined view: the metadata values in
// field order, plus the id that distinguishes otherwise equal keys.
type IndexKey struct {
	Fields []Value
	ID     string
}

// JoinedView is the data matrix indexed by (metadata fields..., id) on both
// axes. It is derived from a GCToo and never edited in place.
type JoinedView struct {
	rowFields []string
	colFields []string
	rowKeys   []IndexKey
	colKeys   []IndexKey
	data      *Matrix
}

func buildJoinedView(g *GCToo) *JoinedView {
	return &JoinedView{
		rowFields: g.rowMeta.Fields(),
		colFields: g.colMeta.Fields(),
		rowKeys:   keysOf(g.rowMeta),
		colKeys:   keysOf(g.colMeta),
		data:      g.data,
	}
}

func keysOf(t *MetaTable) []IndexKey {
	keys := make([]IndexKey, len(t.ids))
	for i, id := range t.ids {
		keys[i] = IndexKey{Fields: t.Row(i), ID: id}
	}
	return keys
}

// RowLevels names the row key levels; the id level comes last as "rid".
func (v *JoinedView) RowLevels() []string { return append(copyStrings(v.rowFields), "rid") }

// ColLevels names the column key levels; the id level comes last as "cid".
func (v *JoinedView) ColLevels() []string { return append(copyStrings(v.colFields), "cid") }

// RowKeys returns a copy of the row keys, in matrix order.
func (v *JoinedView) RowKeys() []IndexKey { return copyKeys(v.rowKeys) }

// ColKeys returns a copy of the column keys, in matrix order.
func (v *JoinedView) ColKeys() []IndexKey { return copyKeys(v.colKeys) }

func copyKeys(keys []IndexKey) []IndexKey {
	out := make([]IndexKey, len(keys))
	for i, k := range keys {
		out[i] = IndexKey{Fields: append([]Value(nil), k.Fields...), ID: k.ID}
	}
	return out
}

func (v *JoinedView) Shape() (int, int) { return len(v.rowKeys), len(v.colKeys) }

func (v *JoinedView) At(i, j int) float64 { return v.data.At(i, j) }

// SelectRows is a cross-section: it keeps the rows whose field equals value.
// The metadata levels are kept.
func (v *JoinedView) SelectRows(field string, value Value) (*JoinedView, error) {
	pos, err := matchingKeys(v.rowFields, v.rowKeys, field, value)
	if err != nil {
		return nil, err
	}
	data, err := v.data.Take(pos, nil)
	if err != nil {
		return nil, err
	}
	out := *v
	out.rowKeys = pickKeys(v.rowKeys, pos)
	out.data = data
	return &out, nil
}

// SelectCols is the column analogue of SelectRows.
func (v *JoinedView) SelectCols(field string, value Value) (*JoinedView, error) {
	pos, err := matchingKeys(v.colFields, v.colKeys, field, value)
	if err != nil {
		return nil, err
	}
	data, err := v.data.Take(nil, pos)
	if err != nil {
		return nil, err
	}
	out := *v
	out.colKeys = pickKeys(v.colKeys, pos)
	out.data = data
	return &out, nil
}

func matchingKeys(fields []string, keys []IndexKey, field string, value Value) ([]int, error) {
	level := -1
	for j, f := range fields {
		if f == field {
			level = j
			break
		}
	}
	if level < 0 {
		return nil, fmt.Errorf("level %q is not present in the joined view", field)
	}
	pos := []int{}
	for i, k := range keys {
		if k.Fields[level].Equal(value) {
			pos = append(pos, i)
		}
	}
	return pos, nil
}

func pickKeys(keys []IndexKey, pos []int) []IndexKey {
	out := make([]IndexKey, len(pos))
	for n, p := range pos {
		out[n] = keys[p]
	}
	return out
}

// SplitJoinedView decomposes a joined view back into its three tables. An
// axis with no fields yields a metadata table with ids and no fields.
func SplitJoinedView(v *JoinedView) (*Matrix, *MetaTable, *MetaTable, error) {
	data, err := v.data.withLabels(keyIDs(v.rowKeys), keyIDs(v.colKeys))
	if err != nil {
		return nil, nil, nil, err
	}
	rowMeta, err := metaFromKeys(v.rowFields, v.rowKeys)
	if err != nil {
		return nil, nil, nil, err
	}
	colMeta, err := metaFromKeys(v.colFields, v.colKeys)
	if err != nil {
		return nil, nil, nil, err
	}
	return data, rowMeta, colMeta, nil
}

func keyIDs(keys []IndexKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.ID
	}
	return out
}

func metaFromKeys(fields []string, keys []IndexKey) (*MetaTable, error) {
	cells := make([][]Value, len(keys))
	for i, k := range keys {
		cells[i] = k.Fields
	}
	return NewMetaTableFromRows(keyIDs(keys), fields, cells)
}
