package gctoo

// Selection describes which rows and columns to keep. At most one of Rid,
// RowMask and Ridx may be set, and likewise for the columns. Unset means the
// whole axis. Exclusions are applied after the inclusion.
type Selection struct {
	Rid     []string
	RowMask []bool
	Ridx    []int

	Cid     []string
	ColMask []bool
	Cidx    []int

	ExcludeRid []string
	ExcludeCid []string

	Logger Logger
}

// Subset keeps the selected rows and columns in the container's existing
// order, not the order of the selection lists. Requested ids that are not in
// the container are logged and skipped. An empty result is an
// EmptyResultError.
func Subset(g *GCToo, sel Selection) (*GCToo, error) {
	out, err := Slice(g, sel)
	if err != nil {
		return nil, err
	}
	rows, cols := out.Data().Shape()
	if rows*cols == 0 {
		return nil, &EmptyResultError{Rows: rows, Cols: cols}
	}
	return out, nil
}

// Slice is Subset without the empty-result check: selecting nothing yields an
// empty container.
func Slice(g *GCToo, sel Selection) (*GCToo, error) {
	logger := LoggerOrDiscard(sel.Logger)

	rowPos, err := keepPositions(g.data.rows, g.data.rowIndex, "row", sel.Rid, sel.RowMask, sel.Ridx, sel.ExcludeRid, logger)
	if err != nil {
		return nil, err
	}
	colPos, err := keepPositions(g.data.cols, g.data.colIndex, "col", sel.Cid, sel.ColMask, sel.Cidx, sel.ExcludeCid, logger)
	if err != nil {
		return nil, err
	}

	return takeAll(g, rowPos, colPos)
}

// takeAll applies the same positions to the data and both metadata tables.
func takeAll(g *GCToo, rowPos, colPos []int) (*GCToo, error) {
	data, err := g.data.Take(rowPos, colPos)
	if err != nil {
		return nil, err
	}
	rowMeta, err := g.rowMeta.Take(rowPos, nil)
	if err != nil {
		return nil, err
	}
	colMeta, err := g.colMeta.Take(colPos, nil)
	if err != nil {
		return nil, err
	}
	return New(data, rowMeta, colMeta, WithSource(g.Source), WithVersion(g.Version))
}

func keepPositions(labels []string, index map[string]int, axis string, ids []string, mask []bool, idx []int, exclude []string, logger Logger) ([]int, error) {
	var kinds []string
	if ids != nil {
		kinds = append(kinds, axis[:1]+"id")
	}
	if mask != nil {
		kinds = append(kinds, axis+"_bool")
	}
	if idx != nil {
		kinds = append(kinds, axis[:1]+"idx")
	}
	if len(kinds) > 1 {
		return nil, &ExclusiveSelectionError{Axis: axis, Kinds: kinds}
	}

	keep := make([]bool, len(labels))
	switch {
	case ids != nil:
		var missing []string
		for _, id := range ids {
			p, ok := index[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			keep[p] = true
		}
		if len(missing) > 0 {
			logger.Printf("%d %s ids were not found in the GCToo: %v\n", len(missing), axis, missing)
		}
	case mask != nil:
		pos, err := maskPositions(len(labels), mask, axis)
		if err != nil {
			return nil, err
		}
		for _, p := range pos {
			keep[p] = true
		}
	case idx != nil:
		if err := checkPositions(len(labels), idx, axis); err != nil {
			return nil, err
		}
		for _, p := range idx {
			keep[p] = true
		}
	default:
		for p := range keep {
			keep[p] = true
		}
	}

	for _, id := range exclude {
		if p, ok := index[id]; ok {
			keep[p] = false
		}
	}

	out := make([]int, 0, len(labels))
	for p, k := range keep {
		if k {
			out = append(out, p)
		}
	}
	return out, nil
}
