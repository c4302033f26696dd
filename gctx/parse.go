// Package gctx reads and writes GCTX, the HDF5 container for GCT data.
//
// A GCTX file holds a root "version" attribute, the row and column metadata
// as one array per field under /0/META/ROW and /0/META/COL (each with an "id"
// array), and the data matrix at /0/DATA/0/matrix stored samples by features.
package gctx

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gctoo"
)

const (
	// Version is written to the root "version" attribute.
	Version = "GCTX1.0"

	versionAttr  = "version"
	srcAttr      = "src"
	rowMetaGroup = "/0/META/ROW"
	colMetaGroup = "/0/META/COL"
	dataNode     = "/0/DATA/0/matrix"
	idField      = "id"
)

// ParseOptions controls reading. For each axis at most one of the id list
// and the position list may be set; nil means the whole axis. Selected
// entries come back in file order, not in the order requested.
type ParseOptions struct {
	Rid  []string
	Ridx []int
	Cid  []string
	Cidx []int

	// ConvertNeg666 reads the legacy -666 sentinel as missing.
	ConvertNeg666 bool

	MakeJoinedView bool

	// Client reads gs:// paths in the *File functions. Optional.
	Client *storage.Client

	Logger gctoo.Logger
}

// DefaultParseOptions translates -666 to missing.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{ConvertNeg666: true}
}

// Parse reads a GCTX file of the given size.
func Parse(r io.ReaderAt, size int64, opts ParseOptions) (*gctoo.GCToo, error) {
	local, cleanup, err := spill(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return parsePath(local, opts)
}

// ParseFile reads a local or gs:// GCTX file. Only the parts of the matrix
// that hold selected cells are read. The result's Source is path.
func ParseFile(ctx context.Context, path string, opts ParseOptions) (*gctoo.GCToo, error) {
	local, cleanup, err := localCopy(ctx, path, opts.Client)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	g, err := parsePath(local, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.Source = path
	return g, nil
}

func parsePath(path string, opts ParseOptions) (*gctoo.GCToo, error) {
	logger := gctoo.LoggerOrDiscard(opts.Logger)
	f, err := openH5(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	colMeta, colKind, err := readMetadata(f, colMetaGroup, opts.ConvertNeg666)
	if err != nil {
		return nil, err
	}
	rowMeta, rowKind, err := readMetadata(f, rowMetaGroup, opts.ConvertNeg666)
	if err != nil {
		return nil, err
	}

	if err := checkExclusive("row", opts.Rid, opts.Ridx); err != nil {
		return nil, err
	}
	if err := checkExclusive("col", opts.Cid, opts.Cidx); err != nil {
		return nil, err
	}
	rowPos, err := resolve("row", opts.Rid, opts.Ridx, rowMeta, rowKind)
	if err != nil {
		return nil, err
	}
	colPos, err := resolve("col", opts.Cid, opts.Cidx, colMeta, colKind)
	if err != nil {
		return nil, err
	}
	nRows, _ := rowMeta.Shape()
	nCols, _ := colMeta.Shape()
	logger.Printf("reading %d of %d rows and %d of %d columns\n", len(rowPos), nRows, len(colPos), nCols)

	if rowMeta, err = rowMeta.Take(rowPos, nil); err != nil {
		return nil, err
	}
	if colMeta, err = colMeta.Take(colPos, nil); err != nil {
		return nil, err
	}

	data, err := readData(f, rowPos, colPos, rowMeta.IDs(), colMeta.IDs())
	if err != nil {
		return nil, err
	}

	version, err := f.rootAttr(versionAttr)
	if err != nil {
		return nil, err
	}

	gopts := []gctoo.Option{gctoo.WithVersion(version)}
	if opts.MakeJoinedView {
		gopts = append(gopts, gctoo.WithJoinedView())
	}
	return gctoo.New(data, rowMeta, colMeta, gopts...)
}

// ParseRowMetadata returns the row metadata without touching the matrix. The
// row selection in opts applies.
func ParseRowMetadata(r io.ReaderAt, size int64, opts ParseOptions) (*gctoo.MetaTable, error) {
	return parseMetadataReader(r, size, rowMetaGroup, "row", opts.Rid, opts.Ridx, opts)
}

// ParseColMetadata returns the column metadata without touching the matrix.
// The column selection in opts applies.
func ParseColMetadata(r io.ReaderAt, size int64, opts ParseOptions) (*gctoo.MetaTable, error) {
	return parseMetadataReader(r, size, colMetaGroup, "col", opts.Cid, opts.Cidx, opts)
}

func parseMetadataReader(r io.ReaderAt, size int64, group, axis string, ids []string, idx []int, opts ParseOptions) (*gctoo.MetaTable, error) {
	local, cleanup, err := spill(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return parseMetadata(local, group, axis, ids, idx, opts)
}

func parseMetadata(path, group, axis string, ids []string, idx []int, opts ParseOptions) (*gctoo.MetaTable, error) {
	f, err := openH5(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta, kind, err := readMetadata(f, group, opts.ConvertNeg666)
	if err != nil {
		return nil, err
	}
	if err := checkExclusive(axis, ids, idx); err != nil {
		return nil, err
	}
	pos, err := resolve(axis, ids, idx, meta, kind)
	if err != nil {
		return nil, err
	}
	return meta.Take(pos, nil)
}

// ParseRowMetadataFile is ParseRowMetadata on a local or gs:// path.
func ParseRowMetadataFile(ctx context.Context, path string, opts ParseOptions) (*gctoo.MetaTable, error) {
	return parseMetadataFile(ctx, path, rowMetaGroup, "row", opts.Rid, opts.Ridx, opts)
}

// ParseColMetadataFile is ParseColMetadata on a local or gs:// path.
func ParseColMetadataFile(ctx context.Context, path string, opts ParseOptions) (*gctoo.MetaTable, error) {
	return parseMetadataFile(ctx, path, colMetaGroup, "col", opts.Cid, opts.Cidx, opts)
}

func parseMetadataFile(ctx context.Context, path, group, axis string, ids []string, idx []int, opts ParseOptions) (*gctoo.MetaTable, error) {
	local, cleanup, err := localCopy(ctx, path, opts.Client)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	m, err := parseMetadata(local, group, axis, ids, idx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// idKind is the stored type of an id array.
type idKind int

const (
	idString idKind = iota
	idInteger
	idFloat
)

func (k idKind) String() string {
	switch k {
	case idInteger:
		return "integer"
	case idFloat:
		return "float"
	}
	return "string"
}

// readMetadata reads every array of a metadata group. Fields come back in
// name order.
func readMetadata(f *h5File, path string, convertNeg666 bool) (*gctoo.MetaTable, idKind, error) {
	g, err := f.group(path)
	if err != nil {
		return nil, idString, err
	}
	arrays := datasets(g)
	idSet, ok := arrays[idField]
	if !ok {
		return nil, idString, fmt.Errorf("gctx: %s has no %q array", path, idField)
	}

	stored, err := readColumn(idSet)
	if err != nil {
		return nil, idString, err
	}
	ids, kind := decodeIDs(stored)

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		if name != idField {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	nulls := gctoo.NewNullTokens(convertNeg666)
	var cols []gctoo.Column
	for _, name := range names {
		stored, err := readColumn(arrays[name])
		if err != nil {
			return nil, idString, err
		}
		if stored.Len() != len(ids) {
			return nil, idString, &gctoo.ShapeMismatchError{Axis: path + "/" + name, Expected: len(ids), Actual: stored.Len()}
		}
		cols = append(cols, gctoo.Column{Name: name, Values: decodeValues(stored, nulls, convertNeg666)})
	}

	meta, err := gctoo.NewMetaTable(ids, cols)
	return meta, kind, err
}

// decodeIDs formats numeric ids as integers when every one is integral.
func decodeIDs(c column) ([]string, idKind) {
	if c.isText {
		return c.text, idString
	}
	kind := idInteger
	for _, v := range c.numbers {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			kind = idFloat
			break
		}
	}
	ids := make([]string, len(c.numbers))
	for i, v := range c.numbers {
		if kind == idInteger {
			ids[i] = strconv.FormatInt(int64(v), 10)
		} else {
			ids[i] = gctoo.FormatNumber(v)
		}
	}
	return ids, kind
}

func decodeValues(c column, nulls gctoo.NullTokens, convertNeg666 bool) []gctoo.Value {
	out := make([]gctoo.Value, c.Len())
	if c.isText {
		for i, s := range c.text {
			out[i] = gctoo.ParseValue(s, nulls)
		}
		return out
	}
	for i, v := range c.numbers {
		if convertNeg666 && v == -666 {
			continue
		}
		out[i] = gctoo.NumberValue(v)
	}
	return out
}

func checkExclusive(axis string, ids []string, idx []int) error {
	if ids != nil && idx != nil {
		return &gctoo.ExclusiveSelectionError{Axis: axis, Kinds: []string{axis[:1] + "id", axis[:1] + "idx"}}
	}
	return nil
}

// resolve turns a selection into sorted, distinct positions. Ids are first
// converted to the stored id type, then checked for existence.
func resolve(axis string, ids []string, idx []int, meta *gctoo.MetaTable, kind idKind) ([]int, error) {
	n, _ := meta.Shape()
	var pos []int
	switch {
	case ids != nil:
		converted, err := convertIDs(axis, ids, kind)
		if err != nil {
			return nil, err
		}
		var missing []string
		for _, id := range converted {
			p, ok := meta.Position(id)
			if !ok {
				missing = append(missing, id)
				continue
			}
			pos = append(pos, p)
		}
		if len(missing) > 0 {
			return nil, &gctoo.UnknownIdentifierError{Axis: axis, IDs: missing}
		}
	case idx != nil:
		var bad []int
		for _, p := range idx {
			if p < 0 || p >= n {
				bad = append(bad, p)
			}
		}
		if len(bad) > 0 {
			return nil, &gctoo.IndexOutOfRangeError{Axis: axis, Length: n, Indices: bad}
		}
		pos = append(pos, idx...)
	default:
		pos = make([]int, n)
		for i := range pos {
			pos[i] = i
		}
		return pos, nil
	}

	sort.Ints(pos)
	out := make([]int, 0, len(pos))
	for i, p := range pos {
		if i == 0 || p != pos[i-1] {
			out = append(out, p)
		}
	}
	return out, nil
}

// convertIDs normalizes requested ids to the stored id type, so "007"
// matches a stored integer 7.
func convertIDs(axis string, ids []string, kind idKind) ([]string, error) {
	if kind == idString {
		return ids, nil
	}
	out := make([]string, len(ids))
	var bad []string
	for i, id := range ids {
		switch kind {
		case idInteger:
			v, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				bad = append(bad, id)
				continue
			}
			out[i] = strconv.FormatInt(v, 10)
		case idFloat:
			v, err := strconv.ParseFloat(id, 64)
			if err != nil || math.IsNaN(v) {
				bad = append(bad, id)
				continue
			}
			out[i] = gctoo.FormatNumber(v)
		}
	}
	if len(bad) > 0 {
		return nil, &gctoo.IncompatibleIdentifierTypeError{Axis: axis, Stored: kind.String(), IDs: bad}
	}
	return out, nil
}

// readData reads the selected cells. The file stores samples by features, so
// each run of adjacent selected samples is read as one block spanning the
// selected features.
func readData(f *h5File, rowPos, colPos []int, rids, cids []string) (*gctoo.Matrix, error) {
	values := make([]float64, len(rowPos)*len(colPos))
	if len(values) == 0 {
		return gctoo.NewMatrix(rids, cids, values)
	}

	d, err := f.dataset(dataNode)
	if err != nil {
		return nil, err
	}

	lo, hi := rowPos[0], rowPos[len(rowPos)-1]
	width := hi - lo + 1
	for start := 0; start < len(colPos); {
		end := start + 1
		for end < len(colPos) && colPos[end] == colPos[end-1]+1 {
			end++
		}

		block, err := readBlock(d, [2]int{colPos[start], lo}, [2]int{end - start, width})
		if err != nil {
			return nil, err
		}
		for j := start; j < end; j++ {
			row := block[(j-start)*width:]
			for i, p := range rowPos {
				values[i*len(colPos)+j] = row[p-lo]
			}
		}
		start = end
	}
	return gctoo.NewMatrix(rids, cids, values)
}
