package gctoo

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

// ConcatOptions controls HStack and VStack.
type ConcatOptions struct {
	// FieldsToRemove are dropped from the common metadata before the inputs
	// are reconciled.
	FieldsToRemove []string

	// RemoveAllMetadataFields drops every field from both metadata tables,
	// leaving ids only.
	RemoveAllMetadataFields bool

	// ResetIDs replaces the concatenated axis ids with 0..n-1 and keeps the
	// old ids in a leading metadata field named "cid" (HStack) or "rid"
	// (VStack).
	ResetIDs bool

	// ErrorReportFile, when set, receives the conflict report as TSV before a
	// MetadataReconciliationError is returned.
	ErrorReportFile string

	Logger Logger
}

// ConflictReport lists every source row behind a conflicting common
// metadata id.
type ConflictReport struct {
	Fields []string
	Rows   []ConflictRow
}

// ConflictRow is one source row of a conflicting id.
type ConflictRow struct {
	Values     []Value
	SourceFile string
	OrigID     string
}

// WriteTSV writes the report with an "index" column first and "source_file"
// and "orig_rid" columns last. Missing values are written empty.
func (r *ConflictReport) WriteTSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string{"index"}, r.Fields...)
	header = append(header, "source_file", "orig_rid")
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range r.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(i))
		for _, v := range row.Values {
			rec = append(rec, v.String())
		}
		rec = append(rec, row.SourceFile, row.OrigID)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HStack concatenates containers column-wise. The row metadata is the common
// metadata and must agree across inputs; the column metadata is stacked.
// Rows and columns of the result are sorted by id.
func HStack(gctoos []*GCToo, opts ConcatOptions) (*GCToo, error) {
	return stack(gctoos, opts, "cid")
}

// VStack concatenates containers row-wise. The column metadata is the common
// metadata.
func VStack(gctoos []*GCToo, opts ConcatOptions) (*GCToo, error) {
	transposed := make([]*GCToo, len(gctoos))
	for i, g := range gctoos {
		t, err := Transpose(g)
		if err != nil {
			return nil, err
		}
		transposed[i] = t
	}
	out, err := stack(transposed, opts, "rid")
	if err != nil {
		return nil, err
	}
	return Transpose(out)
}

// stack joins the inputs along their columns.
func stack(gctoos []*GCToo, opts ConcatOptions, idName string) (*GCToo, error) {
	if len(gctoos) == 0 {
		return nil, fmt.Errorf("nothing to concatenate")
	}
	logger := LoggerOrDiscard(opts.Logger)

	commonMetas := make([]*MetaTable, len(gctoos))
	sources := make([]string, len(gctoos))
	for i, g := range gctoos {
		commonMetas[i] = g.rowMeta
		sources[i] = g.Source
	}

	common, err := assembleCommonMeta(commonMetas, sources, opts, logger)
	if err != nil {
		return nil, err
	}

	ids, fields, cells := assembleConcatenatedMeta(gctoos, opts.RemoveAllMetadataFields)
	order := sortedPositions(ids)

	rows := common.ids
	values := make([]float64, len(rows)*len(ids))
	for i := range values {
		values[i] = math.NaN()
	}
	outCol := 0
	colSource := make([][2]int, 0, len(ids))
	for k, g := range gctoos {
		for j := range g.data.cols {
			colSource = append(colSource, [2]int{k, j})
		}
	}
	if len(colSource) != len(ids) {
		return nil, fmt.Errorf("number of columns in data does not match number of rows in the concatenated metadata: %d != %d", len(colSource), len(ids))
	}
	for _, p := range order {
		k, j := colSource[p][0], colSource[p][1]
		src := gctoos[k].data
		for r, rid := range rows {
			if i, ok := src.rowIndex[rid]; ok {
				values[r*len(ids)+outCol] = src.At(i, j)
			}
		}
		outCol++
	}

	dataRows := 0
	for _, rid := range rows {
		for _, g := range gctoos {
			if _, ok := g.data.rowIndex[rid]; ok {
				dataRows++
				break
			}
		}
	}
	if dataRows != len(rows) {
		return nil, fmt.Errorf("number of rows in metadata does not match number of rows in data: %d != %d", len(rows), dataRows)
	}

	sortedIDs := pick(ids, order)
	sortedCells := make([][]Value, len(order))
	for n, p := range order {
		sortedCells[n] = cells[p]
	}

	colIDs := sortedIDs
	var leading *Column
	if opts.ResetIDs {
		colIDs = make([]string, len(sortedIDs))
		old := make([]Value, len(sortedIDs))
		for n, id := range sortedIDs {
			colIDs[n] = strconv.Itoa(n)
			old[n] = TextValue(id)
		}
		leading = &Column{Name: idName, Values: old}
	}

	concatMeta, err := NewMetaTableFromRows(colIDs, fields, sortedCells)
	if err != nil {
		return nil, err
	}
	if leading != nil {
		if concatMeta, err = concatMeta.WithFirstColumn(*leading); err != nil {
			return nil, err
		}
	}

	data, err := NewMatrix(rows, colIDs, values)
	if err != nil {
		return nil, err
	}

	logger.Printf("Build GCToo of all...\n")
	return New(data, common, concatMeta)
}

type commonRow struct {
	id     string
	values []Value
	source string
}

func sameValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// assembleCommonMeta reconciles the common metadata of every input. Fields
// not shared by all inputs are dropped, then FieldsToRemove. An id that ends
// up with more than one distinct set of values is a conflict.
func assembleCommonMeta(metas []*MetaTable, sources []string, opts ConcatOptions, logger Logger) (*MetaTable, error) {
	var fields []string
	if !opts.RemoveAllMetadataFields {
		counts := make(map[string]int)
		for _, m := range metas {
			for _, f := range m.Fields() {
				counts[f]++
			}
		}
		remove := make(map[string]bool)
		for _, f := range opts.FieldsToRemove {
			remove[f] = true
		}
		for f, n := range counts {
			if n == len(metas) && !remove[f] {
				fields = append(fields, f)
			}
		}
		sort.Strings(fields)
	}
	logger.Printf("shared common metadata fields: %v\n", fields)

	var withDups []commonRow
	for k, m := range metas {
		pos := make([]int, len(fields))
		for n, f := range fields {
			pos[n] = m.fieldIndex[f]
		}
		for i, id := range m.ids {
			values := make([]Value, len(fields))
			for n, j := range pos {
				values[n] = m.columns[j].Values[i]
			}
			withDups = append(withDups, commonRow{id: id, values: values, source: sources[k]})
		}
	}

	distinct := make(map[string][][]Value)
	var order, conflicts []string
	for _, r := range withDups {
		seen, ok := distinct[r.id]
		if !ok {
			order = append(order, r.id)
		}
		dup := false
		for _, s := range seen {
			if sameValues(s, r.values) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if len(seen) == 1 {
			conflicts = append(conflicts, r.id)
		}
		distinct[r.id] = append(seen, r.values)
	}

	if len(conflicts) > 0 {
		report := &ConflictReport{Fields: fields}
		for _, id := range conflicts {
			for _, r := range withDups {
				if r.id == id {
					report.Rows = append(report.Rows, ConflictRow{Values: r.values, SourceFile: r.source, OrigID: r.id})
				}
			}
		}
		if opts.ErrorReportFile != "" {
			if err := writeReportFile(opts.ErrorReportFile, report); err != nil {
				return nil, err
			}
		}
		logger.Printf("conflicting common metadata for ids: %v\n", conflicts)
		return nil, &MetadataReconciliationError{IDs: conflicts, Report: report}
	}

	sort.Strings(order)
	cells := make([][]Value, len(order))
	for i, id := range order {
		cells[i] = distinct[id][0]
	}
	return NewMetaTableFromRows(order, fields, cells)
}

func writeReportFile(path string, report *ConflictReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return report.WriteTSV(f)
}

// assembleConcatenatedMeta stacks the column metadata of every input over the
// sorted union of their fields. Ids are returned in input order and may
// repeat.
func assembleConcatenatedMeta(gctoos []*GCToo, removeAll bool) ([]string, []string, [][]Value) {
	var fields []string
	if !removeAll {
		seen := make(map[string]bool)
		for _, g := range gctoos {
			for _, f := range g.colMeta.Fields() {
				if !seen[f] {
					seen[f] = true
					fields = append(fields, f)
				}
			}
		}
		sort.Strings(fields)
	}

	var ids []string
	var cells [][]Value
	for _, g := range gctoos {
		m := g.colMeta
		for i, id := range m.ids {
			row := make([]Value, len(fields))
			for n, f := range fields {
				if j, ok := m.fieldIndex[f]; ok {
					row[n] = m.columns[j].Values[i]
				}
			}
			ids = append(ids, id)
			cells = append(cells, row)
		}
	}
	return ids, fields, cells
}
