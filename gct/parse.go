// Package gct reads and writes the tab-delimited GCT format, versions 1.2 and
// 1.3.
package gct

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gctoo"
)

// ErrUnsupportedSelection is returned when a row or column selection is
// passed to the GCT reader. GCT must be read whole; subset afterwards.
var ErrUnsupportedSelection = errors.New("gct: subsetting by rid or cid is not supported while parsing; parse fully then subset")

// ParseOptions controls reading.
type ParseOptions struct {
	// ConvertNeg666 also treats the legacy "-666" token as missing.
	ConvertNeg666 bool

	// MakeJoinedView builds the joined view on the result.
	MakeJoinedView bool

	// Client reads gs:// paths in ParseFile. Optional.
	Client *storage.Client

	Logger gctoo.Logger
}

// DefaultParseOptions translates -666 to missing.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{ConvertNeg666: true}
}

type header struct {
	version              string
	rows, cols           int
	rowFields, colFields int
}

type body struct {
	header
	cells [][]string
}

// Parse reads a whole GCT document.
func Parse(r io.Reader, opts ParseOptions) (*gctoo.GCToo, error) {
	b, err := readBody(r, opts)
	if err != nil {
		return nil, err
	}
	nulls := gctoo.NewNullTokens(opts.ConvertNeg666)

	rowMeta, err := b.rowMetadata(nulls)
	if err != nil {
		return nil, err
	}
	colMeta, err := b.colMetadata(nulls)
	if err != nil {
		return nil, err
	}
	data, err := b.data(nulls)
	if err != nil {
		return nil, err
	}

	gopts := []gctoo.Option{gctoo.WithVersion("GCT" + b.version)}
	if opts.MakeJoinedView {
		gopts = append(gopts, gctoo.WithJoinedView())
	}
	return gctoo.New(data, rowMeta, colMeta, gopts...)
}

// ParseRowMetadata reads a GCT document but only materializes the row
// metadata.
func ParseRowMetadata(r io.Reader, opts ParseOptions) (*gctoo.MetaTable, error) {
	b, err := readBody(r, opts)
	if err != nil {
		return nil, err
	}
	return b.rowMetadata(gctoo.NewNullTokens(opts.ConvertNeg666))
}

// ParseColMetadata reads a GCT document but only materializes the column
// metadata, with samples as rows.
func ParseColMetadata(r io.Reader, opts ParseOptions) (*gctoo.MetaTable, error) {
	b, err := readBody(r, opts)
	if err != nil {
		return nil, err
	}
	return b.colMetadata(gctoo.NewNullTokens(opts.ConvertNeg666))
}

// ParseFile reads a GCT file from disk or from a gs:// path. Compressed files
// are decompressed transparently. The result's Source is path.
func ParseFile(ctx context.Context, path string, opts ParseOptions) (*gctoo.GCToo, error) {
	rc, err := gctoo.OpenReader(ctx, path, opts.Client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	g, err := Parse(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.Source = path
	return g, nil
}

func readHeader(br *bufio.Reader) (header, error) {
	var h header

	line, err := readLine(br)
	if err != nil && (err != io.EOF || line == "") {
		return h, &gctoo.MalformedHeaderError{Line: 1, Reason: "missing version line"}
	}
	h.version = strings.TrimLeft(strings.TrimSpace(line), "#")
	if !strings.HasPrefix(strings.TrimSpace(line), "#") || (h.version != "1.2" && h.version != "1.3") {
		return h, &gctoo.MalformedHeaderError{Line: 1, Text: line, Reason: "version must be #1.2 or #1.3"}
	}

	line, err = readLine(br)
	if err != nil && (err != io.EOF || line == "") {
		return h, &gctoo.MalformedHeaderError{Line: 2, Reason: "missing dimensions line"}
	}
	dims := strings.Split(strings.TrimSpace(line), "\t")

	want := 4
	if h.version == "1.2" {
		want = 2
	}
	if len(dims) != want {
		reason := fmt.Sprintf("GCT%s requires %d tab-delimited dimensions, found %d", h.version, want, len(dims))
		if delim, ok := gctoo.GuessDelimiter(line); ok && len(dims) == 1 {
			reason += fmt.Sprintf(" (the line appears to be delimited by %q)", delim)
		}
		return h, &gctoo.MalformedHeaderError{Line: 2, Text: line, Reason: reason}
	}

	n := make([]int, len(dims))
	for i, d := range dims {
		v, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil || v < 0 {
			return h, &gctoo.MalformedHeaderError{Line: 2, Text: line, Reason: fmt.Sprintf("dimension %q is not a non-negative integer", d)}
		}
		n[i] = v
	}

	h.rows, h.cols = n[0], n[1]
	if h.version == "1.3" {
		h.rowFields, h.colFields = n[2], n[3]
	} else {
		h.rowFields, h.colFields = 1, 0
	}
	return h, nil
}

func readBody(r io.Reader, opts ParseOptions) (*body, error) {
	logger := gctoo.LoggerOrDiscard(opts.Logger)
	br := bufio.NewReaderSize(r, 1<<20)

	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	logger.Printf("GCT%s dimensions: %d rows, %d cols, %d row metadata fields, %d col metadata fields\n",
		h.version, h.rows, h.cols, h.rowFields, h.colFields)

	b := &body{header: h}
	width := 0
	for {
		line, err := readLine(br)
		if line != "" {
			fields := strings.Split(line, "\t")
			if len(fields) > width {
				width = len(fields)
			}
			b.cells = append(b.cells, fields)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	wantRows := h.colFields + h.rows + 1
	wantCols := h.rowFields + h.cols + 1
	if len(b.cells) != wantRows || width != wantCols {
		return nil, &gctoo.MalformedBodyError{
			ExpectedRows: wantRows, ExpectedCols: wantCols,
			ActualRows: len(b.cells), ActualCols: width,
		}
	}

	// Short lines are padded with empty cells, which read as missing below.
	for i, row := range b.cells {
		for len(row) < width {
			row = append(row, "")
		}
		b.cells[i] = row
	}
	return b, nil
}

// readLine returns the next line without its line ending.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (b *body) cids() []string { return b.cells[0][1+b.rowFields:] }

func (b *body) rids() []string {
	out := make([]string, b.rows)
	for i := range out {
		out[i] = b.cells[1+b.colFields+i][0]
	}
	return out
}

func cellValue(s string, nulls gctoo.NullTokens) gctoo.Value {
	if s == "" {
		return gctoo.NullValue()
	}
	return gctoo.ParseValue(s, nulls)
}

func (b *body) rowMetadata(nulls gctoo.NullTokens) (*gctoo.MetaTable, error) {
	fields := b.cells[0][1 : 1+b.rowFields]
	cols := make([]gctoo.Column, len(fields))
	for j, f := range fields {
		values := make([]gctoo.Value, b.rows)
		for i := range values {
			values[i] = cellValue(b.cells[1+b.colFields+i][1+j], nulls)
		}
		cols[j] = gctoo.Column{Name: f, Values: values}
	}
	return gctoo.NewMetaTable(b.rids(), cols)
}

func (b *body) colMetadata(nulls gctoo.NullTokens) (*gctoo.MetaTable, error) {
	cols := make([]gctoo.Column, b.colFields)
	for j := range cols {
		row := b.cells[1+j]
		values := make([]gctoo.Value, b.cols)
		for i := range values {
			values[i] = cellValue(row[1+b.rowFields+i], nulls)
		}
		cols[j] = gctoo.Column{Name: row[0], Values: values}
	}
	return gctoo.NewMetaTable(b.cids(), cols)
}

func (b *body) data(nulls gctoo.NullTokens) (*gctoo.Matrix, error) {
	rids, cids := b.rids(), b.cids()
	values := make([]float64, 0, b.rows*b.cols)
	for i := 0; i < b.rows; i++ {
		row := b.cells[1+b.colFields+i][1+b.rowFields:]
		for j, raw := range row {
			if raw == "" || nulls.Contains(raw) {
				values = append(values, math.NaN())
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, &gctoo.ValueCoercionError{Row: rids[i], Col: cids[j], Raw: raw, Cause: err}
			}
			values = append(values, f)
		}
	}
	return gctoo.NewMatrix(rids, cids, values)
}
