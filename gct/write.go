package gct

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/gctoo"
)

// Version is the only version written.
const Version = "1.3"

// WriteOptions controls the tokens used for missing values and the data
// number format.
type WriteOptions struct {
	DataNull     string
	MetadataNull string
	FillerNull   string

	// FloatFormat is a fmt verb for data values. Empty keeps every digit.
	FloatFormat string

	Logger gctoo.Logger
}

func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		DataNull:     "NaN",
		MetadataNull: gctoo.LegacyNull,
		FillerNull:   gctoo.LegacyNull,
		FloatFormat:  "%.4f",
	}
}

// Write serializes g as GCT 1.3.
func Write(w io.Writer, g *gctoo.GCToo, opts WriteOptions) error {
	bw := bufio.NewWriter(w)

	data, rowMeta, colMeta := g.Data(), g.RowMetadata(), g.ColMetadata()
	rows, cols := data.Shape()
	_, rhd := rowMeta.Shape()
	_, chd := colMeta.Shape()

	fmt.Fprintf(bw, "#%s\n", Version)
	fmt.Fprintf(bw, "%d\t%d\t%d\t%d\n", rows, cols, rhd, chd)

	// Top half: "id", the row metadata headers and the cids, then one line per
	// column metadata field with the top-left block filled.
	line := make([]string, 0, 1+rhd+cols)
	line = append(line, "id")
	line = append(line, rowMeta.Fields()...)
	line = append(line, data.Cols()...)
	writeLine(bw, line)

	for j := 0; j < chd; j++ {
		line = line[:0]
		line = append(line, colMeta.ColumnAt(j).Name)
		for k := 0; k < rhd; k++ {
			line = append(line, opts.FillerNull)
		}
		for i := 0; i < cols; i++ {
			line = append(line, metaString(colMeta.At(i, j), opts.MetadataNull))
		}
		writeLine(bw, line)
	}

	// Bottom half: rid, row metadata, data.
	rids := data.Rows()
	for i := 0; i < rows; i++ {
		line = line[:0]
		line = append(line, rids[i])
		for j := 0; j < rhd; j++ {
			line = append(line, metaString(rowMeta.At(i, j), opts.MetadataNull))
		}
		for j := 0; j < cols; j++ {
			line = append(line, dataString(data.At(i, j), opts))
		}
		writeLine(bw, line)
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	gctoo.LoggerOrDiscard(opts.Logger).Printf("GCT has been written (%d x %d)\n", rows, cols)
	return nil
}

// WriteFile writes g to path, appending ".gct" when it is missing. It returns
// the path actually written.
func WriteFile(path string, g *gctoo.GCToo, opts WriteOptions) (out string, err error) {
	if !strings.HasSuffix(path, ".gct") {
		path += ".gct"
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := Write(f, g, opts); err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	return path, nil
}

// AppendDimsAndExtension names an output file after its dimensions, columns
// first: "out" becomes "out_n<cols>x<rows>.gct".
func AppendDimsAndExtension(name string, g *gctoo.GCToo) string {
	rows, cols := g.Data().Shape()
	if strings.HasSuffix(name, ".gct") {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return fmt.Sprintf("%s_n%dx%d.gct", name, cols, rows)
}

func writeLine(bw *bufio.Writer, fields []string) {
	bw.WriteString(strings.Join(fields, "\t"))
	bw.WriteByte('\n')
}

func metaString(v gctoo.Value, null string) string {
	if v.IsNull() {
		return null
	}
	return v.String()
}

func dataString(f float64, opts WriteOptions) string {
	if math.IsNaN(f) {
		return opts.DataNull
	}
	if opts.FloatFormat == "" {
		return strconv.FormatFloat(f, 'g', -1, 32)
	}
	return fmt.Sprintf(opts.FloatFormat, f)
}
