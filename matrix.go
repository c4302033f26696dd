package gctoo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is the numeric data table: feature ids down the rows, sample ids
// across the columns. Values are held at float32 precision in a gonum dense
// matrix. An empty axis leaves the dense matrix nil.
type Matrix struct {
	rows, cols         []string
	rowIndex, colIndex map[string]int
	dense              *mat.Dense
}

// NewMatrix builds a matrix from row-major values. len(values) must equal
// len(rows)*len(cols); a nil values slice yields an all-NaN matrix.
func NewMatrix(rows, cols []string, values []float64) (*Matrix, error) {
	rows, cols = copyStrings(rows), copyStrings(cols)
	rowIndex, dups := labelIndex(rows)
	if len(dups) > 0 {
		return nil, &DuplicateLabelError{Table: "data", Axis: "row", Labels: dups}
	}
	colIndex, dups := labelIndex(cols)
	if len(dups) > 0 {
		return nil, &DuplicateLabelError{Table: "data", Axis: "col", Labels: dups}
	}

	n := len(rows) * len(cols)
	if values != nil && len(values) != n {
		return nil, fmt.Errorf("NewMatrix: %d values given for a %d x %d matrix", len(values), len(rows), len(cols))
	}
	stored := make([]float64, n)
	for i := range stored {
		if values == nil {
			stored[i] = math.NaN()
			continue
		}
		stored[i] = float64(float32(values[i]))
	}

	m := &Matrix{rows: rows, cols: cols, rowIndex: rowIndex, colIndex: colIndex}
	if n > 0 {
		m.dense = mat.NewDense(len(rows), len(cols), stored)
	}
	return m, nil
}

// NewMatrixFromRows builds a matrix from one slice per row.
func NewMatrixFromRows(rows, cols []string, values [][]float64) (*Matrix, error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("NewMatrixFromRows: %d value rows given for %d row labels", len(values), len(rows))
	}
	flat := make([]float64, 0, len(rows)*len(cols))
	for i, r := range values {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("NewMatrixFromRows: row %q has %d values, expected %d", rows[i], len(r), len(cols))
		}
		flat = append(flat, r...)
	}
	return NewMatrix(rows, cols, flat)
}

// Rows returns a copy of the row labels.
func (m *Matrix) Rows() []string { return copyStrings(m.rows) }

// Cols returns a copy of the column labels.
func (m *Matrix) Cols() []string { return copyStrings(m.cols) }

func (m *Matrix) Shape() (int, int) { return len(m.rows), len(m.cols) }

// At returns the value at row i, column j. Like mat.Dense, it panics with
// mat.ErrIndexOutOfRange when either index is out of range, including on a
// matrix with an empty axis.
func (m *Matrix) At(i, j int) float64 {
	if m.dense == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return m.dense.At(i, j)
}

// Set stores v, rounded to float32 precision. It panics as At does.
func (m *Matrix) Set(i, j int, v float64) {
	if m.dense == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	m.dense.Set(i, j, float64(float32(v)))
}

// Lookup returns the value at (rid, cid).
func (m *Matrix) Lookup(rid, cid string) (float64, bool) {
	i, ok := m.rowIndex[rid]
	if !ok {
		return 0, false
	}
	j, ok := m.colIndex[cid]
	if !ok {
		return 0, false
	}
	return m.dense.At(i, j), true
}

// RowPosition returns the position of rid.
func (m *Matrix) RowPosition(rid string) (int, bool) {
	i, ok := m.rowIndex[rid]
	return i, ok
}

// ColPosition returns the position of cid.
func (m *Matrix) ColPosition(cid string) (int, bool) {
	j, ok := m.colIndex[cid]
	return j, ok
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, len(m.cols))
	if m.dense != nil {
		mat.Row(out, i, m.dense)
	}
	return out
}

// Dense exposes the values as a gonum matrix. It is nil for an empty matrix.
func (m *Matrix) Dense() mat.Matrix {
	if m.dense == nil {
		return nil
	}
	return m.dense
}

// Take returns the sub-matrix at the given positions, in the given order. A
// nil slice keeps the whole axis.
func (m *Matrix) Take(rowPos, colPos []int) (*Matrix, error) {
	if rowPos == nil {
		rowPos = identity(len(m.rows))
	}
	if colPos == nil {
		colPos = identity(len(m.cols))
	}
	if err := checkPositions(len(m.rows), rowPos, "row"); err != nil {
		return nil, err
	}
	if err := checkPositions(len(m.cols), colPos, "col"); err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(rowPos)*len(colPos))
	for _, i := range rowPos {
		for _, j := range colPos {
			values = append(values, m.dense.At(i, j))
		}
	}
	return NewMatrix(pick(m.rows, rowPos), pick(m.cols, colPos), values)
}

// ByLabels selects along axis by label, in the order given.
func (m *Matrix) ByLabels(axis Axis, labels []string) (*Matrix, error) {
	if axis == RowAxis {
		pos, err := positionsOf(m.rowIndex, labels, "row")
		if err != nil {
			return nil, err
		}
		return m.Take(pos, nil)
	}
	pos, err := positionsOf(m.colIndex, labels, "col")
	if err != nil {
		return nil, err
	}
	return m.Take(nil, pos)
}

// ByPositions selects along axis by position, in the order given.
func (m *Matrix) ByPositions(axis Axis, positions []int) (*Matrix, error) {
	if axis == RowAxis {
		return m.Take(positions, nil)
	}
	return m.Take(nil, positions)
}

// ByMask keeps the entries of axis whose mask value is true, in their
// existing order.
func (m *Matrix) ByMask(axis Axis, mask []bool) (*Matrix, error) {
	n := len(m.rows)
	if axis == ColAxis {
		n = len(m.cols)
	}
	pos, err := maskPositions(n, mask, axis.String())
	if err != nil {
		return nil, err
	}
	return m.ByPositions(axis, pos)
}

// T returns the transposed matrix.
func (m *Matrix) T() *Matrix {
	out := &Matrix{
		rows:     copyStrings(m.cols),
		cols:     copyStrings(m.rows),
		rowIndex: m.colIndex,
		colIndex: m.rowIndex,
	}
	if m.dense != nil {
		out.dense = mat.DenseCopyOf(m.dense.T())
	}
	return out
}

// Equal reports whether both matrices have the same labels in the same order
// and the same values, with NaN equal to NaN.
func (m *Matrix) Equal(o *Matrix) bool {
	if len(m.rows) != len(o.rows) || len(m.cols) != len(o.cols) {
		return false
	}
	for i := range m.rows {
		if m.rows[i] != o.rows[i] {
			return false
		}
	}
	for j := range m.cols {
		if m.cols[j] != o.cols[j] {
			return false
		}
	}
	for i := range m.rows {
		for j := range m.cols {
			a, b := m.At(i, j), o.At(i, j)
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				return false
			}
		}
	}
	return true
}

// withLabels returns a copy carrying new labels on both axes.
func (m *Matrix) withLabels(rows, cols []string) (*Matrix, error) {
	values := make([]float64, 0, len(m.rows)*len(m.cols))
	for i := range m.rows {
		values = append(values, m.Row(i)...)
	}
	return NewMatrix(rows, cols, values)
}
