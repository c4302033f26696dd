package gctoo

import (
	"fmt"
	"strings"
)

// DuplicateLabelError is returned when an axis that requires unique labels
// carries repeats.
type DuplicateLabelError struct {
	Table  string
	Axis   string
	Labels []string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("%s %s labels must be unique, but these appear more than once: %v", e.Table, e.Axis, e.Labels)
}

// ShapeMismatchError is returned when two tables that must share an axis
// disagree on its label set, or when a mask does not match an axis length.
type ShapeMismatchError struct {
	Axis     string
	Expected int
	Actual   int
	Missing  []string
	Extra    []string
}

func (e *ShapeMismatchError) Error() string {
	msg := fmt.Sprintf("%s labels are inconsistent: expected %d, got %d", e.Axis, e.Expected, e.Actual)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf("; missing %v", e.Missing)
	}
	if len(e.Extra) > 0 {
		msg += fmt.Sprintf("; unexpected %v", e.Extra)
	}
	return msg
}

// MalformedHeaderError reports an invalid version or dimension line in a GCT
// file.
type MalformedHeaderError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed GCT header at line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// MalformedBodyError reports a GCT body whose shape disagrees with the
// declared dimensions.
type MalformedBodyError struct {
	ExpectedRows, ExpectedCols int
	ActualRows, ActualCols     int
}

func (e *MalformedBodyError) Error() string {
	return fmt.Sprintf("the shape of the GCT body does not match the declared dimensions: expected (%d, %d), got (%d, %d)",
		e.ExpectedRows, e.ExpectedCols, e.ActualRows, e.ActualCols)
}

// ValueCoercionError names the first data cell that could not be read as a
// 32-bit float.
type ValueCoercionError struct {
	Row   string
	Col   string
	Raw   string
	Cause error
}

func (e *ValueCoercionError) Error() string {
	return fmt.Sprintf("data values must be convertible to float32; data.loc[%s, %s] = %q", e.Row, e.Col, e.Raw)
}

func (e *ValueCoercionError) Unwrap() error { return e.Cause }

// UnknownIdentifierError lists requested labels that are absent from an axis.
type UnknownIdentifierError struct {
	Axis string
	IDs  []string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("some of the %s ids used to subset the data are not present: %v", e.Axis, e.IDs)
}

// IncompatibleIdentifierTypeError is returned when requested labels cannot be
// converted to the stored label type.
type IncompatibleIdentifierTypeError struct {
	Axis   string
	Stored string
	IDs    []string
}

func (e *IncompatibleIdentifierTypeError) Error() string {
	return fmt.Sprintf("the %s ids used to subset the data are not compatible with the stored %s ids: %v", e.Axis, e.Stored, e.IDs)
}

// IndexOutOfRangeError lists positions outside [0, Length).
type IndexOutOfRangeError struct {
	Axis    string
	Length  int
	Indices []int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("some %s indexes used to subset the data are not valid (max N: %d): %v", e.Axis, e.Length, e.Indices)
}

// ExclusiveSelectionError is returned when more than one selection kind is
// given for the same axis.
type ExclusiveSelectionError struct {
	Axis  string
	Kinds []string
}

func (e *ExclusiveSelectionError) Error() string {
	return fmt.Sprintf("only one of %s may be given for the %s axis", strings.Join(e.Kinds, ", "), e.Axis)
}

// MetadataReconciliationError is returned by concatenation when the common
// metadata disagrees between inputs. Report holds one row per conflicting
// source row.
type MetadataReconciliationError struct {
	IDs    []string
	Report *ConflictReport
}

func (e *MetadataReconciliationError) Error() string {
	return fmt.Sprintf("there are inconsistencies in the common metadata between inputs; try excluding metadata fields. conflicting ids: %v", e.IDs)
}

// EmptyResultError is returned by Subset when nothing is left.
type EmptyResultError struct {
	Rows, Cols int
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("subset produced an empty data table (%d x %d)", e.Rows, e.Cols)
}

// ImmutableViewError is returned on any attempt to replace a joined view.
type ImmutableViewError struct{}

func (e *ImmutableViewError) Error() string {
	return "cannot reassign the joined view; build a new GCToo from the component tables instead"
}
