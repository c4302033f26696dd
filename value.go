package gctoo

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// LegacyNull is the historical CMap sentinel for a missing metadata value.
const LegacyNull = "-666"

// DefaultNullTokens are read as missing in both metadata and data.
var DefaultNullTokens = []string{"#N/A", "N/A", "NA", "#NA", "NULL", "NaN", "-NaN", "nan", "-nan", "#N/A!", "na", "None"}

// NullTokens is a set of strings that read as missing.
type NullTokens map[string]struct{}

// NewNullTokens returns DefaultNullTokens, plus LegacyNull when convertNeg666
// is set.
func NewNullTokens(convertNeg666 bool) NullTokens {
	out := make(NullTokens, len(DefaultNullTokens)+1)
	for _, v := range DefaultNullTokens {
		out[v] = struct{}{}
	}
	if convertNeg666 {
		out[LegacyNull] = struct{}{}
	}
	return out
}

func (n NullTokens) Contains(s string) bool {
	_, ok := n[s]
	return ok
}

// Value is one metadata cell. Raw holds the textual form and is invalid for a
// missing cell. Num is valid whenever Raw parses as a number.
type Value struct {
	Raw null.String
	Num null.Float
}

// NullValue is a missing cell.
func NullValue() Value { return Value{} }

// ParseValue interprets s, treating any member of nulls as missing.
func ParseValue(s string, nulls NullTokens) Value {
	if nulls.Contains(s) {
		return Value{}
	}
	v := Value{Raw: null.StringFrom(s)}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) {
		v.Num = null.FloatFrom(f)
	}
	return v
}

// TextValue is a cell holding s verbatim. Numeric-looking text still gets a
// numeric reading, so a column of "1", "2" is classified Numeric.
func TextValue(s string) Value {
	return ParseValue(s, nil)
}

// NumberValue is a numeric cell. NaN yields a missing cell.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{Raw: null.StringFrom(FormatNumber(f)), Num: null.FloatFrom(f)}
}

// IntValue is a numeric cell holding an integer.
func IntValue(i int64) Value {
	return Value{Raw: null.StringFrom(strconv.FormatInt(i, 10)), Num: null.FloatFrom(float64(i))}
}

func (v Value) IsNull() bool { return !v.Raw.Valid }

func (v Value) IsNumeric() bool { return v.Num.Valid }

// String returns the raw text, or "" for a missing cell.
func (v Value) String() string { return v.Raw.ValueOrZero() }

// Float returns the numeric reading, if any.
func (v Value) Float() (float64, bool) { return v.Num.Float64, v.Num.Valid }

// Equal treats two missing cells as equal, compares numerically when both
// cells are numeric and textually otherwise.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() == o.IsNull()
	}
	if v.Num.Valid && o.Num.Valid {
		return v.Num.Float64 == o.Num.Float64
	}
	return v.Raw.String == o.Raw.String
}

// IsLegacyNull reports whether v is the -666 sentinel, in text or number form.
func (v Value) IsLegacyNull() bool {
	if v.IsNull() {
		return false
	}
	if v.Num.Valid {
		return v.Num.Float64 == -666
	}
	return v.Raw.String == LegacyNull
}

// FormatNumber renders f without exponent notation for ordinary magnitudes.
func FormatNumber(f float64) string {
	a := math.Abs(f)
	if a == 0 || (a >= 1e-4 && a < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ColumnKind is decided once per metadata column.
type ColumnKind int

const (
	// Numeric columns have a numeric reading for every non-missing cell.
	Numeric ColumnKind = iota
	Text
)

func (k ColumnKind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

func classify(values []Value) ColumnKind {
	for _, v := range values {
		if !v.IsNull() && !v.Num.Valid {
			return Text
		}
	}
	return Numeric
}
