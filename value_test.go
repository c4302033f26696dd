package gctoo

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestParseValue(t *testing.T) {
	withNeg666 := NewNullTokens(true)
	without := NewNullTokens(false)

	tests := []struct {
		in      string
		nulls   NullTokens
		null    bool
		numeric bool
	}{
		{"-666", withNeg666, true, false},
		{"-666", without, false, true},
		{"NaN", without, true, false},
		{"None", without, true, false},
		{"1.5e3", without, false, true},
		{"DMSO", without, false, false},
		{"", without, false, false},
	}
	for _, tt := range tests {
		v := ParseValue(tt.in, tt.nulls)
		if v.IsNull() != tt.null || v.IsNumeric() != tt.numeric {
			t.Errorf("ParseValue(%q) null=%v numeric=%v, want %v %v", tt.in, v.IsNull(), v.IsNumeric(), tt.null, tt.numeric)
		}
	}

	if !ParseValue("-666", without).IsLegacyNull() || !IntValue(-666).IsLegacyNull() {
		t.Error("the -666 sentinel was not recognized")
	}
	if !NumberValue(math.NaN()).IsNull() {
		t.Error("NaN should be missing")
	}
}

func TestValueEqual(t *testing.T) {
	if !TextValue("3").Equal(NumberValue(3)) {
		t.Error(`"3" should equal 3`)
	}
	if TextValue("a").Equal(NullValue()) {
		t.Error("a value should not equal a missing cell")
	}
	if !NullValue().Equal(NullValue()) {
		t.Error("missing cells should be equal")
	}
}

func TestColumnKind(t *testing.T) {
	numeric := Column{Values: []Value{TextValue("1"), NullValue(), NumberValue(2.5)}}
	if numeric.Kind() != Numeric {
		t.Errorf("kind = %v, want numeric", numeric.Kind())
	}
	mixed := Column{Values: []Value{TextValue("1"), TextValue("one")}}
	if mixed.Kind() != Text {
		t.Errorf("kind = %v, want text", mixed.Kind())
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		3:        "3",
		-0.25:    "-0.25",
		1e-7:     "1e-07",
		123456.5: "123456.5",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMatrixSelections(t *testing.T) {
	m, err := NewMatrixFromRows([]string{"r1", "r2", "r3"}, []string{"c1", "c2"}, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatal(err)
	}

	byLabel, err := m.ByLabels(RowAxis, []string{"r3", "r1"})
	if err != nil {
		t.Fatal(err)
	}
	if got := byLabel.Rows(); got[0] != "r3" || got[1] != "r1" || byLabel.At(0, 1) != 6 {
		t.Errorf("ByLabels kept %v with [0, 1] = %v", got, byLabel.At(0, 1))
	}

	byMask, err := m.ByMask(RowAxis, []bool{true, false, true})
	if err != nil {
		t.Fatal(err)
	}
	if got := byMask.Rows(); len(got) != 2 || got[0] != "r1" || got[1] != "r3" {
		t.Errorf("ByMask kept %v", got)
	}

	byPos, err := m.ByPositions(ColAxis, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	if r, c := byPos.Shape(); r != 3 || c != 1 || byPos.At(2, 0) != 6 {
		t.Errorf("ByPositions shape (%d, %d)", r, c)
	}

	if _, err := m.ByLabels(ColAxis, []string{"c3"}); err == nil {
		t.Error("expected an error for an unknown label")
	}

	tr := m.T()
	if r, c := tr.Shape(); r != 2 || c != 3 || tr.At(1, 2) != 6 {
		t.Errorf("T shape (%d, %d), [1, 2] = %v", r, c, tr.At(1, 2))
	}
	if v, ok := tr.Lookup("c2", "r1"); !ok || v != 2 {
		t.Errorf("T lookup = %v, %v", v, ok)
	}
}

func TestEmptyMatrixAccessPanics(t *testing.T) {
	m, err := NewMatrix(nil, []string{"c1", "c2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := m.Shape(); r != 0 || c != 2 {
		t.Errorf("Shape() = (%d, %d), want (0, 2)", r, c)
	}
	if got := m.Row(0); len(got) != 2 {
		t.Errorf("Row(0) has %d values, want 2", len(got))
	}

	for name, f := range map[string]func(){
		"At":  func() { m.At(0, 0) },
		"Set": func() { m.Set(0, 0, 1) },
	} {
		func() {
			defer func() {
				if r := recover(); r != mat.ErrIndexOutOfRange {
					t.Errorf("%s recovered %v, want mat.ErrIndexOutOfRange", name, r)
				}
			}()
			f()
		}()
	}
}
