package diff

import (
	"math"
	"strings"
	"testing"

	"github.com/carbocation/gctoo"
)

var (
	rids = []string{"0", "1", "2"}
	cids = []string{"A", "B", "C", "D", "E", "F"}
)

func testGCToo(t *testing.T) *gctoo.GCToo {
	t.Helper()
	data, err := gctoo.NewMatrixFromRows(rids, cids, [][]float64{
		{4, 2, 6, 5, 8, 7},
		{2, 8, 5, 2, 8, 6},
		{3, 6, 9, 1, 6, 6},
	})
	if err != nil {
		t.Fatal(err)
	}
	text := func(vals ...string) []gctoo.Value {
		out := make([]gctoo.Value, len(vals))
		for i, v := range vals {
			out[i] = gctoo.TextValue(v)
		}
		return out
	}
	colMeta, err := gctoo.NewMetaTable(cids, []gctoo.Column{
		{Name: "pert_type", Values: text("trt_cp", "trt_cp", "trt_cp", "trt_cp", "ctl_vehicle", "ctl_vehicle")},
		{Name: "pert_iname", Values: text("bort", "bort", "DMSO", "DMSO", "bort", "bort")},
	})
	if err != nil {
		t.Fatal(err)
	}
	rowMeta, err := gctoo.EmptyMetaTable(rids)
	if err != nil {
		t.Fatal(err)
	}
	g, err := gctoo.New(data, rowMeta, colMeta)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// byColumn builds the expected matrix from one slice per sample.
func byColumn(t *testing.T, cols map[string][]float64) *gctoo.Matrix {
	t.Helper()
	values := make([]float64, 0, len(rids)*len(cids))
	for i := range rids {
		for _, c := range cids {
			values = append(values, cols[c][i])
		}
	}
	m, err := gctoo.NewMatrix(rids, cids, values)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPlateControl(t *testing.T) {
	opts := DefaultOptions()
	opts.Lower = -2
	out, err := Transform(testGCToo(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := byColumn(t, map[string][]float64{
		"A": {-0.6745, -0.9443, -1.349},
		"B": {-1.5738, 0.6745, 0},
		"C": {0.2248, -0.1349, 1.349},
		"D": {-0.2248, -0.9443, -2},
		"E": {1.1242, 0.6745, 0},
		"F": {0.6745, 0.1349, 0},
	})
	if !out.Data().Equal(want) {
		t.Errorf("got\n%v\nwant\n%v", out.Data().Dense(), want.Dense())
	}
}

func TestMedianNorm(t *testing.T) {
	opts := DefaultOptions()
	opts.Method = MedianNorm
	out, err := Transform(testGCToo(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Data().At(0, 0); got != -1.5 {
		t.Errorf("[0, A] = %v, want -1.5", got)
	}
	if got, _ := out.Data().Lookup("2", "B"); got != 0 {
		t.Errorf("[2, B] = %v, want 0", got)
	}
}

func TestVehicleControl(t *testing.T) {
	opts := DefaultOptions()
	opts.PlateControl = false
	out, err := Transform(testGCToo(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := byColumn(t, map[string][]float64{
		"A": {-4.7214, -3.3725, -10},
		"B": {-7.4194, 0.6745, 0},
		"C": {-2.0235, -1.349, 10},
		"D": {-3.3725, -3.3725, -10},
		"E": {0.6745, 0.6745, 0},
		"F": {-0.6745, -0.6745, 0},
	})
	if !out.Data().Equal(want) {
		t.Errorf("pert_type controls: got\n%v\nwant\n%v", out.Data().Dense(), want.Dense())
	}

	opts.GroupField, opts.GroupValue = "pert_iname", "DMSO"
	out, err = Transform(testGCToo(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	want = byColumn(t, map[string][]float64{
		"A": {-2.0235, -0.6745, -0.3372},
		"B": {-4.7214, 2.0235, 0.1686},
		"C": {0.6745, 0.6745, 0.6745},
		"D": {-0.6745, -0.6745, -0.6745},
		"E": {3.3725, 2.0235, 0.1686},
		"F": {2.0235, 1.1242, 0.1686},
	})
	if !out.Data().Equal(want) {
		t.Errorf("DMSO controls: got\n%v\nwant\n%v", out.Data().Dense(), want.Dense())
	}

	opts.GroupValue = "dmso"
	if _, err := Transform(testGCToo(t), opts); err == nil || !strings.Contains(err.Error(), "dmso") {
		t.Errorf("got %v, want an error naming the missing group value", err)
	}
	opts.GroupField = "cell_id"
	if _, err := Transform(testGCToo(t), opts); err == nil {
		t.Error("expected an error for a missing group field")
	}
}

func TestMissingValues(t *testing.T) {
	got := RobustZScore([]float64{1, math.NaN(), 3, 5}, []float64{1, math.NaN(), 3, 5})
	if !math.IsNaN(got[1]) {
		t.Errorf("missing value became %v", got[1])
	}
	// median 3, MAD 2
	if want := math.RoundToEven(2/(2*1.4826)*1e4) / 1e4; got[3] != want {
		t.Errorf("z = %v, want %v", got[3], want)
	}
	if got := clip([]float64{-20, math.NaN(), 20}, -10, 10); got[0] != -10 || !math.IsNaN(got[1]) || got[2] != 10 {
		t.Errorf("clip = %v", got)
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{RobustZ, MedianNorm} {
		got, err := ParseMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMethod("robust_zs"); err == nil {
		t.Error("expected an error for robust_zs")
	}
}
