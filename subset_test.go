package gctoo_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/internal/gctootest"
	"github.com/google/go-cmp/cmp"
)

func TestSubsetKeepsContainerOrder(t *testing.T) {
	g := gctootest.Mini(true)
	ids := gctootest.IDs

	out, err := gctoo.Subset(g, gctoo.Selection{Rid: []string{ids[4], ids[0], ids[2]}})
	if err != nil {
		t.Fatal(err)
	}
	if rows, cols := out.Data().Shape(); rows != 3 || cols != 6 {
		t.Fatalf("shape = (%d, %d), want (3, 6)", rows, cols)
	}
	want := []string{ids[0], ids[2], ids[4]}
	if diff := cmp.Diff(want, out.Data().Rows()); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, out.RowMetadata().IDs()); diff != "" {
		t.Errorf("row metadata (-want +got):\n%s", diff)
	}
	if got, _ := out.Data().Lookup(ids[4], ids[1]); got != float64(float32(-3.3456356)) {
		t.Errorf("[%s, %s] = %v", ids[4], ids[1], got)
	}
}

func TestSubsetSelections(t *testing.T) {
	g := gctootest.Mini(true)
	ids := gctootest.IDs

	tests := []struct {
		name       string
		sel        gctoo.Selection
		rows, cols []string
	}{
		{
			name: "positions and exclusion",
			sel:  gctoo.Selection{Ridx: []int{5, 1, 3}, ExcludeRid: []string{ids[3]}, Cidx: []int{0}},
			rows: []string{ids[1], ids[5]},
			cols: []string{ids[0]},
		},
		{
			name: "mask",
			sel:  gctoo.Selection{ColMask: []bool{true, false, false, false, false, true}},
			rows: ids,
			cols: []string{ids[0], ids[5]},
		},
		{
			name: "unknown ids are skipped",
			sel:  gctoo.Selection{Cid: []string{"nope", ids[2]}, ExcludeCid: []string{"also nope"}},
			rows: ids,
			cols: []string{ids[2]},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := gctoo.Subset(g, tt.sel)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.rows, out.Data().Rows()); diff != "" {
				t.Errorf("rows (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.cols, out.Data().Cols()); diff != "" {
				t.Errorf("cols (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.cols, out.ColMetadata().IDs()); diff != "" {
				t.Errorf("col metadata (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubsetErrors(t *testing.T) {
	g := gctootest.Mini(true)

	var exclusive *gctoo.ExclusiveSelectionError
	if _, err := gctoo.Subset(g, gctoo.Selection{Rid: []string{"a"}, Ridx: []int{0}}); !errors.As(err, &exclusive) {
		t.Errorf("got %v, want ExclusiveSelectionError", err)
	}

	var outOfRange *gctoo.IndexOutOfRangeError
	if _, err := gctoo.Subset(g, gctoo.Selection{Cidx: []int{6}}); !errors.As(err, &outOfRange) {
		t.Errorf("got %v, want IndexOutOfRangeError", err)
	}

	var mismatch *gctoo.ShapeMismatchError
	if _, err := gctoo.Subset(g, gctoo.Selection{RowMask: []bool{true}}); !errors.As(err, &mismatch) {
		t.Errorf("got %v, want ShapeMismatchError", err)
	}
}

func TestEmptyResult(t *testing.T) {
	g := gctootest.Mini(true)
	sel := gctoo.Selection{Rid: []string{"nope"}}

	var empty *gctoo.EmptyResultError
	if _, err := gctoo.Subset(g, sel); !errors.As(err, &empty) {
		t.Errorf("Subset: got %v, want EmptyResultError", err)
	}

	out, err := gctoo.Slice(g, sel)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if rows, cols := out.Data().Shape(); rows != 0 || cols != 6 {
		t.Errorf("Slice shape = (%d, %d), want (0, 6)", rows, cols)
	}
}

func TestTransposeInvolution(t *testing.T) {
	g := gctootest.Mini(true)
	once, err := gctoo.Transpose(g)
	if err != nil {
		t.Fatal(err)
	}
	if once.Data().At(1, 0) != g.Data().At(0, 1) {
		t.Errorf("transposed [1, 0] = %v, want %v", once.Data().At(1, 0), g.Data().At(0, 1))
	}
	twice, err := gctoo.Transpose(once)
	if err != nil {
		t.Fatal(err)
	}
	if !twice.Data().Equal(g.Data()) {
		t.Error("data differs after two transposes")
	}
	if !twice.RowMetadata().Equal(g.RowMetadata()) || !twice.ColMetadata().Equal(g.ColMetadata()) {
		t.Error("metadata differs after two transposes")
	}
	if twice.Source != g.Source {
		t.Errorf("Source = %q, want %q", twice.Source, g.Source)
	}
}

func TestRandomSlice(t *testing.T) {
	g := gctootest.Mini(true)

	out, err := gctoo.RandomSlice(g, 3, gctoo.ColAxis, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if rows, cols := out.Data().Shape(); rows != 6 || cols != 3 {
		t.Fatalf("shape = (%d, %d), want (6, 3)", rows, cols)
	}
	for _, cid := range out.Data().Cols() {
		want, _ := g.Data().Lookup(gctootest.IDs[2], cid)
		got, _ := out.Data().Lookup(gctootest.IDs[2], cid)
		if got != want {
			t.Errorf("[%s] = %v, want %v", cid, got, want)
		}
	}
	if diff := cmp.Diff(out.Data().Cols(), out.ColMetadata().IDs()); diff != "" {
		t.Errorf("col metadata (-want +got):\n%s", diff)
	}

	again, err := gctoo.RandomSlice(g, 3, gctoo.ColAxis, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(out.Data().Cols(), again.Data().Cols()); diff != "" {
		t.Errorf("same seed chose differently (-first +second):\n%s", diff)
	}

	if _, err := gctoo.RandomSlice(g, 7, gctoo.RowAxis, nil); err == nil {
		t.Error("expected an error when n exceeds the axis length")
	}
}
