package gct

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/internal/gctootest"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
)

// synthetic renders a well formed GCT document. Version 1.2 ignores the
// metadata field counts.
func synthetic(version string, rows, cols, rhd, chd int) string {
	var b strings.Builder
	if version == "1.2" {
		rhd, chd = 1, 0
		fmt.Fprintf(&b, "#1.2\n%d\t%d\n", rows, cols)
	} else {
		fmt.Fprintf(&b, "#1.3\n%d\t%d\t%d\t%d\n", rows, cols, rhd, chd)
	}

	line := []string{"id"}
	for k := 0; k < rhd; k++ {
		line = append(line, fmt.Sprintf("rhd%d", k))
	}
	for j := 0; j < cols; j++ {
		line = append(line, fmt.Sprintf("c%d", j))
	}
	b.WriteString(strings.Join(line, "\t") + "\n")

	for k := 0; k < chd; k++ {
		line = []string{fmt.Sprintf("chd%d", k)}
		for n := 0; n < rhd; n++ {
			line = append(line, "-666")
		}
		for j := 0; j < cols; j++ {
			line = append(line, fmt.Sprintf("v%d_%d", k, j))
		}
		b.WriteString(strings.Join(line, "\t") + "\n")
	}

	for i := 0; i < rows; i++ {
		line = []string{fmt.Sprintf("r%d", i)}
		for k := 0; k < rhd; k++ {
			line = append(line, fmt.Sprintf("%d", i*k))
		}
		for j := 0; j < cols; j++ {
			line = append(line, fmt.Sprintf("%d.5", i-j))
		}
		b.WriteString(strings.Join(line, "\t") + "\n")
	}
	return b.String()
}

func shapeOf(t interface{ Shape() (int, int) }) [2]int {
	r, c := t.Shape()
	return [2]int{r, c}
}

func TestParseVersions(t *testing.T) {
	tests := []struct {
		version                string
		rows, cols, rhd, chd   int
		data, rowMeta, colMeta [2]int
	}{
		{"1.2", 10, 15, 0, 0, [2]int{10, 15}, [2]int{10, 1}, [2]int{15, 0}},
		{"1.3", 978, 377, 11, 35, [2]int{978, 377}, [2]int{978, 11}, [2]int{377, 35}},
	}
	for _, tt := range tests {
		g, err := Parse(strings.NewReader(synthetic(tt.version, tt.rows, tt.cols, tt.rhd, tt.chd)), DefaultParseOptions())
		if err != nil {
			t.Fatalf("GCT%s: %v", tt.version, err)
		}
		if got := shapeOf(g.Data()); got != tt.data {
			t.Errorf("GCT%s data shape = %v, want %v", tt.version, got, tt.data)
		}
		if got := shapeOf(g.RowMetadata()); got != tt.rowMeta {
			t.Errorf("GCT%s row metadata shape = %v, want %v", tt.version, got, tt.rowMeta)
		}
		if got := shapeOf(g.ColMetadata()); got != tt.colMeta {
			t.Errorf("GCT%s col metadata shape = %v, want %v", tt.version, got, tt.colMeta)
		}
		if g.Version != "GCT"+tt.version {
			t.Errorf("Version = %q", g.Version)
		}
	}
}

func TestParseValues(t *testing.T) {
	g, err := Parse(strings.NewReader(synthetic("1.3", 3, 4, 2, 2)), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := g.Data().Lookup("r2", "c0"); v != 2.5 {
		t.Errorf("[r2, c0] = %v, want 2.5", v)
	}
	if v, _ := g.ColMetadata().Lookup("c3", "chd1"); v.String() != "v1_3" {
		t.Errorf("c3 chd1 = %q, want v1_3", v.String())
	}
	c, _ := g.RowMetadata().Column("rhd1")
	if c.Kind() != gctoo.Numeric {
		t.Errorf("rhd1 kind = %v, want numeric", c.Kind())
	}
	if diff := cmp.Diff([]string{"chd0", "chd1"}, g.ColMetadata().Fields()); diff != "" {
		t.Errorf("col fields (-want +got):\n%s", diff)
	}
}

func TestMalformedHeader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		want string
	}{
		{"bad version", "#1.4\n1\t1\n", 1, "version"},
		{"no hash", "1.3\n1\t1\t0\t0\n", 1, "version"},
		{"two dims for 1.3", "#1.3\n10\t15\n", 2, "requires 4"},
		{"four dims for 1.2", "#1.2\n1\t1\t1\t1\n", 2, "requires 2"},
		{"comma delimited", "#1.2\n10,15\n", 2, "requires 2"},
		{"not a number", "#1.2\nten\t15\n", 2, "not a non-negative integer"},
		{"empty", "", 1, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), DefaultParseOptions())
			var header *gctoo.MalformedHeaderError
			if !errors.As(err, &header) {
				t.Fatalf("got %v, want MalformedHeaderError", err)
			}
			if header.Line != tt.line {
				t.Errorf("line = %d, want %d", header.Line, tt.line)
			}
			if !strings.Contains(header.Reason, tt.want) {
				t.Errorf("reason %q does not mention %q", header.Reason, tt.want)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	// One data row short, and one with an extra column.
	in := synthetic("1.3", 3, 2, 1, 1)
	short := in[:strings.LastIndex(strings.TrimSuffix(in, "\n"), "\n")+1]

	_, err := Parse(strings.NewReader(short), DefaultParseOptions())
	var body *gctoo.MalformedBodyError
	if !errors.As(err, &body) {
		t.Fatalf("got %v, want MalformedBodyError", err)
	}
	if body.ExpectedRows != 5 || body.ActualRows != 4 || body.ExpectedCols != 4 || body.ActualCols != 4 {
		t.Errorf("body error = %+v", body)
	}

	wide := strings.Replace(in, "r0\t", "r0\textra\t", 1)
	if _, err := Parse(strings.NewReader(wide), DefaultParseOptions()); !errors.As(err, &body) || body.ActualCols != 5 {
		t.Errorf("got %v, want a five column body", err)
	}
}

func TestValueCoercion(t *testing.T) {
	in := "#1.2\n2\t2\nName\tDescription\tA\tB\ng1\td1\t1\t2\ng2\td2\t3\tnot-a-number\n"
	_, err := Parse(strings.NewReader(in), DefaultParseOptions())
	var coercion *gctoo.ValueCoercionError
	if !errors.As(err, &coercion) {
		t.Fatalf("got %v, want ValueCoercionError", err)
	}
	want := gctoo.ValueCoercionError{Row: "g2", Col: "B", Raw: "not-a-number"}
	if coercion.Row != want.Row || coercion.Col != want.Col || coercion.Raw != want.Raw {
		t.Errorf("got %+v, want %+v", coercion, want)
	}
}

func TestMissingDataAndLineEndings(t *testing.T) {
	in := "#1.2\r\n2\t2\r\nName\tDescription\tA\tB\r\ng1\tNA\t1\tNaN\r\n\r\ng2\td2\t\t2\r\n"
	g, err := Parse(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if v := g.Data().At(0, 1); !math.IsNaN(v) {
		t.Errorf("[g1, B] = %v, want NaN", v)
	}
	if v := g.Data().At(1, 0); !math.IsNaN(v) {
		t.Errorf("[g2, A] = %v, want NaN", v)
	}
	if v, _ := g.RowMetadata().Lookup("g1", "Description"); !v.IsNull() {
		t.Errorf("g1 Description = %q, want missing", v.String())
	}
}

func TestLegacyNullRoundTrip(t *testing.T) {
	in := "#1.3\n1\t1\t1\t0\nid\tplate\tc1\nr1\t-666\t1.0\n"

	g, err := Parse(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := g.RowMetadata().Lookup("r1", "plate"); !v.IsNull() {
		t.Fatalf("plate = %q, want missing", v.String())
	}

	var buf bytes.Buffer
	if err := Write(&buf, g, DefaultWriteOptions()); err != nil {
		t.Fatal(err)
	}
	want := "#1.3\n1\t1\t1\t0\nid\tplate\tc1\nr1\t-666\t1.0000\n"
	if buf.String() != want {
		t.Errorf("wrote\n%q\nwant\n%q", buf.String(), want)
	}

	opts := DefaultParseOptions()
	opts.ConvertNeg666 = false
	kept, err := Parse(strings.NewReader(in), opts)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := kept.RowMetadata().Lookup("r1", "plate"); !v.IsLegacyNull() {
		t.Errorf("plate = %q, want the -666 sentinel", v.String())
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	in := gctootest.Mini(true)
	opts := DefaultWriteOptions()
	opts.FloatFormat = ""

	path, err := WriteFile(filepath.Join(t.TempDir(), "mini"), in, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "mini.gct") {
		t.Errorf("wrote %s, want a .gct suffix", path)
	}

	out, err := ParseFile(context.Background(), path, DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Data().Equal(in.Data()) {
		t.Errorf("data differs:\n%v\n%v", out.Data().Dense(), in.Data().Dense())
	}
	if !out.RowMetadata().Equal(in.RowMetadata()) {
		t.Error("row metadata differs")
	}
	if !out.ColMetadata().Equal(in.ColMetadata()) {
		t.Error("col metadata differs")
	}
	if out.Source != path || out.Version != "GCT1.3" {
		t.Errorf("Source = %q, Version = %q", out.Source, out.Version)
	}
}

func TestParseMetadataOnly(t *testing.T) {
	in := synthetic("1.3", 4, 3, 2, 1)

	rowMeta, err := ParseRowMetadata(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := shapeOf(rowMeta); got != [2]int{4, 2} {
		t.Errorf("row metadata shape = %v", got)
	}

	colMeta, err := ParseColMetadata(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"c0", "c1", "c2"}, colMeta.IDs()); diff != "" {
		t.Errorf("col ids (-want +got):\n%s", diff)
	}
}

func TestAppendDimsAndExtension(t *testing.T) {
	g, err := Parse(strings.NewReader(synthetic("1.3", 4, 3, 0, 0)), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"out", "out.gct"} {
		if got := AppendDimsAndExtension(name, g); got != "out_n3x4.gct" {
			t.Errorf("AppendDimsAndExtension(%q) = %q", name, got)
		}
	}
}

func TestParseFileCompressed(t *testing.T) {
	dir := t.TempDir()
	g := gctootest.Mini(true)
	var buf bytes.Buffer
	if err := Write(&buf, g, DefaultWriteOptions()); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "mini.gct.gz")
	if err := os.WriteFile(path, gzipped(t, buf.Bytes()), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := ParseFile(context.Background(), path, DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := shapeOf(out.Data()); got != [2]int{6, 6} {
		t.Errorf("shape = %v", got)
	}
}

func gzipped(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
