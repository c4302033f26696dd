package setio

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var exampleGMT = []Set{
	{Name: "A", Desc: "this one is A", Members: []string{"a1", "a3", "a2"}},
	{Name: "B", Desc: "this one is B", Members: []string{"b4", "b2", "b3"}},
}

func TestReadGMT(t *testing.T) {
	in := "A\tthis one is A\ta1\ta3\ta2\nB\tthis one is B\tb4\tb2\t\tb3\r\n"
	got, err := ReadGMT(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(exampleGMT, got); diff != "" {
		t.Errorf("ReadGMT (-want +got):\n%s", diff)
	}
}

func TestReadGMTErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		want string
	}{
		{"too few fields", "A\tonly two\n", 0, "at least 3"},
		{"duplicate member", "A\tdesc\ta1\nB\tdesc\tb1\tb1\n", 1, "more than once"},
		{"duplicate set", "A\tdesc\ta1\nA\tdesc\tb1\n", 1, "already used"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGMT(strings.NewReader(tt.in))
			var gmtErr *GMTError
			if !errors.As(err, &gmtErr) {
				t.Fatalf("got %v, want a GMTError", err)
			}
			if gmtErr.Line != tt.line {
				t.Errorf("line = %d, want %d", gmtErr.Line, tt.line)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestGMTFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sets.gmt")
	if err := WriteGMTFile(path, exampleGMT); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGMTFile(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(exampleGMT, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestReadGRP(t *testing.T) {
	in := "#comment\nr1\n  r2 \n\n# another\nr3\n"
	got, err := ReadGRP(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"r1", "r2", "r3"}, got); diff != "" {
		t.Errorf("ReadGRP (-want +got):\n%s", diff)
	}
}

func TestGRPRoundTrip(t *testing.T) {
	grp := []string{"r1", "r2", "r3"}
	var buf bytes.Buffer
	if err := WriteGRP(&buf, grp); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "r1\nr2\nr3\n" {
		t.Errorf("WriteGRP wrote %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "ids.grp")
	if err := WriteGRPFile(path, grp); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGRPFile(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(grp, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
