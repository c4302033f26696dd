package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	z := &debug.BuildInfo{
		GoVersion: "go1.18",
		Path:      "github.com/carbocation/gctoo/cmd/gct2gctx",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2022-04-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	c := fromBuildInfo(z)
	if c.Version != "(devel)" || c.Commit != "abc123" || !c.Modified {
		t.Errorf("got %+v", c)
	}

	s := c.String()
	for _, want := range []string{"gct2gctx", "go1.18", "abc123", "local modifications"} {
		if !strings.Contains(s, want) {
			t.Errorf("%q does not mention %q", s, want)
		}
	}
}

func TestEmpty(t *testing.T) {
	if got := (CompileInfo{}).String(); got != "build information unavailable" {
		t.Errorf("got %q", got)
	}
}
