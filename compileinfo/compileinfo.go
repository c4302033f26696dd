// Package compileinfo reports how a gctoo tool was built.
package compileinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

type CompileInfo struct {
	Path       string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Path == "" {
		return "build information unavailable"
	}

	out := fmt.Sprintf("%s %s (%s)", c.Path, c.Version, c.GoVersion)
	if c.Commit != "" {
		out += fmt.Sprintf(" commit %s at %s", c.Commit, c.CommitTime)
	}
	if c.Modified {
		out += " with local modifications"
	}

	return out
}

// Get reads the build information embedded in the running binary.
func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		Path:      z.Path,
		Version:   z.Main.Version,
		GoVersion: z.GoVersion,
	}
	if out.Version == "" {
		out.Version = "(devel)"
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func Fprint(w io.Writer) error {
	_, err := fmt.Fprintln(w, Get())
	return err
}
