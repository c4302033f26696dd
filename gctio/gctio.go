// Package gctio picks the GCT or GCTX codec from a file name, and holds the
// argument helpers shared by the command line tools.
package gctio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/gct"
	"github.com/carbocation/gctoo/gctx"
)

// Format is a serialization of a GCToo.
type Format int

const (
	FormatUnknown Format = iota
	FormatGCT
	FormatGCTX
)

func (f Format) String() string {
	switch f {
	case FormatGCT:
		return "gct"
	case FormatGCTX:
		return "gctx"
	}
	return "unknown"
}

// ParseFormat maps "gct" and "gctx" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "gct":
		return FormatGCT, nil
	case "gctx":
		return FormatGCTX, nil
	}
	return FormatUnknown, fmt.Errorf("unrecognized format %q, expected gct or gctx", s)
}

// compressionSuffixes are stripped before a GCT extension is looked for,
// since text inputs are decompressed on the fly.
var compressionSuffixes = []string{".gz", ".bz2", ".xz", ".zip", ".zlib"}

// FormatOf infers the format from the extension of path.
func FormatOf(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".gctx") {
		return FormatGCTX
	}
	for _, suffix := range compressionSuffixes {
		lower = strings.TrimSuffix(lower, suffix)
	}
	if strings.HasSuffix(lower, ".gct") {
		return FormatGCT
	}
	return FormatUnknown
}

// ParseOptions merges the options of both codecs. Selections only apply to
// GCTX inputs.
type ParseOptions struct {
	Rid  []string
	Ridx []int
	Cid  []string
	Cidx []int

	ConvertNeg666  bool
	MakeJoinedView bool
	Client         *storage.Client
	Logger         gctoo.Logger
}

// DefaultParseOptions translates -666 to missing.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{ConvertNeg666: true}
}

func (o ParseOptions) hasSelection() bool {
	return o.Rid != nil || o.Ridx != nil || o.Cid != nil || o.Cidx != nil
}

// Parse reads a .gct or .gctx file. A selection passed for a GCT file is
// gct.ErrUnsupportedSelection.
func Parse(ctx context.Context, path string, opts ParseOptions) (*gctoo.GCToo, error) {
	logger := gctoo.LoggerOrDiscard(opts.Logger)

	switch FormatOf(path) {
	case FormatGCT:
		if opts.hasSelection() {
			return nil, fmt.Errorf("%s: %w", path, gct.ErrUnsupportedSelection)
		}
		logger.Printf("Reading GCT: %s\n", path)
		return gct.ParseFile(ctx, path, gct.ParseOptions{
			ConvertNeg666:  opts.ConvertNeg666,
			MakeJoinedView: opts.MakeJoinedView,
			Client:         opts.Client,
			Logger:         opts.Logger,
		})
	case FormatGCTX:
		logger.Printf("Reading GCTX: %s\n", path)
		return gctx.ParseFile(ctx, path, gctx.ParseOptions{
			Rid:            opts.Rid,
			Ridx:           opts.Ridx,
			Cid:            opts.Cid,
			Cidx:           opts.Cidx,
			ConvertNeg666:  opts.ConvertNeg666,
			MakeJoinedView: opts.MakeJoinedView,
			Client:         opts.Client,
			Logger:         opts.Logger,
		})
	}
	return nil, fmt.Errorf("gctio: %s does not end in .gct or .gctx", path)
}

// WriteOptions carries the options of both writers; only the one matching
// the output format is used.
type WriteOptions struct {
	GCT  gct.WriteOptions
	GCTX gctx.WriteOptions
}

func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		GCT:  gct.DefaultWriteOptions(),
		GCTX: gctx.DefaultWriteOptions(),
	}
}

// Write writes g to path in the given format; the codec appends its
// extension when it is missing. It returns the path written.
func Write(path string, g *gctoo.GCToo, format Format, opts WriteOptions) (string, error) {
	switch format {
	case FormatGCT:
		return gct.WriteFile(path, g, opts.GCT)
	case FormatGCTX:
		return gctx.WriteFile(path, g, opts.GCTX)
	}
	return "", fmt.Errorf("gctio: cannot write %s as %s", filepath.Base(path), format)
}
