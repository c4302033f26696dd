// Package cli holds the flag sets shared by the subset and slice tools.
package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/gctio"
)

// SelectionFlags are the row and column filters of a subsetting tool.
type SelectionFlags struct {
	Rid, Cid               gctio.StringList
	Ridx, Cidx             gctio.StringList
	ExcludeRid, ExcludeCid gctio.StringList
}

// Register adds the filters to fs.
func (s *SelectionFlags) Register(fs *flag.FlagSet) {
	fs.Var(&s.Rid, "rid", "Row ids to keep, or the path to a .grp file. May be repeated.")
	fs.Var(&s.Cid, "cid", "Column ids to keep, or the path to a .grp file. May be repeated.")
	fs.Var(&s.Ridx, "ridx", "0-based row positions to keep. May be repeated.")
	fs.Var(&s.Cidx, "cidx", "0-based column positions to keep. May be repeated.")
	fs.Var(&s.ExcludeRid, "exclude_rid", "Row ids to drop, or the path to a .grp file. Not supported for .gctx inputs.")
	fs.Var(&s.ExcludeCid, "exclude_cid", "Column ids to drop, or the path to a .grp file. Not supported for .gctx inputs.")
}

// HasExclusions reports whether either exclude list was given.
func (s *SelectionFlags) HasExclusions() bool {
	return s.ExcludeRid != nil || s.ExcludeCid != nil
}

// Resolve reads any GRP files named by the flags and builds the selection.
func (s *SelectionFlags) Resolve(ctx context.Context, logger gctoo.Logger) (gctoo.Selection, error) {
	sel := gctoo.Selection{Logger: logger}
	var err error

	for _, v := range []struct {
		arg gctio.StringList
		out *[]string
	}{
		{s.Rid, &sel.Rid},
		{s.Cid, &sel.Cid},
		{s.ExcludeRid, &sel.ExcludeRid},
		{s.ExcludeCid, &sel.ExcludeCid},
	} {
		if *v.out, err = gctio.ReadIDs(ctx, v.arg.Values()); err != nil {
			return sel, err
		}
	}

	if sel.Ridx, err = positions("ridx", s.Ridx); err != nil {
		return sel, err
	}
	if sel.Cidx, err = positions("cidx", s.Cidx); err != nil {
		return sel, err
	}

	return sel, nil
}

// ParseOptions carries the selection into a read. Exclusions cannot be
// pushed into a read and are left to the caller.
func (s *SelectionFlags) ParseOptions(sel gctoo.Selection, opts gctio.ParseOptions) gctio.ParseOptions {
	opts.Rid, opts.Ridx = sel.Rid, sel.Ridx
	opts.Cid, opts.Cidx = sel.Cid, sel.Cidx
	return opts
}

func positions(name string, arg gctio.StringList) ([]int, error) {
	if arg == nil {
		return nil, nil
	}
	out := make([]int, 0, len(arg))
	for _, v := range arg {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("-%s: %q is not an integer", name, v)
		}
		out = append(out, i)
	}
	return out, nil
}

// OutputFlags choose where and how a tool writes its result.
type OutputFlags struct {
	Path  string
	Type  string
	Nulls gctio.NullOverrides
}

// Register adds the output flags to fs, with def as the default file name.
func (o *OutputFlags) Register(fs *flag.FlagSet, def string) {
	fs.StringVar(&o.Path, "out", def, "Output path. The extension of -out_type is appended when missing.")
	fs.StringVar(&o.Type, "out_type", "gct", "Output format: gct or gctx.")
	fs.StringVar(&o.Nulls.Data, "data_null", "", "Token for missing data values in GCT output. Defaults to NaN.")
	fs.StringVar(&o.Nulls.Metadata, "metadata_null", "", "Token for missing metadata values in GCT output. Defaults to -666.")
	fs.StringVar(&o.Nulls.Filler, "filler_null", "", "Token for the empty corner of the GCT header block. Defaults to -666.")
}

// Write writes g and returns the path written.
func (o *OutputFlags) Write(g *gctoo.GCToo, logger gctoo.Logger) (string, error) {
	format, err := gctio.ParseFormat(o.Type)
	if err != nil {
		return "", err
	}
	opts := gctio.DefaultWriteOptions()
	o.Nulls.Apply(&opts)
	opts.GCT.Logger = logger
	opts.GCTX.Logger = logger
	return gctio.Write(o.Path, g, format, opts)
}
