// gctsubset keeps the requested rows and columns of a GCT or GCTX file. An
// empty result is an error.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/gctio"
	"github.com/carbocation/gctoo/internal/cli"
	"github.com/carbocation/pfx"

	_ "github.com/carbocation/gctoo/compileinfoprint"
	log "github.com/sirupsen/logrus"
)

func main() {
	var inputPath string
	var verbose bool
	var sel cli.SelectionFlags
	var out cli.OutputFlags
	flag.StringVar(&inputPath, "file", "", "Path to the .gct or .gctx file (local or gs://).")
	flag.BoolVar(&verbose, "verbose", false, "Log progress.")
	sel.Register(flag.CommandLine)
	out.Register(flag.CommandLine, "subset")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(inputPath, &sel, &out, verbose); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(inputPath string, flags *cli.SelectionFlags, out *cli.OutputFlags, verbose bool) error {
	ctx := context.Background()
	logger := gctio.Verbosity(verbose)

	client, err := gctio.StorageClient(ctx, inputPath)
	if err != nil {
		return err
	}

	sel, err := flags.Resolve(ctx, logger)
	if err != nil {
		return err
	}

	opts := gctio.DefaultParseOptions()
	opts.Client = client
	opts.Logger = logger

	var g *gctoo.GCToo
	switch gctio.FormatOf(inputPath) {
	case gctio.FormatGCTX:
		// The selection is pushed into the read so only the requested
		// slabs of the matrix are loaded.
		if flags.HasExclusions() {
			return fmt.Errorf("%s: -exclude_rid and -exclude_cid are not supported for .gctx inputs", inputPath)
		}
		g, err = gctio.Parse(ctx, inputPath, flags.ParseOptions(sel, opts))
		if err != nil {
			return err
		}
		if rows, cols := g.Data().Shape(); rows == 0 || cols == 0 {
			return &gctoo.EmptyResultError{Rows: rows, Cols: cols}
		}
	default:
		full, err := gctio.Parse(ctx, inputPath, opts)
		if err != nil {
			return err
		}
		if g, err = gctoo.Subset(full, sel); err != nil {
			return err
		}
	}

	written, err := out.Write(g, logger)
	if err != nil {
		return err
	}
	rows, cols := g.Data().Shape()
	log.Infof("Wrote %d rows and %d columns to %s\n", rows, cols, written)

	return nil
}
