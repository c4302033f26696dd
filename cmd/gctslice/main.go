// gctslice is gctsubset without the empty-result check: a filter that
// matches nothing writes an empty matrix.
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
	out.Register(flag.CommandLine, "slice")
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
	if gctio.FormatOf(inputPath) == gctio.FormatGCTX {
		if flags.HasExclusions() {
			return fmt.Errorf("%s: -exclude_rid and -exclude_cid are not supported for .gctx inputs", inputPath)
		}
		g, err = gctio.Parse(ctx, inputPath, flags.ParseOptions(sel, opts))
	} else {
		var full *gctoo.GCToo
		if full, err = gctio.Parse(ctx, inputPath, opts); err == nil {
			g, err = gctoo.Slice(full, sel)
		}
	}
	if err != nil {
		return err
	}

	rows, cols := g.Data().Shape()
	if rows == 0 || cols == 0 {
		log.Warnf("The slice of %s is empty (%d x %d)\n", inputPath, rows, cols)
	}

	written, err := out.Write(g, logger)
	if err != nil {
		return err
	}
	log.Infof("Wrote %d rows and %d columns to %s\n", rows, cols, written)

	return nil
}
