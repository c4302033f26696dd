// gctx2gct converts a GCTX file to GCT, optionally reading only some rows
// and columns.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/gctoo/gct"
	"github.com/carbocation/gctoo/gctio"
	"github.com/carbocation/pfx"

	_ "github.com/carbocation/gctoo/compileinfoprint"
	log "github.com/sirupsen/logrus"
)

func main() {
	var inputPath, outputPath string
	var rid, cid gctio.StringList
	var nulls gctio.NullOverrides
	var appendDims, keepNeg666, verbose bool
	flag.StringVar(&inputPath, "file", "", "Path to the .gctx file (local or gs://).")
	flag.StringVar(&outputPath, "out", "", "Output path. Defaults to the input name with a .gct extension.")
	flag.Var(&rid, "rid", "Row ids to read, or the path to a .grp file. May be repeated.")
	flag.Var(&cid, "cid", "Column ids to read, or the path to a .grp file. May be repeated.")
	flag.BoolVar(&appendDims, "append_dims", false, "Append _n<cols>x<rows> to the output name.")
	flag.StringVar(&nulls.Data, "data_null", "", "Token for missing data values. Defaults to NaN.")
	flag.StringVar(&nulls.Metadata, "metadata_null", "", "Token for missing metadata values. Defaults to -666.")
	flag.StringVar(&nulls.Filler, "filler_null", "", "Token for the empty corner of the header block. Defaults to -666.")
	flag.BoolVar(&keepNeg666, "keep_neg_666", false, "Treat -666 in the metadata as a value rather than as missing.")
	flag.BoolVar(&verbose, "verbose", false, "Log progress.")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if outputPath == "" {
		base := filepath.Base(inputPath)
		outputPath = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := run(inputPath, outputPath, rid.Values(), cid.Values(), nulls, appendDims, !keepNeg666, verbose); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(inputPath, outputPath string, ridArg, cidArg []string, nulls gctio.NullOverrides, appendDims, convertNeg666, verbose bool) error {
	ctx := context.Background()
	logger := gctio.Verbosity(verbose)

	client, err := gctio.StorageClient(ctx, inputPath)
	if err != nil {
		return err
	}

	opts := gctio.DefaultParseOptions()
	opts.ConvertNeg666 = convertNeg666
	opts.Client = client
	opts.Logger = logger
	if opts.Rid, err = gctio.ReadIDs(ctx, ridArg); err != nil {
		return err
	}
	if opts.Cid, err = gctio.ReadIDs(ctx, cidArg); err != nil {
		return err
	}

	g, err := gctio.Parse(ctx, inputPath, opts)
	if err != nil {
		return err
	}

	if appendDims {
		outputPath = gct.AppendDimsAndExtension(outputPath, g)
	}

	wopts := gctio.DefaultWriteOptions()
	nulls.Apply(&wopts)
	wopts.GCT.Logger = logger

	out, err := gctio.Write(outputPath, g, gctio.FormatGCT, wopts)
	if err != nil {
		return err
	}
	log.Infof("Wrote %s\n", out)

	return nil
}
