// gctconcat stacks GCT or GCTX files horizontally (adding columns) or
// vertically (adding rows).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/gctio"
	"github.com/carbocation/pfx"

	_ "github.com/carbocation/gctoo/compileinfoprint"
	log "github.com/sirupsen/logrus"
)

func main() {
	var direction, wildcard, outputPath, outType, reportPath string
	var fieldsToRemove gctio.StringList
	var removeAll, resetIDs, verbose bool
	var nulls gctio.NullOverrides
	flag.StringVar(&direction, "d", "horiz", "Concatenation direction: horiz (samples are columns) or vert (samples are rows).")
	flag.StringVar(&wildcard, "w", "", "Wildcard matching the files to concatenate. Alternative to listing them as arguments.")
	flag.StringVar(&outputPath, "out", "concated", "Output path. The extension of -out_type is appended when missing.")
	flag.StringVar(&outType, "out_type", "gct", "Output format: gct or gctx.")
	flag.Var(&fieldsToRemove, "ftr", "Metadata field to remove before concatenating. May be repeated.")
	flag.BoolVar(&removeAll, "ramf", false, "Remove all metadata fields before concatenating.")
	flag.BoolVar(&resetIDs, "rsi", false, "Replace the ids of the concatenated axis with 0..n-1, keeping the old ids in a metadata field.")
	flag.StringVar(&reportPath, "erof", "", "Where to write the report of conflicting metadata, if any.")
	flag.StringVar(&nulls.Data, "data_null", "", "Token for missing data values in GCT output. Defaults to NaN.")
	flag.StringVar(&nulls.Metadata, "metadata_null", "", "Token for missing metadata values in GCT output. Defaults to -666.")
	flag.StringVar(&nulls.Filler, "filler_null", "", "Token for the empty corner of the GCT header block. Defaults to -666.")
	flag.BoolVar(&verbose, "verbose", false, "Log progress.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file1.gct file2.gct ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	inputs := flag.Args()
	if (len(inputs) == 0) == (wildcard == "") {
		log.Errorln("Provide either a list of files or -w, but not both")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if direction != "horiz" && direction != "vert" {
		log.Errorf("-d must be horiz or vert, got %q\n", direction)
		flag.PrintDefaults()
		os.Exit(1)
	}

	if wildcard != "" {
		var err error
		if inputs, err = gctio.ExpandWildcard(wildcard); err != nil {
			log.Fatalln(pfx.Err(err))
		}
	}

	if len(inputs) == 1 {
		log.Warnf("Only one file was given (%s); there is nothing to concatenate\n", inputs[0])
		return
	}

	opts := gctoo.ConcatOptions{
		FieldsToRemove:          fieldsToRemove.Values(),
		RemoveAllMetadataFields: removeAll,
		ResetIDs:                resetIDs,
		ErrorReportFile:         reportPath,
	}

	if err := run(inputs, direction, outputPath, outType, opts, nulls, verbose); err != nil {
		var conflict *gctoo.MetadataReconciliationError
		if errors.As(err, &conflict) && reportPath == "" {
			log.Errorln("Rerun with -erof to write the conflicting metadata to a file")
		}
		log.Fatalln(pfx.Err(err))
	}
}

func run(inputs []string, direction, outputPath, outType string, opts gctoo.ConcatOptions, nulls gctio.NullOverrides, verbose bool) error {
	ctx := context.Background()
	logger := gctio.Verbosity(verbose)
	opts.Logger = logger

	format, err := gctio.ParseFormat(outType)
	if err != nil {
		return err
	}

	client, err := gctio.StorageClient(ctx, inputs...)
	if err != nil {
		return err
	}

	popts := gctio.DefaultParseOptions()
	popts.Client = client
	popts.Logger = logger

	gctoos := make([]*gctoo.GCToo, 0, len(inputs))
	for _, path := range inputs {
		g, err := gctio.Parse(ctx, path, popts)
		if err != nil {
			return err
		}
		gctoos = append(gctoos, g)
	}

	var out *gctoo.GCToo
	if direction == "horiz" {
		out, err = gctoo.HStack(gctoos, opts)
	} else {
		out, err = gctoo.VStack(gctoos, opts)
	}
	if err != nil {
		return err
	}

	wopts := gctio.DefaultWriteOptions()
	nulls.Apply(&wopts)
	wopts.GCT.Logger = logger
	wopts.GCTX.Logger = logger

	written, err := gctio.Write(outputPath, out, format, wopts)
	if err != nil {
		return err
	}
	rows, cols := out.Data().Shape()
	log.Infof("Concatenated %d files into %s (%d x %d)\n", len(inputs), written, rows, cols)

	return nil
}
