// gctdiff converts the values of a GCT or GCTX file to differential values:
// robust z-scores or median-normalized values, relative to the whole plate
// or to its vehicle controls.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/carbocation/gctoo/diff"
	"github.com/carbocation/gctoo/gctio"
	"github.com/carbocation/pfx"

	_ "github.com/carbocation/gctoo/compileinfoprint"
	log "github.com/sirupsen/logrus"
)

func main() {
	defaults := diff.DefaultOptions()

	var inputPath, outputPath, outType, method string
	var vehicleControl, verbose bool
	opts := defaults
	flag.StringVar(&inputPath, "file", "", "Path to the .gct or .gctx file (local or gs://).")
	flag.StringVar(&outputPath, "out", "diff", "Output path. The extension of -out_type is appended when missing.")
	flag.StringVar(&outType, "out_type", "gct", "Output format: gct or gctx.")
	flag.StringVar(&method, "diff_method", defaults.Method.String(), "robust_z or median_norm.")
	flag.BoolVar(&vehicleControl, "vehicle_control", false, "Use the samples selected by -group_field and -group_value as the reference instead of the whole plate.")
	flag.StringVar(&opts.GroupField, "group_field", defaults.GroupField, "Column metadata field that identifies vehicle controls.")
	flag.StringVar(&opts.GroupValue, "group_value", defaults.GroupValue, "Value of -group_field that marks a vehicle control.")
	flag.Float64Var(&opts.Lower, "lower_thresh", defaults.Lower, "Values below this are clipped to it.")
	flag.Float64Var(&opts.Upper, "upper_thresh", defaults.Upper, "Values above this are clipped to it.")
	flag.BoolVar(&verbose, "verbose", false, "Log progress.")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	var err error
	if opts.Method, err = diff.ParseMethod(method); err != nil {
		log.Fatalln(pfx.Err(err))
	}
	opts.PlateControl = !vehicleControl

	if err := run(inputPath, outputPath, outType, opts, verbose); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(inputPath, outputPath, outType string, opts diff.Options, verbose bool) error {
	ctx := context.Background()
	logger := gctio.Verbosity(verbose)
	opts.Logger = logger

	format, err := gctio.ParseFormat(outType)
	if err != nil {
		return err
	}

	client, err := gctio.StorageClient(ctx, inputPath)
	if err != nil {
		return err
	}

	popts := gctio.DefaultParseOptions()
	popts.Client = client
	popts.Logger = logger
	g, err := gctio.Parse(ctx, inputPath, popts)
	if err != nil {
		return err
	}

	out, err := diff.Transform(g, opts)
	if err != nil {
		return err
	}

	wopts := gctio.DefaultWriteOptions()
	wopts.GCT.Logger = logger
	wopts.GCTX.Logger = logger
	written, err := gctio.Write(outputPath, out, format, wopts)
	if err != nil {
		return err
	}
	log.Infof("Wrote %s values to %s\n", opts.Method, written)

	return nil
}
