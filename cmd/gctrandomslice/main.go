// gctrandomslice keeps n randomly chosen rows or columns of a GCT or GCTX
// file.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/carbocation/gctoo"
	"github.com/carbocation/gctoo/gctio"
	"github.com/carbocation/pfx"

	_ "github.com/carbocation/gctoo/compileinfoprint"
	log "github.com/sirupsen/logrus"
)

func main() {
	var inputPath, outputPath, outType, axis string
	var n int
	var seed int64
	var verbose bool
	flag.StringVar(&inputPath, "file", "", "Path to the .gct or .gctx file (local or gs://).")
	flag.StringVar(&outputPath, "out", "random_slice", "Output path. The extension of -out_type is appended when missing.")
	flag.StringVar(&outType, "out_type", "gct", "Output format: gct or gctx.")
	flag.StringVar(&axis, "axis", "col", "Axis to sample: row or col.")
	flag.IntVar(&n, "n", 0, "Number of rows or columns to keep.")
	flag.Int64Var(&seed, "seed", 0, "Random seed. 0 seeds from the clock.")
	flag.BoolVar(&verbose, "verbose", false, "Log progress.")
	flag.Parse()

	if inputPath == "" || n < 1 || (axis != "row" && axis != "col") {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Infof("Seed: %d\n", seed)

	a := gctoo.ColAxis
	if axis == "row" {
		a = gctoo.RowAxis
	}

	if err := run(inputPath, outputPath, outType, n, a, rand.New(rand.NewSource(seed)), verbose); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(inputPath, outputPath, outType string, n int, axis gctoo.Axis, rng *rand.Rand, verbose bool) error {
	ctx := context.Background()
	logger := gctio.Verbosity(verbose)

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

	out, err := gctoo.RandomSlice(g, n, axis, rng)
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
	log.Infof("Wrote %s\n", written)

	return nil
}
