// gct2gctx converts a GCT file to GCTX.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/gctoo/gctio"
	"github.com/carbocation/gctoo/gctx"
	"github.com/carbocation/pfx"

	_ "github.com/carbocation/gctoo/compileinfoprint"
	log "github.com/sirupsen/logrus"
)

func main() {
	var inputPath, outputPath string
	var f64, keepNeg666, verbose bool
	var maxChunkKB int
	flag.StringVar(&inputPath, "file", "", "Path to the .gct file (local or gs://). Compressed files are decompressed on the fly.")
	flag.StringVar(&outputPath, "out", "", "Output path. Defaults to the input name with a .gctx extension.")
	flag.BoolVar(&f64, "f64", false, "Store the matrix as 64-bit floats instead of 32-bit.")
	flag.IntVar(&maxChunkKB, "max_chunk_kb", 1024, "Upper bound on the size of one chunk of the matrix, in KB.")
	flag.BoolVar(&keepNeg666, "keep_neg_666", false, "Treat -666 in the input as a value rather than as missing.")
	flag.BoolVar(&verbose, "verbose", false, "Log progress.")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if outputPath == "" {
		outputPath = defaultOutput(inputPath)
	}

	if err := run(inputPath, outputPath, f64, maxChunkKB, !keepNeg666, verbose); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(inputPath, outputPath string, f64 bool, maxChunkKB int, convertNeg666, verbose bool) error {
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
	g, err := gctio.Parse(ctx, inputPath, opts)
	if err != nil {
		return err
	}

	wopts := gctio.DefaultWriteOptions()
	wopts.GCTX.MaxChunkKB = maxChunkKB
	wopts.GCTX.Logger = logger
	if f64 {
		wopts.GCTX.MatrixDtype = gctx.Float64
	}

	out, err := gctio.Write(outputPath, g, gctio.FormatGCTX, wopts)
	if err != nil {
		return err
	}
	log.Infof("Wrote %s\n", out)

	return nil
}

// defaultOutput swaps the .gct extension (and any compression suffix) for
// .gctx, in the working directory.
func defaultOutput(inputPath string) string {
	base := filepath.Base(inputPath)
	for _, suffix := range []string{".gz", ".bz2", ".xz", ".zip", ".zlib"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".gctx"
}
