package gctx

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/gctoo"
)

// MatrixDtype is the on-disk element type of the data matrix.
type MatrixDtype int

const (
	Float32 MatrixDtype = iota
	Float64
)

func (d MatrixDtype) bits() int {
	if d == Float64 {
		return 64
	}
	return 32
}

// WriteOptions controls writing.
type WriteOptions struct {
	// ConvertBackToNeg666 writes missing metadata as the legacy -666
	// sentinel instead of NaN.
	ConvertBackToNeg666 bool

	// GzipCompressionLevel deflates the metadata arrays. A negative level
	// stores them uncompressed.
	GzipCompressionLevel int

	// MaxChunkKB bounds the size of one chunk of the data matrix.
	MaxChunkKB int

	MatrixDtype MatrixDtype

	Logger gctoo.Logger
}

func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		ConvertBackToNeg666:  true,
		GzipCompressionLevel: 6,
		MaxChunkKB:           1024,
		MatrixDtype:          Float32,
	}
}

// Write serializes g to w. The root "src" attribute is g.Source.
func Write(w io.Writer, g *gctoo.GCToo, opts WriteOptions) error {
	if err := validate(g, opts); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "gctoo-*.gctx")
	if err != nil {
		return err
	}
	tmp := f.Name()
	f.Close()
	defer os.Remove(tmp)

	if err := writeH5(tmp, g, g.Source, opts, gctoo.LoggerOrDiscard(opts.Logger)); err != nil {
		return err
	}

	f, err = os.Open(tmp)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// WriteFile writes g to path, appending ".gctx" when it is missing, and
// returns the path written. When g has no Source the output path is recorded
// as the source. The file is assembled next to path and renamed into place,
// so a failed write leaves any existing file untouched.
func WriteFile(path string, g *gctoo.GCToo, opts WriteOptions) (string, error) {
	if !strings.HasSuffix(path, ".gctx") {
		path += ".gctx"
	}
	if err := validate(g, opts); err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	tmp := f.Name()
	f.Close()

	src := g.Source
	if src == "" {
		src = path
	}
	if err := writeH5(tmp, g, src, opts, gctoo.LoggerOrDiscard(opts.Logger)); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	return path, nil
}

// ChunkShape returns the on-disk chunk shape for a matrix of samples x
// features: up to 1000 samples per chunk, and as many features as fit in
// maxChunkKB.
func ChunkShape(samples, features, maxChunkKB int, dtype MatrixDtype) (int, int) {
	elemPerKB := maxChunkKB * 8 / dtype.bits()
	rows := samples
	if rows > 1000 {
		rows = 1000
	}
	if rows < 1 {
		rows = 1
	}
	cols := maxChunkKB * elemPerKB / rows
	if cols > features {
		cols = features
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// validate rejects containers that cannot be laid out, before anything is
// written.
func validate(g *gctoo.GCToo, opts WriteOptions) error {
	if opts.MaxChunkKB <= 0 {
		return fmt.Errorf("gctx: MaxChunkKB must be positive, got %d", opts.MaxChunkKB)
	}
	if opts.GzipCompressionLevel > 9 {
		return fmt.Errorf("gctx: gzip level %d out of range", opts.GzipCompressionLevel)
	}
	for _, m := range []struct {
		group string
		meta  *gctoo.MetaTable
	}{
		{rowMetaGroup, g.RowMetadata()},
		{colMetaGroup, g.ColMetadata()},
	} {
		for _, name := range m.meta.Fields() {
			if name == idField || name == "" || strings.Contains(name, "/") {
				return fmt.Errorf("gctx: metadata field %q cannot be stored under %s", name, m.group)
			}
		}
	}
	return nil
}

// encodeColumn stores numeric columns as int64 when every value is integral
// and can be stored, float64 otherwise, and everything else as strings.
// Missing values become -666 or NaN.
func encodeColumn(c gctoo.Column, neg666 bool) interface{} {
	if c.Kind() == gctoo.Numeric {
		integral := true
		for _, v := range c.Values {
			f, ok := v.Float()
			if !ok {
				integral = integral && neg666
				continue
			}
			if f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
				integral = false
			}
		}

		if integral {
			out := make([]int64, len(c.Values))
			for i, v := range c.Values {
				f, ok := v.Float()
				if !ok {
					out[i] = -666
					continue
				}
				out[i] = int64(f)
			}
			return out
		}

		out := make([]float64, len(c.Values))
		for i, v := range c.Values {
			f, ok := v.Float()
			switch {
			case ok:
				out[i] = f
			case neg666:
				out[i] = -666
			default:
				out[i] = math.NaN()
			}
		}
		return out
	}

	null := "NaN"
	if neg666 {
		null = gctoo.LegacyNull
	}
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			out[i] = null
			continue
		}
		out[i] = v.String()
	}
	return out
}
