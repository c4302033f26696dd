package gctx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gctoo"
	"github.com/scigolib/hdf5"
)

// h5File is an open GCTX file.
type h5File struct {
	f *hdf5.File
}

func openH5(path string) (*h5File, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gctx: %w", err)
	}
	return &h5File{f: f}, nil
}

func (h *h5File) Close() error { return h.f.Close() }

// group walks from the root to the group at p.
func (h *h5File) group(p string) (*hdf5.Group, error) {
	g := h.f.Root()
	for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
		var next *hdf5.Group
		for _, child := range g.Children() {
			if c, ok := child.(*hdf5.Group); ok && path.Base(c.Name()) == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("gctx: no group %s", p)
		}
		g = next
	}
	return g, nil
}

// datasets maps the base names of the arrays directly under g.
func datasets(g *hdf5.Group) map[string]*hdf5.Dataset {
	out := make(map[string]*hdf5.Dataset)
	for _, child := range g.Children() {
		if d, ok := child.(*hdf5.Dataset); ok {
			out[path.Base(d.Name())] = d
		}
	}
	return out
}

func (h *h5File) dataset(p string) (*hdf5.Dataset, error) {
	dir, name := path.Split(p)
	g, err := h.group(dir)
	if err != nil {
		return nil, err
	}
	d, ok := datasets(g)[name]
	if !ok {
		return nil, fmt.Errorf("gctx: no array %s", p)
	}
	return d, nil
}

// rootAttr returns a string attribute of the root group, "" when absent.
func (h *h5File) rootAttr(name string) (string, error) {
	attrs, err := h.f.Root().Attributes()
	if err != nil {
		return "", err
	}
	for _, a := range attrs {
		if a.Name != name {
			continue
		}
		v, err := a.ReadValue()
		if err != nil {
			return "", fmt.Errorf("gctx: attribute %q: %w", name, err)
		}
		switch s := v.(type) {
		case string:
			return s, nil
		case []string:
			if len(s) > 0 {
				return s[0], nil
			}
			return "", nil
		case []byte:
			return strings.TrimRight(string(s), "\x00"), nil
		}
		return fmt.Sprint(v), nil
	}
	return "", nil
}

// column is one stored array: text when the array holds strings, numbers
// otherwise. Integer arrays are widened to float64 by the library.
type column struct {
	text    []string
	numbers []float64
	isText  bool
}

func (c column) Len() int {
	if c.isText {
		return len(c.text)
	}
	return len(c.numbers)
}

func readColumn(d *hdf5.Dataset) (column, error) {
	if s, err := d.ReadStrings(); err == nil {
		return column{text: s, isText: true}, nil
	}
	n, err := d.Read()
	if err != nil {
		return column{}, fmt.Errorf("gctx: %s: %w", d.Name(), err)
	}
	return column{numbers: n}, nil
}

// readBlock reads count[0] x count[1] cells of a 2-D array starting at
// start, in row-major order.
func readBlock(d *hdf5.Dataset, start, count [2]int) ([]float64, error) {
	raw, err := d.ReadSlice(
		[]uint64{uint64(start[0]), uint64(start[1])},
		[]uint64{uint64(count[0]), uint64(count[1])},
	)
	if err != nil {
		return nil, fmt.Errorf("gctx: %s: %w", dataNode, err)
	}
	values, ok := raw.([]float64)
	if !ok {
		return nil, fmt.Errorf("gctx: %s: unexpected element type %T", dataNode, raw)
	}
	if len(values) != count[0]*count[1] {
		return nil, &gctoo.ShapeMismatchError{Axis: dataNode, Expected: count[0] * count[1], Actual: len(values)}
	}
	return values, nil
}

// localCopy returns a local path holding the file at p. gs:// objects are
// downloaded to a temporary file, which cleanup removes.
func localCopy(ctx context.Context, p string, client *storage.Client) (local string, cleanup func(), err error) {
	if !strings.HasPrefix(p, "gs://") {
		return p, func() {}, nil
	}

	r, size, err := gctoo.OpenReaderAt(ctx, p, client)
	if err != nil {
		return "", nil, err
	}
	defer r.Close()

	return spill(io.NewSectionReader(r, 0, size))
}

// spill copies r into a temporary file.
func spill(r io.Reader) (string, func(), error) {
	f, err := os.CreateTemp("", "gctoo-*.gctx")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}

// attributeWriter is implemented by HDF5 writers that can annotate the root
// group.
type attributeWriter interface {
	WriteAttribute(name string, value interface{}) error
}

// h5Writer creates the groups of a new file on demand.
type h5Writer struct {
	fw      *hdf5.FileWriter
	created map[string]bool
}

func createH5(p string) (*h5Writer, error) {
	fw, err := hdf5.CreateForWrite(p, hdf5.CreateTruncate)
	if err != nil {
		return nil, err
	}
	return &h5Writer{fw: fw, created: map[string]bool{"/": true}}, nil
}

func (w *h5Writer) Close() error { return w.fw.Close() }

func (w *h5Writer) attr(name, value string) error {
	aw, ok := interface{}(w.fw).(attributeWriter)
	if !ok {
		return fmt.Errorf("gctx: the HDF5 writer cannot set root attributes")
	}
	return aw.WriteAttribute(name, value)
}

func (w *h5Writer) mkdirs(dir string) error {
	parts := strings.Split(strings.Trim(dir, "/"), "/")
	for i := range parts {
		p := "/" + strings.Join(parts[:i+1], "/")
		if w.created[p] {
			continue
		}
		if _, err := w.fw.CreateGroup(p); err != nil {
			return fmt.Errorf("gctx: group %s: %w", p, err)
		}
		w.created[p] = true
	}
	return nil
}

// array writes a 1-D array at p, creating its parent groups. Arrays are
// chunked whole so they can be deflated; level < 0 stores them contiguous.
func (w *h5Writer) array(p string, values interface{}, level int) error {
	if err := w.mkdirs(path.Dir(p)); err != nil {
		return err
	}
	var err error
	switch v := values.(type) {
	case []string:
		n := uint64(len(v))
		size := 1
		for _, s := range v {
			if len(s) > size {
				size = len(s)
			}
		}
		if level >= 0 && n > 0 {
			ds, cerr := w.fw.CreateDataset(p, hdf5.String, []uint64{n},
				hdf5.WithStringSize(uint32(size)), hdf5.WithChunkDims([]uint64{n}), hdf5.WithGZIPCompression(level))
			if err = cerr; err == nil {
				err = ds.Write(v)
			}
		} else {
			ds, cerr := w.fw.CreateDataset(p, hdf5.String, []uint64{n}, hdf5.WithStringSize(uint32(size)))
			if err = cerr; err == nil {
				err = ds.Write(v)
			}
		}
	case []int64:
		n := uint64(len(v))
		if level >= 0 && n > 0 {
			ds, cerr := w.fw.CreateDataset(p, hdf5.Int64, []uint64{n},
				hdf5.WithChunkDims([]uint64{n}), hdf5.WithGZIPCompression(level))
			if err = cerr; err == nil {
				err = ds.Write(v)
			}
		} else {
			ds, cerr := w.fw.CreateDataset(p, hdf5.Int64, []uint64{n})
			if err = cerr; err == nil {
				err = ds.Write(v)
			}
		}
	case []float64:
		n := uint64(len(v))
		if level >= 0 && n > 0 {
			ds, cerr := w.fw.CreateDataset(p, hdf5.Float64, []uint64{n},
				hdf5.WithChunkDims([]uint64{n}), hdf5.WithGZIPCompression(level))
			if err = cerr; err == nil {
				err = ds.Write(v)
			}
		} else {
			ds, cerr := w.fw.CreateDataset(p, hdf5.Float64, []uint64{n})
			if err = cerr; err == nil {
				err = ds.Write(v)
			}
		}
	default:
		err = fmt.Errorf("unsupported array type %T", values)
	}
	if err != nil {
		return fmt.Errorf("gctx: %s: %w", p, err)
	}
	return nil
}

// matrix writes the samples x features matrix of g, chunked as ChunkShape
// decides.
func (w *h5Writer) matrix(data *gctoo.Matrix, opts WriteOptions, logger gctoo.Logger) error {
	features, samples := data.Shape()
	chunkRows, chunkCols := ChunkShape(samples, features, opts.MaxChunkKB, opts.MatrixDtype)
	logger.Printf("writing %d x %d matrix in %d x %d chunks\n", samples, features, chunkRows, chunkCols)

	if err := w.mkdirs(path.Dir(dataNode)); err != nil {
		return err
	}
	dims := []uint64{uint64(samples), uint64(features)}
	chunk := hdf5.WithChunkDims([]uint64{uint64(chunkRows), uint64(chunkCols)})
	var err error
	if opts.MatrixDtype == Float64 {
		values := make([]float64, 0, samples*features)
		for j := 0; j < samples; j++ {
			for i := 0; i < features; i++ {
				values = append(values, data.At(i, j))
			}
		}
		ds, cerr := w.fw.CreateDataset(dataNode, hdf5.Float64, dims, chunk)
		if err = cerr; err == nil {
			err = ds.Write(values)
		}
	} else {
		values := make([]float32, 0, samples*features)
		for j := 0; j < samples; j++ {
			for i := 0; i < features; i++ {
				values = append(values, float32(data.At(i, j)))
			}
		}
		ds, cerr := w.fw.CreateDataset(dataNode, hdf5.Float32, dims, chunk)
		if err = cerr; err == nil {
			err = ds.Write(values)
		}
	}
	if err != nil {
		return fmt.Errorf("gctx: %s: %w", dataNode, err)
	}
	return nil
}

// writeH5 creates an HDF5 file at p holding the GCTX layout of g.
func writeH5(p string, g *gctoo.GCToo, src string, opts WriteOptions, logger gctoo.Logger) (err error) {
	w, err := createH5(p)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := w.attr(versionAttr, Version); err != nil {
		return err
	}
	if err := w.attr(srcAttr, src); err != nil {
		return err
	}
	if err := w.matrix(g.Data(), opts, logger); err != nil {
		return err
	}

	for _, m := range []struct {
		group string
		meta  *gctoo.MetaTable
	}{
		{colMetaGroup, g.ColMetadata()},
		{rowMetaGroup, g.RowMetadata()},
	} {
		if err := w.mkdirs(m.group); err != nil {
			return err
		}
		if err := w.array(m.group+"/"+idField, m.meta.IDs(), opts.GzipCompressionLevel); err != nil {
			return err
		}
		for _, name := range m.meta.Fields() {
			c, _ := m.meta.Column(name)
			if err := w.array(m.group+"/"+name, encodeColumn(c, opts.ConvertBackToNeg666), opts.GzipCompressionLevel); err != nil {
				return err
			}
		}
	}
	return nil
}
