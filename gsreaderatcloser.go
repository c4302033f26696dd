package gctoo

import (
	"context"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// ReaderAtCloser is the random-access input needed by the GCTX reader.
type ReaderAtCloser interface {
	io.ReaderAt
	io.Closer
}

// Decorates a Google Storage object handle with ReadAt
type GSReaderAtCloser struct {
	*storage.ObjectHandle
	Context context.Context
}

// ReadAt satisfies io.ReaderAt with one ranged request per call.
func (o GSReaderAtCloser) ReadAt(p []byte, offset int64) (n int, err error) {
	rdr, err := o.NewRangeReader(o.Context, offset, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	n, err = io.ReadFull(rdr, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// Close is a nop: every ReadAt closes its own range reader.
func (o GSReaderAtCloser) Close() error {
	return nil
}

// OpenReaderAt opens path for random access and reports its size. gs:// paths
// are read through client when it is non-nil.
func OpenReaderAt(ctx context.Context, path string, client *storage.Client) (ReaderAtCloser, int64, error) {
	if bucket, object, ok := splitGSPath(path); ok && client != nil {
		handle := client.Bucket(bucket).Object(object)

		// Make a hard call to get the filesize
		attrs, err := handle.Attrs(ctx)
		if err != nil {
			return nil, 0, pfx.Err(err)
		}
		return GSReaderAtCloser{ObjectHandle: handle, Context: ctx}, attrs.Size, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, fstat.Size(), nil
}
