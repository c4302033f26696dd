package gctoo

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// OpenReader opens path for sequential reading and transparently decompresses
// it. gs:// paths are read through client when it is non-nil.
func OpenReader(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	var src io.ReadCloser
	if bucket, object, ok := splitGSPath(path); ok && client != nil {
		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		src = r
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = f
	}

	rc, err := MaybeDecompressReadCloser(src)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// splitGSPath detects the bucket and the path to the actual file.
func splitGSPath(path string) (string, string, bool) {
	if !strings.HasPrefix(path, "gs://") {
		return "", "", false
	}
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[1] == "" {
		return "", "", false
	}
	return pathParts[0], pathParts[1], true
}
