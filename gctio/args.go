package gctio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gctoo/setio"
)

// ReadIDs interprets a command line id argument. A single value naming an
// existing file is read as a GRP file; anything else is the id list itself.
// A nil argument stays nil, meaning no selection.
func ReadIDs(ctx context.Context, arg []string) ([]string, error) {
	if arg == nil {
		return nil, nil
	}
	if len(arg) == 1 {
		if st, err := os.Stat(arg[0]); err == nil && !st.IsDir() {
			ids, err := setio.ReadGRPFile(ctx, arg[0], nil)
			if err != nil {
				return nil, err
			}
			if ids == nil {
				ids = []string{}
			}
			return ids, nil
		}
	}
	return arg, nil
}

// ExpandWildcard returns the files matching pattern, sorted. A leading "~/"
// is expanded to the home directory.
func ExpandWildcard(pattern string) ([]string, error) {
	if strings.HasPrefix(pattern, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		pattern = filepath.Join(home, pattern[2:])
	}
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files were found matching %q", pattern)
	}
	sort.Strings(files)
	return files, nil
}

// StorageClient opens a Google Storage client if any of paths is a gs:// URL,
// and returns nil otherwise.
func StorageClient(ctx context.Context, paths ...string) (*storage.Client, error) {
	for _, p := range paths {
		if strings.HasPrefix(p, "gs://") {
			return storage.NewClient(ctx)
		}
	}
	return nil, nil
}
