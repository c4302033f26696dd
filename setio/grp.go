package setio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gctoo"
)

// ReadGRP reads one entry per line. Lines starting with '#' are comments.
// Surrounding whitespace is trimmed and blank lines are skipped.
func ReadGRP(r io.Reader) ([]string, error) {
	var out []string
	scanner := newScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadGRPFile reads a local or gs:// GRP file.
func ReadGRPFile(ctx context.Context, path string, client *storage.Client) ([]string, error) {
	rc, err := gctoo.OpenReader(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	grp, err := ReadGRP(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grp, nil
}

// WriteGRP writes one entry per line.
func WriteGRP(w io.Writer, grp []string) error {
	bw := bufio.NewWriter(w)
	for _, v := range grp {
		bw.WriteString(v)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteGRPFile writes grp to path.
func WriteGRPFile(path string, grp []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteGRP(f, grp)
}
