// Package setio reads and writes the GMT and GRP gene set formats.
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

// maxLine bounds a single GMT or GRP line.
const maxLine = 64 * 1024 * 1024

// Set is one line of a GMT file.
type Set struct {
	Name    string
	Desc    string
	Members []string
}

// GMTError describes an invalid GMT line. Line is zero-based.
type GMTError struct {
	Line   int
	Reason string
}

func (e *GMTError) Error() string {
	return fmt.Sprintf("gmt: line %d: %s", e.Line, e.Reason)
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	return scanner
}

// ReadGMT reads tab-delimited sets: name, description, then the members.
// Empty member fields are dropped. Every line needs at least three fields,
// members may not repeat within a set, and set names must be unique.
func ReadGMT(r io.Reader) ([]Set, error) {
	var sets []Set
	seen := make(map[string]int)

	scanner := newScanner(r)
	for lineNum := 0; scanner.Scan(); lineNum++ {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 3 {
			return nil, &GMTError{Line: lineNum, Reason: fmt.Sprintf("each line must have at least 3 tab-delimited items, got %d", len(fields))}
		}
		fields[len(fields)-1] = strings.TrimRight(fields[len(fields)-1], " \r\n")

		members := make([]string, 0, len(fields)-2)
		inSet := make(map[string]struct{}, len(fields)-2)
		for _, m := range fields[2:] {
			if m == "" {
				continue
			}
			if _, dup := inSet[m]; dup {
				return nil, &GMTError{Line: lineNum, Reason: fmt.Sprintf("set %q lists %q more than once", fields[0], m)}
			}
			inSet[m] = struct{}{}
			members = append(members, m)
		}

		if prev, dup := seen[fields[0]]; dup {
			return nil, &GMTError{Line: lineNum, Reason: fmt.Sprintf("set identifier %q was already used on line %d", fields[0], prev)}
		}
		seen[fields[0]] = lineNum

		sets = append(sets, Set{Name: fields[0], Desc: fields[1], Members: members})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// ReadGMTFile reads a local or gs:// GMT file.
func ReadGMTFile(ctx context.Context, path string, client *storage.Client) ([]Set, error) {
	rc, err := gctoo.OpenReader(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	sets, err := ReadGMT(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sets, nil
}

// WriteGMT writes one line per set.
func WriteGMT(w io.Writer, sets []Set) error {
	bw := bufio.NewWriter(w)
	for _, s := range sets {
		bw.WriteString(s.Name)
		bw.WriteByte('\t')
		bw.WriteString(s.Desc)
		bw.WriteByte('\t')
		bw.WriteString(strings.Join(s.Members, "\t"))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteGMTFile writes sets to path.
func WriteGMTFile(path string, sets []Set) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteGMT(f, sets)
}
