package gctoo

import (
	"bufio"
	"compress/bzip2"
	"compress/zlib"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZlib
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType identifies a compressed stream by its leading bytes. Byte
// code signatures from https://stackoverflow.com/a/19127748/199475
func DetectDataType(head []byte) DataType {
Outer:
	for dt, sig := range byteCodeSigs {
		if len(head) < len(sig) {
			continue
		}
		for position := range sig {
			if head[position] != sig[position] {
				continue Outer
			}
		}
		return dt
	}

	// zlib has no magic number, only a method byte (deflate, 32K window) and a
	// header checksum.
	if len(head) >= 2 && head[0] == 0x78 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
		return DataTypeZlib
	}

	return DataTypeNoCompression
}

// MaybeDecompressReadCloser sniffs r and wraps it in the matching
// decompressor. Closing the result closes r when r is an io.Closer.
func MaybeDecompressReadCloser(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(6)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	closer, _ := r.(io.Closer)
	var out io.Reader
	switch DetectDataType(head) {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		out = gz
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		out = zr
	case DataTypeBZip2:
		out = bzip2.NewReader(br)
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, err
		}
		out = reader
	case DataTypeZlib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, err
		}
		out = zr
	default:
		// No data type detected. For now, we assume this is uncompressed.
		out = br
	}

	return &readCloser{Reader: out, closer: closer}, nil
}

// readCloser "upgrades" readers that don't need to be closed, and closes the
// underlying source when there is one.
type readCloser struct {
	io.Reader
	closer io.Closer
}

func (c *readCloser) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		rc.Close()
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
