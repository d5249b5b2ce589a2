// Package fileutil provides file access helpers shared by the CLI.
package fileutil

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/stellarkit/ecsv/core/errors"
)

// OpenSource opens path for reading, transparently decompressing .gz and
// .xz files based on the extension. "-" reads stdin.
func OpenSource(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "reading gzip header of %s", path)
		}
		return &decompressReader{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "reading xz header of %s", path)
		}
		return &decompressReader{Reader: xr, closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

// decompressReader closes the decompressor and the underlying file.
type decompressReader struct {
	io.Reader
	closers []io.Closer
}

func (d *decompressReader) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
