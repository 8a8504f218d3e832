// Package reader opens plain, gzip-compressed or standard input sources for the
// sequence database and query list readers.
package reader

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens path for reading. "-" selects standard input. Gzip input is
// detected by its magic number and decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	var (
		src     io.Reader
		closers []io.Closer
	)
	if path == Stdin {
		src = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
		closers = append(closers, fh)
	}

	br := bufio.NewReaderSize(src, 1<<20)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		return &multiReadCloser{Reader: gz, closers: append([]io.Closer{gz}, closers...)}, nil
	}
	return &multiReadCloser{Reader: br, closers: closers}, nil
}
