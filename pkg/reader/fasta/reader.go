// Package fasta provides a streaming reader for FASTA protein sequence databases
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

// maxLine allows very long single-line sequences (64 MiB).
const maxLine = 64 * 1024 * 1024

// FormatError reports input that is not a readable FASTA stream.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Reader provides streaming access to FASTA records
type Reader struct {
	scanner    *bufio.Scanner
	lineNum    int
	header     string // header line read ahead of the current record
	haveHeader bool
	current    *core.Record
	err        error
}

// NewReader creates a new FASTA reader
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Reader{scanner: sc}
}

// Next advances to the next record. Returns false when no more records or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	rec, err := r.readRecord()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = rec
	return true
}

// Record returns the current record
func (r *Reader) Record() *core.Record {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readRecord reads one header line and the sequence lines that follow it
func (r *Reader) readRecord() (*core.Record, error) {
	if !r.haveHeader {
		if err := r.seekHeader(); err != nil {
			return nil, err
		}
	}
	r.haveHeader = false

	rec, err := parseHeader(r.header)
	if err != nil {
		return nil, &FormatError{Line: r.lineNum, Reason: err.Error()}
	}
	headerLine := r.lineNum

	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Bytes()
		if len(line) > 0 && line[0] == '>' {
			r.header = string(line)
			r.haveHeader = true
			return rec, nil
		}
		for _, b := range line {
			if !isSpace(b) {
				rec.Seq = append(rec.Seq, b)
			}
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("fasta scan after line %d (record %s from line %d): %w", r.lineNum, rec.ID, headerLine, err)
	}
	return rec, nil
}

// seekHeader skips blank lines up to the first header. Anything else is a format error.
func (r *Reader) seekHeader() error {
	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if line[0] != '>' {
			return &FormatError{Line: r.lineNum, Reason: "sequence data before the first '>' header"}
		}
		r.header = string(line)
		r.haveHeader = true
		return nil
	}
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return io.EOF
}

// parseHeader splits ">ID description" into a record shell
func parseHeader(line string) (*core.Record, error) {
	hdr := strings.TrimSpace(strings.TrimPrefix(line, ">"))
	if hdr == "" {
		return nil, fmt.Errorf("header without identifier")
	}
	rec := &core.Record{ID: hdr}
	if i := strings.IndexAny(hdr, " \t"); i >= 0 {
		rec.ID = hdr[:i]
		rec.Description = strings.TrimSpace(hdr[i+1:])
	}
	return rec, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\v' || b == '\f'
}
