package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuerySet is returned when no peptides were supplied.
	ErrEmptyQuerySet = errors.New("the peptide list seems empty")
	// ErrEmptyDatabase is returned when the sequence database yields no records.
	ErrEmptyDatabase = errors.New("the sequence database seems to be empty")
	// ErrTagMissing marks an annotation tag that is absent from a description.
	ErrTagMissing = errors.New("tag not present")
)

// ValidationError represents an error found while validating input or settings.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// MalformedQueryError reports a peptide that is not a string over the amino acid alphabet.
type MalformedQueryError struct {
	Peptide string
	Line    int // 1-based source line; 0 when unknown
}

func (e *MalformedQueryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed peptide string %q (line %d)", e.Peptide, e.Line)
	}
	return fmt.Sprintf("malformed peptide string %q", e.Peptide)
}

// AnnotationFormatError reports an annotation channel that could not be decoded.
// It is recoverable: the record is processed without annotation.
type AnnotationFormatError struct {
	RecordID string
	Tag      string
	Reason   string
	Err      error
}

func (e *AnnotationFormatError) Error() string {
	msg := fmt.Sprintf("annotation %q: %s", e.Tag, e.Reason)
	if e.RecordID != "" {
		msg = fmt.Sprintf("record %s: %s", e.RecordID, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AnnotationFormatError) Unwrap() error {
	return e.Err
}
