// Package summary collects database-wide statistics and annotation health for
// a sequence database without running a match.
package summary

import (
	"context"
	"fmt"
	"io"

	"github.com/ChrisMcGann/PepMatch/pkg/annotation"
	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
)

// Summary describes one pass over a sequence database.
type Summary struct {
	Records  int
	Residues int64
	MinLen   int
	MaxLen   int
	// TagCounts counts records whose tag decoded cleanly, keyed by tag.
	TagCounts map[string]int
	// DecodeFailures holds one error per record whose annotation could not be decoded.
	DecodeFailures []error
}

// MeanLen returns the average record length.
func (s *Summary) MeanLen() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.Residues) / float64(s.Records)
}

// Collect streams src once, decoding every record's annotation with dec.
// A reader error is returned as is; an empty database yields core.ErrEmptyDatabase.
func Collect(ctx context.Context, src engine.Source, dec annotation.Decoder) (*Summary, error) {
	s := &Summary{TagCounts: make(map[string]int)}
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := src.Record()
		n := rec.Len()
		if s.Records == 0 || n < s.MinLen {
			s.MinLen = n
		}
		if n > s.MaxLen {
			s.MaxLen = n
		}
		s.Records++
		s.Residues += int64(n)

		ann, err := dec.Decode(rec.ID, rec.Description, n)
		if err != nil {
			s.DecodeFailures = append(s.DecodeFailures, err)
			continue
		}
		for _, ch := range ann.Channels() {
			if ch.Present() {
				s.TagCounts[ch.Tag]++
			}
		}
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sequence database: %w", err)
	}
	if s.Records == 0 {
		return nil, core.ErrEmptyDatabase
	}
	return s, nil
}

// Write prints the summary as aligned key/value lines.
func (s *Summary) Write(w io.Writer) error {
	lines := []struct {
		key string
		val interface{}
	}{
		{"Records", s.Records},
		{"Residues", s.Residues},
		{"Min length", s.MinLen},
		{"Max length", s.MaxLen},
		{"Mean length", fmt.Sprintf("%.1f", s.MeanLen())},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-16s %v\n", l.key+":", l.val); err != nil {
			return err
		}
	}
	for _, tag := range []string{core.TagSecStruct, core.TagTransmembrane, core.TagConfidence, core.TagAccessibility} {
		if _, err := fmt.Fprintf(w, "%-16s %d\n", tag+":", s.TagCounts[tag]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%-16s %d\n", "Decode failures:", len(s.DecodeFailures))
	return err
}
