package engine

import (
	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

// Result is the outcome for one query peptide.
type Result struct {
	Peptide string
	Index   int     // position in the query list
	Mass    float64 // neutral monoisotopic mass
	Matches []core.Match
	Logo    core.Logo
}

// Matched reports whether the peptide occurred anywhere in the database.
func (r *Result) Matched() bool {
	return len(r.Matches) > 0
}

// Stats summarizes a run.
type Stats struct {
	Records        int
	Residues       int64
	Annotated      int // records with at least one decoded channel
	DecodeFailures int
	Matches        int // per distinct peptide; duplicate queries are counted once
	Unmatched      int // query peptides without any match
}

// Report is everything a run produces.
type Report struct {
	Results        []Result // in query order
	Stats          Stats
	DecodeFailures []error // one *core.AnnotationFormatError per failed record
}
