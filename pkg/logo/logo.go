// Package logo aggregates per-offset residue composition around peptide matches.
package logo

import (
	"fmt"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

// Aggregator accumulates one core.Logo per peptide. It is not safe for
// concurrent use; shard and Merge instead.
type Aggregator struct {
	width int
	logos []core.Logo
}

// New returns an aggregator for n peptides with width offsets per side.
func New(width, n int) *Aggregator {
	a := &Aggregator{width: width, logos: make([]core.Logo, n)}
	for i := range a.logos {
		a.logos[i] = core.NewLogo(width)
	}
	return a
}

// Add counts the residues of one match window of peptide idx.
//
// Both flanks are walked from the residue next to the match outwards. Upstream
// residue j of a flank of length k lands on offset width-k+j; downstream residue
// j lands on offset j. Walking ends at the boundary marker, so a clipped flank
// adds nothing to the offsets beyond the sequence end.
func (a *Aggregator) Add(idx int, w core.Window) {
	logo := &a.logos[idx]

	up := w.Upstream
	for j := len(up) - 1; j >= 0; j-- {
		offset := a.width - len(up) + j
		if offset < 0 {
			break
		}
		logo.Upstream[offset].Add(up[j], 1)
	}

	for j := 0; j < len(w.Downstream) && j < a.width; j++ {
		logo.Downstream[j].Add(w.Downstream[j], 1)
	}
}

// Merge adds the counts of other into a. Labels new to a bucket are appended in
// the order other first observed them.
func (a *Aggregator) Merge(other *Aggregator) error {
	if other.width != a.width || len(other.logos) != len(a.logos) {
		return fmt.Errorf("cannot merge aggregator of width %d with %d peptides into width %d with %d peptides",
			other.width, len(other.logos), a.width, len(a.logos))
	}
	for i := range a.logos {
		mergeBuckets(a.logos[i].Upstream, other.logos[i].Upstream)
		mergeBuckets(a.logos[i].Downstream, other.logos[i].Downstream)
	}
	return nil
}

func mergeBuckets(dst, src []core.Bucket) {
	for i := range src {
		for _, e := range src[i].Entries() {
			dst[i].Add(e.Label, e.Count)
		}
	}
}

// Logo returns the logo of peptide idx.
func (a *Aggregator) Logo(idx int) core.Logo {
	return a.logos[idx]
}

// Width returns the number of offsets per side.
func (a *Aggregator) Width() int {
	return a.width
}
