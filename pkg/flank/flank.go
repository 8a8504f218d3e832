// Package flank cuts fixed-width context windows around peptide matches.
package flank

import (
	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

// Extractor cuts windows of Width residues on each side of a match.
type Extractor struct {
	Width int
}

// Window cuts the flanks and span of values for a match covering [start, end)
// in 0-based residue indexes.
//
// The upstream flank holds Width values when start > Width; otherwise it holds
// everything before start and is marked clipped. The downstream flank holds
// Width values when more than Width values follow end; otherwise it holds the
// rest of the array and is marked clipped. Returned slices never alias values.
func (x Extractor) Window(values []byte, start, end int) core.Window {
	var w core.Window
	if start > x.Width {
		w.Upstream = clone(values[start-x.Width : start])
	} else {
		w.Upstream = clone(values[:start])
		w.UpstreamClipped = true
	}
	if len(values)-end > x.Width {
		w.Downstream = clone(values[end : end+x.Width])
	} else {
		w.Downstream = clone(values[end:])
		w.DownstreamClipped = true
	}
	w.Span = clone(values[start:end])
	return w
}

// Extract builds the match record for peptide covering [start, end) of rec.
// Every present channel of ann is cut with the same indexes as the sequence.
func (x Extractor) Extract(rec *core.Record, ann core.Annotation, peptide string, start, end int) core.Match {
	m := core.Match{
		RecordID: rec.ID,
		Peptide:  peptide,
		Start:    start + 1,
		End:      end,
		CTerm:    rec.Len() - end + 1,
		Sequence: x.Window(rec.Seq, start, end),
	}
	channels := ann.Channels()
	m.Annotations = make([]core.ChannelWindow, len(channels))
	for i, ch := range channels {
		cw := core.ChannelWindow{Tag: ch.Tag, Kind: ch.Kind, Present: ch.Present()}
		if cw.Present {
			cw.Window = x.Window(ch.Values, start, end)
		}
		m.Annotations[i] = cw
	}
	return m
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
