package core

import (
	"strconv"
	"strings"
)

// Boundary markers substituted where a flank runs past a sequence end.
const (
	UpstreamMarker   = '['
	DownstreamMarker = ']'
)

// Window holds the flanks and the matched span cut from one per-residue array.
type Window struct {
	Upstream          []byte
	Span              []byte
	Downstream        []byte
	UpstreamClipped   bool // the upstream flank reached the sequence start
	DownstreamClipped bool // the downstream flank reached the sequence end
}

// Labels renders the window as character strings with boundary markers.
func (w Window) Labels() (up, span, down string) {
	var b strings.Builder
	if w.UpstreamClipped {
		b.WriteByte(UpstreamMarker)
	}
	b.Write(w.Upstream)
	up = b.String()

	b.Reset()
	b.Write(w.Downstream)
	if w.DownstreamClipped {
		b.WriteByte(DownstreamMarker)
	}
	down = b.String()

	return up, string(w.Span), down
}

// Scores renders the window as comma-joined decimal values with boundary markers.
func (w Window) Scores() (up, span, down string) {
	upTokens := decimals(w.Upstream)
	if w.UpstreamClipped {
		upTokens = append([]string{string(UpstreamMarker)}, upTokens...)
	}
	downTokens := decimals(w.Downstream)
	if w.DownstreamClipped {
		downTokens = append(downTokens, string(DownstreamMarker))
	}
	return strings.Join(upTokens, ","), strings.Join(decimals(w.Span), ","), strings.Join(downTokens, ",")
}

func decimals(values []byte) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(int(v))
	}
	return out
}

// ChannelWindow is the window of one annotation channel at a match.
type ChannelWindow struct {
	Tag     string
	Kind    ChannelKind
	Present bool
	Window  Window
}

// Text renders the channel window according to its kind. Absent channels render empty.
func (c ChannelWindow) Text() (up, span, down string) {
	if !c.Present {
		return "", "", ""
	}
	if c.Kind == Numeric {
		return c.Window.Scores()
	}
	return c.Window.Labels()
}

// Match is one occurrence of one query peptide in one record.
type Match struct {
	RecordID string
	Peptide  string
	Start    int // 1-based, inclusive
	End      int // 1-based, inclusive
	CTerm    int // residues from End to the C-terminus, counting End itself

	Sequence    Window
	Annotations []ChannelWindow // one per channel, in Annotation.Channels order
}

// Flanks returns the sequence flanks with boundary markers.
func (m *Match) Flanks() (up, down string) {
	up, _, down = m.Sequence.Labels()
	return up, down
}
