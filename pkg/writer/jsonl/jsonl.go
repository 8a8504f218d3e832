// Package jsonl streams a match report as JSON lines, one object per query peptide.
package jsonl

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
)

// Channel is the wire form of one annotation channel window.
type Channel struct {
	Tag        string `json:"tag"`
	Upstream   string `json:"n"`
	Span       string `json:"pept"`
	Downstream string `json:"c"`
}

// Match is the wire form of core.Match.
type Match struct {
	Record      string    `json:"record"`
	Start       int       `json:"start"`
	End         int       `json:"end"`
	CTerm       int       `json:"c_term"`
	NFlank      string    `json:"n_flank"`
	CFlank      string    `json:"c_flank"`
	Annotations []Channel `json:"annotations,omitempty"`
}

// Bucket is the wire form of one logo offset.
type Bucket map[string]int

// Result is the wire form of engine.Result.
type Result struct {
	Peptide string   `json:"peptide"`
	Index   int      `json:"index"`
	Length  int      `json:"length"`
	Mass    float64  `json:"mass"`
	Matches []Match  `json:"matches"`
	NLogo   string   `json:"n_logo"`
	CLogo   string   `json:"c_logo"`
	NCounts []Bucket `json:"n_counts"`
	CCounts []Bucket `json:"c_counts"`
}

// ToAPIResult converts an engine result to its wire form.
func ToAPIResult(r *engine.Result) Result {
	out := Result{
		Peptide: r.Peptide,
		Index:   r.Index,
		Length:  len(r.Peptide),
		Mass:    core.RoundFloat(r.Mass, 4),
		Matches: make([]Match, 0, len(r.Matches)),
		NCounts: toBuckets(r.Logo.Upstream),
		CCounts: toBuckets(r.Logo.Downstream),
	}
	out.NLogo, out.CLogo = r.Logo.Format()

	for i := range r.Matches {
		m := &r.Matches[i]
		up, down := m.Flanks()
		wm := Match{Record: m.RecordID, Start: m.Start, End: m.End, CTerm: m.CTerm, NFlank: up, CFlank: down}
		for _, cw := range m.Annotations {
			if !cw.Present {
				continue
			}
			n, span, c := cw.Text()
			wm.Annotations = append(wm.Annotations, Channel{Tag: cw.Tag, Upstream: n, Span: span, Downstream: c})
		}
		out.Matches = append(out.Matches, wm)
	}
	return out
}

func toBuckets(buckets []core.Bucket) []Bucket {
	out := make([]Bucket, len(buckets))
	for i := range buckets {
		b := Bucket{}
		for _, e := range buckets[i].Entries() {
			b[string(e.Label)] = e.Count
		}
		out[i] = b
	}
	return out
}

// Write encodes each result of rep as one JSON line, in query order.
func Write(out io.Writer, rep *engine.Report) error {
	bw := bufio.NewWriter(out)
	enc := json.NewEncoder(bw)
	for i := range rep.Results {
		if err := enc.Encode(ToAPIResult(&rep.Results[i])); err != nil {
			return err
		}
	}
	return bw.Flush()
}
