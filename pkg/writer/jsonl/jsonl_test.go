package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
)

func TestWrite(t *testing.T) {
	logo := core.NewLogo(1)
	logo.Downstream[0].Add('R', 2)
	conf := core.ChannelWindow{
		Tag: core.TagConfidence, Kind: core.Numeric, Present: true,
		Window: core.Window{Span: []byte{7, 8}, Downstream: []byte{9}, UpstreamClipped: true},
	}
	rep := &engine.Report{Results: []engine.Result{
		{
			Peptide: "AG",
			Mass:    core.NeutralMass("AG"),
			Matches: []core.Match{
				{
					RecordID: "s1", Start: 1, End: 2, CTerm: 3,
					Sequence:    core.Window{Span: []byte("AG"), Downstream: []byte("R"), UpstreamClipped: true},
					Annotations: []core.ChannelWindow{{Tag: core.TagSecStruct}, conf},
				},
				{
					RecordID: "s2", Start: 4, End: 5, CTerm: 2,
					Sequence: core.Window{Upstream: []byte("K"), Span: []byte("AG"), Downstream: []byte("R")},
				},
			},
			Logo: logo,
		},
		{Peptide: "WW", Index: 1, Logo: core.NewLogo(1)},
	}}

	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []Result
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var r Result
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(got)+1, err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}

	ag := got[0]
	if ag.Peptide != "AG" || ag.Length != 2 || len(ag.Matches) != 2 {
		t.Fatalf("first result = %+v", ag)
	}
	if ag.Mass < 146.06 || ag.Mass > 146.07 {
		t.Errorf("mass = %v, want ~146.069", ag.Mass)
	}
	if m := ag.Matches[0]; m.NFlank != "[" || m.CFlank != "R" || m.CTerm != 3 {
		t.Errorf("first match = %+v", m)
	}
	if a := ag.Matches[0].Annotations; len(a) != 1 || a[0].Tag != core.TagConfidence || a[0].Upstream != "[" || a[0].Span != "7,8" {
		t.Errorf("annotations = %+v", a)
	}
	if len(ag.Matches[1].Annotations) != 0 {
		t.Errorf("second match should carry no annotations")
	}
	if ag.CLogo != "{2R}" || ag.CCounts[0]["R"] != 2 {
		t.Errorf("c logo = %q, counts %v", ag.CLogo, ag.CCounts)
	}

	ww := got[1]
	if ww.Matches == nil || len(ww.Matches) != 0 || ww.NLogo != "{}" {
		t.Errorf("unmatched result = %+v", ww)
	}
}
