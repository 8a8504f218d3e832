package flank

import (
	"testing"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

func TestWindow(t *testing.T) {
	seq := []byte("MAGKRTLLPQ") // 10 residues
	tests := []struct {
		name       string
		width      int
		start, end int
		wantUp     string
		wantSpan   string
		wantDown   string
	}{
		{"match at first residue", 3, 0, 2, "[", "MA", "KRT"},
		{"start within width", 3, 2, 4, "[MA", "GK", "RTL"},
		{"start equal to width keeps marker", 3, 3, 5, "[MAG", "KR", "TLL"},
		{"full upstream", 3, 4, 6, "AGK", "RT", "LLP"},
		{"remaining equal to width", 3, 5, 7, "GKR", "TL", "LPQ]"},
		{"match at last residue", 3, 8, 10, "TLL", "PQ", "]"},
		{"whole sequence", 2, 0, 10, "[", "MAGKRTLLPQ", "]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Extractor{Width: tt.width}.Window(seq, tt.start, tt.end)
			up, span, down := w.Labels()
			if up != tt.wantUp || span != tt.wantSpan || down != tt.wantDown {
				t.Errorf("Window() = (%q, %q, %q), want (%q, %q, %q)", up, span, down, tt.wantUp, tt.wantSpan, tt.wantDown)
			}
		})
	}
}

func TestUpstreamMarkerLength(t *testing.T) {
	seq := []byte("ACDEFGHIKLMNPQRSTVWY")
	const width = 5
	for start := 0; start <= width; start++ {
		w := Extractor{Width: width}.Window(seq, start, start+1)
		up, _, _ := w.Labels()
		if up[0] != core.UpstreamMarker {
			t.Errorf("start %d: upstream %q should begin with marker", start, up)
		}
		if len(up) != start+1 || len(up) > width+1 {
			t.Errorf("start %d: upstream %q has length %d", start, up, len(up))
		}
	}
}

func TestWindowDoesNotAlias(t *testing.T) {
	seq := []byte("MAGKRTLLPQ")
	w := Extractor{Width: 2}.Window(seq, 4, 6)
	w.Upstream[0] = 'x'
	w.Span[0] = 'x'
	if string(seq) != "MAGKRTLLPQ" {
		t.Errorf("input mutated: %q", seq)
	}
}

func TestExtract(t *testing.T) {
	rec := &core.Record{ID: "s1", Seq: []byte("MAGKRT")}
	ann := core.NoAnnotation()
	ann.SecStruct = core.PresentChannel(core.TagSecStruct, core.Categorical, []byte("CCHHHE"))
	ann.Confidence = core.PresentChannel(core.TagConfidence, core.Numeric, []byte{10, 20, 30, 40, 50, 60})

	m := Extractor{Width: 3}.Extract(rec, ann, "AG", 1, 3)

	if m.Start != 2 || m.End != 3 || m.CTerm != 4 {
		t.Errorf("coordinates = %d-%d c_term %d, want 2-3 c_term 4", m.Start, m.End, m.CTerm)
	}
	up, down := m.Flanks()
	if up != "[M" || down != "KRT]" {
		t.Errorf("Flanks() = (%q, %q), want (\"[M\", \"KRT]\")", up, down)
	}
	if len(m.Annotations) != 4 {
		t.Fatalf("annotations = %d, want 4", len(m.Annotations))
	}

	sstUp, sstSpan, sstDown := m.Annotations[0].Text()
	if sstUp != "[C" || sstSpan != "CH" || sstDown != "HHE]" {
		t.Errorf("secstruct = (%q, %q, %q)", sstUp, sstSpan, sstDown)
	}
	if m.Annotations[1].Present {
		t.Error("transmembrane should be absent")
	}
	if a, b, c := m.Annotations[1].Text(); a != "" || b != "" || c != "" {
		t.Errorf("absent channel text = (%q, %q, %q)", a, b, c)
	}
	confUp, confSpan, confDown := m.Annotations[2].Text()
	if confUp != "[,10" || confSpan != "20,30" || confDown != "40,50,60,]" {
		t.Errorf("confidence = (%q, %q, %q)", confUp, confSpan, confDown)
	}
}
