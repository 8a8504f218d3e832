package automaton

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

func collect(a *Automaton, seq string) []Hit {
	var hits []Hit
	for h := range a.Scan([]byte(seq)) {
		hits = append(hits, h)
	}
	return hits
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name          string
		peptides      []string
		wantErr       error
		wantMalformed bool
	}{
		{"valid", []string{"AG", "GK"}, nil, false},
		{"empty set", nil, core.ErrEmptyQuerySet, false},
		{"lowercase is malformed", []string{"ag"}, nil, true},
		{"non canonical letter", []string{"AGX"}, nil, true},
		{"empty peptide", []string{"AG", ""}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.peptides)
			var mqe *core.MalformedQueryError
			switch {
			case tt.wantMalformed:
				if !errors.As(err, &mqe) {
					t.Fatalf("New() error = %v, want MalformedQueryError", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
			case err != nil:
				t.Fatalf("New() error = %v", err)
			}
		})
	}
}

func TestMalformedQueryNamesPeptide(t *testing.T) {
	_, err := New([]string{"PEPTIDE", "PEP*"})
	if err == nil || !strings.Contains(err.Error(), "PEP*") {
		t.Errorf("error %v should name the offending peptide", err)
	}
}

func TestScanOverlappingPeptides(t *testing.T) {
	a, err := New([]string{"AG", "GK"})
	if err != nil {
		t.Fatal(err)
	}
	got := collect(a, "MAGKRT")
	want := []Hit{{End: 2, Pattern: 0}, {End: 3, Pattern: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanSelfOverlap(t *testing.T) {
	a, err := New([]string{"AA"})
	if err != nil {
		t.Fatal(err)
	}
	got := collect(a, "AAAA")
	want := []Hit{{End: 1}, {End: 2}, {End: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanSubstringPeptides(t *testing.T) {
	a, err := New([]string{"PEP", "PEPTIDE", "TIDE"})
	if err != nil {
		t.Fatal(err)
	}
	got := collect(a, "MPEPTIDEK")
	// PEPTIDE and TIDE end at the same residue: the longer pattern comes first.
	want := []Hit{{End: 3, Pattern: 0}, {End: 7, Pattern: 1}, {End: 7, Pattern: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanResetsOnUnknownResidue(t *testing.T) {
	a, err := New([]string{"AG"})
	if err != nil {
		t.Fatal(err)
	}
	if got := collect(a, "AXG"); len(got) != 0 {
		t.Errorf("Scan() = %v, want no hits across X", got)
	}
	if got := collect(a, "XAG"); len(got) != 1 {
		t.Errorf("Scan() = %v, want one hit after X", got)
	}
}

func TestDuplicatePeptidesSharePattern(t *testing.T) {
	a, err := New([]string{"AG", "KR", "AG"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	if got := a.Queries(0); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Queries(0) = %v, want [0 2]", got)
	}
	if got := len(collect(a, "AGKRAG")); got != 3 {
		t.Errorf("hits = %d, want 3", got)
	}
}

func TestScanStopsEarly(t *testing.T) {
	a, err := New([]string{"A"})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range a.Scan([]byte("AAAAAA")) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("consumed %d hits, want 2", n)
	}
}

// naiveHits finds every occurrence by direct comparison.
func naiveHits(patterns []string, seq string) map[Hit]bool {
	out := make(map[Hit]bool)
	for pi, p := range patterns {
		for s := 0; s+len(p) <= len(seq); s++ {
			if seq[s:s+len(p)] == p {
				out[Hit{End: s + len(p) - 1, Pattern: pi}] = true
			}
		}
	}
	return out
}

func TestScanAgreesWithNaiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const letters = "ACDEG"
	randSeq := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = letters[rng.Intn(len(letters))]
		}
		return string(b)
	}

	for round := 0; round < 20; round++ {
		seen := map[string]bool{}
		var patterns []string
		for len(patterns) < 8 {
			p := randSeq(1 + rng.Intn(4))
			if !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}
		seq := randSeq(200)

		a, err := New(patterns)
		if err != nil {
			t.Fatal(err)
		}
		want := naiveHits(patterns, seq)
		got := collect(a, seq)
		if len(got) != len(want) {
			t.Fatalf("round %d: %d hits, want %d", round, len(got), len(want))
		}
		prevEnd := -1
		for _, h := range got {
			if !want[h] {
				t.Fatalf("round %d: unexpected hit %v", round, h)
			}
			if h.End < prevEnd {
				t.Fatalf("round %d: hits out of order at %v", round, h)
			}
			prevEnd = h.End
		}
	}
}
