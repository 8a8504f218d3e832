// Package automaton provides multi-pattern exact matching of peptides against
// protein sequences.
//
// It is an Aho–Corasick automaton over the 20 canonical amino acids:
//   - New builds a trie of the peptides, sets failure links breadth first and
//     folds them into a complete goto table, so a scan costs one lookup per residue.
//   - Scan yields one Hit per occurrence of any peptide, in increasing end order.
//     Overlapping occurrences and peptides that are substrings of others are all reported.
package automaton

import (
	"fmt"
	"iter"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

const alphabetSize = len(core.AminoAcids)

// node is one state of the automaton; state 0 is the root.
type node struct {
	next [alphabetSize]int32
	fail int32
	out  []int // pattern indexes that end at this state, longest first
}

// Hit is one occurrence of a pattern ending at End (0-based, inclusive).
type Hit struct {
	End     int
	Pattern int
}

// Automaton matches a fixed set of peptides. It is read-only after New and
// safe for concurrent scans.
type Automaton struct {
	nodes    []node
	patterns []string
	queries  [][]int // pattern index -> input indexes
	lookup   [256]int8
}

// New validates peptides and builds the automaton. Duplicate peptides share one
// pattern that keeps every input index.
func New(peptides []string) (*Automaton, error) {
	a := &Automaton{nodes: make([]node, 1)}
	for i := range a.lookup {
		a.lookup[i] = -1
	}
	for i := 0; i < alphabetSize; i++ {
		a.lookup[core.AminoAcids[i]] = int8(i)
	}

	seen := make(map[string]int, len(peptides))
	for i, p := range peptides {
		if err := core.ValidatePeptide(p); err != nil {
			return nil, err
		}
		if idx, ok := seen[p]; ok {
			a.queries[idx] = append(a.queries[idx], i)
			continue
		}
		seen[p] = len(a.patterns)
		a.patterns = append(a.patterns, p)
		a.queries = append(a.queries, []int{i})
	}
	if len(a.patterns) == 0 {
		return nil, core.ErrEmptyQuerySet
	}

	for i, p := range a.patterns {
		a.insert(p, i)
	}
	a.link()
	return a, nil
}

// insert adds the trie path for pattern p.
func (a *Automaton) insert(p string, idx int) {
	cur := int32(0)
	for i := 0; i < len(p); i++ {
		c := a.lookup[p[i]]
		if a.nodes[cur].next[c] == 0 {
			a.nodes = append(a.nodes, node{})
			a.nodes[cur].next[c] = int32(len(a.nodes) - 1)
		}
		cur = a.nodes[cur].next[c]
	}
	a.nodes[cur].out = append(a.nodes[cur].out, idx)
}

// link sets failure links breadth first, propagates outputs and completes the
// goto table so missing edges point at the failure state's transition.
func (a *Automaton) link() {
	queue := make([]int32, 0, len(a.nodes))
	for c := 0; c < alphabetSize; c++ {
		if child := a.nodes[0].next[c]; child != 0 {
			a.nodes[child].fail = 0
			queue = append(queue, child)
		}
	}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for c := 0; c < alphabetSize; c++ {
			s := a.nodes[r].next[c]
			if s == 0 {
				a.nodes[r].next[c] = a.nodes[a.nodes[r].fail].next[c]
				continue
			}
			queue = append(queue, s)
			f := a.nodes[a.nodes[r].fail].next[c]
			a.nodes[s].fail = f
			if len(a.nodes[f].out) > 0 {
				a.nodes[s].out = append(a.nodes[s].out, a.nodes[f].out...)
			}
		}
	}
}

// Scan returns the hits of every pattern in seq. Residues outside the canonical
// alphabet never match and reset the automaton.
func (a *Automaton) Scan(seq []byte) iter.Seq[Hit] {
	return func(yield func(Hit) bool) {
		state := int32(0)
		for i := 0; i < len(seq); i++ {
			c := a.lookup[seq[i]]
			if c < 0 {
				state = 0
				continue
			}
			state = a.nodes[state].next[c]
			for _, p := range a.nodes[state].out {
				if !yield(Hit{End: i, Pattern: p}) {
					return
				}
			}
		}
	}
}

// Len returns the number of distinct patterns.
func (a *Automaton) Len() int {
	return len(a.patterns)
}

// Pattern returns the peptide of pattern idx.
func (a *Automaton) Pattern(idx int) string {
	return a.patterns[idx]
}

// Queries returns the input indexes that share pattern idx.
func (a *Automaton) Queries(idx int) []int {
	return a.queries[idx]
}

// States returns the number of automaton states, root included.
func (a *Automaton) States() int {
	return len(a.nodes)
}

func (a *Automaton) String() string {
	return fmt.Sprintf("automaton(%d patterns, %d states)", len(a.patterns), len(a.nodes))
}
