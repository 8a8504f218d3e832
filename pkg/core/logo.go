package core

import (
	"strconv"
	"strings"
)

// LabelCount is one entry of a Bucket.
type LabelCount struct {
	Label byte
	Count int
}

// Bucket is a multiset of labels observed at one flank offset.
// Labels keep the order in which they were first observed.
type Bucket struct {
	order  []byte
	counts map[byte]int
}

// Add records n observations of label.
func (b *Bucket) Add(label byte, n int) {
	if n <= 0 {
		return
	}
	if b.counts == nil {
		b.counts = make(map[byte]int)
	}
	if _, ok := b.counts[label]; !ok {
		b.order = append(b.order, label)
	}
	b.counts[label] += n
}

// Count returns the number of observations of label.
func (b *Bucket) Count(label byte) int {
	return b.counts[label]
}

// Total returns the number of observations in the bucket.
func (b *Bucket) Total() int {
	total := 0
	for _, n := range b.counts {
		total += n
	}
	return total
}

// Entries returns the label counts in first-observed order.
func (b *Bucket) Entries() []LabelCount {
	out := make([]LabelCount, 0, len(b.order))
	for _, l := range b.order {
		out = append(out, LabelCount{Label: l, Count: b.counts[l]})
	}
	return out
}

// Format renders the bucket as {count1label1|count2label2|...}.
func (b *Bucket) Format() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range b.Entries() {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(e.Count))
		sb.WriteByte(e.Label)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Logo is the per-offset residue composition around every match of one peptide.
// Upstream[0] is the most distal upstream offset and Upstream[W-1] touches the match;
// Downstream[0] touches the match and Downstream[W-1] is the most distal.
type Logo struct {
	Upstream   []Bucket
	Downstream []Bucket
}

// NewLogo returns an empty logo with width offsets on each side.
func NewLogo(width int) Logo {
	return Logo{
		Upstream:   make([]Bucket, width),
		Downstream: make([]Bucket, width),
	}
}

// Empty reports whether no observation was recorded on either side.
func (l *Logo) Empty() bool {
	for i := range l.Upstream {
		if l.Upstream[i].Total() > 0 {
			return false
		}
	}
	for i := range l.Downstream {
		if l.Downstream[i].Total() > 0 {
			return false
		}
	}
	return true
}

// Format renders both sides, each as the concatenation of its bucket renderings.
func (l *Logo) Format() (up, down string) {
	return formatBuckets(l.Upstream), formatBuckets(l.Downstream)
}

func formatBuckets(buckets []Bucket) string {
	var sb strings.Builder
	for i := range buckets {
		sb.WriteString(buckets[i].Format())
	}
	return sb.String()
}
