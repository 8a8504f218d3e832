package core

import (
	"strings"
	"unicode"
)

// AminoAcids is the canonical 20-letter protein alphabet accepted for queries.
const AminoAcids = "ACDEFGHIKLMNPQRSTVWY"

var aminoAcidTable [256]bool

func init() {
	for i := 0; i < len(AminoAcids); i++ {
		aminoAcidTable[AminoAcids[i]] = true
	}
}

// IsAminoAcid reports whether b is one of the canonical amino acid letters.
func IsAminoAcid(b byte) bool {
	return aminoAcidTable[b]
}

// NormalizePeptide trims trailing whitespace and upper-cases a query line.
func NormalizePeptide(s string) string {
	return strings.ToUpper(strings.TrimRightFunc(s, unicode.IsSpace))
}

// ValidatePeptide checks that p is a non-empty string over AminoAcids.
func ValidatePeptide(p string) error {
	if p == "" {
		return &MalformedQueryError{Peptide: p}
	}
	for i := 0; i < len(p); i++ {
		if !IsAminoAcid(p[i]) {
			return &MalformedQueryError{Peptide: p}
		}
	}
	return nil
}
