// Package query loads peptide query lists: one peptide per line, case-insensitive.
package query

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/reader"
)

// Load reads peptides from r in file order. Lines are upper-cased and trimmed of
// trailing whitespace; blank lines are skipped. Duplicates are kept.
func Load(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	var peptides []string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		peptide := core.NormalizePeptide(scanner.Text())
		if strings.TrimSpace(peptide) == "" {
			continue
		}
		if err := core.ValidatePeptide(peptide); err != nil {
			return nil, &core.MalformedQueryError{Peptide: peptide, Line: lineNum}
		}
		peptides = append(peptides, peptide)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading peptide list: %w", err)
	}
	if len(peptides) == 0 {
		return nil, core.ErrEmptyQuerySet
	}

	return peptides, nil
}

// LoadFile opens path (gzip and "-" supported) and loads its peptides.
func LoadFile(path string) ([]string, error) {
	rc, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open peptide list: %w", err)
	}
	defer rc.Close()

	peptides, err := Load(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return peptides, nil
}
