// Package sqlite provides SQLite database writing for match reports
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Schema version written to HeaderTable
	schemaVersion = 1
)

// Logo sides stored in LogoTable.Side
const (
	SideN = "N"
	SideC = "C"
)

// Header describes the run that produced the database.
type Header struct {
	Description string
	FlankWidth  int
	Annotated   bool
	Stats       engine.Stats
}

// Writer handles writing match results to SQLite database files
type Writer struct {
	db          *sql.DB
	tx          *sql.Tx
	outputPath  string
	peptideStmt *sql.Stmt
	matchStmt   *sql.Stmt
	logoStmt    *sql.Stmt
	peptideID   int
	matchID     int
	closed      bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		peptideID:  1,
		matchID:    1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	w.tx, err = db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := w.prepareStatements(); err != nil {
		w.tx.Rollback()
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS PeptideTable (
		PeptideId INTEGER PRIMARY KEY,
		QueryIndex INTEGER,
		Sequence TEXT,
		Length INTEGER,
		NeutralMass DOUBLE,
		MatchCount INTEGER,
		NLogo TEXT,
		CLogo TEXT
	);

	CREATE TABLE IF NOT EXISTS MatchTable (
		MatchId INTEGER PRIMARY KEY,
		PeptideId INTEGER REFERENCES PeptideTable(PeptideId),
		RecordId TEXT,
		StartPosition INTEGER,
		EndPosition INTEGER,
		CTerm INTEGER,
		NFlank TEXT,
		CFlank TEXT,
		SecStructN TEXT,
		SecStructPept TEXT,
		SecStructC TEXT,
		TransmembraneN TEXT,
		TransmembranePept TEXT,
		TransmembraneC TEXT,
		ConfidenceN TEXT,
		ConfidencePept TEXT,
		ConfidenceC TEXT,
		AccessibilityN TEXT,
		AccessibilityPept TEXT,
		AccessibilityC TEXT
	);

	CREATE TABLE IF NOT EXISTS LogoTable (
		PeptideId INTEGER REFERENCES PeptideTable(PeptideId),
		Side TEXT,
		Position INTEGER,
		Residue TEXT,
		Count INTEGER
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Description TEXT,
		FlankWidth INTEGER,
		Annotated BOOL,
		Records INTEGER,
		Residues INTEGER,
		Matches INTEGER,
		Unmatched INTEGER,
		DecodeFailures INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.peptideStmt, err = w.tx.Prepare(`
		INSERT INTO PeptideTable (
			PeptideId, QueryIndex, Sequence, Length, NeutralMass, MatchCount, NLogo, CLogo
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare peptide statement: %w", err)
	}

	w.matchStmt, err = w.tx.Prepare(`
		INSERT INTO MatchTable (
			MatchId, PeptideId, RecordId, StartPosition, EndPosition, CTerm, NFlank, CFlank,
			SecStructN, SecStructPept, SecStructC,
			TransmembraneN, TransmembranePept, TransmembraneC,
			ConfidenceN, ConfidencePept, ConfidenceC,
			AccessibilityN, AccessibilityPept, AccessibilityC
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare match statement: %w", err)
	}

	w.logoStmt, err = w.tx.Prepare(`
		INSERT INTO LogoTable (PeptideId, Side, Position, Residue, Count) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare logo statement: %w", err)
	}

	return nil
}

// WriteResult writes one query peptide with its matches and logo to the database
func (w *Writer) WriteResult(res *engine.Result) error {
	nLogo, cLogo := res.Logo.Format()

	_, err := w.peptideStmt.Exec(
		w.peptideID,                  // PeptideId
		res.Index,                    // QueryIndex
		res.Peptide,                  // Sequence
		len(res.Peptide),             // Length
		core.RoundFloat(res.Mass, 6), // NeutralMass
		len(res.Matches),             // MatchCount
		nLogo,                        // NLogo
		cLogo,                        // CLogo
	)
	if err != nil {
		return fmt.Errorf("failed to insert peptide: %w", err)
	}

	for i := range res.Matches {
		if err := w.writeMatch(&res.Matches[i]); err != nil {
			return err
		}
	}

	if err := w.writeLogo(SideN, res.Logo.Upstream); err != nil {
		return err
	}
	if err := w.writeLogo(SideC, res.Logo.Downstream); err != nil {
		return err
	}

	w.peptideID++
	return nil
}

func (w *Writer) writeMatch(m *core.Match) error {
	up, down := m.Flanks()
	args := []interface{}{
		w.matchID,   // MatchId
		w.peptideID, // PeptideId
		m.RecordID,  // RecordId
		m.Start,     // StartPosition
		m.End,       // EndPosition
		m.CTerm,     // CTerm
		up,          // NFlank
		down,        // CFlank
	}

	// Absent channels are stored as NULL
	for _, cw := range m.Annotations {
		if !cw.Present {
			args = append(args, nil, nil, nil)
			continue
		}
		n, span, c := cw.Text()
		args = append(args, n, span, c)
	}
	for len(args) < 20 {
		args = append(args, nil)
	}

	if _, err := w.matchStmt.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	w.matchID++
	return nil
}

// writeLogo stores one row per (offset, residue); empty offsets produce no rows
func (w *Writer) writeLogo(side string, buckets []core.Bucket) error {
	for offset := range buckets {
		for _, e := range buckets[offset].Entries() {
			if _, err := w.logoStmt.Exec(w.peptideID, side, offset, string(e.Label), e.Count); err != nil {
				return fmt.Errorf("failed to insert logo: %w", err)
			}
		}
	}
	return nil
}

// Finalize writes the header table, commits and closes the database
func (w *Writer) Finalize(h Header) error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Description, FlankWidth, Annotated, Records, Residues, Matches, Unmatched, DecodeFailures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), h.Description, h.FlankWidth, h.Annotated,
		h.Stats.Records, h.Stats.Residues, h.Stats.Matches, h.Stats.Unmatched, h.Stats.DecodeFailures)
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	w.closeStatements()

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit results: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close discards uncommitted rows and closes the database. It is a no-op after Finalize.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.abort()
}

func (w *Writer) abort() error {
	w.closeStatements()
	w.tx.Rollback()
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (w *Writer) closeStatements() {
	for _, stmt := range []*sql.Stmt{w.peptideStmt, w.matchStmt, w.logoStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

// WriteReport writes every result of rep and finalizes the database at outputPath.
func WriteReport(outputPath string, rep *engine.Report, h Header) error {
	w, err := NewWriter(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer w.Close()

	for i := range rep.Results {
		if err := w.WriteResult(&rep.Results[i]); err != nil {
			return fmt.Errorf("failed to write peptide %s: %w", rep.Results[i].Peptide, err)
		}
	}

	h.Stats = rep.Stats
	if err := w.Finalize(h); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}
	return nil
}
