package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/PepMatch/pkg/config"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
	"github.com/ChrisMcGann/PepMatch/pkg/reader"
	"github.com/ChrisMcGann/PepMatch/pkg/reader/fasta"
	"github.com/ChrisMcGann/PepMatch/pkg/reader/query"
	"github.com/ChrisMcGann/PepMatch/pkg/writer"
	"github.com/ChrisMcGann/PepMatch/pkg/writer/jsonl"
	"github.com/ChrisMcGann/PepMatch/pkg/writer/sqlite"
	"github.com/ChrisMcGann/PepMatch/pkg/writer/text"
)

func init() {
	def := engine.DefaultConfig()
	f := matchCmd.Flags()
	f.StringP(config.KeyPeptides, "p", "", "Peptide list, one per line (required; '-' for stdin)")
	f.StringP(config.KeyDatabase, "d", "", "Sequence database in FASTA, optionally gzipped (required; '-' for stdin)")
	f.StringP(config.KeyOutput, "o", "", "Output file (default stdout)")
	f.StringP(config.KeyFormat, "f", writer.FormatText, "Output format: text, jsonl, sqlite")
	f.Bool(config.KeyHeader, true, "Write a column header in text output")
	f.IntP(config.KeyFlanks, "w", def.FlankWidth, "Flanking residues reported on each side of a match")
	f.BoolP(config.KeyAnnotation, "a", false, "Decode annotation channels from record descriptions")
	f.Bool(config.KeyRequireAnnotation, false, "Treat a missing annotation tag as a decode failure (implies --annotation)")
	f.IntP(config.KeyWorkers, "t", def.Workers, "Number of records scanned in parallel")
	f.Int(config.KeyProgressEvery, def.ProgressEvery, "Log progress every N records (0 = never)")
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match peptides against a sequence database",
	Long: `Find every occurrence of each query peptide in a FASTA database and report
positions, flanking residues, annotation windows and flank logos.

Examples:
  # Text table with 5-residue flanks
  pepmatch match --peptides peptides.txt --db proteome.fasta

  # Annotated proteome, 8-residue flanks, 4 workers, JSON lines
  pepmatch match -p peptides.txt -d annotated.fasta.gz --annotation --flanks 8 --workers 4 --format jsonl

  # Results database
  pepmatch match -p peptides.txt -d proteome.fasta --format sqlite --out matches.db`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("loaded config", "peptides", cfg.Peptides, "db", cfg.Database, "out", cfg.Output,
		"format", cfg.Format, "flanks", cfg.Flanks, "annotation", cfg.Annotation, "workers", cfg.Workers)

	peptides, err := query.LoadFile(cfg.Peptides)
	if err != nil {
		return err
	}
	logger.Info("loaded peptides", "path", cfg.Peptides, "count", len(peptides))

	eng, err := engine.New(peptides, cfg.Engine(), engine.WithLogger(logger))
	if err != nil {
		return err
	}

	in, err := reader.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open sequence database: %w", err)
	}
	defer in.Close()

	ctx, stop := runContext(cmd)
	defer stop()

	began := time.Now()
	rep, err := eng.Run(ctx, fasta.NewReader(in))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return fmt.Errorf("%s: %w", cfg.Database, err)
	}
	logger.Info("matched", "elapsed", time.Since(began).Round(time.Millisecond))

	return writeReport(cmd.OutOrStdout(), cfg, rep)
}

// writeReport renders rep in the configured format. Nothing is written before the run succeeds.
func writeReport(stdout io.Writer, cfg config.Config, rep *engine.Report) (err error) {
	if cfg.Format == writer.FormatSQLite {
		if _, err := os.Stat(cfg.Output); err == nil {
			logger.Warn("replacing existing database", "path", cfg.Output)
			if err := os.Remove(cfg.Output); err != nil {
				return fmt.Errorf("failed to replace %s: %w", cfg.Output, err)
			}
		}
		h := sqlite.Header{
			Description: fmt.Sprintf("peptides=%s db=%s", cfg.Peptides, cfg.Database),
			FlankWidth:  cfg.Flanks,
			Annotated:   cfg.Engine().Annotated,
		}
		if err := sqlite.WriteReport(cfg.Output, rep, h); err != nil {
			return err
		}
		logger.Info("wrote results", "path", cfg.Output, "peptides", len(rep.Results))
		return nil
	}

	out := stdout
	if !cfg.ToStdout() {
		fh, cerr := os.Create(cfg.Output)
		if cerr != nil {
			return fmt.Errorf("failed to create output file: %w", cerr)
		}
		defer func() {
			if cerr := fh.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		out = fh
	}

	switch cfg.Format {
	case writer.FormatJSONL:
		err = jsonl.Write(out, rep)
	default:
		err = text.Write(out, rep, text.Options{Header: cfg.Header, Annotated: cfg.Engine().Annotated})
	}
	if writer.IsBrokenPipe(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// runContext returns a context cancelled on interrupt.
func runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
