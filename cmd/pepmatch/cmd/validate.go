package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/PepMatch/pkg/annotation"
	"github.com/ChrisMcGann/PepMatch/pkg/config"
	"github.com/ChrisMcGann/PepMatch/pkg/reader"
	"github.com/ChrisMcGann/PepMatch/pkg/reader/fasta"
	"github.com/ChrisMcGann/PepMatch/pkg/reader/query"
	"github.com/ChrisMcGann/PepMatch/pkg/summary"
)

func init() {
	f := validateCmd.Flags()
	f.StringP(config.KeyPeptides, "p", "", "Peptide list to check")
	f.Bool(config.KeyRequireAnnotation, false, "Report records missing any annotation tag")
}

var validateCmd = &cobra.Command{
	Use:   "validate [db]",
	Short: "Validate a sequence database and, optionally, a peptide list",
	Long: `Validate that a FASTA database is well formed and that every annotated record
decodes cleanly. Decode failures are listed with their record ids. With --peptides
the peptide list is checked too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if path := v.GetString(config.KeyPeptides); path != "" {
			peptides, err := query.LoadFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Peptides: %d valid in %s\n", len(peptides), path)
		}

		in, err := reader.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open sequence database: %w", err)
		}
		defer in.Close()

		ctx, stop := runContext(cmd)
		defer stop()

		dec := annotation.Decoder{Required: v.GetBool(config.KeyRequireAnnotation)}
		s, err := summary.Collect(ctx, fasta.NewReader(in), dec)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		for _, ferr := range s.DecodeFailures {
			logger.Warn("annotation ignored", "err", ferr)
		}
		fmt.Fprintf(out, "Database: %d records, %d residues in %s\n", s.Records, s.Residues, args[0])
		fmt.Fprintf(out, "Annotation decode failures: %d\n", len(s.DecodeFailures))
		return nil
	},
}
