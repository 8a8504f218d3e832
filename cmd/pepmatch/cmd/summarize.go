package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/PepMatch/pkg/annotation"
	"github.com/ChrisMcGann/PepMatch/pkg/reader"
	"github.com/ChrisMcGann/PepMatch/pkg/reader/fasta"
	"github.com/ChrisMcGann/PepMatch/pkg/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [db]",
	Short: "Summarize sequence database contents",
	Long: `Print summary statistics about a sequence database including record count,
residue count, length range and how many records carry each annotation channel.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := reader.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open sequence database: %w", err)
		}
		defer in.Close()

		ctx, stop := runContext(cmd)
		defer stop()

		s, err := summary.Collect(ctx, fasta.NewReader(in), annotation.Decoder{})
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return s.Write(cmd.OutOrStdout())
	},
}
