// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/PepMatch/pkg/config"
)

var (
	// settings file passed with --config
	cfgFile string

	// settings shared by all commands; flags are bound per command before it runs
	v = config.New()

	// logger writes to stderr so results on stdout stay clean
	logger = log.New(os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "pepmatch",
	Short: "PepMatch - peptide matching and flank annotation tool",
	Long: `PepMatch finds every occurrence of a list of query peptides in a protein
sequence database (FASTA) in a single pass and reports, per match:
- 1-based start/end and distance to the C-terminus
- upstream and downstream flanking residues with boundary markers
- optional per-residue annotation channels (secondary structure,
  transmembrane topology, confidence and accessibility scores)
- per-peptide flank residue composition (logo)

Settings can also come from a config file (--config) or PEPMATCH_* environment variables.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(v, cmd); err != nil {
			return err
		}
		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}
		return setupLogger(v.GetString(config.KeyLogLevel))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Settings file (yaml, json or toml)")
	rootCmd.PersistentFlags().String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")
}

// bindFlags binds every flag of cmd, persistent ones included, to the viper key of the same name.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" || f.Name == "version" || err != nil {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

func setupLogger(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}
