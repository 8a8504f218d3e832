// Package config holds run settings that are unmarshalled from Viper.
// Values come from flags, PEPMATCH_* environment variables and an optional
// settings file, in that order of precedence (see: /cmd/pepmatch/cmd).
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
	"github.com/ChrisMcGann/PepMatch/pkg/reader"
	"github.com/ChrisMcGann/PepMatch/pkg/writer"
)

// EnvPrefix is prepended to environment variable names, e.g. PEPMATCH_FLANKS.
const EnvPrefix = "PEPMATCH"

// Setting keys shared by flags, environment and settings files.
const (
	KeyPeptides          = "peptides"
	KeyDatabase          = "db"
	KeyOutput            = "out"
	KeyFormat            = "format"
	KeyHeader            = "header"
	KeyFlanks            = "flanks"
	KeyAnnotation        = "annotation"
	KeyRequireAnnotation = "require-annotation"
	KeyWorkers           = "workers"
	KeyProgressEvery     = "progress-every"
	KeyLogLevel          = "log-level"
)

// Config is the root-level settings struct of a match run
type Config struct {
	// path to the peptide list, one peptide per line
	Peptides string `mapstructure:"peptides"`
	// path to the FASTA database; "-" reads stdin
	Database string `mapstructure:"db"`
	// output path; empty or "-" writes stdout
	Output string `mapstructure:"out"`
	// output format: text, jsonl or sqlite
	Format string `mapstructure:"format"`
	// write a column header in text output
	Header bool `mapstructure:"header"`

	// residues reported on each side of a match
	Flanks int `mapstructure:"flanks"`
	// decode annotation channels from record descriptions
	Annotation bool `mapstructure:"annotation"`
	// treat a missing annotation tag as a decode failure
	RequireAnnotation bool `mapstructure:"require-annotation"`
	// records scanned in parallel
	Workers int `mapstructure:"workers"`
	// log progress every N records; 0 disables
	ProgressEvery int `mapstructure:"progress-every"`

	// debug, info, warn or error
	LogLevel string `mapstructure:"log-level"`
}

// New returns a Viper instance with defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()
	// every key needs a default so Unmarshal sees environment overrides
	v.SetDefault(KeyPeptides, "")
	v.SetDefault(KeyDatabase, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyAnnotation, false)
	v.SetDefault(KeyRequireAnnotation, false)
	v.SetDefault(KeyFormat, writer.FormatText)
	v.SetDefault(KeyHeader, true)
	v.SetDefault(KeyFlanks, def.FlankWidth)
	v.SetDefault(KeyWorkers, def.Workers)
	v.SetDefault(KeyProgressEvery, def.ProgressEvery)
	v.SetDefault(KeyLogLevel, "info")
}

// ReadFile merges the settings file at path (yaml, json or toml by extension) into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Load unmarshals v into a Config and normalizes string fields.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return c, nil
}

// Validate checks the settings a match run needs.
func (c Config) Validate() error {
	if c.Peptides == "" {
		return &core.ValidationError{Field: KeyPeptides, Message: "peptide list path is required"}
	}
	if c.Database == "" {
		return &core.ValidationError{Field: KeyDatabase, Message: "sequence database path is required"}
	}
	if c.Peptides == reader.Stdin && c.Database == reader.Stdin {
		return &core.ValidationError{Field: KeyPeptides, Message: "peptides and database cannot both be read from stdin"}
	}
	if !writer.IsFormat(c.Format) {
		return &core.ValidationError{Field: KeyFormat, Message: fmt.Sprintf("unknown output format %q, must be one of %s", c.Format, strings.Join(writer.Formats, ", "))}
	}
	if c.Format == writer.FormatSQLite && c.ToStdout() {
		return &core.ValidationError{Field: KeyOutput, Message: "sqlite output needs a file path"}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return &core.ValidationError{Field: KeyLogLevel, Message: err.Error()}
	}
	if err := c.Engine().Validate(); err != nil {
		return err
	}
	return nil
}

// ToStdout reports whether results go to standard output.
func (c Config) ToStdout() bool {
	return c.Output == "" || c.Output == reader.Stdin
}

// Engine returns the engine settings carried by c.
func (c Config) Engine() engine.Config {
	return engine.Config{
		FlankWidth:        c.Flanks,
		Annotated:         c.Annotation || c.RequireAnnotation,
		RequireAnnotation: c.RequireAnnotation,
		Workers:           c.Workers,
		ProgressEvery:     c.ProgressEvery,
	}
}
