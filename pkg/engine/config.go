package engine

import (
	"fmt"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

// Config holds the settings of one run. It is fixed for the duration of the run.
type Config struct {
	FlankWidth        int  // residues reported on each side of a match
	Annotated         bool // decode annotation channels from record descriptions
	RequireAnnotation bool // a missing annotation tag is a decode failure
	Workers           int  // records scanned in parallel; <= 1 scans sequentially
	ProgressEvery     int  // log progress every N records; 0 disables
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		FlankWidth:    5,
		Workers:       1,
		ProgressEvery: 10000,
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.FlankWidth <= 0 {
		return &core.ValidationError{Field: "FlankWidth", Message: fmt.Sprintf("must be positive, got %d", c.FlankWidth)}
	}
	if c.Workers < 0 {
		return &core.ValidationError{Field: "Workers", Message: fmt.Sprintf("must not be negative, got %d", c.Workers)}
	}
	if c.ProgressEvery < 0 {
		return &core.ValidationError{Field: "ProgressEvery", Message: fmt.Sprintf("must not be negative, got %d", c.ProgressEvery)}
	}
	if c.RequireAnnotation && !c.Annotated {
		return &core.ValidationError{Field: "RequireAnnotation", Message: "requires annotation to be enabled"}
	}
	return nil
}

// State is the lifecycle stage of an Engine.
type State int32

const (
	Idle State = iota
	QueriesLoaded
	Scanning
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case QueriesLoaded:
		return "queries-loaded"
	case Scanning:
		return "scanning"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
