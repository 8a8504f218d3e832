// Package writer names the output formats a report can be rendered to.
// Each format lives in its own subpackage.
package writer

import (
	"errors"
	"io"
	"syscall"
)

// Output formats.
const (
	FormatText   = "text"
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSONL, FormatSQLite}

// IsFormat reports whether name is a supported output format.
func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Downstream consumers like `head` close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
