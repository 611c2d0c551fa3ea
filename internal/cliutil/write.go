// Package cliutil provides output helpers for the restspec command.
package cliutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/restspec/aggregator"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteWarnings lists aggregation warnings, one per line.
func WriteWarnings(w io.Writer, warnings []*aggregator.Warning) {
	if len(warnings) == 0 {
		return
	}
	Writef(w, "Warnings:\n")
	for _, warning := range warnings {
		Writef(w, "  - %s\n", warning)
	}
}

// WriteErrors lists every error joined in err, one per line, and returns
// how many were written.
func WriteErrors(w io.Writer, err error) int {
	leaves := Flatten(err)
	for _, e := range leaves {
		Writef(w, "  - %v\n", e)
	}
	return len(leaves)
}

// Flatten returns the leaves of an errors.Join tree. Wrapping errors above
// the first join are dropped.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, Flatten(e)...)
	}
	return out
}
