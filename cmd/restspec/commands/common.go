// Package commands provides CLI command handlers for restspec.
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/internal/cliutil"
	"github.com/erraggy/restspec/internal/config"
)

// Stdout and Stderr are the command outputs, replaced in tests.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"title":           "title",
	"api-version":     "version",
	"base-url":        "base_url",
	"snippets":        "snippets_dir",
	"o":               "output_dir",
	"output":          "output_dir",
	"prefix":          "output_prefix",
	"formats":         "formats",
	"format":          "openapi_format",
	"separate-public": "separate_public_api",
}

// CommonFlags are shared by every command that reads records.
type CommonFlags struct {
	Config  string
	Verbose bool

	// Document metadata, overriding the configuration file
	Title      string
	APIVersion string
	BaseURL    string
	Snippets   string
}

func (c *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Config, "config", "", "configuration file (default: ./"+config.DefaultFile+" if present)")
	fs.BoolVar(&c.Verbose, "verbose", false, "log debug details to stderr")
	fs.StringVar(&c.Title, "title", "", "document title")
	fs.StringVar(&c.APIVersion, "api-version", "", "API version")
	fs.StringVar(&c.BaseURL, "base-url", "", "base URL for Postman requests")
	fs.StringVar(&c.Snippets, "snippets", "", "snippets directory (may also be given as the argument)")
}

// loadConfig reads the layered configuration. Flags that were set on the
// command line override every other layer; a positional argument names the
// snippets directory.
func (c *CommonFlags) loadConfig(fs *flag.FlagSet) (*config.Config, error) {
	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})
	if fs.NArg() > 0 {
		overrides["snippets_dir"] = fs.Arg(0)
	}
	return config.Load(c.Config, overrides)
}

// NewLogger returns a text logger on w. Only errors are logged unless
// verbose is set, since commands print warnings themselves.
func NewLogger(w io.Writer, verbose bool) aggregator.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return aggregator.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// reportFailure prints every aggregation error on its own line and returns
// a summary error for the exit status.
func reportFailure(err error) error {
	cliutil.Writef(Stderr, "Documentation could not be generated:\n")
	n := cliutil.WriteErrors(Stderr, err)
	return fmt.Errorf("%d error(s)", n)
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// checkSnippetsDir reports a missing snippets directory before the
// generator turns it into a missing input source.
func checkSnippetsDir(cfg *config.Config) error {
	info, err := os.Stat(cfg.SnippetsDir)
	if err != nil {
		return fmt.Errorf("snippets directory %s: %w", cfg.SnippetsDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snippets directory %s is not a directory", cfg.SnippetsDir)
	}
	return nil
}
