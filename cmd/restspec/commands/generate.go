package commands

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/erraggy/restspec/generator"
	"github.com/erraggy/restspec/internal/cliutil"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	CommonFlags

	Output         string
	Prefix         string
	Formats        string
	Format         string
	SeparatePublic bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Output, "o", "", "output directory (default: build/api-spec)")
	fs.StringVar(&flags.Output, "output", "", "output directory (default: build/api-spec)")
	fs.StringVar(&flags.Prefix, "prefix", "", "prefix for every output file name")
	fs.StringVar(&flags.Formats, "formats", "", "comma separated output formats: openapi3, openapi2, postman (default: openapi3,postman)")
	fs.StringVar(&flags.Format, "format", "", "OpenAPI serialization: json or yaml (default: json)")
	fs.BoolVar(&flags.SeparatePublic, "separate-public", false, "also write documents without private operations")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec generate [flags] [snippets-dir]\n\n")
		cliutil.Writef(fs.Output(), "Merge interaction records and write the OpenAPI document and the Postman collection.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  restspec generate build/generated-snippets\n")
		cliutil.Writef(fs.Output(), "  restspec generate --format yaml --separate-public -o docs build/generated-snippets\n")
		cliutil.Writef(fs.Output(), "  restspec generate --config shop.yaml --title \"Shop API\" --api-version 1.2.0\n")
		cliutil.Writef(fs.Output(), "\nConfiguration:\n")
		cliutil.Writef(fs.Output(), "  Settings are read from restspec.yaml (or --config), then RESTSPEC_* environment\n")
		cliutil.Writef(fs.Output(), "  variables (RESTSPEC_OAUTH2__TOKEN_URL sets oauth2.token_url), then flags.\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("generate command accepts at most one snippets directory")
	}

	cfg, err := flags.loadConfig(fs)
	if err != nil {
		return err
	}
	if err := checkSnippetsDir(cfg); err != nil {
		return err
	}

	opts := append(cfg.GeneratorOptions(), generator.WithLogger(NewLogger(Stderr, flags.Verbose)))
	result, err := generator.Generate(opts...)
	if err != nil {
		return reportFailure(err)
	}

	cliutil.Writef(Stdout, "Records: %d, operations: %d, paths: %d, responses: %d\n",
		result.Stats.Records, result.Stats.Operations, result.Stats.Paths, result.Stats.Responses)
	for _, f := range result.Files {
		cliutil.Writef(Stdout, "Wrote %s (%d bytes)\n", filepath.Join(result.Written, f.Name), len(f.Content))
	}
	cliutil.WriteWarnings(Stderr, result.Warnings)
	return nil
}
