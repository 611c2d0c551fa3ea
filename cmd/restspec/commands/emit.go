package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/restspec/generator"
	"github.com/erraggy/restspec/internal/cliutil"
)

// EmitFlags contains flags for the openapi, swagger and postman commands
type EmitFlags struct {
	CommonFlags

	Format string
	Public bool
}

// SetupEmitFlags creates a FlagSet for a single-document command. The
// openapi and swagger commands additionally accept --format.
func SetupEmitFlags(command string) (*flag.FlagSet, *EmitFlags) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	flags := &EmitFlags{}
	flags.register(fs)

	if command != generator.FormatPostman {
		fs.StringVar(&flags.Format, "format", "", "serialization: json or yaml (default: json)")
	}
	fs.BoolVar(&flags.Public, "public", false, "leave out private operations")

	name := commandName(command)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec %s [flags] [snippets-dir]\n\n", name)
		cliutil.Writef(fs.Output(), "Merge interaction records and print the %s to stdout.\n\n", emitTargets[command])
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  restspec %s build/generated-snippets > api.out\n", name)
		cliutil.Writef(fs.Output(), "  restspec %s --public --base-url https://api.example.com build/generated-snippets\n", name)
	}
	return fs, flags
}

var emitCommands = map[string]string{
	generator.FormatOpenAPI3: "openapi",
	generator.FormatOpenAPI2: "swagger",
	generator.FormatPostman:  "postman",
}

var emitTargets = map[string]string{
	generator.FormatOpenAPI3: "OpenAPI 3 document",
	generator.FormatOpenAPI2: "OpenAPI 2.0 (Swagger) document",
	generator.FormatPostman:  "Postman v2.1 collection",
}

func commandName(format string) string {
	return emitCommands[format]
}

// HandleOpenAPI executes the openapi command
func HandleOpenAPI(args []string) error {
	return handleEmit(generator.FormatOpenAPI3, args)
}

// HandleSwagger executes the swagger command
func HandleSwagger(args []string) error {
	return handleEmit(generator.FormatOpenAPI2, args)
}

// HandlePostman executes the postman command
func HandlePostman(args []string) error {
	return handleEmit(generator.FormatPostman, args)
}

func handleEmit(format string, args []string) error {
	fs, flags := SetupEmitFlags(format)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("%s command accepts at most one snippets directory", commandName(format))
	}

	cfg, err := flags.loadConfig(fs)
	if err != nil {
		return err
	}
	if err := checkSnippetsDir(cfg); err != nil {
		return err
	}
	cfg.OutputDir = ""
	cfg.OutputPrefix = ""
	cfg.Formats = []string{format}
	cfg.SeparatePublicAPI = flags.Public

	opts := append(cfg.GeneratorOptions(), generator.WithLogger(NewLogger(Stderr, flags.Verbose)))
	result, err := generator.Generate(opts...)
	if err != nil {
		return reportFailure(err)
	}

	file := result.Files[0]
	if flags.Public {
		file = result.Files[1]
	}
	if _, err := Stdout.Write(file.Content); err != nil {
		return fmt.Errorf("writing %s: %w", file.Name, err)
	}
	cliutil.WriteWarnings(Stderr, result.Warnings)
	return nil
}
