package commands

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erraggy/restspec/generator"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/cliutil"
)

// ImportCassetteFlags contains flags for the import-cassette command
type ImportCassetteFlags struct {
	Output      string
	NamePrefix  string
	Templates   stringList
	SkipHeaders stringList
}

// SetupImportCassetteFlags creates and configures a FlagSet for the
// import-cassette command.
func SetupImportCassetteFlags() (*flag.FlagSet, *ImportCassetteFlags) {
	fs := flag.NewFlagSet("import-cassette", flag.ContinueOnError)
	flags := &ImportCassetteFlags{}

	fs.StringVar(&flags.Output, "o", "build/generated-snippets", "snippets directory to write resource files to")
	fs.StringVar(&flags.Output, "output", "build/generated-snippets", "snippets directory to write resource files to")
	fs.StringVar(&flags.NamePrefix, "name-prefix", "", "prefix for record names (default: cassette file name)")
	fs.Var(&flags.Templates, "template", "path template recovering operations from URLs, e.g. /products/{id} (repeatable)")
	fs.Var(&flags.SkipHeaders, "skip-header", "header left out of the records (repeatable)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: restspec import-cassette [flags] <cassette.yaml>\n\n")
		cliutil.Writef(fs.Output(), "Convert the interactions of a go-vcr cassette into resource files.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  restspec import-cassette --template /products/{id} fixtures/shop.yaml\n")
		cliutil.Writef(fs.Output(), "  restspec import-cassette -o snippets --skip-header X-Debug fixtures/shop.yaml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Records carry no descriptions; edit the resource files to document fields\n")
		cliutil.Writef(fs.Output(), "  - Records of the same operation and status get a numeric suffix\n")
	}

	return fs, flags
}

// HandleImportCassette executes the import-cassette command
func HandleImportCassette(args []string) error {
	fs, flags := SetupImportCassetteFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("import-cassette command requires exactly one cassette file")
	}

	var opts []interaction.CassetteOption
	if len(flags.Templates) > 0 {
		opts = append(opts, interaction.WithTemplates(flags.Templates...))
	}
	if len(flags.SkipHeaders) > 0 {
		opts = append(opts, interaction.WithSkippedHeaders(flags.SkipHeaders...))
	}
	if flags.NamePrefix != "" {
		opts = append(opts, interaction.WithNamePrefix(flags.NamePrefix))
	}
	records, err := interaction.FromCassette(strings.TrimSuffix(fs.Arg(0), ".yaml"), opts...)
	if err != nil {
		return err
	}

	for _, r := range uniqueNames(records) {
		data, err := interaction.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", r.Name, err)
		}
		file := generator.GeneratedFile{Name: "resource.json", Content: append(data, '\n')}
		path := filepath.Join(flags.Output, r.Name, file.Name)
		if err := file.WriteFile(path); err != nil {
			return err
		}
		cliutil.Writef(Stdout, "Wrote %s (%s %d)\n", path, r.OperationID(), r.Status)
	}
	return nil
}

// uniqueNames gives every record a distinct name so no resource file is
// overwritten: the status is appended to repeated names, then a counter.
func uniqueNames(records []interaction.Record) []interaction.Record {
	count := make(map[string]int)
	for _, r := range records {
		count[r.Name]++
	}
	used := make(map[string]bool)
	out := make([]interaction.Record, len(records))
	for i, r := range records {
		name := r.Name
		if count[name] > 1 {
			name += "-" + strconv.Itoa(r.Status)
		}
		base := name
		for n := 2; used[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		used[name] = true
		r.Name = name
		out[i] = r
	}
	return out
}
