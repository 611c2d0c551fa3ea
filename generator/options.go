package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/openapi"
	"github.com/erraggy/restspec/openapi2"
	"github.com/erraggy/restspec/postman"
)

// Built-in output formats
const (
	FormatOpenAPI3 = "openapi3"
	FormatOpenAPI2 = "openapi2"
	FormatPostman  = "postman"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

type cassetteSource struct {
	name string
	opts []interaction.CassetteOption
}

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input sources (at least one must be set)
	snippetsDir string
	records     []interaction.Record
	cassettes   []cassetteSource

	outputDir      string
	outputPrefix   string
	formats        []string
	openapiFormat  openapi.Format
	separatePublic bool
	extraEmitters  []Emitter
	aggregatorOpts []aggregator.Option
	logger         aggregator.Logger

	// emitters is resolved from formats and extraEmitters
	emitters []Emitter
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		formats:       []string{FormatOpenAPI3, FormatPostman},
		openapiFormat: openapi.FormatJSON,
		logger:        aggregator.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.snippetsDir == "" && cfg.records == nil && len(cfg.cassettes) == 0 {
		return nil, &apierrors.ConfigError{Option: "input", Message: "must specify an input source (use WithSnippetsDir, WithRecords or WithCassette)"}
	}

	for _, f := range cfg.formats {
		switch f {
		case FormatOpenAPI3:
			cfg.emitters = append(cfg.emitters, openapi.NewEmitter(cfg.openapiFormat))
		case FormatOpenAPI2:
			cfg.emitters = append(cfg.emitters, openapi2.NewEmitter(cfg.openapiFormat))
		case FormatPostman:
			cfg.emitters = append(cfg.emitters, postman.NewEmitter())
		}
	}
	cfg.emitters = append(cfg.emitters, cfg.extraEmitters...)
	if len(cfg.emitters) == 0 {
		return nil, &apierrors.ConfigError{Option: "formats", Message: "no output format selected"}
	}
	if err := checkFileNames(cfg); err != nil {
		return nil, &apierrors.ConfigError{Option: "output_prefix", Value: cfg.outputPrefix, Cause: err}
	}
	return cfg, nil
}

// WithSnippetsDir reads records from resource files below dir
func WithSnippetsDir(dir string) Option {
	return func(cfg *generateConfig) error {
		if strings.TrimSpace(dir) == "" {
			return &apierrors.ConfigError{Option: "snippets_dir", Message: "empty directory"}
		}
		cfg.snippetsDir = dir
		return nil
	}
}

// WithRecords adds in-memory records
func WithRecords(records ...interaction.Record) Option {
	return func(cfg *generateConfig) error {
		if cfg.records == nil {
			cfg.records = []interaction.Record{}
		}
		cfg.records = append(cfg.records, records...)
		return nil
	}
}

// WithCassette adds the interactions of a go-vcr cassette. name is the
// cassette path without the .yaml extension.
func WithCassette(name string, opts ...interaction.CassetteOption) Option {
	return func(cfg *generateConfig) error {
		if strings.TrimSpace(name) == "" {
			return &apierrors.ConfigError{Option: "cassette", Message: "empty cassette name"}
		}
		cfg.cassettes = append(cfg.cassettes, cassetteSource{name: name, opts: opts})
		return nil
	}
}

// WithOutputDir writes the generated files to dir. Without it, files are
// only returned in the result.
func WithOutputDir(dir string) Option {
	return func(cfg *generateConfig) error {
		cfg.outputDir = dir
		return nil
	}
}

// WithOutputPrefix prefixes every output file name
func WithOutputPrefix(prefix string) Option {
	return func(cfg *generateConfig) error {
		cfg.outputPrefix = prefix
		return nil
	}
}

// WithFormats selects the built-in output formats (default: openapi3 and
// postman). openapi2 adds a Swagger 2.0 document named openapi.<ext>.
func WithFormats(formats ...string) Option {
	return func(cfg *generateConfig) error {
		cfg.formats = nil
		for _, f := range formats {
			f = strings.ToLower(strings.TrimSpace(f))
			switch f {
			case FormatOpenAPI3, FormatOpenAPI2, FormatPostman:
				if !slices.Contains(cfg.formats, f) {
					cfg.formats = append(cfg.formats, f)
				}
			default:
				return &apierrors.ConfigError{Option: "formats", Value: f, Message: fmt.Sprintf("unknown format (want %s, %s or %s)", FormatOpenAPI3, FormatOpenAPI2, FormatPostman)}
			}
		}
		return nil
	}
}

// WithOpenAPIFormat sets the serialization of the OpenAPI documents (default: json)
func WithOpenAPIFormat(format string) Option {
	return func(cfg *generateConfig) error {
		f, err := openapi.ParseFormat(format)
		if err != nil {
			return &apierrors.ConfigError{Option: "openapi_format", Value: format, Cause: err}
		}
		cfg.openapiFormat = f
		return nil
	}
}

// WithSeparatePublicAPI additionally emits each document without private
// operations, named with a -public suffix
func WithSeparatePublicAPI(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.separatePublic = enabled
		return nil
	}
}

// WithEmitters adds custom emitters run after the built-in formats
func WithEmitters(emitters ...Emitter) Option {
	return func(cfg *generateConfig) error {
		for _, e := range emitters {
			if e == nil {
				return &apierrors.ConfigError{Option: "emitters", Message: "nil emitter"}
			}
		}
		cfg.extraEmitters = append(cfg.extraEmitters, emitters...)
		return nil
	}
}

// WithAggregatorOptions passes options to the aggregation step
func WithAggregatorOptions(opts ...aggregator.Option) Option {
	return func(cfg *generateConfig) error {
		cfg.aggregatorOpts = append(cfg.aggregatorOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger for loading, aggregation and emission
func WithLogger(l aggregator.Logger) Option {
	return func(cfg *generateConfig) error {
		if l == nil {
			l = aggregator.NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}
