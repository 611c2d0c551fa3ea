// Package config loads the layered restspec configuration used by the CLI
// and the MCP server: built-in defaults, then a YAML file, then RESTSPEC_*
// environment variables, then explicit overrides such as command-line flags.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/generator"
	"github.com/erraggy/restspec/model"
)

const (
	// DefaultFile is read from the working directory when no file is given.
	DefaultFile = "restspec.yaml"
	// EnvPrefix prefixes every environment variable. A double underscore
	// separates nested keys: RESTSPEC_OAUTH2__TOKEN_URL.
	EnvPrefix = "RESTSPEC_"
)

// Config is the complete restspec configuration.
type Config struct {
	Title       string            `koanf:"title"`
	Version     string            `koanf:"version"`
	Description string            `koanf:"description"`
	Contact     Contact           `koanf:"contact"`
	Servers     []string          `koanf:"servers"`
	Tags        map[string]string `koanf:"tags"`
	BaseURL     string            `koanf:"base_url"`

	SnippetsDir       string   `koanf:"snippets_dir"`
	OutputDir         string   `koanf:"output_dir"`
	OutputPrefix      string   `koanf:"output_prefix"`
	Formats           []string `koanf:"formats"`
	OpenAPIFormat     string   `koanf:"openapi_format"`
	SeparatePublicAPI bool     `koanf:"separate_public_api"`
	BodyMethods       []string `koanf:"body_methods"`

	OAuth2 OAuth2 `koanf:"oauth2"`
}

// Contact identifies the API owner.
type Contact struct {
	Name  string `koanf:"name"`
	Email string `koanf:"email"`
	URL   string `koanf:"url"`
}

// OAuth2 configures the built-in oauth2 security scheme.
type OAuth2 struct {
	TokenURL         string            `koanf:"token_url"`
	AuthorizationURL string            `koanf:"authorization_url"`
	Flows            []string          `koanf:"flows"`
	Scopes           map[string]string `koanf:"scopes"`
}

var defaults = map[string]any{
	"title":          "API documentation",
	"version":        "1.0.0",
	"base_url":       "http://localhost",
	"snippets_dir":   "build/generated-snippets",
	"output_dir":     "build/api-spec",
	"formats":        []string{generator.FormatOpenAPI3, generator.FormatPostman},
	"openapi_format": "json",
}

// Load reads the configuration. path names the YAML file; when empty,
// DefaultFile is used if it exists. overrides are applied last, keyed by
// dotted configuration keys.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, &apierrors.ConfigError{Option: key, Cause: err}
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, &apierrors.ConfigError{Option: "config", Value: path, Cause: err}
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, &apierrors.ConfigError{Option: "env", Cause: err}
	}

	for key, v := range overrides {
		if err := k.Set(key, v); err != nil {
			return nil, &apierrors.ConfigError{Option: key, Value: v, Cause: err}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &apierrors.ConfigError{Option: "config", Value: path, Cause: err}
	}
	return &cfg, nil
}

// listKeys hold lists; their environment values are comma-separated.
var listKeys = map[string]bool{
	"servers":      true,
	"formats":      true,
	"body_methods": true,
	"oauth2.flows": true,
}

// envKey maps RESTSPEC_OAUTH2__TOKEN_URL to oauth2.token_url.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// envValue maps an environment variable to its key and splits list values:
// RESTSPEC_FORMATS=openapi3,postman becomes [openapi3 postman].
func envValue(name, value string) (string, any) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Info returns the document metadata.
func (c *Config) Info() model.Info {
	info := model.Info{Title: c.Title, Version: c.Version, Description: c.Description}
	if c.Contact != (Contact{}) {
		info.Contact = &model.Contact{Name: c.Contact.Name, Email: c.Contact.Email, URL: c.Contact.URL}
	}
	return info
}

// AggregatorOptions converts the document settings to aggregation options.
func (c *Config) AggregatorOptions() []aggregator.Option {
	opts := []aggregator.Option{aggregator.WithInfo(c.Info())}
	if len(c.Servers) > 0 {
		servers := make([]model.Server, 0, len(c.Servers))
		for _, u := range c.Servers {
			servers = append(servers, model.Server{URL: u})
		}
		opts = append(opts, aggregator.WithServers(servers...))
	}
	if len(c.Tags) > 0 {
		names := make([]string, 0, len(c.Tags))
		for name := range c.Tags {
			names = append(names, name)
		}
		slices.Sort(names)
		tags := make([]model.Tag, 0, len(names))
		for _, name := range names {
			tags = append(tags, model.Tag{Name: name, Description: c.Tags[name]})
		}
		opts = append(opts, aggregator.WithTags(tags...))
	}
	if c.BaseURL != "" {
		opts = append(opts, aggregator.WithBaseURL(c.BaseURL))
	}
	if len(c.BodyMethods) > 0 {
		opts = append(opts, aggregator.WithBodyMethods(c.BodyMethods...))
	}
	if c.OAuth2.TokenURL != "" || c.OAuth2.AuthorizationURL != "" || len(c.OAuth2.Flows) > 0 || len(c.OAuth2.Scopes) > 0 {
		flows := c.OAuth2.Flows
		if len(flows) == 0 {
			flows = []string{model.FlowClientCredentials}
		}
		opts = append(opts, aggregator.WithOAuth2(model.OAuth2Flows{
			TokenURL:         c.OAuth2.TokenURL,
			AuthorizationURL: c.OAuth2.AuthorizationURL,
			Flows:            slices.Clone(flows),
			Scopes:           c.OAuth2.Scopes,
		}))
	}
	return opts
}

// GeneratorOptions converts the configuration to generator options. The
// snippets directory is only used when it exists, so other input sources
// can be added by the caller.
func (c *Config) GeneratorOptions() []generator.Option {
	opts := []generator.Option{
		generator.WithOutputPrefix(c.OutputPrefix),
		generator.WithFormats(c.Formats...),
		generator.WithOpenAPIFormat(c.OpenAPIFormat),
		generator.WithSeparatePublicAPI(c.SeparatePublicAPI),
		generator.WithAggregatorOptions(c.AggregatorOptions()...),
	}
	if c.OutputDir != "" {
		opts = append(opts, generator.WithOutputDir(c.OutputDir))
	}
	if c.SnippetsDir != "" {
		if info, err := os.Stat(c.SnippetsDir); err == nil && info.IsDir() {
			opts = append(opts, generator.WithSnippetsDir(c.SnippetsDir))
		}
	}
	return opts
}
