package mcpserver

import (
	"fmt"
	"strings"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/config"
	"github.com/erraggy/restspec/model"
)

// maxInlineSize bounds the total size of inline records.
const maxInlineSize = 10 << 20

// recordsInput represents the three ways records can be provided to a tool.
// Exactly one of Dir, Cassette, or Records must be set.
type recordsInput struct {
	Dir       string   `json:"dir,omitempty"       jsonschema:"Snippets directory searched recursively for resource.json and resource.yaml files"`
	Cassette  string   `json:"cassette,omitempty"  jsonschema:"Path to a go-vcr cassette file"`
	Templates []string `json:"templates,omitempty" jsonschema:"Path templates used to recover operations from cassette URLs (e.g. /products/{id})"`
	Records   []string `json:"records,omitempty"   jsonschema:"Inline resource file contents (JSON or YAML), one record each"`
}

// documentInput overrides the configured document metadata.
type documentInput struct {
	Title   string `json:"title,omitempty"    jsonschema:"Document title"`
	Version string `json:"version,omitempty"  jsonschema:"API version"`
	BaseURL string `json:"base_url,omitempty" jsonschema:"Base URL for Postman requests"`
}

// resolve loads the records from whichever input was provided.
func (in recordsInput) resolve() ([]interaction.Record, error) {
	count := 0
	if in.Dir != "" {
		count++
	}
	if in.Cassette != "" {
		count++
	}
	if len(in.Records) > 0 {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of dir, cassette, or records must be provided (got %d)", count)
	}

	switch {
	case in.Dir != "":
		return interaction.LoadDir(in.Dir)
	case in.Cassette != "":
		var opts []interaction.CassetteOption
		if len(in.Templates) > 0 {
			opts = append(opts, interaction.WithTemplates(in.Templates...))
		}
		return interaction.FromCassette(strings.TrimSuffix(in.Cassette, ".yaml"), opts...)
	}

	size := 0
	for _, r := range in.Records {
		size += len(r)
	}
	if size > maxInlineSize {
		return nil, fmt.Errorf("inline records size %d bytes exceeds maximum %d bytes; use dir input instead", size, maxInlineSize)
	}
	records := make([]interaction.Record, 0, len(in.Records))
	for i, content := range in.Records {
		r, err := interaction.Parse([]byte(content), fmt.Sprintf("records[%d]", i))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// aggregatorOptions merges the configured options with the tool overrides.
func (d documentInput) aggregatorOptions(cfg *config.Config) []aggregator.Option {
	var opts []aggregator.Option
	if cfg != nil {
		opts = cfg.AggregatorOptions()
	}
	if d.Title != "" || d.Version != "" {
		info := model.Info{Title: d.Title, Version: d.Version}
		if cfg != nil {
			base := cfg.Info()
			info.Description, info.Contact = base.Description, base.Contact
			if info.Title == "" {
				info.Title = base.Title
			}
			if info.Version == "" {
				info.Version = base.Version
			}
		}
		opts = append(opts, aggregator.WithInfo(info))
	}
	if d.BaseURL != "" {
		opts = append(opts, aggregator.WithBaseURL(d.BaseURL))
	}
	return opts
}
