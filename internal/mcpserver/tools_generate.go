package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/generator"
)

type generateInput struct {
	Input          recordsInput  `json:"input"                     jsonschema:"The interaction records to document"`
	Document       documentInput `json:"document,omitempty"        jsonschema:"Document metadata overrides"`
	Formats        []string      `json:"formats,omitempty"         jsonschema:"Output formats: openapi3\\, openapi2\\, postman (default openapi3 and postman)"`
	OpenAPIFormat  string        `json:"openapi_format,omitempty"  jsonschema:"OpenAPI serialization: json or yaml (default from configuration)"`
	SeparatePublic bool          `json:"separate_public,omitempty" jsonschema:"Also emit each document without private operations"`
	OutputDir      string        `json:"output_dir,omitempty"      jsonschema:"Directory to write the documents to; contents are returned inline when empty"`
	OutputPrefix   string        `json:"output_prefix,omitempty"   jsonschema:"Prefix for every output file name"`
}

type generatedFile struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Public  bool   `json:"public,omitempty"`
	Content string `json:"content,omitempty"`
}

type generateOutput struct {
	Operations int             `json:"operations"`
	OutputDir  string          `json:"output_dir,omitempty"`
	Files      []generatedFile `json:"files"`
	Warnings   []warningOutput `json:"warnings,omitempty"`
}

func (t *tools) handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	records, err := input.Input.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts := []generator.Option{
		generator.WithRecords(records...),
		generator.WithAggregatorOptions(input.Document.aggregatorOptions(t.cfg)...),
		generator.WithSeparatePublicAPI(input.SeparatePublic),
		generator.WithOutputPrefix(input.OutputPrefix),
	}
	if len(input.Formats) > 0 {
		opts = append(opts, generator.WithFormats(input.Formats...))
	}
	format := input.OpenAPIFormat
	if format == "" && t.cfg != nil {
		format = t.cfg.OpenAPIFormat
	}
	if format != "" {
		opts = append(opts, generator.WithOpenAPIFormat(format))
	}
	if input.OutputDir != "" {
		opts = append(opts, generator.WithOutputDir(input.OutputDir))
	}

	result, err := generator.Generate(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Operations: result.Stats.Operations,
		OutputDir:  result.Written,
		Files:      make([]generatedFile, 0, len(result.Files)),
		Warnings:   warningsOutput(result.Warnings),
	}
	for _, f := range result.Files {
		gf := generatedFile{Name: f.Name, Size: len(f.Content), Public: f.Public}
		if input.OutputDir == "" {
			gf.Content = string(f.Content)
		}
		output.Files = append(output.Files, gf)
	}
	return nil, output, nil
}
