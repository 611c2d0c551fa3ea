package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/internal/cliutil"
)

type aggregateInput struct {
	Input       recordsInput  `json:"input"                  jsonschema:"The interaction records to merge"`
	Document    documentInput `json:"document,omitempty"     jsonschema:"Document metadata overrides"`
	BodyMethods []string      `json:"body_methods,omitempty" jsonschema:"Methods for which a missing request body is reported (default POST\\, PUT\\, PATCH)"`
}

type warningOutput struct {
	Category  string `json:"category"`
	Operation string `json:"operation"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}

type conflictOutput struct {
	Kind      string `json:"kind"`
	Operation string `json:"operation,omitempty"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}

type aggregateOutput struct {
	Valid      bool             `json:"valid"`
	Records    int              `json:"records"`
	Operations int              `json:"operations"`
	Paths      int              `json:"paths"`
	Responses  int              `json:"responses"`
	Warnings   []warningOutput  `json:"warnings,omitempty"`
	Errors     []conflictOutput `json:"errors,omitempty"`
}

func (t *tools) handleAggregate(_ context.Context, _ *mcp.CallToolRequest, input aggregateInput) (*mcp.CallToolResult, aggregateOutput, error) {
	records, err := input.Input.resolve()
	if err != nil {
		return errResult(err), aggregateOutput{}, nil
	}

	opts := input.Document.aggregatorOptions(t.cfg)
	if len(input.BodyMethods) > 0 {
		opts = append(opts, aggregator.WithBodyMethods(input.BodyMethods...))
	}

	result, err := aggregator.Aggregate(records, opts...)
	if err != nil {
		if errors.Is(err, apierrors.ErrConfig) {
			return errResult(err), aggregateOutput{}, nil
		}
		output := aggregateOutput{Records: len(records)}
		for _, e := range cliutil.Flatten(err) {
			output.Errors = append(output.Errors, describeConflict(e))
		}
		return nil, output, nil
	}

	output := aggregateOutput{
		Valid:      true,
		Records:    result.Stats.Records,
		Operations: result.Stats.Operations,
		Paths:      result.Stats.Paths,
		Responses:  result.Stats.Responses,
		Warnings:   warningsOutput(result.Warnings),
	}
	return nil, output, nil
}

func warningsOutput(warnings []*aggregator.Warning) []warningOutput {
	out := makeSlice[warningOutput](len(warnings))
	for _, w := range warnings {
		out = append(out, warningOutput{
			Category:  string(w.Category),
			Operation: w.OperationID,
			Field:     w.Field,
			Message:   w.Message,
		})
	}
	return out
}

// describeConflict classifies one aggregation error.
func describeConflict(err error) conflictOutput {
	out := conflictOutput{Kind: "error", Message: sanitizeError(err)}
	var (
		sc *apierrors.SchemaConflictError
		dc *apierrors.DescriptionConflictError
		dd *apierrors.DanglingDescriptorError
		pe *apierrors.ParseError
	)
	switch {
	case errors.As(err, &sc):
		out.Kind, out.Operation, out.Field = "schema_conflict", sc.OperationID, sc.Field
	case errors.As(err, &dc):
		out.Kind, out.Operation, out.Field = "duplicate_conflicting_description", dc.OperationID, dc.Field
	case errors.As(err, &dd):
		out.Kind, out.Operation, out.Field = "dangling_descriptor", dd.OperationID, dd.Field
	case errors.As(err, &pe):
		out.Kind = "parse"
	}
	return out
}
