package mcpserver

import (
	"context"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/model"
)

type operationsInput struct {
	Input   recordsInput `json:"input"             jsonschema:"The interaction records to merge"`
	Method  string       `json:"method,omitempty"  jsonschema:"Filter by HTTP method (get\\, post\\, put\\, delete\\, patch\\, etc.)"`
	Path    string       `json:"path,omitempty"    jsonschema:"Filter by path pattern (supports * glob)"`
	Tag     string       `json:"tag,omitempty"     jsonschema:"Filter by tag name"`
	Private *bool        `json:"private,omitempty" jsonschema:"Only private (true) or only public (false) operations"`
	Limit   int          `json:"limit,omitempty"   jsonschema:"Maximum number of results to return (default 100)"`
	Offset  int          `json:"offset,omitempty"  jsonschema:"Skip the first N results (for pagination)"`
}

type operationSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Summary    string   `json:"summary,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Statuses   []int    `json:"statuses"`
	Security   []string `json:"security,omitempty"`
	Private    bool     `json:"private,omitempty"`
	Deprecated bool     `json:"deprecated,omitempty"`
}

type operationsOutput struct {
	Total      int                `json:"total"`
	Matched    int                `json:"matched"`
	Returned   int                `json:"returned"`
	Operations []operationSummary `json:"operations,omitempty"`
}

func (t *tools) handleOperations(_ context.Context, _ *mcp.CallToolRequest, input operationsInput) (*mcp.CallToolResult, operationsOutput, error) {
	records, err := input.Input.resolve()
	if err != nil {
		return errResult(err), operationsOutput{}, nil
	}
	result, err := aggregator.Aggregate(records, documentInput{}.aggregatorOptions(t.cfg)...)
	if err != nil {
		return errResult(err), operationsOutput{}, nil
	}

	all := result.Document.Operations()
	matched := filterOperations(all, input)
	returned := paginate(matched, input.Offset, input.Limit)

	output := operationsOutput{
		Total:      len(all),
		Matched:    len(matched),
		Returned:   len(returned),
		Operations: makeSlice[operationSummary](len(returned)),
	}
	for _, op := range returned {
		output.Operations = append(output.Operations, operationSummary{
			ID:         op.ID,
			Name:       op.Name,
			Method:     op.Method,
			Path:       op.Path,
			Summary:    op.Summary,
			Tags:       op.Tags,
			Statuses:   op.Statuses(),
			Security:   op.Security.Schemes,
			Private:    op.Private,
			Deprecated: op.Deprecated,
		})
	}
	return nil, output, nil
}

// filterOperations applies all operation filters and returns the matching subset.
func filterOperations(ops []*model.Operation, input operationsInput) []*model.Operation {
	var matched []*model.Operation
	for _, op := range ops {
		if input.Method != "" && !strings.EqualFold(op.Method, input.Method) {
			continue
		}
		if input.Path != "" && !matchPath(op.Path, input.Path) {
			continue
		}
		if input.Tag != "" && !slices.Contains(op.Tags, input.Tag) {
			continue
		}
		if input.Private != nil && op.Private != *input.Private {
			continue
		}
		matched = append(matched, op)
	}
	return matched
}

// matchPath checks if a path template matches a pattern.
// Supports simple glob matching where * matches exactly one path segment.
func matchPath(pathTemplate, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return pathTemplate == pattern
	}
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(pathTemplate, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, pp := range patternParts {
		if pp != "*" && pp != pathParts[i] {
			return false
		}
	}
	return true
}
