// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes restspec capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec"
	"github.com/erraggy/restspec/internal/config"
)

const serverInstructions = `restspec MCP server: aggregates documented HTTP interaction records and generates OpenAPI 3 and Postman v2.1 documents.

Records are read from a snippets directory (resource.json / resource.yaml files found recursively), from a go-vcr cassette, or passed inline as resource file contents.

Configuration: defaults come from restspec.yaml in the working directory (or the file named by RESTSPEC_CONFIG) and RESTSPEC_* environment variables, for example RESTSPEC_TITLE, RESTSPEC_VERSION, RESTSPEC_BASE_URL and RESTSPEC_OAUTH2__TOKEN_URL. Tool arguments override them.

Start with aggregate to check that records merge cleanly; every conflict is reported at once. Use operations to explore the merged model, then generate to write or return the documents.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "restspec", Version: restspec.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, cfg)
	return server.Run(ctx, &mcp.StdioTransport{})
}

// tools binds the tool handlers to the server configuration.
type tools struct {
	cfg *config.Config
}

func registerAllTools(server *mcp.Server, cfg *config.Config) {
	t := &tools{cfg: cfg}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "aggregate",
		Description: "Merge interaction records into operations and report the result: operation, path and response counts, non-fatal warnings (missing request body, undeclared security scheme, missing path parameter) and every fatal conflict (schema conflict, duplicate conflicting description, dangling descriptor) with its operation and field. Provide exactly one of dir, cassette or records.",
	}, t.handleAggregate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "operations",
		Description: "List the merged operations. Filter by method, path pattern (* matches one segment), tag or private flag. Returns method, path, summary, tags, status codes and security schemes. Use offset/limit to paginate (default limit 100).",
	}, t.handleOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate the OpenAPI 3 document and the Postman v2.1 collection from interaction records. With output_dir, files are written atomically and only a manifest is returned; without it, document contents are returned inline. Title, version and base URL default to the server configuration.",
	}, t.handleGenerate)
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to defaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths so they can be stripped
// from error messages sent to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
