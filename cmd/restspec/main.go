package main

import (
	"fmt"
	"os"

	"github.com/erraggy/restspec"
	"github.com/erraggy/restspec/cmd/restspec/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	os.Exit(run(os.Args[1], os.Args[2:]))
}

// run dispatches a command and returns the exit code.
func run(command string, args []string) int {
	var handler func([]string) error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("restspec %s\n", restspec.Version())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "generate":
		handler = commands.HandleGenerate
	case "openapi":
		handler = commands.HandleOpenAPI
	case "swagger":
		handler = commands.HandleSwagger
	case "postman":
		handler = commands.HandlePostman
	case "import-cassette":
		handler = commands.HandleImportCassette
	case "mcp":
		handler = commands.HandleMCP
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		return 1
	}

	if err := handler(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var commandNames = []string{"generate", "openapi", "swagger", "postman", "import-cassette", "mcp", "version", "help"}

// suggestCommand returns the command closest to input within an edit
// distance of two, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Printf(`restspec - API documentation from documented HTTP interactions

Usage:
  restspec <command> [flags] [arguments]

Commands:
  generate         Write the OpenAPI document and the Postman collection
  openapi          Print the OpenAPI 3 document
  swagger          Print the OpenAPI 2.0 (Swagger) document
  postman          Print the Postman v2.1 collection
  import-cassette  Convert a go-vcr cassette into resource files
  mcp              Serve restspec tools over MCP (stdio)
  version          Show version information
  help             Show this help message

Configuration is read from restspec.yaml (or --config), then RESTSPEC_*
environment variables, then flags.

Run 'restspec <command> --help' for more information on a command.

Version: %s
`, restspec.Version())
}
