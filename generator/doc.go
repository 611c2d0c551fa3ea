// Package generator runs the whole documentation pipeline: it loads
// interaction records, aggregates them into the canonical model and writes
// one document per output format.
//
// # Quick Start
//
//	result, err := generator.Generate(
//		generator.WithSnippetsDir("build/snippets"),
//		generator.WithOutputDir("build/api-spec"),
//		generator.WithOpenAPIFormat("yaml"),
//		generator.WithAggregatorOptions(
//			aggregator.WithInfo(model.Info{Title: "Shop API", Version: "1.2.0"}),
//		),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//		log.Println(w)
//	}
//
// # Inputs
//
// Records come from resource files found recursively below a snippets
// directory (WithSnippetsDir), from go-vcr cassettes (WithCassette) or from
// memory (WithRecords). Sources may be combined.
//
// # Outputs
//
// The built-in formats are openapi3 (openapi3.json or openapi3.yaml),
// openapi2 (openapi.json or openapi.yaml, Swagger 2.0) and postman
// (postman-collection.json). openapi3 and postman are the default. WithSeparatePublicAPI adds a -public
// variant of each document without private operations, and
// WithOutputPrefix prefixes every file name. Custom formats implement
// Emitter and are added with WithEmitters.
//
// Emitters run concurrently; the document they share is never modified
// after aggregation. Files are replaced atomically.
package generator
