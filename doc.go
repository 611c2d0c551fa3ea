// Package restspec turns documented HTTP interactions into API
// documentation.
//
// Tests that exercise an API record each request/response exchange as an
// interaction record: method, path template, parameters, headers, bodies
// and the field descriptors a developer attached to them. restspec merges
// the records of every operation and writes an OpenAPI 3 document and a
// Postman v2.1 collection from the merged model.
//
// # Overview
//
// The library consists of these packages:
//
//   - interaction: the record type, resource file parsing and go-vcr cassette import
//   - schema: inference of a typed schema from an example and its descriptors
//   - aggregator: merging of records into operations with conflict detection
//   - model: the canonical document shared by every emitter
//   - openapi: the OpenAPI 3.0.3 emitter (JSON or YAML)
//   - postman: the Postman collection v2.1 emitter and reader
//   - generator: the end-to-end pipeline writing every document atomically
//   - apierrors: the error taxonomy, usable with errors.Is and errors.As
//
// # Quick Start
//
// Generate documents from the resource files below a snippets directory:
//
//	result, err := generator.Generate(
//		generator.WithSnippetsDir("build/generated-snippets"),
//		generator.WithOutputDir("build/api-spec"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d operations, %d warnings\n", result.Stats.Operations, len(result.Warnings))
//
// Or drive the steps yourself:
//
//	records, err := interaction.LoadDir("build/generated-snippets")
//	if err != nil {
//		log.Fatal(err)
//	}
//	agg, err := aggregator.Aggregate(records,
//		aggregator.WithInfo(model.Info{Title: "Shop API", Version: "1.2.0"}),
//	)
//	if err != nil {
//		// errors.Is(err, apierrors.ErrSchemaConflict) and friends
//		log.Fatal(err)
//	}
//	data, err := openapi.Marshal(openapi.Build(agg.Document), openapi.FormatYAML)
//
// # Merge rules
//
// Records sharing a method and a normalized path describe one operation.
// Parameters, headers, status codes, tags and security are merged as
// unions. The first record with a body supplies the example; later records
// only contribute field descriptors. Two different descriptions for the
// same field, incompatible types and descriptors that match nothing in the
// example are fatal and are reported together.
//
// # Command line
//
// The restspec command wraps the generator and reads a layered
// configuration from restspec.yaml, RESTSPEC_* environment variables and
// flags. Run "restspec help" for details.
package restspec
