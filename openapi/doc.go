// Package openapi emits OpenAPI 3.0 documents from the canonical model.
//
// Build converts a [model.Document] into typed OpenAPI structures and
// Emitter serializes them as JSON or YAML. Output is deterministic: paths
// keep the model's path order, operations follow method order, responses
// are sorted by status code, and maps are written with sorted keys.
//
// # Schemas
//
// Every request and response schema is moved to components/schemas under a
// name derived from the method, the path and the role, for example
// GetProductsIdResponse200. Structurally identical schemas share the first
// name they were registered under.
//
// # Security
//
// Operations reference schemes by name. Only schemes referenced by at least
// one operation are declared. OAuth2 flows come from configuration and list
// every scope requested by an operation, described by configuration or as
// "No description".
//
// # Example
//
//	result, err := aggregator.Aggregate(records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := openapi.NewEmitter(openapi.FormatYAML).Emit(result.Document)
package openapi
