// Package naming provides shared case conversion utilities for restspec
// packages.
//
// These functions are used for:
//   - openapi package: component schema names via SchemaName
//   - interaction package: record names derived from cassette URLs
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
