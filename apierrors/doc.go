// Package apierrors provides structured error types for restspec.
//
// Import path: github.com/erraggy/restspec/apierrors
//
// Aggregation can fail for several distinct reasons and callers usually want
// to tell them apart: a CI job may treat a dangling descriptor as a test
// authoring bug while a description conflict needs a human to pick a wording.
// Every type here works with [errors.Is] and [errors.As].
//
// # Error Types
//
//   - [SchemaConflictError]: two sources disagree about the type or flags of one field
//   - [DescriptionConflictError]: two non-empty descriptions for one field differ
//   - [DanglingDescriptorError]: a field descriptor names a location absent from the example
//   - [ParseError]: an interaction record or cassette could not be decoded
//   - [ConfigError]: invalid options or configuration
//
// # Sentinel Errors
//
//   - [ErrSchemaConflict]: matches any [SchemaConflictError]
//   - [ErrDuplicateConflictingDescription]: matches any [DescriptionConflictError]
//   - [ErrDanglingDescriptor]: matches any [DanglingDescriptorError]
//   - [ErrMissingOperationBody]: reported as a warning, never returned as a fatal error
//   - [ErrParse]: matches any [ParseError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage
//
//	result, err := aggregator.Aggregate(records)
//	if err != nil {
//	    var dc *apierrors.DescriptionConflictError
//	    if errors.As(err, &dc) {
//	        fmt.Printf("%s: %q vs %q\n", dc.Field, dc.First, dc.Second)
//	    }
//	}
//
// Aggregation collects every fatal error before giving up and returns them
// combined with [errors.Join], so errors.As finds the first of each kind.
package apierrors
