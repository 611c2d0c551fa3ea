// Package openapi2 emits the canonical model as an OpenAPI 2.0 (Swagger)
// document, for tools that have not moved to OpenAPI 3.
//
// The mapping follows package openapi where the formats agree. Where they
// differ:
//
//   - host, basePath and schemes replace the servers list
//   - request bodies become a "body" parameter, or "formData" parameters for
//     form content types, and media types are listed in consumes/produces
//   - schemas live under definitions; nullable values carry x-nullable
//   - bearer schemes become an apiKey on the Authorization header
//   - each oauth2 flow is its own security definition
//   - TRACE operations are omitted
package openapi2
