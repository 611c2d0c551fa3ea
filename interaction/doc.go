// Package interaction defines the Interaction Record: the documentation a
// single test execution captured about one HTTP request/response exchange.
//
// Records are produced by documentation tests, one per test, and written as
// resource.json (or resource.yaml) files under a snippets directory. They are
// immutable once loaded; the aggregator consumes them to build the canonical
// API model.
//
// # Loading
//
//	records, err := interaction.LoadDir("build/api-spec")
//
// LoadDir walks the directory in lexical order so the resulting slice, and
// therefore everything aggregated from it, is deterministic.
//
// # Cassettes
//
// HTTP cassettes recorded with go-vcr can be imported as records. Cassettes do
// not know path templates, so the caller supplies them:
//
//	records, err := interaction.FromCassette("fixtures/shop",
//	    interaction.WithTemplates("/products/{id}", "/carts/{id}"))
package interaction
