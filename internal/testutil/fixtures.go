// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/erraggy/restspec/interaction"
)

// NewProductCreateRecord returns a documented POST /products that
// succeeded with 201.
func NewProductCreateRecord() interaction.Record {
	return interaction.Record{
		Name:    "product-create",
		Method:  "POST",
		Path:    "/products",
		Summary: "Create a product",
		Tags:    []string{"products"},
		RequestHeaders: []interaction.Parameter{
			{Name: "X-Request-Id", Description: "correlation id", Type: interaction.TypeString, Optional: true, Example: "abc-123"},
		},
		Request: &interaction.Body{
			ContentType: "application/json",
			Example:     `{"name":"Fancy pants","price":49.99}`,
			Fields: []interaction.FieldDescriptor{
				{Path: "name", Description: "the product name", Type: interaction.TypeString},
				{Path: "price", Description: "the product price", Type: interaction.TypeNumber},
			},
		},
		Status: 201,
		ResponseHeaders: []interaction.Parameter{
			{Name: "Location", Description: "the created product", Type: interaction.TypeString, Example: "/products/7"},
		},
		Response: &interaction.Body{
			ContentType: "application/json",
			Example:     `{"id":7,"name":"Fancy pants","price":49.99}`,
		},
		Security: interaction.Security{Schemes: []string{interaction.SchemeOAuth2}, Scopes: []string{"prod:w"}},
	}
}

// NewProductValidationErrorRecord returns the same operation rejected with 400.
func NewProductValidationErrorRecord() interaction.Record {
	return interaction.Record{
		Name:   "product-create-invalid",
		Method: "POST",
		Path:   "/products",
		Tags:   []string{"products"},
		Request: &interaction.Body{
			ContentType: "application/json",
			Example:     `{"name":"","price":-1}`,
		},
		Status: 400,
		Response: &interaction.Body{
			ContentType: "application/json",
			Example:     `{"message":"invalid product"}`,
			Fields: []interaction.FieldDescriptor{
				{Path: "message", Description: "what went wrong", Type: interaction.TypeString},
			},
		},
		Security: interaction.Security{Schemes: []string{interaction.SchemeOAuth2}, Scopes: []string{"prod:w"}},
	}
}

// NewProductGetRecord returns a documented GET /products/{id}.
func NewProductGetRecord() interaction.Record {
	return interaction.Record{
		Name:        "product-get",
		Method:      "GET",
		Path:        "/products/{id}",
		Summary:     "Get a product",
		Description: "Returns a single product.",
		Tags:        []string{"products"},
		PathParameters: []interaction.Parameter{
			{Name: "id", Description: "the id", Type: interaction.TypeInteger, Example: "7"},
		},
		QueryParameters: []interaction.Parameter{
			{Name: "locale", Description: "response locale", Type: interaction.TypeString, Optional: true, Example: "en"},
		},
		Status: 200,
		Response: &interaction.Body{
			ContentType: "application/json",
			Example:     `{"id":7,"name":"Fancy pants","price":49.99,"tags":["sale"]}`,
			Fields: []interaction.FieldDescriptor{
				{Path: "id", Description: "the id", Type: interaction.TypeInteger},
				{Path: "tags[]", Description: "labels", Type: interaction.TypeString},
			},
		},
		Security: interaction.Security{Schemes: []string{interaction.SchemeBearer}},
	}
}

// NewCartRecord returns a documented GET /carts/{id} with an items array.
func NewCartRecord() interaction.Record {
	return interaction.Record{
		Name:   "cart-get",
		Method: "GET",
		Path:   "/carts/{id}",
		Tags:   []string{"carts"},
		PathParameters: []interaction.Parameter{
			{Name: "id", Description: "the cart id", Type: interaction.TypeString, Example: "c1"},
		},
		Status: 200,
		Response: &interaction.Body{
			ContentType: "application/json",
			Example:     `{"id":"c1","items":[{"sku":"A1","quantity":2},{"sku":"B2","quantity":1}],"total":99.98}`,
			Fields: []interaction.FieldDescriptor{
				{Path: "items[].sku", Description: "stock keeping unit", Type: interaction.TypeString},
			},
		},
		Private: true,
	}
}

// WriteSnippetsDir writes each record as <dir>/<name>/resource.json in a
// temporary directory and returns the directory.
func WriteSnippetsDir(t *testing.T, records ...interaction.Record) string {
	t.Helper()

	dir := t.TempDir()
	for _, r := range records {
		data, err := interaction.Marshal(r)
		if err != nil {
			t.Fatalf("Failed to marshal record %s: %v", r.Name, err)
		}
		sub := filepath.Join(dir, r.Name)
		if err := os.MkdirAll(sub, 0o750); err != nil {
			t.Fatalf("Failed to create %s: %v", sub, err)
		}
		if err := os.WriteFile(filepath.Join(sub, "resource.json"), data, 0o600); err != nil {
			t.Fatalf("Failed to write record %s: %v", r.Name, err)
		}
	}
	return dir
}

// ReadTxtar parses a txtar archive and returns its files keyed by name.
func ReadTxtar(t *testing.T, path string) map[string][]byte {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to read archive %s: %v", path, err)
	}
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}
	return files
}

// ExtractTxtar writes the files of a txtar archive below a temporary
// directory and returns it.
func ExtractTxtar(t *testing.T, path string) string {
	t.Helper()

	dir := t.TempDir()
	for name, data := range ReadTxtar(t, path) {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, data, 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", target, err)
		}
	}
	return dir
}
