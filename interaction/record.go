package interaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/internal/httputil"
)

// Record is one documented request/response exchange.
type Record struct {
	// Name identifies the capturing test, e.g. "product-get".
	Name string

	Method string
	// Path is the path template, e.g. "/products/{id}".
	Path string

	Summary     string
	Description string
	Tags        []string
	// Private records are left out of the public document.
	Private    bool
	Deprecated bool

	PathParameters  []Parameter
	QueryParameters []Parameter
	FormParameters  []Parameter
	RequestHeaders  []Parameter
	Request         *Body

	Status          int
	ResponseHeaders []Parameter
	Response        *Body

	Security Security
}

// Parameter describes a path, query or form parameter or a header.
type Parameter struct {
	Name        string
	Description string
	Type        Type
	Optional    bool
	Example     string
	Default     any
}

// Body is a request or response payload.
type Body struct {
	ContentType string
	// Example is the raw payload text as captured.
	Example string
	Fields  []FieldDescriptor
}

// FieldDescriptor documents one location inside a payload.
type FieldDescriptor struct {
	// Path uses dotted notation: "items[].sku", "['odd key'].x", "[]".
	Path        string
	Description string
	Type        Type
	Optional    bool
	// Ignored fields are checked against the example but not emitted.
	Ignored bool
}

// Security lists the schemes and scopes protecting the operation.
type Security struct {
	Schemes []string
	Scopes  []string
}

// OperationID returns the key that groups records describing the same
// operation: the upper-case method, a space and the normalized path.
func (r *Record) OperationID() string {
	return OperationID(r.Method, r.Path)
}

// OperationID builds an operation key from a method and a path template.
func OperationID(method, path string) string {
	return httputil.NormalizeMethod(method) + " " + httputil.NormalizePath(path)
}

// IsEmpty reports whether b carries neither an example nor field descriptors.
func (b *Body) IsEmpty() bool {
	return b == nil || (strings.TrimSpace(b.Example) == "" && len(b.Fields) == 0)
}

// IsJSON reports whether the body should be treated as JSON. A body with no
// content type is JSON when its example parses as JSON.
func (b *Body) IsJSON() bool {
	if b == nil {
		return false
	}
	if b.ContentType != "" {
		return httputil.IsJSONMediaType(b.ContentType)
	}
	return json.Valid([]byte(b.Example))
}

// Value decodes the JSON example. Numbers are kept as json.Number so the
// integer/number distinction survives. ok is false when there is no example.
func (b *Body) Value() (v any, ok bool, err error) {
	if b == nil || strings.TrimSpace(b.Example) == "" {
		return nil, false, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(b.Example)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, false, fmt.Errorf("interaction: decoding example: %w", err)
	}
	return v, true, nil
}

// Validate checks the record for problems that make it unusable.
func (r *Record) Validate() error {
	var problems []string
	if !httputil.IsKnownMethod(r.Method) {
		problems = append(problems, fmt.Sprintf("unsupported method %q", r.Method))
	}
	if strings.TrimSpace(r.Path) == "" {
		problems = append(problems, "empty path")
	}
	if !httputil.ValidStatusCode(r.Status) {
		problems = append(problems, fmt.Sprintf("invalid status %d", r.Status))
	}
	groups := []struct {
		kind   string
		params []Parameter
	}{
		{"path parameter", r.PathParameters},
		{"query parameter", r.QueryParameters},
		{"form parameter", r.FormParameters},
		{"request header", r.RequestHeaders},
		{"response header", r.ResponseHeaders},
	}
	for _, g := range groups {
		for _, p := range g.params {
			if strings.TrimSpace(p.Name) == "" {
				problems = append(problems, g.kind+" without a name")
			}
		}
	}
	templated := make(map[string]bool)
	for _, name := range httputil.PathParameterNames(r.Path) {
		templated[name] = true
	}
	for _, p := range r.PathParameters {
		if p.Name != "" && !templated[p.Name] {
			problems = append(problems, fmt.Sprintf("path parameter %q not in template %s", p.Name, r.Path))
		}
	}
	for _, b := range []*Body{r.Request, r.Response} {
		if b != nil && b.ContentType != "" && !httputil.IsValidMediaType(b.ContentType) {
			problems = append(problems, fmt.Sprintf("invalid content type %q", b.ContentType))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &apierrors.ParseError{
		Path:    r.Name,
		Message: strings.Join(problems, "; "),
	}
}
