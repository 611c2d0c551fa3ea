package openapi2

// Version is the Swagger version of generated documents.
const Version = "2.0"

// Document represents an OpenAPI 2.0 (Swagger) document.
// Reference: https://swagger.io/specification/v2/
type Document struct {
	Swagger             string                     `json:"swagger"`
	Info                *Info                      `json:"info"`
	Host                string                     `json:"host,omitempty"`
	BasePath            string                     `json:"basePath,omitempty"`
	Schemes             []string                   `json:"schemes,omitempty"`
	Tags                []*Tag                     `json:"tags,omitempty"`
	Paths               Paths                      `json:"paths"`
	Definitions         map[string]*Schema         `json:"definitions,omitempty"`
	SecurityDefinitions map[string]*SecurityScheme `json:"securityDefinitions,omitempty"`
}

// Info provides metadata about the API
type Info struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
	Version     string   `json:"version"`
}

// Contact information for the exposed API
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// Tag adds metadata to a single tag
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Paths holds the path items in emission order. It marshals as a JSON
// object whose keys keep that order.
type Paths []PathEntry

// PathEntry is one path template and its item.
type PathEntry struct {
	Path string
	Item *PathItem
}

// PathItem describes the operations available on a single path. Swagger
// 2.0 has no trace operation.
type PathItem struct {
	Get     *Operation `json:"get,omitempty"`
	Put     *Operation `json:"put,omitempty"`
	Post    *Operation `json:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty"`
	Options *Operation `json:"options,omitempty"`
	Head    *Operation `json:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty"`
}

// Operation describes a single API operation on a path
type Operation struct {
	Tags        []string              `json:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty"`
	Consumes    []string              `json:"consumes,omitempty"`
	Produces    []string              `json:"produces,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty"`
	Responses   Responses             `json:"responses"`
	Deprecated  bool                  `json:"deprecated,omitempty"`
	Security    []SecurityRequirement `json:"security,omitempty"`
}

// Parameter describes a single operation parameter. Body parameters carry
// a schema; all others carry a primitive type.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
	Type        string  `json:"type,omitempty"`
	Items       *Items  `json:"items,omitempty"`
	Default     any     `json:"default,omitempty"`
	// Examples holds the body example keyed by media type.
	Examples map[string]any `json:"x-examples,omitempty"`
}

// Parameter locations
const (
	ParameterInPath     = "path"
	ParameterInQuery    = "query"
	ParameterInHeader   = "header"
	ParameterInFormData = "formData"
	ParameterInBody     = "body"
)

// Items describes the elements of an array parameter or header
type Items struct {
	Type string `json:"type"`
}

// Responses holds the responses of an operation in ascending status order.
// It marshals as a JSON object keyed by status code.
type Responses []ResponseEntry

// ResponseEntry is one status code and its response.
type ResponseEntry struct {
	Status   int
	Response *Response
}

// Response describes a single response from an API operation
type Response struct {
	Description string             `json:"description"`
	Schema      *Schema            `json:"schema,omitempty"`
	Headers     map[string]*Header `json:"headers,omitempty"`
	Examples    map[string]any     `json:"examples,omitempty"`
}

// Header describes a single response header
type Header struct {
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Items       *Items `json:"items,omitempty"`
}

// Schema is the Swagger 2.0 subset of JSON Schema produced from inferred
// body shapes. Swagger 2.0 has no null type; x-nullable marks nullable
// values.
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Nullable    bool               `json:"x-nullable,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// SecurityRequirement lists the scopes required per scheme name
type SecurityRequirement map[string][]string

// SecurityScheme defines a security definition
type SecurityScheme struct {
	Type             string            `json:"type"` // "basic", "apiKey" or "oauth2"
	Description      string            `json:"description,omitempty"`
	Name             string            `json:"name,omitempty"` // apiKey
	In               string            `json:"in,omitempty"`   // apiKey
	Flow             string            `json:"flow,omitempty"` // oauth2
	AuthorizationURL string            `json:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty"`
	Scopes           map[string]string `json:"scopes,omitzero"` // oauth2, present even when empty
}
