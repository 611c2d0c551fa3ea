package openapi

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/model"
)

// loadShop aggregates the snippets of testdata/shop.txtar and returns the
// document with the archive's expected files.
func loadShop(t *testing.T, opts ...aggregator.Option) (*model.Document, map[string][]byte) {
	t.Helper()

	archive := filepath.Join("testdata", "shop.txtar")
	dir := testutil.ExtractTxtar(t, archive)
	records, err := interaction.LoadDir(filepath.Join(dir, "snippets"))
	require.NoError(t, err)
	result, err := aggregator.Aggregate(records, opts...)
	require.NoError(t, err)
	return result.Document, testutil.ReadTxtar(t, archive)
}

func lines(data []byte) []string {
	return strings.Fields(string(data))
}

func TestBuild(t *testing.T) {
	doc, expected := loadShop(t, aggregator.WithInfo(model.Info{Title: "Shop", Version: "2.0.0"}))
	out := Build(doc)

	assert.Equal(t, Version, out.OpenAPI)
	assert.Equal(t, "Shop", out.Info.Title)
	assert.Equal(t, "2.0.0", out.Info.Version)

	var paths []string
	for _, e := range out.Paths {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, lines(expected["expected/paths.txt"]), paths)

	var schemas []string
	for name := range out.Components.Schemas {
		schemas = append(schemas, name)
	}
	slices.Sort(schemas)
	assert.Equal(t, lines(expected["expected/schemas.txt"]), schemas)

	post := out.Paths[1].Item.Post
	require.NotNil(t, post)
	assert.Equal(t, "product-create", post.OperationID)
	assert.Equal(t, []string{"products"}, post.Tags)

	media := post.RequestBody.Content["application/json"]
	require.NotNil(t, media)
	assert.Equal(t, "#/components/schemas/PostProductsRequest", media.Schema.Ref)
	require.Contains(t, media.Examples, "product-create")

	request := out.Components.Schemas["PostProductsRequest"]
	assert.Equal(t, "object", request.Type)
	assert.Equal(t, []string{"name", "price"}, request.Required)
	assert.Equal(t, "string", request.Properties["name"].Type)
	assert.Equal(t, "number", request.Properties["price"].Type)
	assert.Equal(t, "the product price", request.Properties["price"].Description)

	require.Len(t, post.Responses, 2)
	assert.Equal(t, 201, post.Responses[0].Status)
	assert.Equal(t, "Created", post.Responses[0].Response.Description)
	assert.Contains(t, post.Responses[0].Response.Headers, "Location")
	assert.Equal(t, 400, post.Responses[1].Status)
	assert.Equal(t, []SecurityRequirement{{"oauth2": {"prod:w"}}}, post.Security)

	get := out.Paths[2].Item.Get
	require.NotNil(t, get)
	require.Len(t, get.Parameters, 2)
	assert.Equal(t, ParameterInPath, get.Parameters[0].In)
	assert.True(t, get.Parameters[0].Required)
	assert.Equal(t, "integer", get.Parameters[0].Schema.Type)
	assert.Equal(t, ParameterInQuery, get.Parameters[1].In)
	assert.False(t, get.Parameters[1].Required)
	assert.Equal(t, "en", get.Parameters[1].Example)
	// same shape as the 201 body
	assert.Equal(t, "#/components/schemas/PostProductsResponse201",
		get.Responses[0].Response.Content["application/json"].Schema.Ref)
	assert.Equal(t, []SecurityRequirement{{"bearerAuthJWT": {}}}, get.Security)

	cart := out.Components.Schemas["GetCartsIdResponse200"]
	require.NotNil(t, cart)
	items := cart.Properties["items"]
	assert.Equal(t, "array", items.Type)
	assert.Equal(t, "stock keeping unit", items.Items.Properties["sku"].Description)
}

func TestBuildSecuritySchemes(t *testing.T) {
	doc, _ := loadShop(t, aggregator.WithOAuth2(model.OAuth2Flows{
		TokenURL:         "https://auth.example.com/token",
		AuthorizationURL: "https://auth.example.com/authorize",
		Flows:            []string{model.FlowClientCredentials, model.FlowAuthorizationCode},
		Scopes:           map[string]string{"prod:w": "write products"},
	}))
	out := Build(doc)

	schemes := out.Components.SecuritySchemes
	require.Len(t, schemes, 2, "only referenced schemes are declared")

	bearer := schemes["bearerAuthJWT"]
	assert.Equal(t, "http", bearer.Type)
	assert.Equal(t, "bearer", bearer.Scheme)
	assert.Equal(t, "JWT", bearer.BearerFormat)

	oauth := schemes["oauth2"]
	assert.Equal(t, "oauth2", oauth.Type)
	require.NotNil(t, oauth.Flows.ClientCredentials)
	assert.Equal(t, "https://auth.example.com/token", oauth.Flows.ClientCredentials.TokenURL)
	assert.Empty(t, oauth.Flows.ClientCredentials.AuthorizationURL)
	assert.Equal(t, map[string]string{"prod:w": "write products"}, oauth.Flows.ClientCredentials.Scopes)
	require.NotNil(t, oauth.Flows.AuthorizationCode)
	assert.Equal(t, "https://auth.example.com/authorize", oauth.Flows.AuthorizationCode.AuthorizationURL)
	assert.Nil(t, oauth.Flows.Implicit)
}

func TestSecuritySchemeKinds(t *testing.T) {
	basic := securityScheme(model.SecurityScheme{Name: "basic", Kind: model.SchemeKindBasic}, nil)
	assert.Equal(t, &SecurityScheme{Type: "http", Scheme: "basic"}, basic)

	key := securityScheme(model.SecurityScheme{Name: "api_key", Kind: model.SchemeKindAPIKey, In: "header", ParamName: "Authorization"}, nil)
	assert.Equal(t, &SecurityScheme{Type: "apiKey", In: "header", Name: "Authorization"}, key)

	flows := oauthFlows(nil, []string{"a"})
	require.NotNil(t, flows.ClientCredentials)
	assert.Equal(t, map[string]string{"a": defaultScopeDescription}, flows.ClientCredentials.Scopes)
}

func TestBuildPublic(t *testing.T) {
	doc, _ := loadShop(t)
	out := Build(doc.Public())

	for _, e := range out.Paths {
		assert.NotEqual(t, "/carts/{id}", e.Path)
	}
	assert.NotContains(t, out.Components.Schemas, "GetCartsIdResponse200")
	for _, tag := range out.Tags {
		assert.NotEqual(t, "carts", tag.Name)
	}
}

func TestToSchemaNullable(t *testing.T) {
	r := testutil.NewProductGetRecord()
	r.Response.Example = `{"id":7,"note":null,"tags":[]}`
	r.Response.Fields = nil
	result, err := aggregator.Aggregate([]interaction.Record{r})
	require.NoError(t, err)

	out := Build(result.Document)
	s := out.Components.Schemas["GetProductsIdResponse200"]
	require.NotNil(t, s)
	note := s.Properties["note"]
	assert.Empty(t, note.Type)
	assert.True(t, note.Nullable)
	tags := s.Properties["tags"]
	assert.Equal(t, "array", tags.Type)
	assert.NotNil(t, tags.Items)
}

func TestEmitJSON(t *testing.T) {
	doc, expected := loadShop(t)
	e := NewEmitter(FormatJSON)
	assert.Equal(t, "openapi3", e.Name())
	assert.Equal(t, "json", e.Extension())

	first, err := e.Emit(doc)
	require.NoError(t, err)
	second, err := e.Emit(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second, "output must be deterministic")

	var decoded Document
	require.NoError(t, json.Unmarshal(first, &decoded))
	var paths []string
	for _, e := range decoded.Paths {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, lines(expected["expected/paths.txt"]), paths)
	post := decoded.Paths[1].Item.Post
	require.Len(t, post.Responses, 2)
	assert.Equal(t, 201, post.Responses[0].Status)

	// examples are embedded as JSON values, not strings
	example := post.RequestBody.Content["application/json"].Examples["product-create"].Value
	assert.Equal(t, map[string]any{"name": "Fancy pants", "price": 49.99}, example)
}

func TestEmitYAML(t *testing.T) {
	doc, expected := loadShop(t)
	e := NewEmitter(FormatYAML)
	assert.Equal(t, "yaml", e.Extension())

	data, err := e.Emit(doc)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "openapi: 3.0.3\n"), text)
	assert.NotContains(t, text, "{\"")
	assert.Contains(t, text, "\"201\":", "status keys stay strings")

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &node))
	root := node.Content[0]
	var paths []string
	for i := 0; i < len(root.Content); i += 2 {
		if root.Content[i].Value != "paths" {
			continue
		}
		p := root.Content[i+1]
		for j := 0; j < len(p.Content); j += 2 {
			paths = append(paths, p.Content[j].Value)
		}
	}
	assert.Equal(t, lines(expected["expected/paths.txt"]), paths)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"toml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResponsesUnmarshalRejectsBadStatus(t *testing.T) {
	var r Responses
	assert.Error(t, json.Unmarshal([]byte(`{"default":{"description":"x"}}`), &r))
}
