package openapi2

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
	"github.com/erraggy/restspec/openapi"
)

// loadShop aggregates the shop archive shared with the openapi package.
func loadShop(t *testing.T, opts ...aggregator.Option) (*model.Document, map[string][]byte) {
	t.Helper()

	archive := filepath.Join("..", "openapi", "testdata", "shop.txtar")
	dir := testutil.ExtractTxtar(t, archive)
	records, err := interaction.LoadDir(filepath.Join(dir, "snippets"))
	require.NoError(t, err)
	result, err := aggregator.Aggregate(records, opts...)
	require.NoError(t, err)
	return result.Document, testutil.ReadTxtar(t, archive)
}

func aggregate(t *testing.T, records []interaction.Record, opts ...aggregator.Option) *model.Document {
	t.Helper()

	result, err := aggregator.Aggregate(records, opts...)
	require.NoError(t, err)
	return result.Document
}

func TestBuild(t *testing.T) {
	doc, expected := loadShop(t,
		aggregator.WithInfo(model.Info{Title: "Shop", Version: "2.0.0"}),
		aggregator.WithServers(model.Server{URL: "https://api.example.com:8443/v1"}),
	)
	out := Build(doc)

	assert.Equal(t, Version, out.Swagger)
	assert.Equal(t, "Shop", out.Info.Title)
	assert.Equal(t, "api.example.com:8443", out.Host)
	assert.Equal(t, "/v1", out.BasePath)
	assert.Equal(t, []string{"https"}, out.Schemes)

	var paths []string
	for _, e := range out.Paths {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, strings.Fields(string(expected["expected/paths.txt"])), paths)

	var definitions []string
	for name := range out.Definitions {
		definitions = append(definitions, name)
	}
	slices.Sort(definitions)
	assert.Equal(t, strings.Fields(string(expected["expected/schemas.txt"])), definitions)

	post := out.Paths[1].Item.Post
	require.NotNil(t, post)
	assert.Equal(t, "product-create", post.OperationID)
	assert.Equal(t, []string{"application/json"}, post.Consumes)
	assert.Equal(t, []string{"application/json"}, post.Produces)

	require.Len(t, post.Parameters, 1)
	body := post.Parameters[0]
	assert.Equal(t, ParameterInBody, body.In)
	assert.Equal(t, "body", body.Name)
	assert.True(t, body.Required)
	assert.Equal(t, "#/definitions/PostProductsRequest", body.Schema.Ref)
	assert.Equal(t, map[string]any{"name": "Fancy pants", "price": json.Number("49.99")}, body.Examples["application/json"])

	request := out.Definitions["PostProductsRequest"]
	assert.Equal(t, "object", request.Type)
	assert.Equal(t, []string{"name", "price"}, request.Required)
	assert.Equal(t, "the product price", request.Properties["price"].Description)

	require.Len(t, post.Responses, 2)
	created := post.Responses[0]
	assert.Equal(t, 201, created.Status)
	assert.Equal(t, "Created", created.Response.Description)
	assert.Equal(t, &Header{Description: "the created product", Type: "string"}, created.Response.Headers["Location"])
	assert.Equal(t, "#/definitions/PostProductsResponse201", created.Response.Schema.Ref)
	assert.Equal(t, []SecurityRequirement{{"oauth2": {"prod:w"}}}, post.Security)

	get := out.Paths[2].Item.Get
	require.NotNil(t, get)
	require.Len(t, get.Parameters, 2)
	assert.Equal(t, &Parameter{Name: "id", In: ParameterInPath, Description: "the id", Required: true, Type: "integer"}, get.Parameters[0])
	assert.Equal(t, ParameterInQuery, get.Parameters[1].In)
	assert.False(t, get.Parameters[1].Required)
	assert.Empty(t, get.Consumes)
	// same shape as the 201 body
	assert.Equal(t, "#/definitions/PostProductsResponse201", get.Responses[0].Response.Schema.Ref)
	assert.Equal(t, []SecurityRequirement{{"bearerAuthJWT": {}}}, get.Security)
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name     string
		servers  []model.Server
		baseURL  string
		host     string
		basePath string
		schemes  []string
	}{
		{"base url", nil, "http://localhost:8080/api", "localhost:8080", "/api", []string{"http"}},
		{"first server wins", []model.Server{{URL: "https://a.example.com"}, {URL: "http://b.example.com"}}, "http://localhost", "a.example.com", "", []string{"https"}},
		{"variable host", nil, "{{baseUrl}}/api", "", "", nil},
		{"unparsable", []model.Server{{URL: "not a url"}}, "http://localhost", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, basePath, schemes := location(&model.Document{Servers: tt.servers, BaseURL: tt.baseURL})
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.basePath, basePath)
			assert.Equal(t, tt.schemes, schemes)
		})
	}
}

func TestBuildFormAndTrace(t *testing.T) {
	form := interaction.Record{
		Name:           "cart-update",
		Method:         "PUT",
		Path:           "/carts/{id}",
		PathParameters: []interaction.Parameter{{Name: "id", Type: interaction.TypeString}},
		FormParameters: []interaction.Parameter{{Name: "sku", Description: "item", Type: interaction.TypeString, Example: "A1"}},
		Status:         204,
	}
	trace := interaction.Record{
		Name:   "debug-trace",
		Method: "TRACE",
		Path:   "/debug",
		Status: 200,
	}
	out := Build(aggregate(t, []interaction.Record{form, trace}))

	require.Len(t, out.Paths, 1, "a path with only TRACE is dropped")
	put := out.Paths[0].Item.Put
	require.NotNil(t, put)
	assert.Equal(t, []string{"application/x-www-form-urlencoded"}, put.Consumes)
	require.Len(t, put.Parameters, 2)
	assert.Equal(t, &Parameter{Name: "sku", In: ParameterInFormData, Description: "item", Required: true, Type: "string"}, put.Parameters[1])
	assert.Empty(t, out.Definitions)

	require.Len(t, put.Responses, 1)
	assert.Equal(t, 204, put.Responses[0].Status)
	assert.Equal(t, "No Content", put.Responses[0].Response.Description)
	assert.Nil(t, put.Responses[0].Response.Schema)
}

func TestPrimitiveType(t *testing.T) {
	tests := []struct {
		in    interaction.Type
		typ   string
		items *Items
	}{
		{interaction.TypeString, "string", nil},
		{interaction.TypeInteger, "integer", nil},
		{interaction.TypeNumber, "number", nil},
		{interaction.TypeBoolean, "boolean", nil},
		{interaction.TypeArray, "array", &Items{Type: "string"}},
		{interaction.TypeObject, "string", nil},
	}
	for _, tt := range tests {
		typ, items := primitiveType(tt.in)
		assert.Equal(t, tt.typ, typ, tt.in)
		assert.Equal(t, tt.items, items, tt.in)
	}
}

func TestSecurityDefinitions(t *testing.T) {
	basic := securityDefinitions(model.SecurityScheme{Name: "basic", Kind: model.SchemeKindBasic}, nil)
	assert.Equal(t, map[string]*SecurityScheme{"basic": {Type: "basic"}}, basic)

	bearer := securityDefinitions(model.SecurityScheme{Name: "bearerAuthJWT", Kind: model.SchemeKindBearer}, nil)
	require.Contains(t, bearer, "bearerAuthJWT")
	assert.Equal(t, "apiKey", bearer["bearerAuthJWT"].Type)
	assert.Equal(t, "header", bearer["bearerAuthJWT"].In)
	assert.Equal(t, "Authorization", bearer["bearerAuthJWT"].Name)

	key := securityDefinitions(model.SecurityScheme{Name: "api_key", Kind: model.SchemeKindAPIKey, In: "query", ParamName: "key"}, nil)
	assert.Equal(t, map[string]*SecurityScheme{"api_key": {Type: "apiKey", In: "query", Name: "key"}}, key)

	single := securityDefinitions(model.SecurityScheme{Name: "oauth2", Kind: model.SchemeKindOAuth2}, []string{"a"})
	assert.Equal(t, map[string]*SecurityScheme{"oauth2": {
		Type:   "oauth2",
		Flow:   "application",
		Scopes: map[string]string{"a": defaultScopeDescription},
	}}, single)
}

func TestBuildOAuth2Flows(t *testing.T) {
	doc := aggregate(t, []interaction.Record{testutil.NewProductCreateRecord()},
		aggregator.WithOAuth2(model.OAuth2Flows{
			TokenURL:         "https://auth.example.com/token",
			AuthorizationURL: "https://auth.example.com/authorize",
			Flows:            []string{model.FlowClientCredentials, model.FlowAuthorizationCode},
			Scopes:           map[string]string{"prod:w": "write products"},
		}))
	out := Build(doc)

	defs := out.SecurityDefinitions
	require.Len(t, defs, 2)
	app := defs["oauth2_"+model.FlowClientCredentials]
	require.NotNil(t, app)
	assert.Equal(t, "application", app.Flow)
	assert.Equal(t, "https://auth.example.com/token", app.TokenURL)
	assert.Empty(t, app.AuthorizationURL)
	assert.Equal(t, map[string]string{"prod:w": "write products"}, app.Scopes)

	code := defs["oauth2_"+model.FlowAuthorizationCode]
	require.NotNil(t, code)
	assert.Equal(t, "accessCode", code.Flow)
	assert.Equal(t, "https://auth.example.com/authorize", code.AuthorizationURL)

	post := out.Paths[0].Item.Post
	assert.Equal(t, []SecurityRequirement{
		{"oauth2_" + model.FlowClientCredentials: {"prod:w"}},
		{"oauth2_" + model.FlowAuthorizationCode: {"prod:w"}},
	}, post.Security)
}

func TestScopesAlwaysEmitted(t *testing.T) {
	data, err := json.Marshal(&SecurityScheme{Type: "oauth2", Flow: "application", Scopes: map[string]string{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scopes":{}`)

	data, err = json.Marshal(&SecurityScheme{Type: "basic"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "scopes")
}

func TestToSchemaNullable(t *testing.T) {
	r := testutil.NewProductGetRecord()
	r.Response.Example = `{"id":7,"note":null,"tags":[]}`
	r.Response.Fields = nil
	out := Build(aggregate(t, []interaction.Record{r}))

	s := out.Definitions["GetProductsIdResponse200"]
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
	e := NewEmitter(openapi.FormatJSON)
	assert.Equal(t, "openapi", e.Name())
	assert.Equal(t, "json", e.Extension())

	first, err := e.Emit(doc)
	require.NoError(t, err)
	second, err := e.Emit(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second, "output must be deterministic")
	assert.True(t, strings.HasPrefix(string(first), "{\n  \"swagger\": \"2.0\""), string(first))

	var decoded Document
	require.NoError(t, json.Unmarshal(first, &decoded))
	var paths []string
	for _, e := range decoded.Paths {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, strings.Fields(string(expected["expected/paths.txt"])), paths)
	post := decoded.Paths[1].Item.Post
	require.Len(t, post.Responses, 2)
	assert.Equal(t, 201, post.Responses[0].Status)
	assert.Equal(t, 400, post.Responses[1].Status)
}

func TestEmitYAML(t *testing.T) {
	doc, _ := loadShop(t)
	e := NewEmitter(openapi.FormatYAML)
	assert.Equal(t, "yaml", e.Extension())

	data, err := e.Emit(doc)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "swagger: \"2.0\"\n"), text)
	assert.Contains(t, text, "\"201\":", "status keys stay strings")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "localhost", decoded["host"])
	assert.Contains(t, decoded["definitions"], "PostProductsRequest")
}
