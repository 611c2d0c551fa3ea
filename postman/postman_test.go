package postman

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/aggregator"
	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/model"
)

func aggregate(t *testing.T, records []interaction.Record, opts ...aggregator.Option) *model.Document {
	t.Helper()
	result, err := aggregator.Aggregate(records, opts...)
	require.NoError(t, err)
	return result.Document
}

func shopRecords() []interaction.Record {
	return []interaction.Record{
		testutil.NewProductCreateRecord(),
		testutil.NewProductValidationErrorRecord(),
		testutil.NewProductGetRecord(),
		testutil.NewCartRecord(),
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"host only", "http://localhost:8080"},
		{"base path", "https://api.example.com/v1"},
		{"variable host", "{{host}}/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := aggregate(t, shopRecords(), aggregator.WithBaseURL(tt.baseURL))
			data, err := NewEmitter().Emit(doc)
			require.NoError(t, err)

			c, err := Parse(data)
			require.NoError(t, err)

			var want []Endpoint
			for _, g := range doc.PathGroups() {
				for _, op := range g.Operations {
					want = append(want, Endpoint{Method: op.Method, Path: op.Path, Statuses: op.Statuses()})
				}
			}
			assert.Equal(t, want, c.Endpoints())
		})
	}
}

func TestEmitDeterministic(t *testing.T) {
	doc := aggregate(t, shopRecords())
	e := NewEmitter()
	assert.Equal(t, "postman-collection", e.Name())
	assert.Equal(t, "json", e.Extension())

	first, err := e.Emit(doc)
	require.NoError(t, err)
	second, err := e.Emit(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, string(first), `"_postman_id": "`+PostmanID(doc.Info.Title, doc.Info.Version)+`"`)
}

func TestEmitGolden(t *testing.T) {
	archive := filepath.Join("testdata", "notes.txtar")
	dir := testutil.ExtractTxtar(t, archive)
	records, err := interaction.LoadDir(filepath.Join(dir, "snippets"))
	require.NoError(t, err)
	doc := aggregate(t, records, aggregator.WithBaseURL("https://api.example.com/v1"))

	got, err := NewEmitter().Emit(doc)
	require.NoError(t, err)
	want := testutil.ReadTxtar(t, archive)["expected/postman-collection.json"]
	assert.Equal(t, string(want), string(got))
}

func TestPostmanID(t *testing.T) {
	id := PostmanID("Shop", "1.0.0")
	assert.Equal(t, id, PostmanID("Shop", "1.0.0"))
	assert.NotEqual(t, id, PostmanID("Shop", "1.0.1"))
	assert.NotEqual(t, PostmanID("a", "bc"), PostmanID("ab", "c"))
	assert.Len(t, id, 36)
	assert.Equal(t, byte('5'), id[14], "name-based SHA-1 UUID")
}

func TestBuildItems(t *testing.T) {
	doc := aggregate(t, shopRecords(),
		aggregator.WithInfo(model.Info{Title: "Shop", Version: "2.0.0", Description: "demo"}),
		aggregator.WithBaseURL("https://api.example.com:8443/v1"),
	)
	c, err := Build(doc)
	require.NoError(t, err)

	assert.Equal(t, "Shop", c.Info.Name)
	assert.Equal(t, SchemaURL, c.Info.Schema)
	assert.Equal(t, PostmanID("Shop", "2.0.0"), c.Info.PostmanID)
	require.Len(t, c.Item, 3)

	// paths are ordered /carts/{id}, /products, /products/{id}
	cart, create, get := c.Item[0], c.Item[1], c.Item[2]
	assert.Equal(t, "GET /carts/{id}", cart.Name)
	assert.Equal(t, "Create a product", create.Name)
	assert.Equal(t, "product-create", create.ID)

	u := get.Request.URL
	assert.Equal(t, "https", u.Protocol)
	assert.Equal(t, []string{"api", "example", "com"}, u.Host)
	assert.Equal(t, "8443", u.Port)
	assert.Equal(t, []string{"v1", "products", ":id"}, u.Path)
	assert.Equal(t, []Variable{{Key: "id", Value: "7", Description: "the id"}}, u.Variable)
	require.Len(t, u.Query, 1)
	assert.True(t, u.Query[0].Disabled, "optional query parameters start disabled")
	assert.Equal(t, "https://api.example.com:8443/v1/products/:id", u.Raw)

	body := create.Request.Body
	require.NotNil(t, body)
	assert.Equal(t, BodyModeRaw, body.Mode)
	assert.Equal(t, `{"name":"Fancy pants","price":49.99}`, body.Raw)
	assert.Equal(t, "json", body.Options.Raw.Language)
	assert.Contains(t, create.Request.Header, Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, "X-Request-Id", create.Request.Header[0].Key)

	require.Len(t, create.Response, 2)
	created := create.Response[0]
	assert.Equal(t, 201, created.Code)
	assert.Equal(t, "Created", created.Status)
	assert.Equal(t, "201 Created", created.Name)
	assert.Equal(t, "json", created.PreviewLanguage)
	assert.Same(t, create.Request, created.OriginalRequest)
	assert.Equal(t, "Location", created.Header[0].Key)
}

func TestBuildBodies(t *testing.T) {
	form := interaction.Record{
		Name:           "cart-update",
		Method:         "PUT",
		Path:           "/carts/{id}",
		PathParameters: []interaction.Parameter{{Name: "id"}},
		FormParameters: []interaction.Parameter{{Name: "sku", Description: "item", Example: "A1"}},
		Status:         204,
	}
	text := interaction.Record{
		Name:    "note-create",
		Method:  "POST",
		Path:    "/notes",
		Request: &interaction.Body{ContentType: "text/plain", Example: "hello"},
		Status:  201,
	}
	multipart := interaction.Record{
		Name:           "image-upload",
		Method:         "POST",
		Path:           "/images",
		Request:        &interaction.Body{ContentType: "multipart/form-data"},
		FormParameters: []interaction.Parameter{{Name: "file", Optional: true}},
		Status:         201,
	}
	doc := aggregate(t, []interaction.Record{form, text, multipart})
	c, err := Build(doc)
	require.NoError(t, err)

	byID := make(map[string]*Item)
	for _, item := range c.Item {
		byID[item.ID] = item
	}

	urlencoded := byID["cart-update"].Request.Body
	assert.Equal(t, BodyModeURLEncoded, urlencoded.Mode)
	assert.Equal(t, []FormParam{{Key: "sku", Value: "A1", Type: "text", Description: "item"}}, urlencoded.URLEncoded)

	raw := byID["note-create"].Request.Body
	assert.Equal(t, BodyModeRaw, raw.Mode)
	assert.Nil(t, raw.Options)

	formdata := byID["image-upload"].Request.Body
	assert.Equal(t, BodyModeFormData, formdata.Mode)
	require.Len(t, formdata.FormData, 1)
	assert.True(t, formdata.FormData[0].Disabled)
}

func TestBuildAuth(t *testing.T) {
	withScheme := func(scheme string) interaction.Record {
		r := testutil.NewCartRecord()
		r.Security = interaction.Security{Schemes: []string{scheme}, Scopes: []string{"cart:r"}}
		return r
	}
	tests := []struct {
		scheme   string
		wantType string
		wantKey  string
	}{
		{interaction.SchemeBasic, "basic", "username"},
		{interaction.SchemeBearer, "bearer", "token"},
		{interaction.SchemeAPIKey, "apikey", "key"},
		{interaction.SchemeOAuth2, "oauth2", "addTokenTo"},
	}
	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			doc := aggregate(t, []interaction.Record{withScheme(tt.scheme)},
				aggregator.WithOAuth2(model.OAuth2Flows{TokenURL: "https://auth/token", Flows: []string{model.FlowClientCredentials}}))
			c, err := Build(doc)
			require.NoError(t, err)
			auth := c.Item[0].Request.Auth
			require.NotNil(t, auth)
			assert.Equal(t, tt.wantType, auth.Type)

			var attrs []AuthAttribute
			switch auth.Type {
			case "basic":
				attrs = auth.Basic
			case "bearer":
				attrs = auth.Bearer
			case "apikey":
				attrs = auth.APIKey
			case "oauth2":
				attrs = auth.OAuth2
				assert.Contains(t, attrs, AuthAttribute{Key: "scope", Value: "cart:r", Type: "string"})
				assert.Contains(t, attrs, AuthAttribute{Key: "grant_type", Value: "client_credentials", Type: "string"})
			}
			require.NotEmpty(t, attrs)
			assert.Equal(t, tt.wantKey, attrs[0].Key)
		})
	}

	doc := aggregate(t, []interaction.Record{testutil.NewCartRecord()})
	c, err := Build(doc)
	require.NoError(t, err)
	assert.Nil(t, c.Item[0].Request.Auth)
}

func TestBuildInvalidBaseURL(t *testing.T) {
	_, err := aggregator.Aggregate(shopRecords(), aggregator.WithBaseURL("localhost:8080"))
	require.ErrorIs(t, err, apierrors.ErrConfig)

	// only a hand-built model can reach the emitter with a bad base URL
	doc := aggregate(t, shopRecords())
	doc.BaseURL = "localhost:8080"
	_, err = NewEmitter().Emit(doc)
	assert.ErrorContains(t, err, "postman:")
}

func TestRawURLEscapesQuery(t *testing.T) {
	r := testutil.NewProductGetRecord()
	r.QueryParameters = []interaction.Parameter{
		{Name: "q", Description: "search", Example: "fancy pants&more"},
		{Name: "sort by", Description: "order", Example: "price"},
	}
	doc := aggregate(t, []interaction.Record{r})
	c, err := Build(doc)
	require.NoError(t, err)

	u := c.Item[0].Request.URL
	assert.Equal(t, "http://localhost/products/:id?q=fancy+pants%26more&sort+by=price", u.Raw)
	assert.Equal(t, "fancy pants&more", u.Query[0].Value, "structured query keeps the raw value")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"wrong schema", `{"info":{"name":"x","schema":"v1"},"item":[]}`},
		{"missing url", `{"info":{"name":"x","schema":"` + SchemaURL + `"},"item":[{"name":"a","request":{"method":"GET"}}]}`},
		{"bad body mode", `{"info":{"name":"x","schema":"` + SchemaURL + `"},"item":[{"name":"a","request":{"method":"GET","url":{"raw":"x"},"body":{"mode":"graphql"}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, apierrors.ErrParse)
		})
	}
}
