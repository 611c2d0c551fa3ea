package aggregator

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/model"
	"github.com/erraggy/restspec/schema"
)

func TestAggregateMergesStatuses(t *testing.T) {
	result, err := Aggregate([]interaction.Record{
		testutil.NewProductCreateRecord(),
		testutil.NewProductValidationErrorRecord(),
	})
	require.NoError(t, err)

	doc := result.Document
	require.Equal(t, 1, doc.Len())
	op, ok := doc.Operation("POST /products")
	require.True(t, ok)
	assert.Equal(t, []int{201, 400}, op.Statuses())
	assert.Equal(t, "product-create", op.Name)
	assert.Equal(t, "Create a product", op.Summary)

	// leader rule: the first record's request example is canonical
	require.NotNil(t, op.Request)
	assert.Equal(t, `{"name":"Fancy pants","price":49.99}`, op.Request.Example)
	require.NotNil(t, op.Request.Schema)
	assert.Equal(t, schema.KindNumber, op.Request.Schema.Properties["price"].Kind)

	created, _ := op.Response(201)
	require.Len(t, created.Headers, 1)
	assert.Equal(t, "Location", created.Headers[0].Name)
	invalid, _ := op.Response(400)
	require.NotNil(t, invalid.Body)
	assert.Equal(t, "what went wrong", invalid.Body.Schema.Properties["message"].Description)

	assert.Equal(t, Stats{Records: 2, Operations: 1, Paths: 1, Responses: 2}, result.Stats)
	assert.Empty(t, result.Warnings)
}

func TestDescriptorOnlyBodyDoesNotLead(t *testing.T) {
	documented := interaction.Record{
		Name:   "product-create-documented",
		Method: "POST",
		Path:   "/products",
		Request: &interaction.Body{
			ContentType: "application/json",
			Fields:      []interaction.FieldDescriptor{{Path: "name", Description: "the product name", Type: interaction.TypeString}},
		},
		Status: 201,
	}
	example := interaction.Record{
		Name:    "product-create",
		Method:  "POST",
		Path:    "/products",
		Request: &interaction.Body{ContentType: "application/json", Example: `{"name":"x","price":1}`},
		Status:  201,
	}

	result, err := Aggregate([]interaction.Record{documented, example})
	require.NoError(t, err)
	op, _ := result.Document.Operation("POST /products")
	require.NotNil(t, op.Request)
	assert.Equal(t, `{"name":"x","price":1}`, op.Request.Example)
	assert.Equal(t, []string{"name", "price"}, op.Request.Schema.PropertyNames())
	assert.Equal(t, "the product name", op.Request.Schema.Properties["name"].Description)

	// the descriptors are still checked against the later example
	stale := documented
	stale.Request = &interaction.Body{Fields: []interaction.FieldDescriptor{{Path: "sku", Description: "stock unit"}}}
	_, err = Aggregate([]interaction.Record{stale, example})
	assert.ErrorIs(t, err, apierrors.ErrDanglingDescriptor)

	// descriptors alone still produce a body
	result, err = Aggregate([]interaction.Record{documented})
	require.NoError(t, err)
	op, _ = result.Document.Operation("POST /products")
	require.NotNil(t, op.Request)
	assert.Empty(t, op.Request.Example)
	assert.Equal(t, []string{"name"}, op.Request.Schema.PropertyNames())
}

func TestDescriptionRule(t *testing.T) {
	withIDDescription := func(name, desc string) interaction.Record {
		r := testutil.NewProductGetRecord()
		r.Name = name
		r.PathParameters = []interaction.Parameter{{Name: "id", Description: desc, Type: interaction.TypeInteger}}
		return r
	}

	t.Run("identical descriptions merge", func(t *testing.T) {
		result, err := Aggregate([]interaction.Record{
			withIDDescription("product-get", "the id"),
			withIDDescription("product-get-missing", "the id"),
		})
		require.NoError(t, err)
		op, _ := result.Document.Operation("GET /products/{id}")
		require.Len(t, op.PathParameters, 1)
		assert.Equal(t, "the id", op.PathParameters[0].Description)
	})

	t.Run("empty description defers", func(t *testing.T) {
		result, err := Aggregate([]interaction.Record{
			withIDDescription("a", ""),
			withIDDescription("b", "the id"),
		})
		require.NoError(t, err)
		op, _ := result.Document.Operation("GET /products/{id}")
		assert.Equal(t, "the id", op.PathParameters[0].Description)
	})

	t.Run("different descriptions conflict", func(t *testing.T) {
		_, err := Aggregate([]interaction.Record{
			withIDDescription("product-get", "the id"),
			withIDDescription("product-get-missing", "product id"),
		})
		require.Error(t, err)
		var dc *apierrors.DescriptionConflictError
		require.ErrorAs(t, err, &dc)
		assert.Equal(t, "GET /products/{id}", dc.OperationID)
		assert.Equal(t, "path parameter id", dc.Field)
		assert.Equal(t, "the id", dc.First)
		assert.Equal(t, "product id", dc.Second)
	})
}

func TestSummaryFromLexicallyFirstRecord(t *testing.T) {
	named := func(name, summary, description string) interaction.Record {
		r := testutil.NewProductGetRecord()
		r.Name, r.Summary, r.Description = name, summary, description
		return r
	}
	tests := []struct {
		name        string
		records     []interaction.Record
		summary     string
		description string
	}{
		{
			name:        "lexically first name wins over input order",
			records:     []interaction.Record{named("product-get-b", "Second", "later"), named("product-get-a", "First", "earlier")},
			summary:     "First",
			description: "earlier",
		},
		{
			name:        "empty text defers to the next name",
			records:     []interaction.Record{named("product-get-a", "", "earlier"), named("product-get-b", "Second", "")},
			summary:     "Second",
			description: "earlier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Aggregate(tt.records)
			require.NoError(t, err)
			op, ok := result.Document.Operation("GET /products/{id}")
			require.True(t, ok)
			assert.Equal(t, tt.summary, op.Summary)
			assert.Equal(t, tt.description, op.Description)
		})
	}
}

func TestDanglingDescriptorNamesOperation(t *testing.T) {
	r := testutil.NewCartRecord()
	r.Response.Example = `{"id":"c1","items":[{"name":"a"},{"name":"b"}],"total":1}`

	_, err := Aggregate([]interaction.Record{r})
	require.Error(t, err)
	var dd *apierrors.DanglingDescriptorError
	require.ErrorAs(t, err, &dd)
	assert.Equal(t, "GET /carts/{id}", dd.OperationID)
	assert.Equal(t, "items[].sku", dd.Field)
	assert.Contains(t, err.Error(), "response 200 body")
}

func TestConflicts(t *testing.T) {
	t.Run("parameter type", func(t *testing.T) {
		a := testutil.NewProductGetRecord()
		b := testutil.NewProductGetRecord()
		b.PathParameters = []interaction.Parameter{{Name: "id", Description: "the id", Type: interaction.TypeString}}
		_, err := Aggregate([]interaction.Record{a, b})
		assert.ErrorIs(t, err, apierrors.ErrSchemaConflict)
	})

	t.Run("descriptor optionality", func(t *testing.T) {
		a := testutil.NewProductCreateRecord()
		b := testutil.NewProductCreateRecord()
		b.Status = 200
		b.Request.Fields = []interaction.FieldDescriptor{{Path: "name", Description: "the product name", Type: interaction.TypeString, Optional: true}}
		_, err := Aggregate([]interaction.Record{a, b})
		require.Error(t, err)
		var sc *apierrors.SchemaConflictError
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, "request body name", sc.Field)
	})

	t.Run("errors from every operation are collected", func(t *testing.T) {
		cart := testutil.NewCartRecord()
		cart.Response.Example = `{"items":[{}]}`
		a := testutil.NewProductGetRecord()
		b := testutil.NewProductGetRecord()
		b.PathParameters[0].Description = "other"
		_, err := Aggregate([]interaction.Record{a, b, cart})
		assert.ErrorIs(t, err, apierrors.ErrDanglingDescriptor)
		assert.ErrorIs(t, err, apierrors.ErrDuplicateConflictingDescription)
	})

	t.Run("invalid record", func(t *testing.T) {
		r := testutil.NewCartRecord()
		r.Status = 0
		_, err := Aggregate([]interaction.Record{r})
		assert.ErrorIs(t, err, apierrors.ErrParse)
	})
}

func TestParameterMerge(t *testing.T) {
	a := testutil.NewProductGetRecord()
	a.RequestHeaders = []interaction.Parameter{{Name: "x-trace", Description: "trace", Optional: true}}
	b := testutil.NewProductGetRecord()
	b.Name = "product-get-fr"
	b.QueryParameters = []interaction.Parameter{
		{Name: "locale", Description: "response locale", Type: interaction.TypeString, Example: "fr"},
		{Name: "fields", Description: "projection", Optional: true},
	}
	b.RequestHeaders = []interaction.Parameter{{Name: "X-Trace", Optional: false}}

	result, err := Aggregate([]interaction.Record{a, b})
	require.NoError(t, err)
	op, _ := result.Document.Operation("GET /products/{id}")

	require.Len(t, op.QueryParameters, 2)
	assert.Equal(t, "fields", op.QueryParameters[0].Name)
	locale := op.QueryParameters[1]
	assert.Equal(t, "locale", locale.Name)
	assert.False(t, locale.Optional, "optional only when every record says so")
	assert.Equal(t, "en", locale.Example)

	require.Len(t, op.RequestHeaders, 1)
	assert.Equal(t, "X-Trace", op.RequestHeaders[0].Name)
	assert.Equal(t, "trace", op.RequestHeaders[0].Description)
	assert.False(t, op.RequestHeaders[0].Optional)
	assert.Equal(t, "product-get", op.Name)
}

func TestFlags(t *testing.T) {
	a := testutil.NewCartRecord()
	b := testutil.NewCartRecord()
	b.Name = "cart-get-empty"
	b.Private = false
	a.Deprecated, b.Deprecated = true, true

	result, err := Aggregate([]interaction.Record{a, b})
	require.NoError(t, err)
	op, _ := result.Document.Operation("GET /carts/{id}")
	assert.True(t, op.Deprecated)
	assert.False(t, op.Private)
	assert.Equal(t, "cart-get", op.Name)
}

func TestCommonName(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"product-get"}, "product-get"},
		{[]string{"product-get-missing", "product-get"}, "product-get"},
		{[]string{"cart-add", "cart-remove"}, "cart"},
		{[]string{"b", "a"}, "a-b"},
		{[]string{"beta", "alpha", "beta"}, "alpha-beta"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, commonName(tt.names))
	}
}

func TestWarnings(t *testing.T) {
	t.Run("missing operation body", func(t *testing.T) {
		r := interaction.Record{
			Name:            "cart-checkout",
			Method:          "POST",
			Path:            "/carts/{id}/checkout",
			PathParameters:  []interaction.Parameter{{Name: "id", Description: "cart"}},
			Status:          204,
			QueryParameters: []interaction.Parameter{{Name: "dryRun", Optional: true}},
		}
		result, err := Aggregate([]interaction.Record{r})
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		w := result.Warnings[0]
		assert.Equal(t, WarnMissingOperationBody, w.Category)
		assert.ErrorIs(t, w.Err, apierrors.ErrMissingOperationBody)
		assert.Equal(t, SeverityWarning, w.Severity)

		op, _ := result.Document.Operation("POST /carts/{id}/checkout")
		require.NotNil(t, op.Request)
		assert.Empty(t, op.Request.Example)
		assert.Nil(t, op.Request.Schema)
	})

	t.Run("body methods are configurable", func(t *testing.T) {
		r := testutil.NewProductGetRecord()
		r.Method = "DELETE"
		result, err := Aggregate([]interaction.Record{r}, WithBodyMethods("delete"))
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarnMissingOperationBody, result.Warnings[0].Category)
	})

	t.Run("undeclared scheme and undocumented path parameter", func(t *testing.T) {
		r := testutil.NewCartRecord()
		r.PathParameters = nil
		r.Security = interaction.Security{Schemes: []string{"partnerKey"}}
		result, err := Aggregate([]interaction.Record{r})
		require.NoError(t, err)

		var categories []WarningCategory
		for _, w := range result.Warnings {
			categories = append(categories, w.Category)
		}
		assert.ElementsMatch(t, []WarningCategory{WarnMissingPathParameter, WarnUndeclaredSecurityScheme}, categories)

		s, ok := result.Document.SecuritySchemes["partnerKey"]
		require.True(t, ok)
		assert.Equal(t, model.SchemeKindAPIKey, s.Kind)
		op, _ := result.Document.Operation("GET /carts/{id}")
		require.Len(t, op.PathParameters, 1)
		assert.Equal(t, "id", op.PathParameters[0].Name)
	})
}

func TestOptions(t *testing.T) {
	result, err := Aggregate([]interaction.Record{testutil.NewProductCreateRecord()},
		WithInfo(model.Info{Title: "Shop", Description: "demo"}),
		WithServers(model.Server{URL: "https://api.example.com"}),
		WithTags(model.Tag{Name: "products", Description: "catalog"}),
		WithOAuth2(model.OAuth2Flows{TokenURL: "https://auth/token", Flows: []string{model.FlowClientCredentials}}),
		WithSecuritySchemes(model.SecurityScheme{Name: "partnerKey", Kind: model.SchemeKindAPIKey, In: "query", ParamName: "key"}),
		WithBaseURL("https://api.example.com:8443"),
	)
	require.NoError(t, err)
	doc := result.Document
	assert.Equal(t, "Shop", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Equal(t, "catalog", doc.TagDescription("products"))
	assert.Equal(t, "https://auth/token", doc.SecuritySchemes[interaction.SchemeOAuth2].OAuth2.TokenURL)
	assert.Equal(t, "query", doc.SecuritySchemes["partnerKey"].In)
	assert.Equal(t, "https://api.example.com:8443", doc.BaseURL)
	require.Len(t, doc.Servers, 1)

	invalid := []Option{
		WithServers(model.Server{}),
		WithSecuritySchemes(model.SecurityScheme{}),
		WithOAuth2(model.OAuth2Flows{Flows: []string{model.FlowImplicit}}),
		WithOAuth2(model.OAuth2Flows{Flows: []string{"device"}}),
		WithBaseURL(" "),
		WithBaseURL("localhost:8080"),
		WithBaseURL("/relative"),
		WithBaseURL("{{host/api"),
		WithBodyMethods("FETCH"),
	}
	for _, opt := range invalid {
		_, err := Aggregate(nil, opt)
		assert.ErrorIs(t, err, apierrors.ErrConfig)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r := testutil.NewCartRecord()
	r.PathParameters = nil
	_, err := Aggregate([]interaction.Record{r}, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "merged operation")
	assert.Contains(t, out, "category=missing_path_parameter")
	assert.Contains(t, out, "aggregated records")
}

func TestEmptyInput(t *testing.T) {
	result, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Document.Len())
}
