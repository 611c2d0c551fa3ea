package openapi

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/internal/naming"
	"github.com/erraggy/restspec/model"
	"github.com/erraggy/restspec/schema"
)

// defaultScopeDescription is used for scopes without a configured description.
const defaultScopeDescription = "No description"

// Build converts the canonical model into an OpenAPI 3.0 document.
//
// Path items follow the model's path order and operations within a path
// follow method order. Request and response schemas are moved to
// components/schemas; structurally identical schemas share one component.
// Only security schemes referenced by an operation are declared.
func Build(doc *model.Document) *Document {
	b := &builder{
		doc:     doc,
		schemas: make(map[string]*Schema),
		byShape: make(map[string]string),
	}
	out := &Document{
		OpenAPI: Version,
		Info:    buildInfo(doc.Info),
		Paths:   Paths{},
	}
	for _, s := range doc.Servers {
		out.Servers = append(out.Servers, &Server{URL: s.URL, Description: s.Description})
	}
	for _, t := range doc.UsedTags() {
		out.Tags = append(out.Tags, &Tag{Name: t.Name, Description: t.Description})
	}
	for _, g := range doc.PathGroups() {
		item := &PathItem{}
		for _, op := range g.Operations {
			setOperation(item, op.Method, b.operation(op))
		}
		out.Paths = append(out.Paths, PathEntry{Path: g.Path, Item: item})
	}

	components := &Components{}
	if len(b.schemas) > 0 {
		components.Schemas = b.schemas
	}
	for _, s := range doc.UsedSecuritySchemes() {
		if components.SecuritySchemes == nil {
			components.SecuritySchemes = make(map[string]*SecurityScheme)
		}
		components.SecuritySchemes[s.Name] = securityScheme(s, doc.ScopesFor(s.Name))
	}
	if components.Schemas != nil || components.SecuritySchemes != nil {
		out.Components = components
	}
	return out
}

func buildInfo(info model.Info) *Info {
	out := &Info{Title: info.Title, Description: info.Description, Version: info.Version}
	if c := info.Contact; c != nil {
		out.Contact = &Contact{Name: c.Name, URL: c.URL, Email: c.Email}
	}
	return out
}

func setOperation(item *PathItem, method string, op *Operation) {
	switch method {
	case httputil.MethodGet:
		item.Get = op
	case httputil.MethodPut:
		item.Put = op
	case httputil.MethodPost:
		item.Post = op
	case httputil.MethodDelete:
		item.Delete = op
	case httputil.MethodOptions:
		item.Options = op
	case httputil.MethodHead:
		item.Head = op
	case httputil.MethodPatch:
		item.Patch = op
	case httputil.MethodTrace:
		item.Trace = op
	}
}

type builder struct {
	doc *model.Document
	// schemas are the extracted components, byShape maps the canonical
	// JSON of a schema to its component name.
	schemas map[string]*Schema
	byShape map[string]string
}

func (b *builder) operation(op *model.Operation) *Operation {
	out := &Operation{
		Tags:        op.Tags,
		Summary:     op.Summary,
		Description: op.Description,
		OperationID: op.Name,
		Deprecated:  op.Deprecated,
	}
	for _, p := range op.PathParameters {
		out.Parameters = append(out.Parameters, parameter(p, ParameterInPath))
	}
	for _, p := range op.QueryParameters {
		out.Parameters = append(out.Parameters, parameter(p, ParameterInQuery))
	}
	for _, p := range op.RequestHeaders {
		out.Parameters = append(out.Parameters, parameter(p, ParameterInHeader))
	}

	if op.Request != nil {
		out.RequestBody = &RequestBody{
			Content: b.content(op, op.Request, "Request"),
		}
	}
	for _, r := range op.Responses {
		resp := &Response{Description: httputil.StatusText(r.Status)}
		for _, h := range r.Headers {
			if resp.Headers == nil {
				resp.Headers = make(map[string]*Header)
			}
			resp.Headers[h.Name] = &Header{
				Description: h.Description,
				Schema:      parameterSchema(h),
				Example:     exampleValue(h.Example),
			}
		}
		if r.Body != nil {
			resp.Content = b.content(op, r.Body, "Response"+strconv.Itoa(r.Status))
		}
		out.Responses = append(out.Responses, ResponseEntry{Status: r.Status, Response: resp})
	}

	for _, name := range op.Security.Schemes {
		scopes := []string{}
		if s, ok := b.doc.SecuritySchemes[name]; ok && s.Kind == model.SchemeKindOAuth2 {
			scopes = append(scopes, op.Security.Scopes...)
		}
		out.Security = append(out.Security, SecurityRequirement{name: scopes})
	}
	return out
}

func parameter(p interaction.Parameter, in string) *Parameter {
	return &Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Required:    in == ParameterInPath || !p.Optional,
		Schema:      parameterSchema(p),
		Example:     exampleValue(p.Example),
	}
}

func parameterSchema(p interaction.Parameter) *Schema {
	return &Schema{Type: typeName(schema.ParameterKind(p.Type)), Default: p.Default}
}

// exampleValue returns nil for an empty example so it is omitted.
func exampleValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (b *builder) content(op *model.Operation, body *model.Body, role string) map[string]*MediaType {
	mt := &MediaType{}
	if body.Schema != nil {
		mt.Schema = b.ref(naming.SchemaName(op.Method, op.Path, role), toSchema(body.Schema))
	}
	if v, ok := bodyExample(body); ok {
		mt.Examples = map[string]*Example{op.Name: {Value: v}}
	}
	contentType := body.ContentType
	if contentType == "" {
		contentType = httputil.MediaTypeJSON
	}
	return map[string]*MediaType{contentType: mt}
}

// bodyExample returns a JSON example as a value and anything else as text.
func bodyExample(body *model.Body) (any, bool) {
	if strings.TrimSpace(body.Example) == "" {
		return nil, false
	}
	raw := &interaction.Body{ContentType: body.ContentType, Example: body.Example}
	if raw.IsJSON() {
		if v, ok, err := raw.Value(); err == nil && ok {
			return v, true
		}
	}
	return body.Example, true
}

// ref registers s as a component and returns a reference to it. A schema
// identical to an earlier one reuses its name; a name taken by a different
// schema gets a numeric suffix.
func (b *builder) ref(name string, s *Schema) *Schema {
	shape, err := json.Marshal(s)
	if err != nil {
		return s
	}
	if existing, ok := b.byShape[string(shape)]; ok {
		return &Schema{Ref: componentRef(existing)}
	}
	unique := name
	for i := 2; b.schemas[unique] != nil; i++ {
		unique = name + strconv.Itoa(i)
	}
	b.schemas[unique] = s
	b.byShape[string(shape)] = unique
	return &Schema{Ref: componentRef(unique)}
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}

// toSchema converts an inferred node. OpenAPI 3.0 has no null type, so a
// null node becomes a nullable schema without a type.
func toSchema(n *schema.Node) *Schema {
	out := &Schema{
		Type:        typeName(n.Kind),
		Description: n.Description,
		Nullable:    n.Nullable || n.Kind == schema.KindNull,
	}
	switch n.Kind {
	case schema.KindObject:
		for _, name := range n.PropertyNames() {
			if out.Properties == nil {
				out.Properties = make(map[string]*Schema, len(n.Properties))
			}
			out.Properties[name] = toSchema(n.Properties[name])
		}
		out.Required = n.Required
	case schema.KindArray:
		out.Items = &Schema{}
		if n.Items != nil {
			out.Items = toSchema(n.Items)
		}
	}
	return out
}

func typeName(k schema.Kind) string {
	switch k {
	case schema.KindObject, schema.KindArray, schema.KindString, schema.KindNumber, schema.KindInteger, schema.KindBoolean:
		return k.String()
	default:
		return ""
	}
}

func securityScheme(s model.SecurityScheme, scopes []string) *SecurityScheme {
	switch s.Kind {
	case model.SchemeKindBasic:
		return &SecurityScheme{Type: "http", Scheme: "basic"}
	case model.SchemeKindBearer:
		return &SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: s.BearerFormat}
	case model.SchemeKindAPIKey:
		return &SecurityScheme{Type: "apiKey", In: s.In, Name: s.ParamName}
	case model.SchemeKindOAuth2:
		return &SecurityScheme{Type: "oauth2", Flows: oauthFlows(s.OAuth2, scopes)}
	default:
		return &SecurityScheme{Type: "apiKey", In: "header", Name: s.Name}
	}
}

func oauthFlows(cfg *model.OAuth2Flows, scopes []string) *OAuthFlows {
	if cfg == nil {
		cfg = &model.OAuth2Flows{Flows: []string{model.FlowClientCredentials}}
	}
	flow := func(authorization, token bool) *OAuthFlow {
		f := &OAuthFlow{Scopes: make(map[string]string, len(scopes))}
		if authorization {
			f.AuthorizationURL = cfg.AuthorizationURL
		}
		if token {
			f.TokenURL = cfg.TokenURL
		}
		for _, scope := range scopes {
			desc := cfg.Scopes[scope]
			if desc == "" {
				desc = defaultScopeDescription
			}
			f.Scopes[scope] = desc
		}
		return f
	}

	out := &OAuthFlows{}
	for _, name := range cfg.Flows {
		switch name {
		case model.FlowAuthorizationCode:
			out.AuthorizationCode = flow(true, true)
		case model.FlowClientCredentials:
			out.ClientCredentials = flow(false, true)
		case model.FlowPassword:
			out.Password = flow(false, true)
		case model.FlowImplicit:
			out.Implicit = flow(true, false)
		}
	}
	return out
}
