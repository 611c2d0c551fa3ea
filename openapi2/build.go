package openapi2

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/internal/naming"
	"github.com/erraggy/restspec/model"
	"github.com/erraggy/restspec/schema"
)

const defaultScopeDescription = "No description"

// Build converts the canonical model into a Swagger 2.0 document.
//
// host, basePath and schemes come from the first server, or from the base
// URL when no server is configured. Bodies become a body parameter, or
// formData parameters for form content types, with their schemas moved to
// definitions. TRACE operations have no Swagger 2.0 equivalent and are left
// out.
func Build(doc *model.Document) *Document {
	b := &builder{
		doc:     doc,
		schemas: make(map[string]*Schema),
		byShape: make(map[string]string),
	}
	out := &Document{
		Swagger: Version,
		Info:    buildInfo(doc.Info),
		Paths:   Paths{},
	}
	out.Host, out.BasePath, out.Schemes = location(doc)
	for _, t := range doc.UsedTags() {
		out.Tags = append(out.Tags, &Tag{Name: t.Name, Description: t.Description})
	}
	for _, g := range doc.PathGroups() {
		item := &PathItem{}
		empty := true
		for _, op := range g.Operations {
			if setOperation(item, op.Method, b.operation(op)) {
				empty = false
			}
		}
		if !empty {
			out.Paths = append(out.Paths, PathEntry{Path: g.Path, Item: item})
		}
	}
	if len(b.schemas) > 0 {
		out.Definitions = b.schemas
	}
	for _, s := range doc.UsedSecuritySchemes() {
		if out.SecurityDefinitions == nil {
			out.SecurityDefinitions = make(map[string]*SecurityScheme)
		}
		for name, def := range securityDefinitions(s, doc.ScopesFor(s.Name)) {
			out.SecurityDefinitions[name] = def
		}
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

// location splits the first server URL, or the base URL, into host,
// basePath and schemes. Postman variable hosts are not reachable addresses
// and yield nothing.
func location(doc *model.Document) (host, basePath string, schemes []string) {
	raw := doc.BaseURL
	if len(doc.Servers) > 0 {
		raw = doc.Servers[0].URL
	}
	u, err := httputil.ParseBaseURL(raw)
	if err != nil || u.Protocol == "" {
		return "", "", nil
	}
	host = u.Host
	if u.Port != "" {
		host += ":" + u.Port
	}
	if len(u.Path) > 0 {
		basePath = "/" + strings.Join(u.Path, "/")
	}
	return host, basePath, []string{u.Protocol}
}

// setOperation reports false for methods Swagger 2.0 cannot describe.
func setOperation(item *PathItem, method string, op *Operation) bool {
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
	default:
		return false
	}
	return true
}

type builder struct {
	doc     *model.Document
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

	if body := op.Request; body != nil {
		contentType := contentTypeOf(body)
		out.Consumes = []string{contentType}
		if isForm(contentType) {
			for _, p := range body.FormParameters {
				out.Parameters = append(out.Parameters, parameter(p, ParameterInFormData))
			}
		} else {
			param := &Parameter{Name: "body", In: ParameterInBody, Required: true, Schema: &Schema{}}
			if body.Schema != nil {
				param.Schema = b.ref(naming.SchemaName(op.Method, op.Path, "Request"), toSchema(body.Schema))
			}
			if v, ok := bodyExample(body); ok {
				param.Examples = map[string]any{contentType: v}
			}
			out.Parameters = append(out.Parameters, param)
		}
	}

	for _, r := range op.Responses {
		resp := &Response{Description: httputil.StatusText(r.Status)}
		for _, h := range r.Headers {
			if resp.Headers == nil {
				resp.Headers = make(map[string]*Header)
			}
			typ, items := primitiveType(h.Type)
			resp.Headers[h.Name] = &Header{Description: h.Description, Type: typ, Items: items}
		}
		if body := r.Body; body != nil {
			contentType := contentTypeOf(body)
			if !slices.Contains(out.Produces, contentType) {
				out.Produces = append(out.Produces, contentType)
			}
			if body.Schema != nil {
				resp.Schema = b.ref(naming.SchemaName(op.Method, op.Path, "Response"+strconv.Itoa(r.Status)), toSchema(body.Schema))
			}
			if v, ok := bodyExample(body); ok {
				resp.Examples = map[string]any{contentType: v}
			}
		}
		out.Responses = append(out.Responses, ResponseEntry{Status: r.Status, Response: resp})
	}

	for _, name := range op.Security.Schemes {
		s, ok := b.doc.SecuritySchemes[name]
		if !ok || s.Kind != model.SchemeKindOAuth2 {
			out.Security = append(out.Security, SecurityRequirement{name: {}})
			continue
		}
		for _, def := range oauthDefinitionNames(s) {
			out.Security = append(out.Security, SecurityRequirement{def: slices.Clone(op.Security.Scopes)})
		}
	}
	return out
}

func contentTypeOf(body *model.Body) string {
	if body.ContentType == "" {
		return httputil.MediaTypeJSON
	}
	return body.ContentType
}

func isForm(contentType string) bool {
	return httputil.IsFormMediaType(contentType) || httputil.IsMultipartMediaType(contentType)
}

func parameter(p interaction.Parameter, in string) *Parameter {
	typ, items := primitiveType(p.Type)
	return &Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Required:    in == ParameterInPath || !p.Optional,
		Type:        typ,
		Items:       items,
		Default:     p.Default,
	}
}

// primitiveType maps a declared type onto the types Swagger 2.0 allows for
// parameters and headers. Objects and untyped values become strings.
func primitiveType(t interaction.Type) (string, *Items) {
	switch k := schema.ParameterKind(t); k {
	case schema.KindString, schema.KindNumber, schema.KindInteger, schema.KindBoolean:
		return k.String(), nil
	case schema.KindArray:
		return "array", &Items{Type: "string"}
	default:
		return "string", nil
	}
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

// ref registers s as a definition and returns a reference to it.
// Structurally identical schemas share one definition.
func (b *builder) ref(name string, s *Schema) *Schema {
	shape, err := json.Marshal(s)
	if err != nil {
		return s
	}
	if existing, ok := b.byShape[string(shape)]; ok {
		return &Schema{Ref: definitionRef(existing)}
	}
	unique := name
	for i := 2; b.schemas[unique] != nil; i++ {
		unique = name + strconv.Itoa(i)
	}
	b.schemas[unique] = s
	b.byShape[string(shape)] = unique
	return &Schema{Ref: definitionRef(unique)}
}

func definitionRef(name string) string {
	return "#/definitions/" + name
}

func toSchema(n *schema.Node) *Schema {
	out := &Schema{
		Description: n.Description,
		Nullable:    n.Nullable || n.Kind == schema.KindNull,
	}
	switch n.Kind {
	case schema.KindObject:
		out.Type = "object"
		for _, name := range n.PropertyNames() {
			if out.Properties == nil {
				out.Properties = make(map[string]*Schema, len(n.Properties))
			}
			out.Properties[name] = toSchema(n.Properties[name])
		}
		out.Required = n.Required
	case schema.KindArray:
		out.Type = "array"
		out.Items = &Schema{}
		if n.Items != nil {
			out.Items = toSchema(n.Items)
		}
	case schema.KindString, schema.KindNumber, schema.KindInteger, schema.KindBoolean:
		out.Type = n.Kind.String()
	}
	return out
}

// oauthDefinitionNames returns one definition name per configured flow:
// the scheme name itself for a single flow, name_flow otherwise.
func oauthDefinitionNames(s model.SecurityScheme) []string {
	flows := oauthFlows(s)
	if len(flows) == 1 {
		return []string{s.Name}
	}
	names := make([]string, 0, len(flows))
	for _, f := range flows {
		names = append(names, s.Name+"_"+f)
	}
	return names
}

func oauthFlows(s model.SecurityScheme) []string {
	if s.OAuth2 == nil || len(s.OAuth2.Flows) == 0 {
		return []string{model.FlowClientCredentials}
	}
	return s.OAuth2.Flows
}

func securityDefinitions(s model.SecurityScheme, scopes []string) map[string]*SecurityScheme {
	switch s.Kind {
	case model.SchemeKindBasic:
		return map[string]*SecurityScheme{s.Name: {Type: "basic"}}
	case model.SchemeKindBearer:
		return map[string]*SecurityScheme{s.Name: {
			Type:        "apiKey",
			In:          "header",
			Name:        httputil.HeaderAuthorization,
			Description: "Bearer token sent as \"Authorization: Bearer <token>\"",
		}}
	case model.SchemeKindAPIKey:
		return map[string]*SecurityScheme{s.Name: {Type: "apiKey", In: s.In, Name: s.ParamName}}
	case model.SchemeKindOAuth2:
		cfg := s.OAuth2
		if cfg == nil {
			cfg = &model.OAuth2Flows{}
		}
		described := make(map[string]string, len(scopes))
		for _, scope := range scopes {
			desc := cfg.Scopes[scope]
			if desc == "" {
				desc = defaultScopeDescription
			}
			described[scope] = desc
		}
		out := make(map[string]*SecurityScheme)
		names := oauthDefinitionNames(s)
		for i, flow := range oauthFlows(s) {
			def := &SecurityScheme{Type: "oauth2", Scopes: described}
			switch flow {
			case model.FlowAuthorizationCode:
				def.Flow, def.AuthorizationURL, def.TokenURL = "accessCode", cfg.AuthorizationURL, cfg.TokenURL
			case model.FlowClientCredentials:
				def.Flow, def.TokenURL = "application", cfg.TokenURL
			case model.FlowPassword:
				def.Flow, def.TokenURL = "password", cfg.TokenURL
			case model.FlowImplicit:
				def.Flow, def.AuthorizationURL = "implicit", cfg.AuthorizationURL
			}
			out[names[i]] = def
		}
		return out
	default:
		return map[string]*SecurityScheme{s.Name: {Type: "apiKey", In: "header", Name: s.Name}}
	}
}
