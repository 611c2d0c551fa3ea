package postman

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/model"
)

// BaseURLVariable is the collection variable holding the base URL.
const BaseURLVariable = "baseUrl"

// PostmanID returns the name-based UUID identifying a collection with the
// given title and version.
func PostmanID(title, version string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(title+"\x00"+version)).String()
}

// Build converts the canonical model into a Postman collection with one
// item per operation, in the model's path and method order. It fails only
// for a base URL the aggregator would have rejected.
func Build(doc *model.Document) (*Collection, error) {
	base, err := httputil.ParseBaseURL(doc.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("postman: %w", err)
	}
	c := &Collection{
		Info: Info{
			PostmanID:   PostmanID(doc.Info.Title, doc.Info.Version),
			Name:        doc.Info.Title,
			Description: doc.Info.Description,
			Version:     doc.Info.Version,
			Schema:      SchemaURL,
		},
		Item:     []*Item{},
		Variable: []Variable{{Key: BaseURLVariable, Value: doc.BaseURL}},
	}
	for _, g := range doc.PathGroups() {
		for _, op := range g.Operations {
			c.Item = append(c.Item, buildItem(doc, base, op))
		}
	}
	return c, nil
}

func buildItem(doc *model.Document, base httputil.BaseURL, op *model.Operation) *Item {
	name := op.Summary
	if name == "" {
		name = op.ID
	}
	req := buildRequest(doc, base, op)
	item := &Item{
		ID:          op.Name,
		Name:        name,
		Description: op.Description,
		Request:     req,
	}
	for _, r := range op.Responses {
		resp := &Response{
			ID:              fmt.Sprintf("%s-%d", op.Name, r.Status),
			Name:            fmt.Sprintf("%d %s", r.Status, httputil.StatusText(r.Status)),
			OriginalRequest: req,
			Status:          httputil.StatusText(r.Status),
			Code:            r.Status,
		}
		var contentType string
		if r.Body != nil {
			contentType = r.Body.ContentType
			resp.Body = r.Body.Example
			if contentType != "" || resp.Body != "" {
				resp.PreviewLanguage = previewLanguage(r.Body)
			}
		}
		resp.Header = headers(r.Headers, contentType)
		item.Response = append(item.Response, resp)
	}
	return item
}

func buildRequest(doc *model.Document, base httputil.BaseURL, op *model.Operation) *Request {
	req := &Request{
		Auth:   buildAuth(doc, op),
		Method: op.Method,
		URL:    buildURL(base, op),
	}
	var contentType string
	if op.Request != nil {
		contentType = op.Request.ContentType
		req.Body = buildBody(op.Request)
	}
	req.Header = headers(op.RequestHeaders, contentType)
	return req
}

// headers converts documented headers and appends Content-Type when it is
// known and not documented.
func headers(params []interaction.Parameter, contentType string) []Header {
	var out []Header
	hasContentType := false
	for _, p := range params {
		if strings.EqualFold(p.Name, httputil.HeaderContentType) {
			hasContentType = true
		}
		out = append(out, Header{Key: p.Name, Value: p.Example, Description: p.Description})
	}
	if contentType != "" && !hasContentType {
		out = append(out, Header{Key: httputil.HeaderContentType, Value: contentType})
	}
	return out
}

func buildURL(base httputil.BaseURL, op *model.Operation) *URL {
	u := &URL{
		Protocol: base.Protocol,
		Port:     base.Port,
	}
	switch {
	case strings.HasPrefix(base.Host, "{{"):
		u.Host = []string{base.Host}
	case base.Host != "":
		u.Host = strings.Split(base.Host, ".")
	}
	u.Path = append(u.Path, base.Path...)
	for _, seg := range httputil.Segments(op.Path) {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			seg = ":" + strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		}
		u.Path = append(u.Path, seg)
	}
	for _, p := range op.QueryParameters {
		u.Query = append(u.Query, Query{Key: p.Name, Value: p.Example, Description: p.Description, Disabled: p.Optional})
	}
	for _, p := range op.PathParameters {
		u.Variable = append(u.Variable, Variable{Key: p.Name, Value: p.Example, Description: p.Description})
	}
	u.Raw = rawURL(base, u)
	return u
}

func rawURL(base httputil.BaseURL, u *URL) string {
	var b strings.Builder
	if base.Protocol != "" {
		b.WriteString(base.Protocol)
		b.WriteString("://")
	}
	b.WriteString(base.Host)
	if base.Port != "" {
		b.WriteString(":")
		b.WriteString(base.Port)
	}
	for _, seg := range u.Path {
		b.WriteString("/")
		b.WriteString(seg)
	}
	var enabled []string
	for _, q := range u.Query {
		if !q.Disabled {
			enabled = append(enabled, url.QueryEscape(q.Key)+"="+url.QueryEscape(q.Value))
		}
	}
	if len(enabled) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Join(enabled, "&"))
	}
	return b.String()
}

// buildBody picks the body mode from the content type.
func buildBody(body *model.Body) *Body {
	switch {
	case httputil.IsFormMediaType(body.ContentType):
		return &Body{Mode: BodyModeURLEncoded, URLEncoded: formParams(body.FormParameters)}
	case httputil.IsMultipartMediaType(body.ContentType):
		return &Body{Mode: BodyModeFormData, FormData: formParams(body.FormParameters)}
	case body.Example == "":
		return nil
	}
	b := &Body{Mode: BodyModeRaw, Raw: body.Example}
	if lang := previewLanguage(body); lang != "text" {
		b.Options = &BodyOptions{Raw: &RawOptions{Language: lang}}
	}
	return b
}

func formParams(params []interaction.Parameter) []FormParam {
	out := make([]FormParam, 0, len(params))
	for _, p := range params {
		out = append(out, FormParam{
			Key:         p.Name,
			Value:       p.Example,
			Type:        "text",
			Description: p.Description,
			Disabled:    p.Optional,
		})
	}
	return out
}

func previewLanguage(body *model.Body) string {
	raw := &interaction.Body{ContentType: body.ContentType, Example: body.Example}
	switch {
	case raw.IsJSON():
		return "json"
	case strings.Contains(body.ContentType, "xml"):
		return "xml"
	case strings.Contains(body.ContentType, "html"):
		return "html"
	default:
		return "text"
	}
}

// buildAuth maps the first security scheme of the operation. Secrets are
// left as collection variables.
func buildAuth(doc *model.Document, op *model.Operation) *Auth {
	if len(op.Security.Schemes) == 0 {
		return nil
	}
	s, ok := doc.SecuritySchemes[op.Security.Schemes[0]]
	if !ok {
		return nil
	}
	attr := func(key, value string) AuthAttribute {
		return AuthAttribute{Key: key, Value: value, Type: "string"}
	}
	switch s.Kind {
	case model.SchemeKindBasic:
		return &Auth{Type: "basic", Basic: []AuthAttribute{
			attr("username", "{{username}}"),
			attr("password", "{{password}}"),
		}}
	case model.SchemeKindBearer:
		return &Auth{Type: "bearer", Bearer: []AuthAttribute{attr("token", "{{token}}")}}
	case model.SchemeKindAPIKey:
		in := s.In
		if in == "" {
			in = "header"
		}
		return &Auth{Type: "apikey", APIKey: []AuthAttribute{
			attr("key", s.ParamName),
			attr("value", "{{apiKey}}"),
			attr("in", in),
		}}
	case model.SchemeKindOAuth2:
		attrs := []AuthAttribute{attr("addTokenTo", "header")}
		if s.OAuth2 != nil {
			if s.OAuth2.TokenURL != "" {
				attrs = append(attrs, attr("accessTokenUrl", s.OAuth2.TokenURL))
			}
			if s.OAuth2.AuthorizationURL != "" {
				attrs = append(attrs, attr("authUrl", s.OAuth2.AuthorizationURL))
			}
			if len(s.OAuth2.Flows) > 0 {
				attrs = append(attrs, attr("grant_type", grantType(s.OAuth2.Flows[0])))
			}
		}
		if len(op.Security.Scopes) > 0 {
			attrs = append(attrs, attr("scope", strings.Join(op.Security.Scopes, " ")))
		}
		return &Auth{Type: "oauth2", OAuth2: attrs}
	default:
		return nil
	}
}

func grantType(flow string) string {
	switch flow {
	case model.FlowAuthorizationCode:
		return "authorization_code"
	case model.FlowClientCredentials:
		return "client_credentials"
	case model.FlowPassword:
		return "password_credentials"
	case model.FlowImplicit:
		return "implicit"
	default:
		return flow
	}
}
