package interaction

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/internal/naming"
)

// CassetteOption configures FromCassette.
type CassetteOption func(*cassetteConfig) error

type cassetteConfig struct {
	templates  []string
	namePrefix string
	skip       map[string]bool
}

// skippedHeaders are transport headers that do not document an API.
var skippedHeaders = []string{
	"Accept-Encoding", "Connection", "Content-Length", "Content-Type",
	"Date", "Host", "Transfer-Encoding", "User-Agent",
}

// WithTemplates supplies the path templates used to recover operation
// identity from concrete request URLs. The first matching template wins;
// unmatched URLs keep their literal path.
func WithTemplates(templates ...string) CassetteOption {
	return func(c *cassetteConfig) error {
		for _, t := range templates {
			if strings.TrimSpace(t) == "" {
				return &apierrors.ConfigError{Option: "templates", Message: "empty path template"}
			}
			c.templates = append(c.templates, httputil.NormalizePath(t))
		}
		return nil
	}
}

// WithNamePrefix prefixes every generated record name.
func WithNamePrefix(prefix string) CassetteOption {
	return func(c *cassetteConfig) error {
		c.namePrefix = prefix
		return nil
	}
}

// WithSkippedHeaders adds header names left out of the records.
func WithSkippedHeaders(names ...string) CassetteOption {
	return func(c *cassetteConfig) error {
		for _, n := range names {
			c.skip[http.CanonicalHeaderKey(n)] = true
		}
		return nil
	}
}

// FromCassette converts every interaction of a go-vcr cassette into a
// record. name is the cassette path without the .yaml extension.
func FromCassette(name string, opts ...CassetteOption) ([]Record, error) {
	cfg := &cassetteConfig{skip: make(map[string]bool)}
	for _, h := range skippedHeaders {
		cfg.skip[h] = true
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("interaction: invalid options: %w", err)
		}
	}
	if cfg.namePrefix == "" {
		cfg.namePrefix = filepath.Base(name)
	}

	c, err := cassette.Load(name)
	if err != nil {
		return nil, &apierrors.ParseError{Path: name + ".yaml", Message: "loading cassette", Cause: err}
	}

	records := make([]Record, 0, len(c.Interactions))
	var errs []error
	for i, in := range c.Interactions {
		rec, err := cfg.convert(in)
		if err != nil {
			errs = append(errs, fmt.Errorf("interaction %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	if len(errs) > 0 {
		return nil, &apierrors.ParseError{Path: name + ".yaml", Cause: errors.Join(errs...)}
	}
	return records, nil
}

func (c *cassetteConfig) convert(in *cassette.Interaction) (Record, error) {
	u, err := url.Parse(in.Request.URL)
	if err != nil {
		return Record{}, err
	}
	path := httputil.NormalizePath(u.Path)
	template, values := matchTemplate(c.templates, path)

	rec := Record{
		Method: httputil.NormalizeMethod(in.Request.Method),
		Path:   template,
		Status: in.Response.Code,
	}
	rec.Name = c.recordName(rec.Method, template)
	if segs := httputil.Segments(template); len(segs) > 0 && !strings.HasPrefix(segs[0], "{") {
		rec.Tags = []string{segs[0]}
	}

	for _, pname := range httputil.PathParameterNames(template) {
		rec.PathParameters = append(rec.PathParameters, Parameter{
			Name:    pname,
			Type:    TypeString,
			Example: values[pname],
		})
	}
	rec.QueryParameters = valuesToParams(u.Query())
	rec.FormParameters = valuesToParams(in.Request.Form)

	rec.RequestHeaders, rec.Security = c.requestHeaders(in.Request.Headers)
	rec.ResponseHeaders = c.headers(in.Response.Headers)

	reqType := in.Request.Headers.Get(httputil.HeaderContentType)
	if in.Request.Body != "" || reqType != "" {
		rec.Request = &Body{ContentType: reqType, Example: in.Request.Body}
		if len(rec.FormParameters) > 0 && httputil.IsFormMediaType(reqType) {
			rec.Request.Example = ""
		}
	}
	respType := in.Response.Headers.Get(httputil.HeaderContentType)
	if in.Response.Body != "" || respType != "" {
		rec.Response = &Body{ContentType: respType, Example: in.Response.Body}
	}
	return rec, rec.Validate()
}

func (c *cassetteConfig) recordName(method, template string) string {
	parts := []string{c.namePrefix, strings.ToLower(method)}
	for _, seg := range httputil.Segments(template) {
		parts = append(parts, naming.ToKebabCase(strings.Trim(seg, "{}")))
	}
	return strings.Join(parts, "-")
}

func (c *cassetteConfig) headers(h http.Header) []Parameter {
	keys := make([]string, 0, len(h))
	for k := range h {
		ck := http.CanonicalHeaderKey(k)
		if !c.skip[ck] {
			keys = append(keys, ck)
		}
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	var out []Parameter
	for _, k := range keys {
		out = append(out, Parameter{Name: k, Type: TypeString, Example: h.Get(k)})
	}
	return out
}

// requestHeaders documents request headers and derives the security
// requirement from the Authorization header, which is not documented itself.
func (c *cassetteConfig) requestHeaders(h http.Header) ([]Parameter, Security) {
	var sec Security
	auth := h.Get(httputil.HeaderAuthorization)
	switch {
	case auth == "":
	case strings.HasPrefix(strings.ToLower(auth), "basic "):
		sec.Schemes = []string{SchemeBasic}
	case strings.HasPrefix(strings.ToLower(auth), "bearer "):
		sec.Schemes = []string{SchemeBearer}
	default:
		sec.Schemes = []string{SchemeAPIKey}
	}
	var out []Parameter
	for _, p := range c.headers(h) {
		if p.Name != httputil.HeaderAuthorization {
			out = append(out, p)
		}
	}
	return out, sec
}

func valuesToParams(v url.Values) []Parameter {
	if len(v) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Parameter, 0, len(keys))
	for _, k := range keys {
		out = append(out, Parameter{Name: k, Type: TypeString, Example: v.Get(k)})
	}
	return out
}

// matchTemplate returns the first template matching path segment by
// segment, with the captured placeholder values.
func matchTemplate(templates []string, path string) (string, map[string]string) {
	segs := httputil.Segments(path)
	for _, t := range templates {
		tsegs := httputil.Segments(t)
		if len(tsegs) != len(segs) {
			continue
		}
		values := make(map[string]string)
		ok := true
		for i, ts := range tsegs {
			if strings.HasPrefix(ts, "{") && strings.HasSuffix(ts, "}") {
				values[ts[1:len(ts)-1]] = segs[i]
				continue
			}
			if ts != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return t, values
		}
	}
	return path, nil
}
