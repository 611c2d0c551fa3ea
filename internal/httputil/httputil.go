// Package httputil provides HTTP-related constants and helpers shared by the
// record loader, the aggregator and both emitters.
package httputil

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	MinStatusCode = 100 // Minimum valid HTTP status code
	MaxStatusCode = 599 // Maximum valid HTTP status code
)

// HTTP Method Constants, in their canonical upper-case form.
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
)

// Media types with dedicated handling.
const (
	MediaTypeJSON       = "application/json"
	MediaTypeForm       = "application/x-www-form-urlencoded"
	MediaTypeMultipart  = "multipart/form-data"
	MediaTypeTextPlain  = "text/plain"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
)

// methodOrder is the emission order of operations sharing a path.
var methodOrder = map[string]int{
	MethodGet:     0,
	MethodPost:    1,
	MethodPut:     2,
	MethodPatch:   3,
	MethodDelete:  4,
	MethodHead:    5,
	MethodOptions: 6,
	MethodTrace:   7,
}

// DefaultBodyMethods are the methods expected to carry a request body.
var DefaultBodyMethods = []string{MethodPost, MethodPut, MethodPatch}

var pathParamPattern = regexp.MustCompile(`\{([^/}]+)}`)

// NormalizeMethod upper-cases and trims a method name.
func NormalizeMethod(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}

// IsKnownMethod reports whether m (in any case) is one of the eight methods
// an OpenAPI path item can describe.
func IsKnownMethod(m string) bool {
	_, ok := methodOrder[NormalizeMethod(m)]
	return ok
}

// MethodRank returns the sort rank of a method; unknown methods sort last.
func MethodRank(m string) int {
	if r, ok := methodOrder[NormalizeMethod(m)]; ok {
		return r
	}
	return len(methodOrder)
}

// ValidStatusCode reports whether code is in the 100-599 range.
func ValidStatusCode(code int) bool {
	return code >= MinStatusCode && code <= MaxStatusCode
}

// StatusText returns the reason phrase for code, or "Status <code>" for
// codes without a registered phrase.
func StatusText(code int) string {
	if s := http.StatusText(code); s != "" {
		return s
	}
	return "Status " + strconv.Itoa(code)
}

// NormalizePath turns a raw request path or template into its canonical
// template form: query and fragment stripped, a single leading slash,
// duplicate slashes collapsed and no trailing slash except for the root.
func NormalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	var b strings.Builder
	b.Grow(len(p) + 1)
	b.WriteByte('/')
	prevSlash := true
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}

// PathParameterNames returns the placeholder names of a path template in
// the order they appear.
func PathParameterNames(template string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Segments splits a normalized path into its non-empty segments.
func Segments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BaseURL is a parsed base URL. A Postman variable host such as {{host}} is
// kept verbatim and carries no protocol.
type BaseURL struct {
	Protocol string
	Host     string
	Port     string
	Path     []string
}

// ParseBaseURL parses the URL requests are sent to. It must be absolute or
// start with a {{variable}} host.
func ParseBaseURL(raw string) (BaseURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BaseURL{}, fmt.Errorf("empty base URL")
	}
	if strings.HasPrefix(raw, "{{") {
		host, path, _ := strings.Cut(raw, "/")
		if !strings.HasSuffix(host, "}}") {
			return BaseURL{}, fmt.Errorf("base URL %q has an unterminated variable host", raw)
		}
		return BaseURL{Host: host, Path: Segments(path)}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return BaseURL{}, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return BaseURL{}, fmt.Errorf("base URL %q has no scheme and host", raw)
	}
	return BaseURL{
		Protocol: u.Scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Path:     Segments(u.Path),
	}, nil
}

// baseMediaType strips parameters such as charset from a media type.
func baseMediaType(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = strings.TrimSpace(strings.SplitN(mediaType, ";", 2)[0])
	}
	return strings.ToLower(mt)
}

// IsJSONMediaType reports whether mediaType is JSON or a +json suffix type.
func IsJSONMediaType(mediaType string) bool {
	mt := baseMediaType(mediaType)
	return mt == MediaTypeJSON || strings.HasSuffix(mt, "+json")
}

// IsFormMediaType reports whether mediaType is url-encoded form data.
func IsFormMediaType(mediaType string) bool {
	return baseMediaType(mediaType) == MediaTypeForm
}

// IsMultipartMediaType reports whether mediaType is multipart form data.
func IsMultipartMediaType(mediaType string) bool {
	return baseMediaType(mediaType) == MediaTypeMultipart
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles wildcards (*/* and type/*) and prevents invalid combinations (*/subtype).
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if strings.HasSuffix(mediaType, "/*") {
		parts := strings.Split(mediaType, "/")
		return len(parts) == 2 && parts[0] != "" && parts[0] != "*"
	}

	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}
