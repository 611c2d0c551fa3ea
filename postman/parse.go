package postman

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/internal/httputil"
)

// Parse reads a Postman v2.1 collection and checks the fields the emitter
// always sets.
func Parse(data []byte) (*Collection, error) {
	var c Collection
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&c); err != nil {
		return nil, &apierrors.ParseError{Message: "invalid collection JSON", Cause: err}
	}
	if c.Info.Schema != SchemaURL {
		return nil, &apierrors.ParseError{Message: fmt.Sprintf("unsupported collection schema %q", c.Info.Schema)}
	}
	for i, item := range c.Item {
		if item.Request == nil || item.Request.URL == nil {
			return nil, &apierrors.ParseError{Message: fmt.Sprintf("item %d (%s) has no request URL", i, item.Name)}
		}
		if b := item.Request.Body; b != nil && !b.Mode.Valid() {
			return nil, &apierrors.ParseError{Message: fmt.Sprintf("item %d (%s) has unknown body mode %q", i, item.Name, b.Mode)}
		}
	}
	return &c, nil
}

// Endpoint is the identity of an item: its method, its path template and
// the status codes of its saved responses.
type Endpoint struct {
	Method   string
	Path     string
	Statuses []int
}

// Endpoints recovers the documented endpoints. The base URL path from the
// collection variable is stripped and :name segments become {name}.
func (c *Collection) Endpoints() []Endpoint {
	var basePath []string
	for _, v := range c.Variable {
		if v.Key == BaseURLVariable {
			if b, err := httputil.ParseBaseURL(v.Value); err == nil {
				basePath = b.Path
			}
		}
	}

	out := make([]Endpoint, 0, len(c.Item))
	for _, item := range c.Item {
		segs := item.Request.URL.Path
		if len(segs) >= len(basePath) && slices.Equal(segs[:len(basePath)], basePath) {
			segs = segs[len(basePath):]
		}
		var path strings.Builder
		for _, seg := range segs {
			if name, ok := strings.CutPrefix(seg, ":"); ok {
				seg = "{" + name + "}"
			}
			path.WriteString("/")
			path.WriteString(seg)
		}
		ep := Endpoint{
			Method: httputil.NormalizeMethod(item.Request.Method),
			Path:   httputil.NormalizePath(path.String()),
		}
		for _, r := range item.Response {
			ep.Statuses = append(ep.Statuses, r.Code)
		}
		out = append(out, ep)
	}
	return out
}
