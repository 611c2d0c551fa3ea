package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/schema"
)

// Info is the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
	Contact     *Contact
}

// Contact identifies the API owner.
type Contact struct {
	Name  string
	Email string
	URL   string
}

// Server is a base URL the API is served from.
type Server struct {
	URL         string
	Description string
}

// Tag groups operations; the description comes from configuration.
type Tag struct {
	Name        string
	Description string
}

// Body is a merged payload: the canonical example, the union of its field
// descriptors and the schema inferred from both.
type Body struct {
	ContentType string
	Example     string
	Fields      []interaction.FieldDescriptor
	// FormParameters is set for url-encoded and multipart bodies.
	FormParameters []interaction.Parameter
	Schema         *schema.Node
}

// Response is one status variant of an operation.
type Response struct {
	Status  int
	Headers []interaction.Parameter
	Body    *Body
}

// Security is the merged requirement of an operation.
type Security struct {
	Schemes []string
	Scopes  []string
}

// Operation is the superset of every record sharing one operation ID.
type Operation struct {
	ID string
	// Name is the common name of the contributing records.
	Name        string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Private     bool

	PathParameters  []interaction.Parameter
	QueryParameters []interaction.Parameter
	RequestHeaders  []interaction.Parameter
	Request         *Body
	// Responses are sorted by status.
	Responses []Response
	Security  Security
}

// Response returns the variant for status.
func (o *Operation) Response(status int) (Response, bool) {
	i, found := slices.BinarySearchFunc(o.Responses, status, func(r Response, s int) int {
		return cmp.Compare(r.Status, s)
	})
	if !found {
		return Response{}, false
	}
	return o.Responses[i], true
}

// Statuses returns the documented status codes in ascending order.
func (o *Operation) Statuses() []int {
	out := make([]int, len(o.Responses))
	for i, r := range o.Responses {
		out[i] = r.Status
	}
	return out
}

// Document is the canonical model of an API.
type Document struct {
	Info    Info
	Servers []Server
	Tags    []Tag
	// SecuritySchemes holds every declared scheme by name.
	SecuritySchemes map[string]SecurityScheme
	// BaseURL is where Postman requests are sent.
	BaseURL string

	ops   []*Operation
	index map[string]int
}

// NewDocument returns an empty document with the built-in security
// schemes declared.
func NewDocument() *Document {
	return &Document{
		SecuritySchemes: BuiltinSecuritySchemes(),
		index:           make(map[string]int),
	}
}

// Add appends an operation. Operation IDs must be unique.
func (d *Document) Add(op *Operation) error {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if _, dup := d.index[op.ID]; dup {
		return fmt.Errorf("model: duplicate operation %s", op.ID)
	}
	d.index[op.ID] = len(d.ops)
	d.ops = append(d.ops, op)
	return nil
}

// Operations returns the operations in first-seen order.
func (d *Document) Operations() []*Operation {
	return slices.Clone(d.ops)
}

// Operation looks up an operation by ID.
func (d *Document) Operation(id string) (*Operation, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.ops[i], true
}

// Len returns the number of operations.
func (d *Document) Len() int {
	return len(d.ops)
}

// PathGroup is one path template with its operations in method order.
type PathGroup struct {
	Path       string
	Operations []*Operation
}

// PathGroups returns the operations grouped by path in emission order:
// by first path segment, then by number of segments, then by path.
func (d *Document) PathGroups() []PathGroup {
	byPath := make(map[string][]*Operation)
	var paths []string
	for _, op := range d.ops {
		if _, ok := byPath[op.Path]; !ok {
			paths = append(paths, op.Path)
		}
		byPath[op.Path] = append(byPath[op.Path], op)
	}
	slices.SortFunc(paths, comparePaths)

	groups := make([]PathGroup, 0, len(paths))
	for _, p := range paths {
		ops := byPath[p]
		slices.SortStableFunc(ops, func(a, b *Operation) int {
			return cmp.Compare(httputil.MethodRank(a.Method), httputil.MethodRank(b.Method))
		})
		groups = append(groups, PathGroup{Path: p, Operations: ops})
	}
	return groups
}

func comparePaths(a, b string) int {
	firstSegment := func(p string) string {
		if segs := httputil.Segments(p); len(segs) > 0 {
			return segs[0]
		}
		return ""
	}
	return cmp.Or(
		cmp.Compare(firstSegment(a), firstSegment(b)),
		cmp.Compare(strings.Count(a, "/"), strings.Count(b, "/")),
		cmp.Compare(a, b),
	)
}

// Public returns a shallow copy of the document without private
// operations.
func (d *Document) Public() *Document {
	out := *d
	out.ops = nil
	out.index = make(map[string]int)
	for _, op := range d.ops {
		if !op.Private {
			_ = out.Add(op)
		}
	}
	return &out
}

// TagDescription returns the configured description of a tag.
func (d *Document) TagDescription(name string) string {
	for _, t := range d.Tags {
		if t.Name == name {
			return t.Description
		}
	}
	return ""
}

// UsedTags returns every tag referenced by an operation, sorted, with
// configured descriptions.
func (d *Document) UsedTags() []Tag {
	seen := make(map[string]bool)
	var out []Tag
	for _, op := range d.ops {
		for _, t := range op.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, Tag{Name: t, Description: d.TagDescription(t)})
			}
		}
	}
	slices.SortFunc(out, func(a, b Tag) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
