package aggregator

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/model"
	"github.com/erraggy/restspec/schema"
)

// mergeDescription applies the description rule: the first non-empty
// description is kept and a different non-empty one is a conflict.
func mergeDescription(operationID, field, kept, next string) (string, error) {
	switch {
	case kept == "":
		return next, nil
	case next == "" || next == kept:
		return kept, nil
	}
	return kept, &apierrors.DescriptionConflictError{
		OperationID: operationID,
		Field:       field,
		First:       kept,
		Second:      next,
	}
}

// mergeType keeps the specified hint of two; two different hints conflict.
func mergeType(operationID, field string, kept, next interaction.Type) (interaction.Type, error) {
	switch {
	case kept == interaction.TypeUnspecified:
		return next, nil
	case next == interaction.TypeUnspecified || next == kept:
		return kept, nil
	}
	return kept, &apierrors.SchemaConflictError{
		OperationID: operationID,
		Field:       field,
		Message:     fmt.Sprintf("documented as %s and %s", kept, next),
	}
}

// smaller returns the lexically smaller non-empty string, so that values
// without a precedence rule do not depend on record order.
func smaller(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return min(a, b)
}

// paramSet is the union of one kind of parameter across records.
type paramSet struct {
	operationID string
	kind        string
	// headers compare names case-insensitively and use canonical casing.
	headers bool
	byName  map[string]*interaction.Parameter
}

func newParamSet(operationID, kind string, headers bool) *paramSet {
	return &paramSet{
		operationID: operationID,
		kind:        kind,
		headers:     headers,
		byName:      make(map[string]*interaction.Parameter),
	}
}

func (s *paramSet) add(p interaction.Parameter) []error {
	if s.headers {
		p.Name = http.CanonicalHeaderKey(p.Name)
	}
	kept, ok := s.byName[p.Name]
	if !ok {
		s.byName[p.Name] = &p
		return nil
	}

	var errs []error
	field := s.kind + " " + p.Name
	var err error
	if kept.Description, err = mergeDescription(s.operationID, field, kept.Description, p.Description); err != nil {
		errs = append(errs, err)
	}
	if kept.Type, err = mergeType(s.operationID, field, kept.Type, p.Type); err != nil {
		errs = append(errs, err)
	}
	kept.Optional = kept.Optional && p.Optional
	kept.Example = smaller(kept.Example, p.Example)
	if p.Default != nil && (kept.Default == nil || fmt.Sprint(p.Default) < fmt.Sprint(kept.Default)) {
		kept.Default = p.Default
	}
	return errs
}

func (s *paramSet) len() int {
	return len(s.byName)
}

// sorted returns the parameters ordered by name.
func (s *paramSet) sorted() []interaction.Parameter {
	if len(s.byName) == 0 {
		return nil
	}
	out := make([]interaction.Parameter, 0, len(s.byName))
	for _, p := range s.byName {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b interaction.Parameter) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// bodyMerger folds the bodies of one request or one response status.
type bodyMerger struct {
	operationID string
	label       string

	// led is set once a leader supplied the canonical example.
	led         bool
	contentType string
	example     string
	fields      map[string]*interaction.FieldDescriptor
	form        *paramSet
}

func newBodyMerger(operationID, label string) *bodyMerger {
	return &bodyMerger{
		operationID: operationID,
		label:       label,
		fields:      make(map[string]*interaction.FieldDescriptor),
		form:        newParamSet(operationID, "form parameter", false),
	}
}

func (b *bodyMerger) add(body *interaction.Body) []error {
	if body == nil {
		return nil
	}
	// Only an example makes a leader; descriptor-only bodies just add fields.
	if !b.led && strings.TrimSpace(body.Example) != "" {
		b.led = true
		b.example = body.Example
		if body.ContentType != "" {
			b.contentType = body.ContentType
		}
	} else if b.contentType == "" {
		b.contentType = body.ContentType
	}

	var errs []error
	for _, d := range body.Fields {
		d.Path = schema.CanonicalPath(d.Path)
		kept, ok := b.fields[d.Path]
		if !ok {
			b.fields[d.Path] = &d
			continue
		}
		field := b.label + " " + d.Path
		if kept.Optional != d.Optional {
			errs = append(errs, &apierrors.SchemaConflictError{
				OperationID: b.operationID,
				Field:       field,
				Message:     "optional in one record and required in another",
			})
		}
		if kept.Ignored != d.Ignored {
			errs = append(errs, &apierrors.SchemaConflictError{
				OperationID: b.operationID,
				Field:       field,
				Message:     "ignored in one record and documented in another",
			})
		}
		var err error
		if kept.Type, err = mergeType(b.operationID, field, kept.Type, d.Type); err != nil {
			errs = append(errs, err)
		}
		if kept.Description, err = mergeDescription(b.operationID, field, kept.Description, d.Description); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (b *bodyMerger) addForm(params []interaction.Parameter) []error {
	var errs []error
	for _, p := range params {
		errs = append(errs, b.form.add(p)...)
	}
	return errs
}

// build returns the merged body, or nil when no record had an example,
// a field descriptor or a form parameter.
func (b *bodyMerger) build() (*model.Body, error) {
	if !b.led && len(b.fields) == 0 && b.form.len() == 0 {
		return nil, nil
	}
	body := &model.Body{
		ContentType:    b.contentType,
		Example:        b.example,
		FormParameters: b.form.sorted(),
	}
	for _, d := range b.fields {
		body.Fields = append(body.Fields, *d)
	}
	slices.SortFunc(body.Fields, func(x, y interaction.FieldDescriptor) int { return cmp.Compare(x.Path, y.Path) })

	raw := &interaction.Body{ContentType: body.ContentType, Example: body.Example, Fields: body.Fields}
	if len(body.FormParameters) > 0 && !raw.IsJSON() {
		if body.ContentType == "" {
			body.ContentType = httputil.MediaTypeForm
		}
		body.Schema = schema.FromParameters(body.FormParameters)
		return body, nil
	}
	s, err := schema.InferBody(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.label, apierrors.WithOperation(err, b.operationID))
	}
	body.Schema = s
	if body.ContentType == "" {
		body.ContentType = httputil.MediaTypeTextPlain
		if raw.IsJSON() || strings.TrimSpace(body.Example) == "" {
			body.ContentType = httputil.MediaTypeJSON
		}
	}
	return body, nil
}

// commonName returns the longest common prefix of the record names without
// trailing separators, or the sorted names joined by "-" when they share none.
func commonName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	prefix := sorted[0]
	for _, n := range sorted[1:] {
		i := 0
		for i < len(prefix) && i < len(n) && prefix[i] == n[i] {
			i++
		}
		prefix = prefix[:i]
	}
	prefix = strings.TrimRight(prefix, "-_ ")
	if prefix == "" {
		return strings.Join(sorted, "-")
	}
	return prefix
}
