package schema

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/interaction"
)

// Infer derives a schema from a decoded example and the descriptors
// documenting it. A nil example means there is none and the tree is built
// from the descriptors. All problems found are returned joined.
func Infer(example any, descriptors []interaction.FieldDescriptor) (*Node, error) {
	inf := &inferrer{built: example == nil, hints: make(map[string]interaction.Type)}
	root := &Node{Kind: KindAny, unknown: true}
	if !inf.built {
		root = fromValue(example)
	}

	type parsed struct {
		desc interaction.FieldDescriptor
		segs []segment
		path string
	}
	var descs []parsed
	for _, d := range descriptors {
		segs, err := parsePath(d.Path)
		if err != nil {
			inf.errs = append(inf.errs, &apierrors.ParseError{Path: d.Path, Message: "malformed field path", Cause: err})
			continue
		}
		descs = append(descs, parsed{desc: d, segs: segs, path: canonicalPath(segs)})
	}
	// Parents sort before children, so a hint on "a" is seen before "a.b".
	slices.SortStableFunc(descs, func(a, b parsed) int { return cmp.Compare(a.path, b.path) })

	var ignored [][]segment
	for _, p := range descs {
		if !inf.checkHint(p.path, p.desc) {
			continue
		}
		parent, key, node, ok := inf.resolve(root, p.segs, p.desc)
		if !ok {
			continue
		}
		inf.apply(parent, key, node, p.desc)
		if p.desc.Ignored {
			ignored = append(ignored, p.segs)
		}
	}
	if len(inf.errs) > 0 {
		return nil, errors.Join(inf.errs...)
	}
	for _, segs := range ignored {
		remove(root, segs)
	}
	return root, nil
}

// InferBody infers the schema of a payload. JSON examples are decoded and
// inferred; other payloads are described by their descriptors or, lacking
// those, as a string. An empty body has no schema.
func InferBody(b *interaction.Body) (*Node, error) {
	if b.IsEmpty() {
		return nil, nil
	}
	if b.IsJSON() {
		v, ok, err := b.Value()
		if err != nil {
			return nil, &apierrors.ParseError{Message: "example is not valid JSON", Cause: err}
		}
		if ok {
			return Infer(v, b.Fields)
		}
		return Infer(nil, b.Fields)
	}
	if len(b.Fields) > 0 {
		return Infer(nil, b.Fields)
	}
	return &Node{Kind: KindString}, nil
}

// ParameterKind is the kind used for a parameter or header; parameters
// without a hint are strings.
func ParameterKind(t interaction.Type) Kind {
	if k, ok := KindOf(t); ok {
		return k
	}
	return KindString
}

// FromParameters builds the object schema of a form body.
func FromParameters(params []interaction.Parameter) *Node {
	n := &Node{Kind: KindObject, Properties: make(map[string]*Node, len(params))}
	for _, p := range params {
		n.Properties[p.Name] = &Node{Kind: ParameterKind(p.Type), Description: p.Description}
		n.setRequired(p.Name, !p.Optional)
	}
	return n
}

type inferrer struct {
	// built is set when there is no example to check descriptors against.
	built bool
	hints map[string]interaction.Type
	errs  []error
}

// checkHint records the hint of a path and reports a conflict when the
// same path was already described with a different one.
func (inf *inferrer) checkHint(path string, d interaction.FieldDescriptor) bool {
	if d.Type == interaction.TypeUnspecified {
		return true
	}
	if prev, ok := inf.hints[path]; ok && prev != d.Type {
		inf.errs = append(inf.errs, &apierrors.SchemaConflictError{
			Field:   d.Path,
			Message: fmt.Sprintf("described as both %s and %s", prev, d.Type),
		})
		return false
	}
	inf.hints[path] = d.Type
	return true
}

// resolve walks segs from root and returns the addressed node with its
// parent and, for object properties, the key. Missing locations are created
// inside open nodes and for optional descriptors.
func (inf *inferrer) resolve(root *Node, segs []segment, d interaction.FieldDescriptor) (parent *Node, key string, node *Node, ok bool) {
	cur := root
	for _, s := range segs {
		want := KindObject
		if s.array {
			want = KindArray
		}
		switch {
		case cur.Kind == want:
		case cur.unknown:
			cur.become(want)
		default:
			inf.fail(d, s, fmt.Sprintf("%s is not %s", cur.Kind, want))
			return nil, "", nil, false
		}

		if s.array {
			parent, key, cur = cur, "", cur.Items
			continue
		}
		child, exists := cur.Properties[s.key]
		if !exists {
			if !cur.open && !d.Optional {
				inf.errs = append(inf.errs, &apierrors.DanglingDescriptorError{Field: d.Path, Segment: s.key})
				return nil, "", nil, false
			}
			child = &Node{Kind: KindAny, unknown: true}
			cur.Properties[s.key] = child
			cur.setRequired(s.key, !d.Optional)
		}
		parent, key, cur = cur, s.key, child
	}
	return parent, key, cur, true
}

// fail reports a path that crosses a node of the wrong kind: dangling when
// checked against an example, a conflict between descriptors otherwise.
func (inf *inferrer) fail(d interaction.FieldDescriptor, s segment, msg string) {
	if inf.built {
		inf.errs = append(inf.errs, &apierrors.SchemaConflictError{Field: d.Path, Message: msg})
		return
	}
	name := s.key
	if s.array {
		name = "[]"
	}
	inf.errs = append(inf.errs, &apierrors.DanglingDescriptorError{Field: d.Path, Segment: name})
}

func (inf *inferrer) apply(parent *Node, key string, node *Node, d interaction.FieldDescriptor) {
	if d.Description != "" {
		node.Description = d.Description
	}
	if parent != nil && key != "" && d.Optional {
		parent.setRequired(key, false)
	}

	hint, ok := KindOf(d.Type)
	if !ok {
		return
	}
	switch {
	case node.unknown, node.Kind == hint:
		node.become(hint)
		if hint == KindNull {
			node.Nullable = true
		}
	case hint == KindAny:
		node.become(KindAny)
	case node.Kind == KindNull:
		node.become(hint)
		node.Nullable = true
	case hint == KindNumber && node.Kind == KindInteger:
		node.Kind = KindNumber
	default:
		inf.errs = append(inf.errs, &apierrors.SchemaConflictError{
			Field:   d.Path,
			Message: fmt.Sprintf("described as %s but the example holds %s", d.Type, node.Kind),
		})
	}
}

// remove deletes the location addressed by segs, if present.
func remove(root *Node, segs []segment) {
	cur := root
	for i, s := range segs {
		last := i == len(segs)-1
		if s.array {
			if cur.Kind != KindArray || cur.Items == nil {
				return
			}
			if last {
				cur.Items = &Node{Kind: KindAny}
				return
			}
			cur = cur.Items
			continue
		}
		child, ok := cur.Properties[s.key]
		if !ok {
			return
		}
		if last {
			delete(cur.Properties, s.key)
			cur.setRequired(s.key, false)
			return
		}
		cur = child
	}
}

// fromValue infers the shape of a decoded JSON value.
func fromValue(v any) *Node {
	switch x := v.(type) {
	case nil:
		return &Node{Kind: KindNull, Nullable: true}
	case bool:
		return &Node{Kind: KindBoolean}
	case json.Number:
		if strings.ContainsAny(string(x), ".eE") {
			return &Node{Kind: KindNumber}
		}
		return &Node{Kind: KindInteger}
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return &Node{Kind: KindInteger}
		}
		return &Node{Kind: KindNumber}
	case int, int64, int32, uint, uint64, uint32:
		return &Node{Kind: KindInteger}
	case string:
		return &Node{Kind: KindString}
	case []any:
		var items *Node
		for _, e := range x {
			items = merge(items, fromValue(e))
		}
		if items == nil {
			items = &Node{Kind: KindAny, unknown: true}
		}
		return &Node{Kind: KindArray, Items: items}
	case map[string]any:
		n := &Node{Kind: KindObject, Properties: make(map[string]*Node, len(x))}
		for k, e := range x {
			n.Properties[k] = fromValue(e)
			if e != nil {
				n.Required = append(n.Required, k)
			}
		}
		slices.Sort(n.Required)
		return n
	}
	return &Node{Kind: KindAny}
}
