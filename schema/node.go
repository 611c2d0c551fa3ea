package schema

import (
	"fmt"
	"slices"

	"github.com/erraggy/restspec/interaction"
)

// Kind is the structural type of a Node.
type Kind uint8

const (
	// KindAny accepts every value. It is also the kind of unknown elements.
	KindAny Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindNull
)

var kindNames = [...]string{
	KindAny:     "any",
	KindObject:  "object",
	KindArray:   "array",
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBoolean: "boolean",
	KindNull:    "null",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// KindOf maps a documented type hint to a kind. ok is false for
// TypeUnspecified.
func KindOf(t interaction.Type) (k Kind, ok bool) {
	switch t {
	case interaction.TypeString:
		return KindString, true
	case interaction.TypeNumber:
		return KindNumber, true
	case interaction.TypeInteger:
		return KindInteger, true
	case interaction.TypeBoolean:
		return KindBoolean, true
	case interaction.TypeObject:
		return KindObject, true
	case interaction.TypeArray:
		return KindArray, true
	case interaction.TypeNull:
		return KindNull, true
	case interaction.TypeVaries:
		return KindAny, true
	case interaction.TypeUnspecified:
		return KindAny, false
	}
	return KindAny, false
}

// Node is one position in an inferred schema tree.
type Node struct {
	Kind        Kind
	Description string
	// Nullable is set when the example held null at this position.
	Nullable bool
	// Properties is only used by objects.
	Properties map[string]*Node
	// Required holds property names in sorted order.
	Required []string
	// Items is only used by arrays.
	Items *Node

	// unknown marks a placeholder with nothing known about it yet: the
	// elements of an empty array or a node created from a descriptor path.
	unknown bool
	// open nodes were unknown when a descriptor shaped them; they accept
	// properties the example cannot contradict.
	open bool
}

// PropertyNames returns the property names in sorted order.
func (n *Node) PropertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRequired reports whether name is a required property.
func (n *Node) IsRequired(name string) bool {
	_, found := slices.BinarySearch(n.Required, name)
	return found
}

func (n *Node) setRequired(name string, required bool) {
	i, found := slices.BinarySearch(n.Required, name)
	switch {
	case required && !found:
		n.Required = slices.Insert(n.Required, i, name)
	case !required && found:
		n.Required = slices.Delete(n.Required, i, i+1)
	}
	if len(n.Required) == 0 {
		n.Required = nil
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Properties != nil {
		c.Properties = make(map[string]*Node, len(n.Properties))
		for k, v := range n.Properties {
			c.Properties[k] = v.Clone()
		}
	}
	c.Required = slices.Clone(n.Required)
	c.Items = n.Items.Clone()
	return &c
}

// Equal reports whether two trees are structurally identical, descriptions
// included.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Description != b.Description || a.Nullable != b.Nullable {
		return false
	}
	if !slices.Equal(a.Required, b.Required) || len(a.Properties) != len(b.Properties) {
		return false
	}
	for k, av := range a.Properties {
		if !Equal(av, b.Properties[k]) {
			return false
		}
	}
	return Equal(a.Items, b.Items)
}

// become turns n into kind k in place, dropping structure k cannot have.
func (n *Node) become(k Kind) {
	if n.unknown {
		n.open = true
	}
	n.Kind = k
	n.unknown = false
	switch k {
	case KindObject:
		if n.Properties == nil {
			n.Properties = make(map[string]*Node)
		}
		n.Items = nil
	case KindArray:
		if n.Items == nil {
			n.Items = &Node{Kind: KindAny, unknown: true}
		}
		n.Properties, n.Required = nil, nil
	case KindAny, KindString, KindNumber, KindInteger, KindBoolean, KindNull:
		n.Properties, n.Required, n.Items = nil, nil, nil
	}
}

// merge widens a with b: the element rule for arrays. Numbers and integers
// widen to number, objects union their properties and intersect their
// required sets, unknown elements take the other side and any other
// mismatch is any.
func merge(a, b *Node) *Node {
	switch {
	case a == nil:
		return b.Clone()
	case b == nil:
		return a.Clone()
	}
	if a.Kind == KindNull || b.Kind == KindNull {
		other := a
		if a.Kind == KindNull {
			other = b
		}
		out := other.Clone()
		out.Nullable = true
		return out
	}
	if a.unknown {
		return b.Clone()
	}
	if b.unknown {
		return a.Clone()
	}
	nullable := a.Nullable || b.Nullable
	if a.Kind != b.Kind {
		if isNumeric(a.Kind) && isNumeric(b.Kind) {
			return &Node{Kind: KindNumber, Description: a.Description, Nullable: nullable}
		}
		return &Node{Kind: KindAny, Description: a.Description, Nullable: nullable}
	}
	out := &Node{Kind: a.Kind, Description: a.Description, Nullable: nullable}
	if out.Description == "" {
		out.Description = b.Description
	}
	switch a.Kind {
	case KindObject:
		out.Properties = make(map[string]*Node, len(a.Properties))
		for k, av := range a.Properties {
			out.Properties[k] = merge(av, b.Properties[k])
		}
		for k, bv := range b.Properties {
			if _, ok := a.Properties[k]; !ok {
				out.Properties[k] = bv.Clone()
			}
		}
		for _, name := range a.Required {
			if b.IsRequired(name) {
				out.Required = append(out.Required, name)
			}
		}
	case KindArray:
		out.Items = merge(a.Items, b.Items)
	case KindAny, KindString, KindNumber, KindInteger, KindBoolean, KindNull:
	}
	return out
}

func isNumeric(k Kind) bool {
	return k == KindNumber || k == KindInteger
}
