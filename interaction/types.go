package interaction

import (
	"fmt"
	"strings"
)

// Type is a documented type hint for a parameter, header or payload field.
type Type uint8

const (
	// TypeUnspecified means no hint was given; the example decides.
	TypeUnspecified Type = iota
	TypeString
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeObject
	TypeArray
	TypeNull
	// TypeVaries means the field may hold any value.
	TypeVaries
)

var typeNames = [...]string{
	TypeUnspecified: "",
	TypeString:      "string",
	TypeNumber:      "number",
	TypeInteger:     "integer",
	TypeBoolean:     "boolean",
	TypeObject:      "object",
	TypeArray:       "array",
	TypeNull:        "null",
	TypeVaries:      "varies",
}

// String returns the lower-case hint name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// IsScalar reports whether t describes a single JSON scalar.
func (t Type) IsScalar() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		return true
	case TypeUnspecified, TypeObject, TypeArray, TypeNull, TypeVaries:
		return false
	}
	return false
}

// ParseType parses a hint case-insensitively. The empty string yields
// TypeUnspecified.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TypeUnspecified, nil
	case "string":
		return TypeString, nil
	case "number":
		return TypeNumber, nil
	case "integer":
		return TypeInteger, nil
	case "boolean":
		return TypeBoolean, nil
	case "object":
		return TypeObject, nil
	case "array":
		return TypeArray, nil
	case "null":
		return TypeNull, nil
	case "varies", "any":
		return TypeVaries, nil
	}
	return TypeUnspecified, fmt.Errorf("unknown type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
