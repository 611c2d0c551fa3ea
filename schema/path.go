package schema

import (
	"fmt"
	"strings"
)

// segment is one step of a field path: an object key or an array element.
type segment struct {
	key   string
	array bool
}

// parsePath splits a field path such as "items[].sku", "['a.b'].c" or
// "[]" into segments. Element selectors "[]", "[*]" and "[n]" all address
// every element.
func parsePath(p string) ([]segment, error) {
	var segs []segment
	i := 0
	for i < len(p) {
		switch c := p[i]; {
		case c == '.':
			if i == 0 || i == len(p)-1 || p[i+1] == '.' {
				return nil, fmt.Errorf("empty segment in %q", p)
			}
			i++
		case c == '[':
			end := strings.IndexByte(p[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated bracket in %q", p)
			}
			inner := p[i+1 : i+end]
			if q := len(inner); q >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[q-1] == inner[0] {
				segs = append(segs, segment{key: inner[1 : q-1]})
				i += end + 1
				continue
			}
			if inner == "" || inner == "*" || isDigits(inner) {
				segs = append(segs, segment{array: true})
				i += end + 1
				continue
			}
			return nil, fmt.Errorf("invalid selector [%s] in %q", inner, p)
		default:
			end := strings.IndexAny(p[i:], ".[")
			if end < 0 {
				end = len(p) - i
			}
			segs = append(segs, segment{key: p[i : i+end]})
			i += end
		}
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	return segs, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// canonicalPath renders segments in one spelling so that "a[*].b",
// "a[0].b" and "a[].b" compare equal.
func canonicalPath(segs []segment) string {
	var b strings.Builder
	for i, s := range segs {
		switch {
		case s.array:
			b.WriteString("[]")
		case strings.ContainsAny(s.key, ".[]'"):
			b.WriteString("['")
			b.WriteString(s.key)
			b.WriteString("']")
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.key)
		}
	}
	return b.String()
}

// CanonicalPath normalizes a field path, returning p unchanged when it
// cannot be parsed.
func CanonicalPath(p string) string {
	segs, err := parsePath(p)
	if err != nil {
		return p
	}
	return canonicalPath(segs)
}
