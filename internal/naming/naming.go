package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
}

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) start a new word.
// Example: "user_profile" -> "UserProfile"
// Example: "api-client" -> "ApiClient"
func ToPascalCase(s string) string {
	// A Caser is stateful; NoLower keeps "userId" as "UserId".
	titler := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, word := range strings.FieldsFunc(s, isSeparator) {
		b.WriteString(titler.String(word))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case.
// A word boundary is a separator, a lower-to-upper transition, or the last
// capital of an acronym followed by a lowercase letter.
// Example: "UserProfile" -> "user_profile"
// Example: "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if isSeparator(r) {
			b.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) && i > 0 && !isSeparator(runes[i-1]) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ToKebabCase converts a string to kebab-case.
// Like snake_case but with hyphens instead of underscores.
// Example: "cartItems" -> "cart-items"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// SchemaName derives a component name from an operation and a role such
// as "Request" or "Response201". Template braces are dropped.
// Example: ("GET", "/products/{id}", "Response200") -> "GetProductsIdResponse200"
func SchemaName(method, path, role string) string {
	words := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(path, "/") {
		seg = strings.Trim(seg, "{}")
		if seg != "" {
			words = append(words, seg)
		}
	}
	return ToPascalCase(strings.Join(words, "_")) + role
}
