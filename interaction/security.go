package interaction

import "strings"

// Built-in security scheme names.
const (
	SchemeBasic  = "basic"
	SchemeAPIKey = "api_key"
	SchemeBearer = "bearerAuthJWT"
	SchemeOAuth2 = "oauth2"
)

// schemeFromType maps the security type names used in resource files to
// scheme names. Unknown names pass through unchanged.
func schemeFromType(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "BASIC":
		return SchemeBasic
	case "API_KEY":
		return SchemeAPIKey
	case "JWT_BEARER":
		return SchemeBearer
	case "OAUTH2":
		return SchemeOAuth2
	}
	return strings.TrimSpace(t)
}

// typeFromScheme is the inverse of schemeFromType.
func typeFromScheme(s string) string {
	switch s {
	case SchemeBasic:
		return "BASIC"
	case SchemeAPIKey:
		return "API_KEY"
	case SchemeBearer:
		return "JWT_BEARER"
	case SchemeOAuth2:
		return "OAUTH2"
	}
	return s
}
