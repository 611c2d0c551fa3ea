package model

import (
	"cmp"
	"slices"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/httputil"
)

// SchemeKind is the mechanism of a security scheme.
type SchemeKind uint8

const (
	SchemeKindBasic SchemeKind = iota
	SchemeKindBearer
	SchemeKindAPIKey
	SchemeKindOAuth2
)

func (k SchemeKind) String() string {
	switch k {
	case SchemeKindBasic:
		return "basic"
	case SchemeKindBearer:
		return "bearer"
	case SchemeKindAPIKey:
		return "apiKey"
	case SchemeKindOAuth2:
		return "oauth2"
	}
	return "unknown"
}

// OAuth2 flow names.
const (
	FlowAuthorizationCode = "authorizationCode"
	FlowClientCredentials = "clientCredentials"
	FlowPassword          = "password"
	FlowImplicit          = "implicit"
)

// OAuth2Flows configures an oauth2 scheme.
type OAuth2Flows struct {
	TokenURL         string
	AuthorizationURL string
	// Flows lists the enabled flow names.
	Flows []string
	// Scopes maps scope names to descriptions.
	Scopes map[string]string
}

// SecurityScheme is a declared security scheme.
type SecurityScheme struct {
	Name string
	Kind SchemeKind
	// BearerFormat is set for bearer schemes.
	BearerFormat string
	// In and ParamName locate an API key.
	In        string
	ParamName string
	OAuth2    *OAuth2Flows
}

// BuiltinSecuritySchemes returns the schemes every document knows.
func BuiltinSecuritySchemes() map[string]SecurityScheme {
	return map[string]SecurityScheme{
		interaction.SchemeBasic:  {Name: interaction.SchemeBasic, Kind: SchemeKindBasic},
		interaction.SchemeBearer: {Name: interaction.SchemeBearer, Kind: SchemeKindBearer, BearerFormat: "JWT"},
		interaction.SchemeAPIKey: {Name: interaction.SchemeAPIKey, Kind: SchemeKindAPIKey, In: "header", ParamName: httputil.HeaderAuthorization},
		interaction.SchemeOAuth2: {Name: interaction.SchemeOAuth2, Kind: SchemeKindOAuth2, OAuth2: &OAuth2Flows{Flows: []string{FlowClientCredentials}}},
	}
}

// UsedSecuritySchemes returns the declared schemes referenced by at least
// one operation, sorted by name.
func (d *Document) UsedSecuritySchemes() []SecurityScheme {
	seen := make(map[string]bool)
	var out []SecurityScheme
	for _, op := range d.ops {
		for _, name := range op.Security.Schemes {
			if seen[name] {
				continue
			}
			seen[name] = true
			if s, ok := d.SecuritySchemes[name]; ok {
				out = append(out, s)
			}
		}
	}
	slices.SortFunc(out, func(a, b SecurityScheme) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// ScopesFor returns every scope requested by operations using scheme,
// sorted and without duplicates.
func (d *Document) ScopesFor(scheme string) []string {
	var out []string
	for _, op := range d.ops {
		if slices.Contains(op.Security.Schemes, scheme) {
			out = append(out, op.Security.Scopes...)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
