package postman

// SchemaURL identifies the Postman Collection v2.1 format.
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Collection is a Postman Collection v2.1.
// Reference: https://schema.postman.com/collection/json/v2.1.0/draft-07/docs/index.html
type Collection struct {
	Info     Info       `json:"info"`
	Item     []*Item    `json:"item"`
	Variable []Variable `json:"variable,omitempty"`
}

// Info describes the collection
type Info struct {
	PostmanID   string `json:"_postman_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Schema      string `json:"schema"`
}

// Item is one request with its saved responses
type Item struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Request     *Request    `json:"request"`
	Response    []*Response `json:"response,omitempty"`
}

// Request describes an HTTP request
type Request struct {
	Auth        *Auth    `json:"auth,omitempty"`
	Method      string   `json:"method"`
	Header      []Header `json:"header,omitempty"`
	Body        *Body    `json:"body,omitempty"`
	URL         *URL     `json:"url"`
	Description string   `json:"description,omitempty"`
}

// Header is a request or response header
type Header struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// URL is a structured request URL
type URL struct {
	Raw      string     `json:"raw"`
	Protocol string     `json:"protocol,omitempty"`
	Host     []string   `json:"host,omitempty"`
	Port     string     `json:"port,omitempty"`
	Path     []string   `json:"path,omitempty"`
	Query    []Query    `json:"query,omitempty"`
	Variable []Variable `json:"variable,omitempty"`
}

// Query is a query parameter
type Query struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Variable is a path or collection variable
type Variable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// BodyMode selects which field of a Body carries the payload.
type BodyMode string

// Body modes
const (
	BodyModeRaw        BodyMode = "raw"
	BodyModeURLEncoded BodyMode = "urlencoded"
	BodyModeFormData   BodyMode = "formdata"
)

// Valid reports whether m is a known body mode.
func (m BodyMode) Valid() bool {
	switch m {
	case BodyModeRaw, BodyModeURLEncoded, BodyModeFormData:
		return true
	default:
		return false
	}
}

// Body is a request body. Only the field selected by Mode is set.
type Body struct {
	Mode       BodyMode     `json:"mode"`
	Raw        string       `json:"raw,omitempty"`
	URLEncoded []FormParam  `json:"urlencoded,omitempty"`
	FormData   []FormParam  `json:"formdata,omitempty"`
	Options    *BodyOptions `json:"options,omitempty"`
}

// FormParam is one urlencoded or multipart field
type FormParam struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty"` // "text" or "file"
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// BodyOptions carries mode-specific settings
type BodyOptions struct {
	Raw *RawOptions `json:"raw,omitempty"`
}

// RawOptions sets the editor language of a raw body
type RawOptions struct {
	Language string `json:"language"`
}

// Auth is the authentication of a request
type Auth struct {
	Type   string          `json:"type"`
	Basic  []AuthAttribute `json:"basic,omitempty"`
	Bearer []AuthAttribute `json:"bearer,omitempty"`
	APIKey []AuthAttribute `json:"apikey,omitempty"`
	OAuth2 []AuthAttribute `json:"oauth2,omitempty"`
}

// AuthAttribute is one setting of an auth method
type AuthAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Response is a saved example response
type Response struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	OriginalRequest *Request `json:"originalRequest,omitempty"`
	Status          string   `json:"status"`
	Code            int      `json:"code"`
	PreviewLanguage string   `json:"_postman_previewlanguage,omitempty"`
	Header          []Header `json:"header,omitempty"`
	Body            string   `json:"body,omitempty"`
}
