package interaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restspec/apierrors"
)

// resourceFileNames are the file names LoadDir picks up.
var resourceFileNames = map[string]bool{
	"resource.json": true,
	"resource.yaml": true,
	"resource.yml":  true,
}

// resourceFile is the on-disk layout of a record.
type resourceFile struct {
	OperationID     string       `json:"operationId" yaml:"operationId"`
	Summary         string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	PrivateResource bool         `json:"privateResource" yaml:"privateResource"`
	Deprecated      bool         `json:"deprecated" yaml:"deprecated"`
	Tags            []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Request         requestFile  `json:"request" yaml:"request"`
	Response        responseFile `json:"response" yaml:"response"`
}

type requestFile struct {
	Path                 string        `json:"path" yaml:"path"`
	Method               string        `json:"method" yaml:"method"`
	ContentType          string        `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	SecurityRequirements *securityFile `json:"securityRequirements,omitempty" yaml:"securityRequirements,omitempty"`
	Headers              []paramFile   `json:"headers" yaml:"headers"`
	PathParameters       []paramFile   `json:"pathParameters" yaml:"pathParameters"`
	QueryParameters      []paramFile   `json:"queryParameters" yaml:"queryParameters"`
	FormParameters       []paramFile   `json:"formParameters" yaml:"formParameters"`
	RequestFields        []fieldFile   `json:"requestFields" yaml:"requestFields"`
	Example              string        `json:"example,omitempty" yaml:"example,omitempty"`
}

type responseFile struct {
	Status         int         `json:"status" yaml:"status"`
	ContentType    string      `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Headers        []paramFile `json:"headers" yaml:"headers"`
	ResponseFields []fieldFile `json:"responseFields" yaml:"responseFields"`
	Example        string      `json:"example,omitempty" yaml:"example,omitempty"`
}

type securityFile struct {
	Type           string   `json:"type,omitempty" yaml:"type,omitempty"`
	Schemes        []string `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	RequiredScopes []string `json:"requiredScopes,omitempty" yaml:"requiredScopes,omitempty"`
}

type paramFile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Optional    bool   `json:"optional" yaml:"optional"`
	Ignored     bool   `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty"`
}

type fieldFile struct {
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Optional    bool   `json:"optional" yaml:"optional"`
	Ignored     bool   `json:"ignored" yaml:"ignored"`
}

// Parse decodes one record from JSON or YAML. source names the input in
// error messages.
func Parse(data []byte, source string) (Record, error) {
	var f resourceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Record{}, &apierrors.ParseError{Path: source, Cause: err}
	}
	rec, err := f.toRecord()
	if err != nil {
		return Record{}, &apierrors.ParseError{Path: source, Cause: err}
	}
	if err := rec.Validate(); err != nil {
		var pe *apierrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = source
		}
		return Record{}, err
	}
	return rec, nil
}

// ParseFile reads and decodes one record file.
func ParseFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("interaction: reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadDir reads every resource file below dir in lexical walk order.
func LoadDir(dir string) ([]Record, error) {
	var records []Record
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !resourceFileNames[d.Name()] {
			return nil
		}
		rec, err := ParseFile(path)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("interaction: loading %s: %w", dir, err)
	}
	return records, nil
}

// Marshal encodes a record in the resource.json layout.
func Marshal(r Record) ([]byte, error) {
	return json.MarshalIndent(fromRecord(r), "", "  ")
}

func (f *resourceFile) toRecord() (Record, error) {
	var errs []error
	params := func(kind string, in []paramFile) []Parameter {
		var out []Parameter
		for _, p := range in {
			if p.Ignored {
				continue
			}
			t, err := ParseType(p.Type)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", kind, p.Name, err))
			}
			out = append(out, Parameter{
				Name:        p.Name,
				Description: p.Description,
				Type:        t,
				Optional:    p.Optional,
				Example:     p.Example,
				Default:     p.Default,
			})
		}
		return out
	}
	fields := func(in []fieldFile) []FieldDescriptor {
		var out []FieldDescriptor
		for _, fd := range in {
			t, err := ParseType(fd.Type)
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fd.Path, err))
			}
			out = append(out, FieldDescriptor{
				Path:        fd.Path,
				Description: fd.Description,
				Type:        t,
				Optional:    fd.Optional,
				Ignored:     fd.Ignored,
			})
		}
		return out
	}

	rec := Record{
		Name:            f.OperationID,
		Method:          strings.ToUpper(f.Request.Method),
		Path:            f.Request.Path,
		Summary:         f.Summary,
		Description:     f.Description,
		Tags:            f.Tags,
		Private:         f.PrivateResource,
		Deprecated:      f.Deprecated,
		PathParameters:  params("path parameter", f.Request.PathParameters),
		QueryParameters: params("query parameter", f.Request.QueryParameters),
		FormParameters:  params("form parameter", f.Request.FormParameters),
		RequestHeaders:  params("request header", f.Request.Headers),
		Status:          f.Response.Status,
		ResponseHeaders: params("response header", f.Response.Headers),
	}
	if req := (&Body{ContentType: f.Request.ContentType, Example: f.Request.Example, Fields: fields(f.Request.RequestFields)}); !req.IsEmpty() || req.ContentType != "" {
		rec.Request = req
	}
	if resp := (&Body{ContentType: f.Response.ContentType, Example: f.Response.Example, Fields: fields(f.Response.ResponseFields)}); !resp.IsEmpty() || resp.ContentType != "" {
		rec.Response = resp
	}
	if s := f.Request.SecurityRequirements; s != nil {
		if s.Type != "" {
			rec.Security.Schemes = append(rec.Security.Schemes, schemeFromType(s.Type))
		}
		for _, name := range s.Schemes {
			rec.Security.Schemes = append(rec.Security.Schemes, schemeFromType(name))
		}
		rec.Security.Scopes = s.RequiredScopes
	}
	return rec, errors.Join(errs...)
}

func fromRecord(r Record) resourceFile {
	params := func(in []Parameter) []paramFile {
		out := make([]paramFile, 0, len(in))
		for _, p := range in {
			out = append(out, paramFile{
				Name:        p.Name,
				Description: p.Description,
				Type:        p.Type.String(),
				Default:     p.Default,
				Optional:    p.Optional,
				Example:     p.Example,
			})
		}
		return out
	}
	fields := func(b *Body) []fieldFile {
		out := []fieldFile{}
		if b == nil {
			return out
		}
		for _, fd := range b.Fields {
			out = append(out, fieldFile{
				Path:        fd.Path,
				Description: fd.Description,
				Type:        fd.Type.String(),
				Optional:    fd.Optional,
				Ignored:     fd.Ignored,
			})
		}
		return out
	}

	f := resourceFile{
		OperationID:     r.Name,
		Summary:         r.Summary,
		Description:     r.Description,
		PrivateResource: r.Private,
		Deprecated:      r.Deprecated,
		Tags:            r.Tags,
		Request: requestFile{
			Path:            r.Path,
			Method:          r.Method,
			Headers:         params(r.RequestHeaders),
			PathParameters:  params(r.PathParameters),
			QueryParameters: params(r.QueryParameters),
			FormParameters:  params(r.FormParameters),
			RequestFields:   fields(r.Request),
		},
		Response: responseFile{
			Status:         r.Status,
			Headers:        params(r.ResponseHeaders),
			ResponseFields: fields(r.Response),
		},
	}
	if r.Request != nil {
		f.Request.ContentType = r.Request.ContentType
		f.Request.Example = r.Request.Example
	}
	if r.Response != nil {
		f.Response.ContentType = r.Response.ContentType
		f.Response.Example = r.Response.Example
	}
	if len(r.Security.Schemes) > 0 || len(r.Security.Scopes) > 0 {
		sec := &securityFile{RequiredScopes: r.Security.Scopes}
		for i, s := range r.Security.Schemes {
			if i == 0 {
				sec.Type = typeFromScheme(s)
				continue
			}
			sec.Schemes = append(sec.Schemes, s)
		}
		f.Request.SecurityRequirements = sec
	}
	return f
}
