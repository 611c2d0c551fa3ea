package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/restspec/internal/ordered"
	"github.com/erraggy/restspec/model"
)

// Format is the serialization of an emitted document.
type Format string

const (
	// FormatJSON emits indented JSON.
	FormatJSON Format = "json"
	// FormatYAML emits block-style YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat returns the format named by s.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("openapi: unknown format %q (want json or yaml)", s)
	}
}

// Emitter produces OpenAPI 3 documents.
type Emitter struct {
	Format Format
}

// NewEmitter returns an emitter for the given format.
func NewEmitter(format Format) *Emitter {
	return &Emitter{Format: format}
}

// Name returns the emitter name.
func (e *Emitter) Name() string {
	return "openapi3"
}

// Extension returns the file extension of the emitted format.
func (e *Emitter) Extension() string {
	if e.Format == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Emit builds and serializes the document. Identical models produce
// identical bytes.
func (e *Emitter) Emit(doc *model.Document) ([]byte, error) {
	return Marshal(Build(doc), e.Format)
}

// Marshal serializes an OpenAPI document in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshaling document: %w", err)
	}
	if format != FormatYAML {
		return append(data, '\n'), nil
	}
	out, err := ordered.JSONToYAML(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: converting to yaml: %w", err)
	}
	return out, nil
}
