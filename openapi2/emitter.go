package openapi2

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/restspec/internal/ordered"
	"github.com/erraggy/restspec/model"
	"github.com/erraggy/restspec/openapi"
)

// Emitter produces Swagger 2.0 documents in JSON or YAML.
type Emitter struct {
	Format openapi.Format
}

// NewEmitter returns an emitter for the given format.
func NewEmitter(format openapi.Format) *Emitter {
	return &Emitter{Format: format}
}

// Name returns the emitter name.
func (e *Emitter) Name() string {
	return "openapi"
}

// Extension returns the file extension of the emitted format.
func (e *Emitter) Extension() string {
	if e.Format == openapi.FormatYAML {
		return "yaml"
	}
	return "json"
}

// Emit builds and serializes the document.
func (e *Emitter) Emit(doc *model.Document) ([]byte, error) {
	return Marshal(Build(doc), e.Format)
}

// Marshal serializes a Swagger document in the given format.
func Marshal(doc *Document, format openapi.Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi2: marshaling document: %w", err)
	}
	if format != openapi.FormatYAML {
		return append(data, '\n'), nil
	}
	out, err := ordered.JSONToYAML(data)
	if err != nil {
		return nil, fmt.Errorf("openapi2: converting to yaml: %w", err)
	}
	return out, nil
}
